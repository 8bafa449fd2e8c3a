package services

import (
	"Appointo/models"
	"Appointo/repositories"
	"Appointo/utils"
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
)

// Session is the token pair issued on signup, login and refresh.
type Session struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

type UserService interface {
	Signup(ctx context.Context, in utils.SignupInput) (*Session, error)
	Login(ctx context.Context, in utils.LoginInput) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	tokens   *utils.TokenMaker
}

func NewUserService(userRepo repositories.UserRepository, tokens *utils.TokenMaker) UserService {
	return &userService{userRepo: userRepo, tokens: tokens}
}

func (s *userService) Signup(ctx context.Context, in utils.SignupInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := utils.ValidateSignup(in); err != nil {
		return nil, validationError(ReasonInvalidInput, err)
	}

	exists, err := s.userRepo.EmailExists(ctx, in.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to check email")
		return nil, internalError("Signup failed", err)
	}
	if exists {
		return nil, newError(KindConflict, ReasonEmailTaken, "User already exists")
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, internalError("Signup failed", err)
	}

	user := &models.User{Name: in.Name, Email: in.Email, Password: hashed}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, newError(KindConflict, ReasonEmailTaken, "User already exists")
		}
		log.Error().Err(err).Msg("failed to create user")
		return nil, internalError("Signup failed", err)
	}

	log.Info().Int64("user_id", user.ID).Msg("user registered")
	return s.issue(user)
}

func (s *userService) Login(ctx context.Context, in utils.LoginInput) (*Session, error) {
	if err := utils.ValidateLogin(in); err != nil {
		return nil, validationError(ReasonInvalidInput, err)
	}

	user, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to load user")
		return nil, internalError("Login error", err)
	}
	// one message for both cases so accounts cannot be probed
	if user == nil || !utils.CheckPassword(user.Password, in.Password) {
		return nil, newError(KindUnauthorized, ReasonInvalidCredentials, "Invalid email or password")
	}
	return s.issue(user)
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, &Error{Kind: KindUnauthorized, Reason: ReasonInvalidCredentials, Message: "Invalid refresh token", Err: err}
	}

	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	access, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, internalError("failed to issue token", err)
	}
	return &Session{User: user, AccessToken: access}, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to load user")
		return nil, internalError("failed to load user", err)
	}
	if user == nil {
		return nil, newError(KindUnauthorized, ReasonUserNotFound, "User not found")
	}
	return user, nil
}

func (s *userService) issue(user *models.User) (*Session, error) {
	access, refresh, err := s.tokens.GenerateTokens(user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue tokens")
		return nil, internalError("failed to issue tokens", err)
	}
	return &Session{User: user, AccessToken: access, RefreshToken: refresh}, nil
}
