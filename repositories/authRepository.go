package repositories

import (
	"Appointo/cache"
	"Appointo/models"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	UserCacheExpiry = 7 * 24 * time.Hour
)

var ErrEmailTaken = errors.New("email already registered")

type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewUserRepository(db *gorm.DB, cache *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: cache}
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// GetUserByEmail loads the user with its password hash, so it is never cached.
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getUserCacheKey(fmt.Sprintf("%d", userID))
	var cached models.User
	if hit, err := r.cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("failed to get user from cache")
	} else if hit {
		return &cached, nil
	}

	var user models.User
	err := r.db.WithContext(ctx).Select("id, name, email, created_at").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// Password is not selected and is excluded from JSON either way.
	if err := r.cache.SetJSON(ctx, cacheKey, user, UserCacheExpiry); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("failed to set user in cache")
	}
	return &user, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (r *userRepository) getUserCacheKey(identifier string) string {
	return fmt.Sprintf("user_cache:%s", identifier)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
