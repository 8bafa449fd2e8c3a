package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/o1egl/paseto"
)

const (
	// Set expiration times for access and refresh tokens.
	AccessTokenExpiry  = 24 * time.Hour
	RefreshTokenExpiry = 7 * 24 * time.Hour

	accessKind  = "access"
	refreshKind = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// TokenClaims is the payload carried by access and refresh tokens.
type TokenClaims struct {
	UserID int64     `json:"userId"`
	Kind   string    `json:"kind"`
	Expiry time.Time `json:"expiry"`
}

// TokenMaker issues and verifies PASETO v2 local tokens.
type TokenMaker struct {
	key []byte
	now func() time.Time
}

// NewTokenMaker returns a maker using symmetricKey, which must be 32 bytes.
func NewTokenMaker(symmetricKey string) (*TokenMaker, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("SYMMETRIC_KEY must be 32 bytes long, got %d", len(symmetricKey))
	}
	return &TokenMaker{key: []byte(symmetricKey), now: time.Now}, nil
}

// GenerateTokens generates both the access token and refresh token for the given user ID.
func (m *TokenMaker) GenerateTokens(userID int64) (accessToken, refreshToken string, err error) {
	accessToken, err = m.generate(userID, accessKind, AccessTokenExpiry)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = m.generate(userID, refreshKind, RefreshTokenExpiry)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// GenerateAccessToken generates only the access token for a user.
func (m *TokenMaker) GenerateAccessToken(userID int64) (string, error) {
	return m.generate(userID, accessKind, AccessTokenExpiry)
}

// ValidateToken checks an access token.
func (m *TokenMaker) ValidateToken(token string) (*TokenClaims, error) {
	return m.validate(token, accessKind)
}

// ValidateRefreshToken checks a refresh token.
func (m *TokenMaker) ValidateRefreshToken(token string) (*TokenClaims, error) {
	return m.validate(token, refreshKind)
}

func (m *TokenMaker) generate(userID int64, kind string, expiry time.Duration) (string, error) {
	claims := TokenClaims{
		UserID: userID,
		Kind:   kind,
		Expiry: m.now().Add(expiry),
	}
	token, err := paseto.NewV2().Encrypt(m.key, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

func (m *TokenMaker) validate(token, kind string) (*TokenClaims, error) {
	var claims TokenClaims
	if err := paseto.NewV2().Decrypt(token, m.key, &claims, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Kind != kind || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	if m.now().After(claims.Expiry) {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}
