package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/monocle-dev/house/internal/config"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var (
	ErrTokenInvalid     = errors.New("token is invalid")
	ErrTokenExpired     = errors.New("token is expired")
	ErrTokenBlacklisted = errors.New("token is blacklisted")
	ErrWrongTokenType   = errors.New("token has wrong type")
)

// Claims is the payload of both access and refresh tokens. The registered
// ID claim carries the jti used for blacklisting.
type Claims struct {
	UserID    uint      `json:"user_id"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string
	Refresh string
}

// TokenManager signs and verifies HS256 tokens and consults the blacklist
// for refresh tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  Blacklist
	now        func() time.Time
}

func NewTokenManager(cfg config.AuthConfig, blacklist Blacklist) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		blacklist:  blacklist,
		now:        time.Now,
	}
}

// Issue returns a fresh access/refresh pair for the user.
func (m *TokenManager) Issue(userID uint) (TokenPair, error) {
	access, err := m.sign(userID, AccessToken, m.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := m.sign(userID, RefreshToken, m.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (m *TokenManager) sign(userID uint, tokenType TokenType, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}

	return signed, nil
}

// Verify checks signature, expiry and token type. It does not consult the blacklist.
func (m *TokenManager) Verify(tokenString string, expected TokenType) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid || claims.UserID == 0 || claims.ID == "" {
		return nil, ErrTokenInvalid
	}

	if claims.TokenType != expected {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// Refresh exchanges a valid, non-blacklisted refresh token for a new access token.
func (m *TokenManager) Refresh(ctx context.Context, refresh string) (string, error) {
	claims, err := m.Verify(refresh, RefreshToken)
	if err != nil {
		return "", err
	}

	revoked, err := m.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return "", ErrTokenBlacklisted
	}

	return m.sign(claims.UserID, AccessToken, m.accessTTL)
}

// Blacklist verifies a refresh token and revokes it.
func (m *TokenManager) Blacklist(ctx context.Context, refresh string) (*Claims, error) {
	claims, err := m.Verify(refresh, RefreshToken)
	if err != nil {
		return nil, err
	}

	if err := m.Revoke(ctx, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// Revoke blacklists already-verified refresh claims. Revoking twice yields ErrTokenBlacklisted.
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	expiresAt := m.now().Add(m.refreshTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return m.blacklist.Add(ctx, claims.ID, claims.UserID, expiresAt)
}
