package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors returned by token validation. The session middleware
// treats both as an authentication failure; ErrTokenExpired stays distinct
// so the access-token path can fall back to the refresh token.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims represents JWT claims structure
type Claims struct {
	UserID string `json:"user_id"`
	Type   string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// Config carries signing secrets and expiries. Access and refresh tokens
// use independent secrets and TTLs, both injected from app config.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Manager handles JWT operations
type Manager struct {
	cfg Config
}

// NewManager creates new JWT manager
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg}
}

// GenerateAccessToken issues a short-lived access token for the user.
func (m *Manager) GenerateAccessToken(userID string) (string, error) {
	return m.generate(userID, "access", m.cfg.AccessSecret, m.cfg.AccessTTL)
}

// GenerateRefreshToken issues a long-lived refresh token for the user.
func (m *Manager) GenerateRefreshToken(userID string) (string, error) {
	return m.generate(userID, "refresh", m.cfg.RefreshSecret, m.cfg.RefreshTTL)
}

func (m *Manager) generate(userID, tokenType, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken validates an access token and returns its claims.
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.validate(tokenString, "access", m.cfg.AccessSecret)
}

// ValidateRefreshToken validates a refresh token and returns its claims.
func (m *Manager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return m.validate(tokenString, "refresh", m.cfg.RefreshSecret)
}

func (m *Manager) validate(tokenString, tokenType, secret string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid || claims.Type != tokenType {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
