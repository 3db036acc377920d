package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
	TokenReset   TokenType = "reset"
)

type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

// Claims carried by every token the service signs
type Claims struct {
	TokenType   TokenType       `json:"token_type"`
	Role        models.UserRole `json:"role,omitempty"`
	Fingerprint string          `json:"pwd,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenManager signs and verifies HS256 tokens
type TokenManager struct {
	secret []byte
	config TokenConfig
	now    func() time.Time
}

func NewTokenManager(config TokenConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(config.Secret),
		config: config,
		now:    time.Now,
	}
}

func (m *TokenManager) IssuePair(user *models.User) (*TokenPair, error) {
	access, err := m.sign(user, TokenAccess, m.config.AccessTTL, "")
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(user, TokenRefresh, m.config.RefreshTTL, "")
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// IssueResetToken binds the token to the current password hash so it stops
// verifying once the password changes
func (m *TokenManager) IssueResetToken(user *models.User) (string, error) {
	return m.sign(user, TokenReset, m.config.ResetTTL, passwordFingerprint(user.PasswordHash))
}

// Parse verifies signature, expiry and token type
func (m *TokenManager) Parse(tokenString string, expected TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expected {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyResetFingerprint checks a reset token against the user's current password hash
func VerifyResetFingerprint(claims *Claims, user *models.User) error {
	if claims.Fingerprint == "" || claims.Fingerprint != passwordFingerprint(user.PasswordHash) {
		return errors.New("reset token no longer valid")
	}
	return nil
}

func (m *TokenManager) sign(user *models.User, tokenType TokenType, ttl time.Duration, fingerprint string) (string, error) {
	now := m.now()
	claims := Claims{
		TokenType:   tokenType,
		Role:        user.Role,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func passwordFingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}
