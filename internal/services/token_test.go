package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
)

func newTestTokens() *TokenManager {
	return NewTokenManager(TokenConfig{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		ResetTTL:   time.Hour,
	})
}

func TestTokenManagerIssueAndParse(t *testing.T) {
	tokens := newTestTokens()
	user := &models.User{ID: uuid.New(), Role: models.RoleProvider}

	pair, err := tokens.IssuePair(user)
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}

	claims, err := tokens.Parse(pair.Access, TokenAccess)
	if err != nil {
		t.Fatalf("Parse(access) error = %v", err)
	}
	if id, _ := claims.UserID(); id != user.ID {
		t.Errorf("subject = %s, want %s", id, user.ID)
	}
	if claims.Role != models.RoleProvider {
		t.Errorf("role = %s, want provider", claims.Role)
	}

	if _, err := tokens.Parse(pair.Access, TokenRefresh); err != ErrInvalidToken {
		t.Errorf("access token accepted as refresh token: %v", err)
	}
	if _, err := tokens.Parse(pair.Refresh, TokenRefresh); err != nil {
		t.Errorf("Parse(refresh) error = %v", err)
	}
}

func TestTokenManagerRejects(t *testing.T) {
	tokens := newTestTokens()
	user := &models.User{ID: uuid.New()}

	expired := newTestTokens()
	expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	old, err := expired.IssuePair(user)
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}

	other := NewTokenManager(TokenConfig{Secret: "other-secret", AccessTTL: time.Hour})
	foreign, _ := other.IssuePair(user)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", old.Access},
		{"wrong signature", foreign.Access},
		{"garbage", "not-a-token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tokens.Parse(tt.token, TokenAccess); err != ErrInvalidToken {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestResetTokenFingerprint(t *testing.T) {
	tokens := newTestTokens()
	user := &models.User{ID: uuid.New(), PasswordHash: "hash-one"}

	token, err := tokens.IssueResetToken(user)
	if err != nil {
		t.Fatalf("IssueResetToken() error = %v", err)
	}
	claims, err := tokens.Parse(token, TokenReset)
	if err != nil {
		t.Fatalf("Parse(reset) error = %v", err)
	}

	if err := VerifyResetFingerprint(claims, user); err != nil {
		t.Errorf("fresh reset token rejected: %v", err)
	}

	user.PasswordHash = "hash-two"
	if err := VerifyResetFingerprint(claims, user); err == nil {
		t.Error("reset token still valid after password change")
	}
}
