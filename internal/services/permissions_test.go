package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
)

func TestAuthorize(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	providerUser := uuid.New()

	provider := &models.Provider{ID: uuid.New(), UserID: owner}
	booking := &models.Booking{
		ID:     uuid.New(),
		UserID: owner,
		Service: &models.Service{
			Provider: &models.Provider{UserID: providerUser},
		},
	}

	tests := []struct {
		name      string
		principal Principal
		action    Action
		ownership Ownership
		wantErr   bool
	}{
		{"public read of provider", Principal{UserID: stranger}, ActionRead, ProviderOwnership(provider), false},
		{"owner writes provider", Principal{UserID: owner}, ActionWrite, ProviderOwnership(provider), false},
		{"stranger writes provider", Principal{UserID: stranger}, ActionWrite, ProviderOwnership(provider), true},
		{"admin is not an owner", Principal{UserID: stranger, Role: models.RoleAdmin}, ActionWrite, ProviderOwnership(provider), true},
		{"booking user reads booking", Principal{UserID: owner}, ActionRead, BookingOwnership(booking), false},
		{"provider owner reads booking", Principal{UserID: providerUser}, ActionRead, BookingOwnership(booking), false},
		{"stranger reads booking", Principal{UserID: stranger}, ActionRead, BookingOwnership(booking), true},
		{"unloaded service chain has no owner", Principal{UserID: providerUser}, ActionWrite, ServiceOwnership(&models.Service{ID: uuid.New()}), true},
		{"nil principal never owns", Principal{}, ActionWrite, Ownership{Kind: ResourceChat, Owners: []uuid.UUID{uuid.Nil}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.principal, tt.action, tt.ownership)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Authorize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsPermission(err) {
				t.Errorf("expected PermissionError, got %T", err)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		role    models.UserRole
		allowed []models.UserRole
		wantErr bool
	}{
		{"exact match", models.RoleProvider, []models.UserRole{models.RoleProvider}, false},
		{"one of many", models.RoleAdmin, []models.UserRole{models.RoleProvider, models.RoleAdmin}, false},
		{"admin has no bypass", models.RoleAdmin, []models.UserRole{models.RoleProvider}, true},
		{"student rejected", models.RoleStudent, []models.UserRole{models.RoleProvider}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireRole(Principal{UserID: uuid.New(), Role: tt.role}, tt.allowed...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RequireRole() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanViewProvider(t *testing.T) {
	owner := uuid.New()
	hidden := &models.Provider{UserID: owner, IsApproved: false}
	approved := &models.Provider{UserID: owner, IsApproved: true}

	tests := []struct {
		name      string
		principal *Principal
		provider  *models.Provider
		want      bool
	}{
		{"anonymous sees approved", nil, approved, true},
		{"anonymous cannot see hidden", nil, hidden, false},
		{"owner sees hidden", &Principal{UserID: owner, Role: models.RoleProvider}, hidden, true},
		{"admin cannot see hidden", &Principal{UserID: uuid.New(), Role: models.RoleAdmin}, hidden, false},
		{"student cannot see hidden", &Principal{UserID: uuid.New(), Role: models.RoleStudent}, hidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewProvider(tt.principal, tt.provider); got != tt.want {
				t.Errorf("CanViewProvider() = %v, want %v", got, tt.want)
			}
		})
	}
}
