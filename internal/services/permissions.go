package services

import (
	"slices"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
)

// Principal is the authenticated caller
type Principal struct {
	UserID uuid.UUID
	Role   models.UserRole
}

func NewPrincipal(user *models.User) Principal {
	return Principal{UserID: user.ID, Role: user.Role}
}

type ResourceKind string

const (
	ResourceProvider     ResourceKind = "provider"
	ResourceService      ResourceKind = "service"
	ResourcePricing      ResourceKind = "pricing"
	ResourceBooking      ResourceKind = "booking"
	ResourceReview       ResourceKind = "review"
	ResourceChat         ResourceKind = "chat"
	ResourceNotification ResourceKind = "notification"
	ResourceSubscription ResourceKind = "subscription"
	ResourceSearchAlert  ResourceKind = "search_alert"
)

// publicRead reports whether anyone may read records of this kind
func (k ResourceKind) publicRead() bool {
	switch k {
	case ResourceProvider, ResourceService, ResourcePricing, ResourceReview:
		return true
	}
	return false
}

type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// Ownership names the users that own one record. Each constructor resolves the owner
// for its kind; pricing walks pricing → service → provider → user.
type Ownership struct {
	Kind       ResourceKind
	ResourceID uuid.UUID
	Owners     []uuid.UUID
}

func (o Ownership) OwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && slices.Contains(o.Owners, userID)
}

func ProviderOwnership(p *models.Provider) Ownership {
	return Ownership{Kind: ResourceProvider, ResourceID: p.ID, Owners: []uuid.UUID{p.UserID}}
}

// ServiceOwnership needs the service's provider loaded
func ServiceOwnership(s *models.Service) Ownership {
	o := Ownership{Kind: ResourceService, ResourceID: s.ID}
	if s.Provider != nil {
		o.Owners = []uuid.UUID{s.Provider.UserID}
	}
	return o
}

// PricingOwnership needs the pricing's service and provider loaded
func PricingOwnership(p *models.Pricing) Ownership {
	o := Ownership{Kind: ResourcePricing, ResourceID: p.ID}
	if p.Service != nil && p.Service.Provider != nil {
		o.Owners = []uuid.UUID{p.Service.Provider.UserID}
	}
	return o
}

// BookingOwnership is shared by the booking user and the provider of the booked service
func BookingOwnership(b *models.Booking) Ownership {
	o := Ownership{Kind: ResourceBooking, ResourceID: b.ID, Owners: []uuid.UUID{b.UserID}}
	if providerUser := b.ProviderUserID(); providerUser != uuid.Nil {
		o.Owners = append(o.Owners, providerUser)
	}
	return o
}

func ReviewOwnership(r *models.Review) Ownership {
	return Ownership{Kind: ResourceReview, ResourceID: r.ID, Owners: []uuid.UUID{r.UserID}}
}

// SubscriptionOwnership needs the subscription's provider loaded
func SubscriptionOwnership(s *models.Subscription) Ownership {
	o := Ownership{Kind: ResourceSubscription, ResourceID: s.ID}
	if s.Provider != nil {
		o.Owners = []uuid.UUID{s.Provider.UserID}
	}
	return o
}

func SearchAlertOwnership(a *models.SearchAlert) Ownership {
	return Ownership{Kind: ResourceSearchAlert, ResourceID: a.ID, Owners: []uuid.UUID{a.UserID}}
}

// Authorize allows reads of public kinds to anyone and everything else to owners only
func Authorize(principal Principal, action Action, o Ownership) error {
	if action == ActionRead && o.Kind.publicRead() {
		return nil
	}
	if o.OwnedBy(principal.UserID) {
		return nil
	}
	return NewPermissionError(principal.UserID, o.ResourceID, string(o.Kind), string(action), "not owner")
}

// RequireRole passes when the principal holds one of roles
func RequireRole(principal Principal, roles ...models.UserRole) error {
	if slices.Contains(roles, principal.Role) {
		return nil
	}
	return NewPermissionError(principal.UserID, uuid.Nil, "role", "require", "requires role "+joinRoles(roles))
}

// CanViewProvider hides unapproved profiles from everyone except their owner.
// Admins review pending profiles through the admin listing instead.
func CanViewProvider(principal *Principal, p *models.Provider) bool {
	if p.IsApproved {
		return true
	}
	if principal == nil {
		return false
	}
	return principal.UserID == p.UserID
}

func joinRoles(roles []models.UserRole) string {
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += " or "
		}
		out += string(r)
	}
	return out
}
