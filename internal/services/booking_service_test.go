package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/events"
	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

type bookingFixture struct {
	store     *memStore
	publisher *events.MockEventPublisher
	svc       *bookingService
	owner     *models.User
	student   *models.User
	provider  *models.Provider
	service   *models.Service
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	store := newMemStore()
	owner := store.addUser(models.RoleProvider, "owner@example.com")
	provider := store.addProvider(owner, true)
	publisher := testPublisher()

	svc := NewBookingService(store, testLogger(), testValidator(), publisher).(*bookingService)
	svc.now = func() time.Time { return time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC) }

	return &bookingFixture{
		store:     store,
		publisher: publisher,
		svc:       svc,
		owner:     owner,
		student:   store.addUser(models.RoleStudent, "student@example.com"),
		provider:  provider,
		service:   store.addService(provider, "Piano"),
	}
}

func TestCreateBookingTotals(t *testing.T) {
	tests := []struct {
		name    string
		kind    models.PricingType
		price   float64
		req     func(b *BookingRequest)
		want    float64
		noPrice bool
	}{
		{name: "per session", kind: models.PricingPerSession, price: 40, want: 40},
		{name: "per hour with minutes", kind: models.PricingPerHour, price: 30, req: func(b *BookingRequest) {
			b.DurationHours, b.DurationMinutes = intPtr(1), intPtr(30)
		}, want: 45},
		{name: "per participant", kind: models.PricingPerParticipant, price: 12.5, req: func(b *BookingRequest) {
			b.Participants = intPtr(3)
		}, want: 37.5},
		{name: "per hour rounds to cents", kind: models.PricingPerHour, price: 10, req: func(b *BookingRequest) {
			b.DurationHours, b.DurationMinutes = intPtr(0), intPtr(20)
		}, want: 3.33},
		{name: "without pricing", noPrice: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			req := &BookingRequest{Service: f.service.ID, BookingDate: "2026-06-20", BookingTime: "10:00"}
			if !tt.noPrice {
				pricing := f.store.addPricing(f.service, tt.kind, tt.price)
				req.Pricing = &pricing.ID
			}
			if tt.req != nil {
				tt.req(req)
			}

			view, err := f.svc.Create(context.Background(), NewPrincipal(f.student), req)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if view.TotalAmount == nil || *view.TotalAmount != tt.want {
				t.Errorf("total = %v, want %v", view.TotalAmount, tt.want)
			}
			if view.Status != models.BookingPending || view.PaymentStatus != models.PaymentPending {
				t.Errorf("status = %s/%s", view.Status, view.PaymentStatus)
			}
			if view.ServiceName != "Piano" || view.ProviderName != f.provider.Name {
				t.Errorf("view names = %q/%q", view.ServiceName, view.ProviderName)
			}
			if !tt.noPrice && view.Currency != "EUR" {
				t.Errorf("currency = %s, want pricing currency", view.Currency)
			}
		})
	}
}

func TestCreateBookingRejects(t *testing.T) {
	f := newBookingFixture(t)
	otherService := f.store.addService(f.provider, "Guitar")
	foreignPricing := f.store.addPricing(otherService, models.PricingPerSession, 10)
	missing := uuid.New()

	tests := []struct {
		name      string
		req       BookingRequest
		wantField string
	}{
		{"past date", BookingRequest{Service: f.service.ID, BookingDate: "2026-06-14", BookingTime: "10:00"}, "booking_date"},
		{"pricing of another service", BookingRequest{Service: f.service.ID, Pricing: &foreignPricing.ID, BookingDate: "2026-06-20", BookingTime: "10:00"}, validator.NonFieldErrors},
		{"unknown service", BookingRequest{Service: uuid.New(), BookingDate: "2026-06-20", BookingTime: "10:00"}, "service"},
		{"unknown pricing", BookingRequest{Service: f.service.ID, Pricing: &missing, BookingDate: "2026-06-20", BookingTime: "10:00"}, "pricing"},
		{"bad time", BookingRequest{Service: f.service.ID, BookingDate: "2026-06-20", BookingTime: "25:99"}, "booking_time"},
		{"bad date", BookingRequest{Service: f.service.ID, BookingDate: "20/06/2026", BookingTime: "10:00"}, "booking_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), NewPrincipal(f.student), &tt.req)
			if !hasFieldError(err, tt.wantField) {
				t.Errorf("Create() error = %v, want field error on %s", err, tt.wantField)
			}
		})
	}

	if len(f.publisher.GetPublishedEvents()) != 0 {
		t.Error("rejected bookings published events")
	}
}

func TestCreateBookingToday(t *testing.T) {
	f := newBookingFixture(t)
	req := &BookingRequest{Service: f.service.ID, BookingDate: "2026-06-15", BookingTime: "08:00"}
	if _, err := f.svc.Create(context.Background(), NewPrincipal(f.student), req); err != nil {
		t.Errorf("booking for today rejected: %v", err)
	}
}

func TestBookingEvents(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	pricing := f.store.addPricing(f.service, models.PricingPerSession, 40)

	view, err := f.svc.Create(ctx, NewPrincipal(f.student), &BookingRequest{
		Service: f.service.ID, Pricing: &pricing.ID, BookingDate: "2026-06-20", BookingTime: "10:00",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	published := f.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.BookingCreated {
		t.Fatalf("published = %+v", published)
	}
	var data events.BookingEventData
	if err := published[0].Decode(&data); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if data.BookingID != view.ID || data.UserID != f.student.ID || data.ProviderUserID != f.owner.ID {
		t.Errorf("payload = %+v", data)
	}
	if data.ServiceName != "Piano" || data.BookingDate != "2026-06-20" {
		t.Errorf("payload = %+v", data)
	}

	f.publisher.ClearEvents()

	// no status change, no event
	if _, err := f.svc.Update(ctx, NewPrincipal(f.owner), view.ID, &BookingUpdateRequest{SpecialRequests: strPtr("bring sheet music")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if n := len(f.publisher.GetPublishedEvents()); n != 0 {
		t.Errorf("published %d events without status change", n)
	}

	confirmed := models.BookingConfirmed
	if _, err := f.svc.Update(ctx, NewPrincipal(f.owner), view.ID, &BookingUpdateRequest{Status: &confirmed}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	published = f.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.BookingStatusChanged {
		t.Fatalf("published = %+v", published)
	}
	if err := published[0].Decode(&data); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if data.Status != string(models.BookingConfirmed) || data.PreviousStatus != string(models.BookingPending) {
		t.Errorf("status payload = %+v", data)
	}
}

func TestBookingSurvivesPublishFailure(t *testing.T) {
	f := newBookingFixture(t)
	f.publisher.FailWith(errors.New("broker down"))

	_, err := f.svc.Create(context.Background(), NewPrincipal(f.student), &BookingRequest{
		Service: f.service.ID, BookingDate: "2026-06-20", BookingTime: "10:00",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(f.store.bookings) != 1 {
		t.Errorf("bookings stored = %d", len(f.store.bookings))
	}
}

func TestBookingVisibility(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	stranger := f.store.addUser(models.RoleStudent, "stranger@example.com")
	otherOwner := f.store.addUser(models.RoleProvider, "rival@example.com")
	f.store.addProvider(otherOwner, true)

	view, err := f.svc.Create(ctx, NewPrincipal(f.student), &BookingRequest{
		Service: f.service.ID, BookingDate: "2026-06-20", BookingTime: "10:00",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := f.svc.Get(ctx, NewPrincipal(stranger), view.ID); err != ErrBookingNotFound {
		t.Errorf("stranger Get() error = %v", err)
	}
	if err := f.svc.Delete(ctx, NewPrincipal(otherOwner), view.ID); err != ErrBookingNotFound {
		t.Errorf("rival Delete() error = %v", err)
	}
	if _, err := f.svc.Get(ctx, NewPrincipal(f.owner), view.ID); err != nil {
		t.Errorf("provider Get() error = %v", err)
	}

	tests := []struct {
		name      string
		principal Principal
		want      int
	}{
		{"student sees own", NewPrincipal(f.student), 1},
		{"stranger sees none", NewPrincipal(stranger), 0},
		{"provider sees bookings of own services", NewPrincipal(f.owner), 1},
		{"other provider sees none", NewPrincipal(otherOwner), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := f.svc.List(ctx, tt.principal, nil)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != tt.want {
				t.Errorf("List() = %d bookings, want %d", len(list), tt.want)
			}
		})
	}

	cancelled := models.BookingCancelled
	list, err := f.svc.List(ctx, NewPrincipal(f.student), &cancelled)
	if err != nil || len(list) != 0 {
		t.Errorf("status filter returned %d, err %v", len(list), err)
	}
}
