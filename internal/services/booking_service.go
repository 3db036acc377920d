package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/GopinathBalasubramanian/eduactivity/internal/events"
	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

type bookingService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	now       func() time.Time
}

func NewBookingService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) BookingService {
	return &bookingService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		now:       time.Now,
	}
}

// List returns bookings for the provider's services to providers and own bookings to everyone else
func (s *bookingService) List(ctx context.Context, principal Principal, status *models.BookingStatus) ([]*models.BookingView, error) {
	filters := repositories.BookingFilters{Status: status}

	if principal.Role == models.RoleProvider {
		provider, err := s.repo.Provider().GetByUserID(ctx, principal.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return []*models.BookingView{}, nil
			}
			return nil, fmt.Errorf("failed to get provider: %w", err)
		}
		filters.ProviderID = &provider.ID
	} else {
		filters.UserID = &principal.UserID
	}

	bookings, err := s.repo.Booking().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	views := make([]*models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, models.NewBookingView(b))
	}
	return views, nil
}

func (s *bookingService) Create(ctx context.Context, principal Principal, req *BookingRequest) (*models.BookingView, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}
	bv := s.validator.GetBusinessValidator()

	service, err := s.repo.Service().GetByID(ctx, req.Service)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fieldError("service", "Service not found.", "exists")
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	var pricing *models.Pricing
	if req.Pricing != nil {
		pricing, err = s.repo.Pricing().GetByID(ctx, *req.Pricing)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, fieldError("pricing", "Pricing not found.", "exists")
			}
			return nil, fmt.Errorf("failed to get pricing: %w", err)
		}
	}

	date, err := validator.ParseDate(req.BookingDate)
	if err != nil {
		return nil, fieldError("booking_date", "Date has wrong format. Use YYYY-MM-DD.", "date_only")
	}
	clock, err := timeOfDay(req.BookingTime)
	if err != nil {
		return nil, fieldError("booking_time", "Time has wrong format. Use hh:mm[:ss].", "time_of_day")
	}

	errs := append(bv.ValidatePricingService(pricing, service.ID), bv.ValidateBookingDate(date, s.now())...)
	if len(errs) > 0 {
		return nil, errs
	}

	booking := &models.Booking{
		UserID:          principal.UserID,
		ServiceID:       service.ID,
		PricingID:       req.Pricing,
		BookingDate:     datatypes.Date(date),
		BookingTime:     clock,
		DurationHours:   intOr(req.DurationHours, 1),
		DurationMinutes: intOr(req.DurationMinutes, 0),
		Participants:    intOr(req.Participants, 1),
		Currency:        models.DefaultCurrency,
		SpecialRequests: req.SpecialRequests,
		Status:          models.BookingPending,
		PaymentStatus:   models.PaymentPending,
		Pricing:         pricing,
	}
	if pricing != nil {
		booking.Currency = stringOr(pricing.Currency, models.DefaultCurrency)
	}
	total := booking.CalculateTotal()
	booking.TotalAmount = &total

	if err := s.repo.Booking().Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	created, err := s.repo.Booking().GetByID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}

	s.logger.Info("Booking created", "booking_id", created.ID, "service_id", service.ID, "total", total)
	s.publish(ctx, events.BookingCreated, created, "")

	return models.NewBookingView(created), nil
}

func (s *bookingService) Get(ctx context.Context, principal Principal, id uuid.UUID) (*models.BookingView, error) {
	booking, err := s.visibleBooking(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return models.NewBookingView(booking), nil
}

func (s *bookingService) Update(ctx context.Context, principal Principal, id uuid.UUID, req *BookingUpdateRequest) (*models.BookingView, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	booking, err := s.visibleBooking(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	previous := booking.Status

	if req.BookingDate != nil {
		date, err := validator.ParseDate(*req.BookingDate)
		if err != nil {
			return nil, fieldError("booking_date", "Date has wrong format. Use YYYY-MM-DD.", "date_only")
		}
		if errs := s.validator.GetBusinessValidator().ValidateBookingDate(date, s.now()); len(errs) > 0 {
			return nil, errs
		}
		booking.BookingDate = datatypes.Date(date)
	}
	if req.BookingTime != nil {
		clock, err := timeOfDay(*req.BookingTime)
		if err != nil {
			return nil, fieldError("booking_time", "Time has wrong format. Use hh:mm[:ss].", "time_of_day")
		}
		booking.BookingTime = clock
	}
	if req.Status != nil {
		booking.Status = *req.Status
	}
	if req.PaymentStatus != nil {
		booking.PaymentStatus = *req.PaymentStatus
	}
	if req.SpecialRequests != nil {
		booking.SpecialRequests = req.SpecialRequests
	}

	if err := s.repo.Booking().Update(ctx, booking); err != nil {
		return nil, translateRepoError(err, ErrBookingNotFound, "update booking")
	}

	if booking.Status != previous {
		s.logger.Info("Booking status changed", "booking_id", id, "from", previous, "to", booking.Status)
		s.publish(ctx, events.BookingStatusChanged, booking, previous)
	}

	return models.NewBookingView(booking), nil
}

func (s *bookingService) Delete(ctx context.Context, principal Principal, id uuid.UUID) error {
	if _, err := s.visibleBooking(ctx, principal, id); err != nil {
		return err
	}
	if err := s.repo.Booking().Delete(ctx, id); err != nil {
		return translateRepoError(err, ErrBookingNotFound, "delete booking")
	}
	s.logger.Info("Booking deleted", "booking_id", id)
	return nil
}

// visibleBooking conceals bookings the principal is not a party to
func (s *bookingService) visibleBooking(ctx context.Context, principal Principal, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.repo.Booking().GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrBookingNotFound, "get booking")
	}
	if err := Authorize(principal, ActionRead, BookingOwnership(booking)); err != nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *bookingService) publish(ctx context.Context, eventType events.EventType, b *models.Booking, previous models.BookingStatus) {
	data := events.BookingEventData{
		BookingID:      b.ID,
		UserID:         b.UserID,
		ProviderUserID: b.ProviderUserID(),
		BookingDate:    time.Time(b.BookingDate).Format(validator.DateLayout),
		Status:         string(b.Status),
		PreviousStatus: string(previous),
	}
	if b.Service != nil {
		data.ServiceName = b.Service.Name
	}
	events.PublishSafe(ctx, s.publisher, s.logger, eventType, data)
}
