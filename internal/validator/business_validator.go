package validator

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
)

const (
	DateLayout        = "2006-01-02"
	MinPasswordLength = 8
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates struct tags of s
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateRegistration validates sign-up input
func (bv *BusinessValidator) ValidateRegistration(req *RegisterRequest) ValidationErrors {
	var errors ValidationErrors
	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.ValidatePasswordPair("password", req.Password, req.PasswordConfirm)...)
	return errors
}

// ValidatePasswordPair checks that both entries match and the password is strong enough
func (bv *BusinessValidator) ValidatePasswordPair(field, password, confirm string) ValidationErrors {
	if password != confirm {
		return ValidationErrors{{
			Field:   field,
			Message: "Password fields didn't match.",
			Rule:    "password_match",
		}}
	}

	var errors ValidationErrors
	if len(password) < MinPasswordLength {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("This password is too short. It must contain at least %d characters.", MinPasswordLength),
			Rule:    "password_length",
		})
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: "This password is entirely numeric.",
			Rule:    "password_numeric",
		})
	}
	return errors
}

// ValidateServiceDuration checks the combined duration of a service.
// Partial updates must pass the merged values.
func (bv *BusinessValidator) ValidateServiceDuration(hours, minutes int) ValidationErrors {
	var errors ValidationErrors

	if hours == 0 && minutes == 0 {
		errors = append(errors, ValidationError{
			Field:   NonFieldErrors,
			Message: "Service must have a duration greater than 0.",
			Rule:    "service_duration",
		})
	}

	if minutes >= 60 {
		errors = append(errors, ValidationError{
			Field:   NonFieldErrors,
			Message: "Duration minutes must be less than 60.",
			Value:   minutes,
			Rule:    "service_duration",
		})
	}

	return errors
}

// ValidatePricingRules checks price, session bounds and the validity window
func (bv *BusinessValidator) ValidatePricingRules(price float64, minSessions int, maxSessions *int, validFrom, validUntil *time.Time) ValidationErrors {
	var errors ValidationErrors

	if price <= 0 {
		errors = append(errors, ValidationError{
			Field:   "price",
			Message: "Price must be greater than 0.",
			Value:   price,
			Rule:    "positive_price",
		})
	}

	if maxSessions != nil && minSessions > *maxSessions {
		errors = append(errors, ValidationError{
			Field:   NonFieldErrors,
			Message: "Minimum sessions cannot be greater than maximum sessions.",
			Rule:    "session_bounds",
		})
	}

	if validFrom != nil && validUntil != nil && validUntil.Before(*validFrom) {
		errors = append(errors, ValidationError{
			Field:   "valid_until",
			Message: "Valid until cannot be before valid from.",
			Rule:    "validity_window",
		})
	}

	return errors
}

// ValidateBookingDate rejects dates strictly before today
func (bv *BusinessValidator) ValidateBookingDate(date, now time.Time) ValidationErrors {
	if models.TruncateDate(date).Before(models.TruncateDate(now)) {
		return ValidationErrors{{
			Field:   "booking_date",
			Message: "Booking date cannot be in the past.",
			Value:   date.Format(DateLayout),
			Rule:    "not_past",
		}}
	}
	return nil
}

// ValidatePricingService rejects a pricing attached to a different service
func (bv *BusinessValidator) ValidatePricingService(pricing *models.Pricing, serviceID uuid.UUID) ValidationErrors {
	if pricing != nil && pricing.ServiceID != serviceID {
		return ValidationErrors{{
			Field:   NonFieldErrors,
			Message: "Pricing does not belong to the selected service.",
			Rule:    "pricing_service",
		}}
	}
	return nil
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("service_type", func(fl validator.FieldLevel) bool {
		return models.ServiceType(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("pricing_type", func(fl validator.FieldLevel) bool {
		return models.PricingType(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		return models.BookingStatus(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		return models.PaymentStatus(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("plan_type", func(fl validator.FieldLevel) bool {
		return models.PlanType(fl.Field().String()).Months() > 0
	})

	// Admin accounts are never self-registered
	bv.validate.RegisterValidation("registrable_role", func(fl validator.FieldLevel) bool {
		role := models.UserRole(fl.Field().String())
		return role == models.RoleStudent || role == models.RoleProvider
	})

	bv.validate.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		if len(code) != 3 {
			return false
		}
		for _, r := range code {
			if r < 'A' || r > 'Z' {
				return false
			}
		}
		return true
	})

	bv.validate.RegisterValidation("date_only", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})

	bv.validate.RegisterValidation("time_of_day", func(fl validator.FieldLevel) bool {
		_, err := ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
}

// ParseTimeOfDay parses hh:mm or hh:mm:ss and returns the offset from midnight
func ParseTimeOfDay(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", value)
}
