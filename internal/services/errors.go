package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

// ===== TYPED SERVICE ERRORS =====

// NotFoundError reports a missing record, or one the caller may not see
type NotFoundError struct {
	Resource string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{Resource: resource, Message: message}
}

// PermissionError reports an authenticated caller lacking the role or ownership for an action
type PermissionError struct {
	UserID     uuid.UUID
	ResourceID uuid.UUID
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %s: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resourceID uuid.UUID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// ConflictError reports a uniqueness violation
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(resource, message string) *ConflictError {
	return &ConflictError{Resource: resource, Message: message}
}

// AuthenticationError reports bad credentials or an unusable token
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{Message: message}
}

var (
	ErrInvalidCredentials = NewAuthenticationError("Invalid credentials.")
	ErrInvalidToken       = NewAuthenticationError("Token is invalid or expired.")

	ErrProviderNotFound     = NewNotFoundError("provider", "Provider not found.")
	ErrProviderConcealed    = NewNotFoundError("provider", "Provider not found or access denied.")
	ErrServiceNotFound      = NewNotFoundError("service", "Service not found.")
	ErrPricingNotFound      = NewNotFoundError("pricing", "Pricing not found.")
	ErrBookingNotFound      = NewNotFoundError("booking", "Booking not found.")
	ErrReviewNotFound       = NewNotFoundError("review", "Review not found.")
	ErrCategoryNotFound     = NewNotFoundError("category", "Category not found.")
	ErrUserNotFound         = NewNotFoundError("user", "User not found.")
	ErrNotificationNotFound = NewNotFoundError("notification", "Notification not found.")
	ErrChatNotFound         = NewNotFoundError("chat", "Message not found.")
	ErrSubscriptionNotFound = NewNotFoundError("subscription", "Subscription not found.")
	ErrSearchAlertNotFound  = NewNotFoundError("search_alert", "Search alert not found.")
)

// ===== HELPERS =====

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsPermission(err error) bool {
	var target *PermissionError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target validator.ValidationErrors
	return errors.As(err, &target)
}

// fieldError builds a single-field validation failure
func fieldError(field, message, rule string) validator.ValidationErrors {
	return validator.ValidationErrors{{Field: field, Message: message, Rule: rule}}
}
