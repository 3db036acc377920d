package services

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

// translateRepoError maps repository sentinels onto service errors
func translateRepoError(err error, notFound *NotFoundError, op string) error {
	if err == nil {
		return nil
	}
	if repositories.IsNotFoundError(err) && notFound != nil {
		return notFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// parseOptionalDate parses a YYYY-MM-DD pointer, leaving nil untouched
func parseOptionalDate(value *string) (*datatypes.Date, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := validator.ParseDate(*value)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}

func datePtrTime(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}

func timeOfDay(value string) (datatypes.Time, error) {
	offset, err := validator.ParseTimeOfDay(value)
	if err != nil {
		return 0, err
	}
	return datatypes.NewTime(int(offset.Hours()), int(offset.Minutes())%60, int(offset.Seconds())%60, 0), nil
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
