package repositories

import (
	"context"
	"time"
)

// DashboardRepository interface for admin analytics operations
type DashboardRepository interface {
	// Totals
	CountUsers(ctx context.Context) (int64, error)
	CountProviders(ctx context.Context, approvedOnly bool) (int64, error)
	CountBookings(ctx context.Context) (int64, error)
	CountReviews(ctx context.Context) (int64, error)

	// Breakdown
	BookingsByStatus(ctx context.Context) ([]StatusCountData, error)

	// Trends
	GetTrendChange(ctx context.Context, entity string, days int, now time.Time) (float64, error)

	// Activity trends
	GetBookingActivity(ctx context.Context, period string, now time.Time) ([]ActivityTrendData, error)
}

// Data structures for dashboard responses

type StatusCountData struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type ActivityTrendData struct {
	Period   string    `json:"period"`
	Bookings int64     `json:"bookings"`
	Users    int64     `json:"users"`
	Revenue  float64   `json:"revenue"`
	Date     time.Time `json:"date"`
}
