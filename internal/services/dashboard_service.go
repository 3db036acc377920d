package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GopinathBalasubramanian/eduactivity/internal/cache"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
)

// TrendWindowDays is the window compared against the one before it
const TrendWindowDays = 30

// ===== RESPONSE DTOs =====

type DashboardStatsResponse struct {
	Overview         DashboardOverview       `json:"overview"`
	BookingsByStatus map[string]int64        `json:"bookings_by_status"`
	Trends           DashboardTrends         `json:"trends"`
	Activity         []ActivityTrendResponse `json:"activity"`
	Period           string                  `json:"period"`
}

type DashboardOverview struct {
	TotalUsers        int64 `json:"total_users"`
	TotalProviders    int64 `json:"total_providers"`
	ApprovedProviders int64 `json:"approved_providers"`
	TotalBookings     int64 `json:"total_bookings"`
	TotalReviews      int64 `json:"total_reviews"`
}

type DashboardTrends struct {
	UsersChange     float64 `json:"users_change"`
	ProvidersChange float64 `json:"providers_change"`
	BookingsChange  float64 `json:"bookings_change"`
}

type ActivityTrendResponse struct {
	Period   string  `json:"period"`
	Bookings int64   `json:"bookings"`
	Users    int64   `json:"users"`
	Revenue  float64 `json:"revenue"`
}

// ===== SERVICE INTERFACE =====

type DashboardService interface {
	// GetDashboardStats accepts week, month or year; empty means month
	GetDashboardStats(ctx context.Context, period string) (*DashboardStatsResponse, error)
}

// ===== SERVICE IMPLEMENTATION =====

type dashboardService struct {
	repo   repositories.Repository
	cache  *cache.CacheManager
	logger *slog.Logger
	now    func() time.Time
}

func NewDashboardService(repo repositories.Repository, cm *cache.CacheManager, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		cache:  cm,
		logger: logger,
		now:    time.Now,
	}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context, period string) (*DashboardStatsResponse, error) {
	if period == "" {
		period = "month"
	}
	if period != "week" && period != "month" && period != "year" {
		return nil, fieldError("period", "Must be one of week, month or year.", "oneof")
	}

	var stats DashboardStatsResponse
	err := s.cache.Stats.CacheOrExecute(ctx, cache.DashboardKey(period), &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.computeStats(ctx, period)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *dashboardService) computeStats(ctx context.Context, period string) (*DashboardStatsResponse, error) {
	s.logger.Info("Computing dashboard stats", "period", period)
	dashboard := s.repo.Dashboard()
	now := s.now()

	totalUsers, err := dashboard.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	totalProviders, err := dashboard.CountProviders(ctx, false)
	if err != nil {
		return nil, err
	}
	approvedProviders, err := dashboard.CountProviders(ctx, true)
	if err != nil {
		return nil, err
	}
	totalBookings, err := dashboard.CountBookings(ctx)
	if err != nil {
		return nil, err
	}
	totalReviews, err := dashboard.CountReviews(ctx)
	if err != nil {
		return nil, err
	}

	byStatus, err := dashboard.BookingsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	statusCounts := make(map[string]int64, len(byStatus))
	for _, row := range byStatus {
		statusCounts[row.Status] = row.Count
	}

	// Trends degrade to zero rather than failing the whole dashboard
	trend := func(entity string) float64 {
		change, err := dashboard.GetTrendChange(ctx, entity, TrendWindowDays, now)
		if err != nil {
			s.logger.Warn("Failed to get trend", "entity", entity, "error", err)
			return 0
		}
		return roundFloat(change, 1)
	}

	activity, err := dashboard.GetBookingActivity(ctx, period, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking activity: %w", err)
	}
	series := make([]ActivityTrendResponse, len(activity))
	for i, a := range activity {
		series[i] = ActivityTrendResponse{
			Period:   a.Period,
			Bookings: a.Bookings,
			Users:    a.Users,
			Revenue:  roundFloat(a.Revenue, 2),
		}
	}

	return &DashboardStatsResponse{
		Overview: DashboardOverview{
			TotalUsers:        totalUsers,
			TotalProviders:    totalProviders,
			ApprovedProviders: approvedProviders,
			TotalBookings:     totalBookings,
			TotalReviews:      totalReviews,
		},
		BookingsByStatus: statusCounts,
		Trends: DashboardTrends{
			UsersChange:     trend("users"),
			ProvidersChange: trend("providers"),
			BookingsChange:  trend("bookings"),
		},
		Activity: series,
		Period:   period,
	}, nil
}

// ===== HELPER FUNCTIONS =====

func roundFloat(val float64, precision int) float64 {
	ratio := 1.0
	for i := 0; i < precision; i++ {
		ratio *= 10
	}
	if val < 0 {
		return -float64(int(-val*ratio+0.5)) / ratio
	}
	return float64(int(val*ratio+0.5)) / ratio
}
