package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) count(ctx context.Context, model interface{}, what string, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Scopes(scopes...).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total %s: %w", what, err)
	}
	return count, nil
}

// ===== DASHBOARD STATS =====

func (r *dashboardRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.User{}, "users")
}

func (r *dashboardRepository) CountProviders(ctx context.Context, approvedOnly bool) (int64, error) {
	if approvedOnly {
		return r.count(ctx, &models.Provider{}, "approved providers", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_approved = ?", true)
		})
	}
	return r.count(ctx, &models.Provider{}, "providers")
}

func (r *dashboardRepository) CountBookings(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Booking{}, "bookings")
}

func (r *dashboardRepository) CountReviews(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Review{}, "reviews")
}

func (r *dashboardRepository) BookingsByStatus(ctx context.Context) ([]repositories.StatusCountData, error) {
	var results []repositories.StatusCountData

	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get bookings by status: %w", err)
	}

	return results, nil
}

// ===== TRENDS =====

// GetTrendChange compares the last `days` days against the window before it, in percent
func (r *dashboardRepository) GetTrendChange(ctx context.Context, entity string, days int, now time.Time) (float64, error) {
	var model interface{}
	switch entity {
	case "users":
		model = &models.User{}
	case "providers":
		model = &models.Provider{}
	case "bookings":
		model = &models.Booking{}
	case "reviews":
		model = &models.Review{}
	default:
		return 0, fmt.Errorf("unsupported entity: %s", entity)
	}

	currentPeriodStart := now.AddDate(0, 0, -days)
	previousPeriodStart := now.AddDate(0, 0, -days*2)

	var currentCount, previousCount int64
	if err := r.db.WithContext(ctx).Model(model).
		Where("created_at >= ?", currentPeriodStart).
		Count(&currentCount).Error; err != nil {
		return 0, fmt.Errorf("failed to get current count: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(model).
		Where("created_at >= ? AND created_at < ?", previousPeriodStart, currentPeriodStart).
		Count(&previousCount).Error; err != nil {
		return 0, fmt.Errorf("failed to get previous count: %w", err)
	}

	return trendPercent(currentCount, previousCount), nil
}

func trendPercent(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// ===== ACTIVITY TRENDS =====

type activityWindow struct {
	label string
	start time.Time
	end   time.Time
}

// activityWindows splits a period into buckets: 7 days for week, 4 weeks for month,
// 12 months for year. Unknown periods yield no buckets.
func activityWindows(period string, now time.Time) []activityWindow {
	var windows []activityWindow

	switch period {
	case "week":
		for i := 6; i >= 0; i-- {
			day := now.AddDate(0, 0, -i)
			start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
			windows = append(windows, activityWindow{label: day.Format("Mon"), start: start, end: start.AddDate(0, 0, 1)})
		}
	case "month":
		for i := 3; i >= 0; i-- {
			end := now.AddDate(0, 0, -i*7)
			windows = append(windows, activityWindow{label: fmt.Sprintf("W%d", 4-i), start: end.AddDate(0, 0, -7), end: end})
		}
	case "year":
		for i := 11; i >= 0; i-- {
			month := now.AddDate(0, -i, 0)
			start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
			windows = append(windows, activityWindow{label: start.Format("Jan"), start: start, end: start.AddDate(0, 1, 0)})
		}
	}

	return windows
}

func (r *dashboardRepository) GetBookingActivity(ctx context.Context, period string, now time.Time) ([]repositories.ActivityTrendData, error) {
	windows := activityWindows(period, now)
	results := make([]repositories.ActivityTrendData, 0, len(windows))

	for _, w := range windows {
		var row struct {
			Bookings int64
			Users    int64
			Revenue  float64
		}

		if err := r.db.WithContext(ctx).
			Model(&models.Booking{}).
			Select("COUNT(*) AS bookings, COUNT(DISTINCT user_id) AS users, COALESCE(SUM(total_amount), 0) AS revenue").
			Where("created_at >= ? AND created_at < ?", w.start, w.end).
			Where("status <> ?", models.BookingCancelled).
			Scan(&row).Error; err != nil {
			return nil, fmt.Errorf("failed to get booking activity: %w", err)
		}

		results = append(results, repositories.ActivityTrendData{
			Period:   w.label,
			Bookings: row.Bookings,
			Users:    row.Users,
			Revenue:  row.Revenue,
			Date:     w.start,
		})
	}

	return results, nil
}
