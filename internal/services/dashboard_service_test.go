package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GopinathBalasubramanian/eduactivity/internal/cache"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
)

func newTestDashboard(store *memStore, cm *cache.CacheManager) *dashboardService {
	svc := NewDashboardService(store, cm, testLogger()).(*dashboardService)
	svc.now = func() time.Time { return time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestGetDashboardStats(t *testing.T) {
	tests := []struct {
		name       string
		period     string
		trendErr   error
		wantPeriod string
		wantField  bool
		wantTrend  float64
	}{
		{name: "default period", period: "", wantPeriod: "month", wantTrend: 12.3},
		{name: "week", period: "week", wantPeriod: "week", wantTrend: 12.3},
		{name: "year", period: "year", wantPeriod: "year", wantTrend: 12.3},
		{name: "unknown period", period: "decade", wantField: true},
		{name: "trend failure degrades to zero", period: "month", trendErr: errors.New("boom"), wantPeriod: "month", wantTrend: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.dashboard.users = 10
			store.dashboard.providers = 4
			store.dashboard.approved = 3
			store.dashboard.bookings = 7
			store.dashboard.reviews = 2
			store.dashboard.byStatus = []repositories.StatusCountData{{Status: "pending", Count: 5}, {Status: "confirmed", Count: 2}}
			store.dashboard.trendErr = tt.trendErr
			svc := newTestDashboard(store, cache.NewCacheManager(nil))

			stats, err := svc.GetDashboardStats(context.Background(), tt.period)
			if tt.wantField {
				if !hasFieldError(err, "period") {
					t.Fatalf("GetDashboardStats() error = %v, want period field error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetDashboardStats() error = %v", err)
			}

			if stats.Period != tt.wantPeriod {
				t.Errorf("period = %s, want %s", stats.Period, tt.wantPeriod)
			}
			want := DashboardOverview{TotalUsers: 10, TotalProviders: 4, ApprovedProviders: 3, TotalBookings: 7, TotalReviews: 2}
			if stats.Overview != want {
				t.Errorf("overview = %+v", stats.Overview)
			}
			if stats.BookingsByStatus["pending"] != 5 || stats.BookingsByStatus["confirmed"] != 2 {
				t.Errorf("by status = %v", stats.BookingsByStatus)
			}
			if stats.Trends.UsersChange != tt.wantTrend || stats.Trends.BookingsChange != tt.wantTrend {
				t.Errorf("trends = %+v, want %v", stats.Trends, tt.wantTrend)
			}
			if len(stats.Activity) != 1 || stats.Activity[0].Revenue != 100 {
				t.Errorf("activity = %+v", stats.Activity)
			}
		})
	}
}

func TestDashboardStatsAreCached(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.dashboard.users = 1
	cm := testCache(t)
	svc := newTestDashboard(store, cm)

	for i := 0; i < 3; i++ {
		if _, err := svc.GetDashboardStats(ctx, "week"); err != nil {
			t.Fatalf("GetDashboardStats() error = %v", err)
		}
	}
	if store.dashboard.calls != 1 {
		t.Errorf("aggregates computed %d times, want 1", store.dashboard.calls)
	}

	// each period has its own entry
	if _, err := svc.GetDashboardStats(ctx, "year"); err != nil {
		t.Fatalf("GetDashboardStats() error = %v", err)
	}
	if store.dashboard.calls != 2 {
		t.Errorf("aggregates computed %d times, want 2", store.dashboard.calls)
	}

	cache.InvalidateStatsCache(ctx, cm)
	store.dashboard.users = 2
	stats, err := svc.GetDashboardStats(ctx, "week")
	if err != nil {
		t.Fatalf("GetDashboardStats() error = %v", err)
	}
	if stats.Overview.TotalUsers != 2 {
		t.Errorf("stale stats after invalidation: %+v", stats.Overview)
	}
}

func TestRoundFloat(t *testing.T) {
	tests := []struct {
		val       float64
		precision int
		want      float64
	}{
		{12.345, 1, 12.3},
		{-7.25, 1, -7.3},
		{99.999, 2, 100},
		{0, 2, 0},
	}
	for _, tt := range tests {
		if got := roundFloat(tt.val, tt.precision); got != tt.want {
			t.Errorf("roundFloat(%v, %d) = %v, want %v", tt.val, tt.precision, got, tt.want)
		}
	}
}
