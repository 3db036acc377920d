package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
)

// newDryRunDB builds a postgres-dialect gorm handle that renders SQL without a server
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open dry-run db: %v", err)
	}
	return db
}

func assertContains(t *testing.T, sql string, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		if !strings.Contains(sql, f) {
			t.Errorf("expected SQL to contain %q\nSQL: %s", f, sql)
		}
	}
}

func TestApplyProviderFilters(t *testing.T) {
	db := newDryRunDB(t)
	box := repositories.NewBoundingBox(12.9, 77.6, 10)

	tests := []struct {
		name    string
		filters repositories.ProviderFilters
		want    []string
		notWant []string
	}{
		{
			name:    "approved only with default ordering",
			filters: repositories.ProviderFilters{ApprovedOnly: true},
			want:    []string{"is_approved = true", "ORDER BY profile_views DESC, created_at DESC"},
			notWant: []string{"ILIKE", "latitude"},
		},
		{
			name:    "free text matches three columns",
			filters: repositories.ProviderFilters{ApprovedOnly: true, Query: "Piano"},
			want:    []string{"(name ILIKE '%Piano%' OR description ILIKE '%Piano%' OR address ILIKE '%Piano%')"},
		},
		{
			name:    "category and subcategory are exact",
			filters: repositories.ProviderFilters{Category: "music", Subcategory: "piano"},
			want:    []string{"category = 'music'", "subcategory = 'piano'"},
			notWant: []string{"is_approved"},
		},
		{
			name:    "location is a substring of address",
			filters: repositories.ProviderFilters{Location: "Bangalore"},
			want:    []string{"address ILIKE '%Bangalore%'"},
		},
		{
			name:    "bounding box",
			filters: repositories.ProviderFilters{Box: &box},
			want:    []string{"latitude >= ", "AND latitude <= ", "longitude >= ", "AND longitude <= "},
		},
		{
			name:    "newest sort",
			filters: repositories.ProviderFilters{Sort: repositories.SortNewest},
			want:    []string{"ORDER BY created_at DESC"},
		},
		{
			name:    "rating filters are not applied",
			filters: repositories.ProviderFilters{MinRating: floatPtr(4), MaxPrice: floatPtr(20)},
			notWant: []string{"rating", "price"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				query := ApplyProviderFilters(tx.Model(&models.Provider{}), tt.filters)
				return query.Order(ProviderOrderClause(tt.filters)).Find(&[]models.Provider{})
			})
			assertContains(t, sql, tt.want...)
			for _, f := range tt.notWant {
				if strings.Contains(sql, f) {
					t.Errorf("SQL should not contain %q\nSQL: %s", f, sql)
				}
			}
		})
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestProviderOrderClause(t *testing.T) {
	tests := []struct {
		filters repositories.ProviderFilters
		want    string
	}{
		{repositories.ProviderFilters{}, "profile_views DESC, created_at DESC"},
		{repositories.ProviderFilters{Sort: repositories.SortRating}, "profile_views DESC"},
		{repositories.ProviderFilters{Sort: repositories.SortPopularity}, "profile_views DESC"},
		{repositories.ProviderFilters{Sort: repositories.SortNewest}, "created_at DESC"},
		{repositories.ProviderFilters{Sort: repositories.SortDistance}, "profile_views DESC, created_at DESC"},
		{repositories.ProviderFilters{Sort: repositories.SortReviews}, "profile_views DESC, created_at DESC"},
		{repositories.ProviderFilters{Ordering: "name"}, "name ASC"},
		{repositories.ProviderFilters{Ordering: "-created_at"}, "created_at DESC"},
		{repositories.ProviderFilters{Ordering: "-profile_views"}, "profile_views DESC"},
		{repositories.ProviderFilters{Ordering: "password_hash; DROP TABLE users"}, "profile_views DESC, created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.filters.Sort, tt.filters.Ordering), func(t *testing.T) {
			if got := ProviderOrderClause(tt.filters); got != tt.want {
				t.Errorf("ProviderOrderClause() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	if got := containsPattern(`50%_off\`); got != `%50\%\_off\\%` {
		t.Errorf("containsPattern() = %q", got)
	}
}

func TestApplyBookingFilters(t *testing.T) {
	db := newDryRunDB(t)
	userID := uuid.New()
	providerID := uuid.New()
	status := models.BookingConfirmed

	render := func(filters repositories.BookingFilters) string {
		return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
			return ApplyBookingFilters(tx.Model(&models.Booking{}), filters).Find(&[]models.Booking{})
		})
	}

	sql := render(repositories.BookingFilters{UserID: &userID})
	assertContains(t, sql, fmt.Sprintf("bookings.user_id = '%s'", userID))

	sql = render(repositories.BookingFilters{ProviderID: &providerID, Status: &status})
	assertContains(t, sql,
		`bookings.service_id IN (SELECT "id" FROM "services" WHERE provider_id = '`+providerID.String()+`')`,
		"bookings.status = 'confirmed'")

	sql = render(repositories.BookingFilters{UserID: &userID, ProviderID: &providerID})
	assertContains(t, sql, "(bookings.user_id = '"+userID.String()+"' OR bookings.service_id IN (SELECT \"id\"")
}

func TestHandleDBError(t *testing.T) {
	if err := handleDBError(gorm.ErrRecordNotFound, "get provider"); !repositories.IsNotFoundError(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if err := handleDBError(gorm.ErrDuplicatedKey, "create review"); !repositories.IsDuplicateError(err) {
		t.Errorf("expected duplicate, got %v", err)
	}

	other := errors.New("connection reset")
	err := handleDBError(other, "list bookings")
	if !errors.Is(err, other) || repositories.IsNotFoundError(err) {
		t.Errorf("expected wrapped passthrough, got %v", err)
	}
	if handleDBError(nil, "noop") != nil {
		t.Error("nil error should stay nil")
	}
}

func TestActivityWindows(t *testing.T) {
	now := mustDate(t, "2026-03-15")

	if got := activityWindows("week", now); len(got) != 7 || got[6].label != now.Format("Mon") {
		t.Errorf("week windows = %+v", got)
	}
	if got := activityWindows("month", now); len(got) != 4 || got[3].label != "W4" {
		t.Errorf("month windows = %+v", got)
	}
	year := activityWindows("year", now)
	if len(year) != 12 || year[11].label != "Mar" || year[0].label != "Apr" {
		t.Errorf("year windows = %+v", year)
	}
	if got := activityWindows("decade", now); len(got) != 0 {
		t.Errorf("unknown period should be empty, got %d", len(got))
	}
}

func TestTrendPercent(t *testing.T) {
	tests := []struct {
		current, previous int64
		want              float64
	}{
		{0, 0, 0},
		{5, 0, 100},
		{15, 10, 50},
		{5, 10, -50},
	}
	for _, tt := range tests {
		if got := trendPercent(tt.current, tt.previous); got != tt.want {
			t.Errorf("trendPercent(%d, %d) = %v, want %v", tt.current, tt.previous, got, tt.want)
		}
	}
}
