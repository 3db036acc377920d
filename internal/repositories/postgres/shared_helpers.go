package postgres

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
)

const defaultProviderOrder = "profile_views DESC, created_at DESC"

// Whitelisted ORDER BY columns for the provider list ordering parameter
var providerOrderingColumns = map[string]bool{
	"name":          true,
	"created_at":    true,
	"profile_views": true,
}

// handleDBError translates store errors into repository sentinels
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", operation, repositories.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", operation, repositories.ErrDuplicate)
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}

// requireAffected turns a zero-row update or delete into ErrNotFound
func requireAffected(result *gorm.DB, operation string) error {
	if result.Error != nil {
		return handleDBError(result.Error, operation)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", operation, repositories.ErrNotFound)
	}
	return nil
}

// containsPattern builds a case-insensitive substring pattern with LIKE metacharacters escaped
func containsPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// ApplyPagination applies limit and offset when set
func ApplyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

// ApplyProviderFilters applies the listing and search filters to a provider query
func ApplyProviderFilters(query *gorm.DB, filters repositories.ProviderFilters) *gorm.DB {
	if filters.ApprovedOnly {
		query = query.Where("is_approved = ?", true)
	}

	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := containsPattern(q)
		query = query.Where("(name ILIKE ? OR description ILIKE ? OR address ILIKE ?)", pattern, pattern, pattern)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Subcategory != "" {
		query = query.Where("subcategory = ?", filters.Subcategory)
	}
	if loc := strings.TrimSpace(filters.Location); loc != "" {
		query = query.Where("address ILIKE ?", containsPattern(loc))
	}

	if box := filters.Box; box != nil {
		query = query.Where("latitude >= ? AND latitude <= ?", box.MinLat, box.MaxLat).
			Where("longitude >= ? AND longitude <= ?", box.MinLng, box.MaxLng)
	}

	return query
}

// ProviderOrderClause resolves the ORDER BY clause. An explicit whitelisted ordering wins
// over the sort mode; anything unrecognised falls back to the default ordering.
func ProviderOrderClause(filters repositories.ProviderFilters) string {
	if filters.Ordering != "" {
		column := strings.TrimPrefix(filters.Ordering, "-")
		if providerOrderingColumns[column] {
			if strings.HasPrefix(filters.Ordering, "-") {
				return column + " DESC"
			}
			return column + " ASC"
		}
	}

	switch filters.Sort {
	case repositories.SortRating, repositories.SortPopularity:
		return "profile_views DESC"
	case repositories.SortNewest:
		return "created_at DESC"
	}
	return defaultProviderOrder
}
