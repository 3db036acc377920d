package cache

import (
	"context"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCategoryCache drops the cached category list and every cached category
func InvalidateCategoryCache(ctx context.Context, cm *CacheManager) {
	SafeDelete(ctx, cm.Category, CategoryListKey)
	SafeInvalidatePattern(ctx, cm.Category, "id:*")
}

// InvalidateStatsCache drops cached dashboard aggregates after writes that move the totals
func InvalidateStatsCache(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Stats, "dashboard:*")
}
