package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

const (
	schoolListGenerationKey = "list:gen"
	schoolListPattern       = "list:v*"
)

// SchoolListKey is the cache key holding the full descending listing as of
// generation gen. A listing read under an older generation is never served
// once the generation moves on.
func SchoolListKey(gen int64) string {
	return fmt.Sprintf("list:v%d", gen)
}

// CurrentSchoolListKey returns the listing key for the current generation.
// ok is false when the cache cannot be used and the listing should be read
// from the store directly.
func CurrentSchoolListKey(ctx context.Context, cm *CacheManager) (key string, ok bool) {
	gen, err := cm.School.Generation(ctx, schoolListGenerationKey)
	if err != nil {
		if !errors.Is(err, ErrCacheNotAvailable) {
			slog.WarnContext(ctx, "Failed to read listing generation, bypassing cache", "error", err)
		}
		return "", false
	}
	return SchoolListKey(gen), true
}

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// InvalidateSchoolCache moves the listing to a new generation and drops the
// listings cached under earlier ones.
func InvalidateSchoolCache(ctx context.Context, cm *CacheManager) {
	if _, err := cm.School.BumpGeneration(ctx, schoolListGenerationKey); err != nil && !errors.Is(err, ErrCacheNotAvailable) {
		slog.ErrorContext(ctx, "Failed to bump listing generation", "error", err)
	}
	SafeInvalidatePattern(ctx, cm.School, schoolListPattern)
}
