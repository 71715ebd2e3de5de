package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-directory/internal/cache"
	"github.com/SAP-F-2025/school-directory/internal/models"
	"github.com/SAP-F-2025/school-directory/internal/repositories"
)

type SchoolSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSchoolSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SchoolRepository {
	if cacheManager == nil {
		cacheManager = cache.NewCacheManager(nil)
	}
	return &SchoolSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// Create inserts a school row and invalidates cached listings
func (s *SchoolSQL) Create(ctx context.Context, school *models.School) error {
	if err := s.db.WithContext(ctx).Create(school).Error; err != nil {
		return fmt.Errorf("failed to create school: %w", err)
	}

	cache.InvalidateSchoolCache(ctx, s.cacheManager)

	return nil
}

// List returns all schools ordered by id descending. The cached copy is
// keyed by the listing generation read before the query, so a listing
// fetched before a concurrent Create is never served after it.
func (s *SchoolSQL) List(ctx context.Context) ([]models.School, error) {
	key, ok := cache.CurrentSchoolListKey(ctx, s.cacheManager)
	if !ok {
		return s.listFromDB(ctx)
	}

	schools := []models.School{}
	err := s.cacheManager.School.CacheOrExecute(ctx, key, &schools, cache.SchoolCacheConfig.TTL, func() (interface{}, error) {
		return s.listFromDB(ctx)
	})
	if err != nil {
		return nil, err
	}

	return schools, nil
}

func (s *SchoolSQL) listFromDB(ctx context.Context) ([]models.School, error) {
	schools := []models.School{}
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&schools).Error; err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	return schools, nil
}
