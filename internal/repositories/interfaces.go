package repositories

import (
	"context"

	"github.com/SAP-F-2025/school-directory/internal/models"
)

// SchoolRepository is the record store for schools
type SchoolRepository interface {
	// Create inserts the school and sets its ID
	Create(ctx context.Context, school *models.School) error

	// List returns every school, most recently inserted first
	List(ctx context.Context) ([]models.School, error)
}
