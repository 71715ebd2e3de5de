package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/school-directory/internal/models"
	"github.com/SAP-F-2025/school-directory/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateSchoolRequest = validator.SchoolCreateRequest
type ImageUpload = validator.ImageUpload

// ===== SERVICE INTERFACES =====

// SchoolService runs the submission pipeline and the listing
type SchoolService interface {
	// Create validates the submission, stores the image, then inserts the
	// row. Text fields are trimmed first and stored trimmed. Returns the new
	// school's id.
	Create(ctx context.Context, req *CreateSchoolRequest) (uint, error)

	// List returns all schools, most recent first
	List(ctx context.Context) ([]models.School, error)
}

// ExportService writes the directory to a spreadsheet
type ExportService interface {
	// ExportSchools writes an XLSX workbook of the schools matching search
	// and returns the number of rows written
	ExportSchools(ctx context.Context, w io.Writer, search string) (int, error)
}

// ServiceManager owns service construction and lifecycle
type ServiceManager interface {
	School() SchoolService
	Export() ExportService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
	HealthCheck(ctx context.Context) error
}
