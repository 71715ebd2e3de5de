package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/school-directory/internal/models"
)

const exportSheet = "Schools"

var exportHeader = []interface{}{"ID", "Name", "Address", "City", "State", "Contact", "Email", "Image"}

type exportService struct {
	schools SchoolService
	logger  *slog.Logger
}

func NewExportService(schools SchoolService, logger *slog.Logger) ExportService {
	return &exportService{
		schools: schools,
		logger:  logger,
	}
}

func (s *exportService) ExportSchools(ctx context.Context, w io.Writer, search string) (int, error) {
	schools, err := s.schools.List(ctx)
	if err != nil {
		return 0, err
	}
	schools = FilterSchools(schools, search)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeSchoolRows(f, schools); err != nil {
		return 0, err
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Schools exported", "rows", len(schools), "search", search)
	return len(schools), nil
}

func writeSchoolRows(f *excelize.File, schools []models.School) error {
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "H1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, school := range schools {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			school.ID,
			school.Name,
			school.Address,
			school.City,
			school.State,
			school.Contact,
			school.EmailID,
			school.Image,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "B", "C", 30); err != nil {
		return err
	}
	return f.SetColWidth(exportSheet, "G", "H", 40)
}
