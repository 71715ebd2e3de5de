package sqlstore

import (
	"context"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-directory/internal/models"
)

var databaseNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// AutoMigrate creates or updates the schools table
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.School{}); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// CreateDatabase creates the named database when it does not exist. db must be
// connected to the server without a database selected.
func CreateDatabase(ctx context.Context, db *gorm.DB, name string) error {
	if !databaseNamePattern.MatchString(name) {
		return fmt.Errorf("invalid database name %q", name)
	}

	conn := db.WithContext(ctx)
	switch conn.Dialector.Name() {
	case "mysql":
		return conn.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)).Error
	case "postgres":
		var count int64
		if err := conn.Raw("SELECT COUNT(*) FROM pg_database WHERE datname = ?", name).Scan(&count).Error; err != nil {
			return fmt.Errorf("failed to check database: %w", err)
		}
		if count > 0 {
			return nil
		}
		return conn.Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, name)).Error
	default:
		return fmt.Errorf("create database not supported for %s", conn.Dialector.Name())
	}
}
