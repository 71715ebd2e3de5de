package services

import (
	"strings"

	"github.com/SAP-F-2025/school-directory/internal/models"
)

// FilterSchools keeps schools whose name, city, state or address contains
// term, ignoring case. An empty term keeps everything. Order is preserved.
func FilterSchools(schools []models.School, term string) []models.School {
	term = strings.ToLower(term)
	if term == "" {
		return schools
	}

	filtered := make([]models.School, 0, len(schools))
	for _, school := range schools {
		if matchesSearch(school, term) {
			filtered = append(filtered, school)
		}
	}
	return filtered
}

func matchesSearch(school models.School, term string) bool {
	for _, field := range []string{school.Name, school.City, school.State, school.Address} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
