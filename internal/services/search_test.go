package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/school-directory/internal/models"
)

func TestFilterSchools(t *testing.T) {
	schools := []models.School{
		{ID: 3, Name: "Lincoln Elementary", Address: "1 Main St", City: "Chicago", State: "IL"},
		{ID: 2, Name: "Oak Ridge School", Address: "40 Spring Rd", City: "Austin", State: "TX"},
		{ID: 1, Name: "Springfield High", Address: "12 Elm St", City: "Springfield", State: "IL"},
	}

	tests := []struct {
		name string
		term string
		want []uint
	}{
		{"empty keeps all", "", []uint{3, 2, 1}},
		{"case insensitive city and address", "spring", []uint{2, 1}},
		{"state", "tx", []uint{2}},
		{"name", "LINCOLN", []uint{3}},
		{"no match", "boston", []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterSchools(schools, tt.term)
			ids := make([]uint, 0, len(got))
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
