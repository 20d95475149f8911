// internal/models/scholarship.go
package models

import (
	"strings"
	"time"
)

type Scholarship struct {
	ID                  string         `json:"id"`
	Title               string         `json:"title"`
	Description         string         `json:"description,omitempty"`
	Amount              *float64       `json:"amount,omitempty"`
	Currency            string         `json:"currency,omitempty"`
	StudyLevel          EducationLevel `json:"studyLevel"`
	StudyFields         []string       `json:"studyFields"`
	TargetCountries     []string       `json:"targetCountries,omitempty"`
	TargetNationalities []string       `json:"targetNationalities,omitempty"`
	MinGPA              *float64       `json:"minGpa,omitempty"`
	MinAge              *int           `json:"minAge,omitempty"`
	MaxAge              *int           `json:"maxAge,omitempty"`
	Deadline            time.Time      `json:"applicationDeadline"`
	EligibilityCriteria string         `json:"eligibilityCriteria,omitempty"`
	RequiredLanguages   []string       `json:"requiredLanguages,omitempty"`
	ScholarshipType     string         `json:"scholarshipType,omitempty"`
	Renewable           bool           `json:"renewable"`
	Featured            bool           `json:"featured"`
	InstitutionID       string         `json:"institutionId,omitempty"`
	Active              bool           `json:"active"`
}

// IsWildcardLevel reports whether the scholarship accepts every study level.
func (s *Scholarship) IsWildcardLevel() bool {
	level := strings.TrimSpace(string(s.StudyLevel))
	return strings.EqualFold(level, string(LevelAll)) || strings.EqualFold(level, string(LevelAny))
}
