// internal/models/institution.go
package models

type Institution struct {
	ID                      string   `json:"id"`
	Name                    string   `json:"name"`
	Type                    string   `json:"institutionType,omitempty"`
	Country                 string   `json:"country,omitempty"`
	FocusAreas              []string `json:"focusAreas,omitempty"`
	GlobalRanking           *int     `json:"globalRanking,omitempty"`
	FoundedYear             *int     `json:"foundedYear,omitempty"`
	TotalStudents           *int     `json:"totalStudents,omitempty"`
	AnnualScholarshipBudget *float64 `json:"annualScholarshipBudget,omitempty"`
}
