package candidate

import (
	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/models"
)

func (s *Strategy) Reasons(inst *models.Institution, st *models.StudentProfile, f matching.Factors) []string {
	var out []string
	add := func(cond bool, reason string) {
		if cond {
			out = append(out, reason)
		}
	}
	has := func(name string, min float64) bool {
		v, ok := f[name]
		return ok && v >= min
	}

	switch {
	case has(AcademicExcellence, 90):
		out = append(out, "Outstanding academic record")
	case has(AcademicExcellence, 75):
		out = append(out, "Strong academic performance")
	}
	switch {
	case has(FieldAlignment, 80):
		out = append(out, "Field of study aligns with institution focus areas")
	case has(FieldAlignment, 60):
		out = append(out, "Field of study is related to institution focus areas")
	}
	add(has(ExperienceRelevance, 70), "Relevant practical experience")
	add(has(AchievementQuality, 60), "Notable academic achievements")
	add(has(ResearchCapability, 65), "Demonstrated research capability")
	add(has(LeadershipPotential, 65), "Shows leadership potential")
	add(has(CareerPotential, 75), "Strong career trajectory")
	add(has(GeographicFit, 100), "Interested in studying in "+inst.Country)
	add(has(LanguageCompatibility, 100), "Speaks the languages of instruction")
	add(has(MotivationAlignment, 80), "Motivation aligns with institution mission")
	add(has(DiversityValue, 80), "Adds diversity to the student body")
	add(has(FinancialNeed, 75), "High financial need")
	return out
}

type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// RiskPoints totals the missing-data penalties for a candidate profile.
func RiskPoints(st *models.StudentProfile) int {
	points := 0
	if st.GPA == nil || *st.GPA < 2.5 {
		points += 30
	}
	if matching.Blank(st.AcademicAchievement) {
		points += 20
	}
	if matching.Blank(st.WorkExperience) {
		points += 15
	}
	if len(st.Languages) < 2 {
		points += 10
	}
	return points
}

func RiskAssessment(st *models.StudentProfile) Risk {
	switch p := RiskPoints(st); {
	case p <= 20:
		return RiskLow
	case p <= 40:
		return RiskMedium
	default:
		return RiskHigh
	}
}
