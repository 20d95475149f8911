package candidate

import (
	"math"
	"strings"

	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/models"
)

const openDefault = 80.0

var (
	experienceKeywords = []string{
		"research", "internship", "teaching", "laboratory", "project",
		"industry", "volunteer", "leadership", "software", "clinical",
	}
	motivationKeywords = []string{
		"passion", "motivated", "goal", "dream", "aspire", "committed", "impact", "contribute",
	}
	communityKeywords = []string{"volunteer", "community", "ngo", "outreach", "mentor"}

	careerKeywords = []string{
		"internship", "leadership", "startup", "entrepreneur", "manager",
		"founded", "promotion", "industry", "career",
	}
	researchKeywords = []string{
		"research", "publication", "published", "thesis", "laboratory",
		"paper", "conference", "journal", "experiment",
	}
	leadershipKeywords = []string{
		"president", "captain", "led a", "led the", "leader", "founded",
		"organized", "organised", "coordinator", "chair",
	}
)

func academicExcellence(st *models.StudentProfile) (float64, bool) {
	if st.GPA == nil {
		return 0, false
	}
	switch g := *st.GPA; {
	case g >= 3.8:
		return 100, true
	case g >= 3.5:
		return 90, true
	case g >= 3.0:
		return 75, true
	case g >= 2.5:
		return 60, true
	default:
		return 40, true
	}
}

// geographicFit: 100 when the student wants to study in the institution's country,
// 70 for the same region, 30 otherwise.
func geographicFit(inst *models.Institution, st *models.StudentProfile) (float64, bool) {
	if matching.Blank(inst.Country) || len(st.PreferredCountries) == 0 {
		return 0, false
	}
	if matching.ContainsFold(st.PreferredCountries, inst.Country) {
		return 100, true
	}
	region := RegionOf(inst.Country)
	if region != "" {
		for _, c := range st.PreferredCountries {
			if RegionOf(c) == region {
				return 70, true
			}
		}
	}
	return 30, true
}

func languageCompatibility(inst *models.Institution, st *models.StudentProfile) (float64, bool) {
	if len(st.Languages) == 0 {
		return 0, false
	}
	expected := LanguagesOf(inst.Country)
	switch hits := matching.CountFold(expected, st.Languages); {
	case hits == len(expected):
		return 100, true
	case hits > 0:
		return 70, true
	case matching.ContainsFold(st.Languages, "english"):
		return 50, true
	default:
		return 30, true
	}
}

func experienceRelevance(inst *models.Institution, st *models.StudentProfile) (float64, bool) {
	if matching.Blank(st.WorkExperience) {
		return 0, false
	}
	score := matching.Capped(40, 10, matching.CountMentions(st.WorkExperience, experienceKeywords))
	if matching.MentionsAny(st.WorkExperience, lowered(inst.FocusAreas)) {
		score += 20
	}
	return math.Min(100, score), true
}

func motivationAlignment(inst *models.Institution, st *models.StudentProfile) (float64, bool) {
	if matching.Blank(st.Bio) {
		return 0, false
	}
	focus := matching.CountMentions(st.Bio, lowered(inst.FocusAreas))
	if focus > 3 {
		focus = 3
	}
	score := 40 + 20*float64(focus) + 10*float64(matching.CountMentions(st.Bio, motivationKeywords))
	return math.Min(100, score), true
}

func diversityValue(inst *models.Institution, st *models.StudentProfile) float64 {
	score := 50.0
	if !matching.Blank(st.Nationality) && !matching.Blank(inst.Country) && !SameCountry(st.Nationality, inst.Country) {
		score += 20
	}
	switch n := len(st.Languages); {
	case n >= 3:
		score += 15
	case n >= 2:
		score += 10
	}
	text := st.Bio + " " + st.WorkExperience + " " + st.AcademicAchievement
	if matching.MentionsAny(text, communityKeywords) {
		score += 15
	}
	return math.Min(100, score)
}

func financialNeed(st *models.StudentProfile) (float64, bool) {
	if st.FinancialNeed == nil {
		return 0, false
	}
	level := *st.FinancialNeed
	if level < 1 {
		level = 1
	}
	if level > 5 {
		level = 5
	}
	return float64(level-1) * 25, true
}

// keywordScan scores experience, achievements and bio together: base + 15 per keyword.
func keywordScan(st *models.StudentProfile, keywords []string, base float64) (float64, bool) {
	text := strings.Join([]string{st.WorkExperience, st.AcademicAchievement, st.Bio}, " ")
	if matching.Blank(text) {
		return 0, false
	}
	return matching.Capped(base, 15, matching.CountMentions(text, keywords)), true
}

func lowered(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
