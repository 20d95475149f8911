package scholarship

import (
	"math"
	"strings"
	"time"

	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/models"
)

const (
	openDefault          = 80.0
	defaultPrestige      = 50.0
	renewableBonusPoints = 15.0
	featuredBonusPoints  = 10.0
)

var nextLevel = map[string]string{
	"high school": "bachelor",
	"bachelor":    "master",
	"master":      "phd",
	"phd":         "postdoc",
}

var (
	academicKeywords    = []string{"gpa", "grade", "academic", "merit", "transcript"}
	experienceKeywords  = []string{"experience", "work", "internship", "professional", "employment"}
	achievementKeywords = []string{"achievement", "award", "honor", "honour", "publication", "competition"}
	languageKeywords    = []string{"language", "english", "ielts", "toefl", "fluent", "proficiency"}

	sharedExperienceKeywords = []string{
		"research", "internship", "volunteer", "leadership", "teaching", "software",
		"engineering", "management", "laboratory", "clinical", "community", "project",
	}
)

func levelMatch(st *models.StudentProfile, sc *models.Scholarship) (float64, bool) {
	if sc.IsWildcardLevel() {
		return openDefault, true
	}
	current := strings.ToLower(strings.TrimSpace(string(st.EducationLevel)))
	if current == "" {
		return 0, false
	}
	target := strings.ToLower(strings.TrimSpace(string(sc.StudyLevel)))
	if current == target || nextLevel[current] == target {
		return 100, true
	}
	return 0, true
}

func countryMatch(st *models.StudentProfile, sc *models.Scholarship) (float64, bool) {
	if len(st.PreferredCountries) == 0 {
		return 0, false
	}
	if len(sc.TargetCountries) == 0 {
		return 0, true
	}
	hits := matching.CountFold(st.PreferredCountries, sc.TargetCountries)
	return float64(hits) / float64(len(st.PreferredCountries)) * 100, true
}

func nationalityMatch(st *models.StudentProfile, sc *models.Scholarship) (float64, bool) {
	if len(sc.TargetNationalities) == 0 {
		return openDefault, true
	}
	if matching.Blank(st.Nationality) {
		return 0, false
	}
	if matching.ContainsFold(sc.TargetNationalities, st.Nationality) {
		return 100, true
	}
	return 0, true
}

func gpaMatch(st *models.StudentProfile, sc *models.Scholarship) (float64, bool) {
	if sc.MinGPA == nil {
		return openDefault, true
	}
	if st.GPA == nil {
		return 0, false
	}
	gpa, floor := *st.GPA, *sc.MinGPA
	if gpa >= floor {
		return openDefault + math.Min(20, (gpa-floor)*20), true
	}
	return gpa / floor * 60, true
}

func ageMatch(st *models.StudentProfile, sc *models.Scholarship, now time.Time) (float64, bool) {
	if sc.MinAge == nil && sc.MaxAge == nil {
		return openDefault, true
	}
	age := st.AgeAt(now)
	if age == nil {
		return 0, false
	}
	if (sc.MinAge != nil && *age < *sc.MinAge) || (sc.MaxAge != nil && *age > *sc.MaxAge) {
		return 0, true
	}
	return 100, true
}

func languageMatch(st *models.StudentProfile, sc *models.Scholarship) float64 {
	if len(sc.RequiredLanguages) == 0 {
		return openDefault
	}
	hits := matching.CountFold(sc.RequiredLanguages, st.Languages)
	return float64(hits) / float64(len(sc.RequiredLanguages)) * 100
}

// DaysUntil counts started days until deadline; a deadline later today is one day away.
func DaysUntil(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

func deadlineUrgency(days int) float64 {
	switch {
	case days <= 7:
		return 100
	case days <= 30:
		return 80
	case days <= 90:
		return 60
	default:
		return 40
	}
}

func amountScore(sc *models.Scholarship) (float64, bool) {
	if sc.Amount == nil {
		return 0, false
	}
	switch a := *sc.Amount; {
	case a >= 50000:
		return 100, true
	case a >= 25000:
		return 80, true
	case a >= 10000:
		return 60, true
	case a >= 5000:
		return 40, true
	default:
		return 20, true
	}
}

func eligibilityMatch(st *models.StudentProfile, sc *models.Scholarship) (float64, bool) {
	criteria := sc.EligibilityCriteria
	if matching.Blank(criteria) {
		return 0, false
	}
	score := 50.0
	if st.GPA != nil && matching.MentionsAny(criteria, academicKeywords) {
		score += 15
	}
	if !matching.Blank(st.WorkExperience) && matching.MentionsAny(criteria, experienceKeywords) {
		score += 15
	}
	if !matching.Blank(st.AcademicAchievement) && matching.MentionsAny(criteria, achievementKeywords) {
		score += 10
	}
	if len(st.Languages) > 0 && matching.MentionsAny(criteria, languageKeywords) {
		score += 10
	}
	return math.Min(100, score), true
}

func experienceMatch(st *models.StudentProfile, sc *models.Scholarship) (float64, bool) {
	if matching.Blank(st.WorkExperience) || matching.Blank(sc.EligibilityCriteria) {
		return 0, false
	}
	experience := strings.ToLower(st.WorkExperience)
	criteria := strings.ToLower(sc.EligibilityCriteria)
	shared := 0
	for _, k := range sharedExperienceKeywords {
		if strings.Contains(experience, k) && strings.Contains(criteria, k) {
			shared++
		}
	}
	return matching.Capped(40, 15, shared), true
}

// PrestigeScore rates an institution by ranking tier and age.
func PrestigeScore(inst *models.Institution, now time.Time) float64 {
	score := defaultPrestige
	if r := inst.GlobalRanking; r != nil && *r > 0 {
		switch {
		case *r <= 10:
			score += 40
		case *r <= 50:
			score += 30
		case *r <= 100:
			score += 20
		case *r <= 500:
			score += 10
		}
	}
	if y := inst.FoundedYear; y != nil && *y > 0 {
		switch age := now.Year() - *y; {
		case age >= 100:
			score += 10
		case age >= 50:
			score += 5
		}
	}
	return math.Min(100, score)
}

func bonus(on bool, points float64) float64 {
	if on {
		return points
	}
	return 0
}
