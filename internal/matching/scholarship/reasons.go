package scholarship

import (
	"time"

	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/models"
)

// Reasons lists the threshold reasons in factor importance order.
func (s *Strategy) Reasons(st *models.StudentProfile, sc *models.Scholarship, f matching.Factors) []string {
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
	case has(FieldMatch, 80):
		out = append(out, "Your field of study is a perfect match")
	case has(FieldMatch, 60):
		out = append(out, "Your field of study is closely related")
	}
	switch {
	case has(LevelMatch, 100):
		out = append(out, "Matches your next education level")
	case has(LevelMatch, 80):
		out = append(out, "Open to all education levels")
	}
	if sc.MinGPA != nil {
		switch {
		case has(GPAMatch, 90):
			out = append(out, "Your GPA comfortably exceeds the requirement")
		case has(GPAMatch, 80):
			out = append(out, "You meet the GPA requirement")
		}
	}
	add(has(CountryMatch, 80), "Available in your preferred study countries")
	add(has(EligibilityMatch, 75), "Strong match with eligibility criteria")
	add(len(sc.RequiredLanguages) > 0 && has(LanguageMatch, 100), "You speak all required languages")
	add(len(sc.TargetNationalities) > 0 && has(NationalityMatch, 100), "Open to your nationality")
	add(has(AchievementMatch, 60), "Your achievements stand out")
	add(has(ExperienceMatch, 70), "Relevant work experience")
	add(has(AmountScore, 80), "Substantial award amount")
	add(has(DeadlineUrgency, 80), "Deadline is approaching soon")
	add(has(InstitutionPrestige, 80), "Offered by a highly ranked institution")
	add(sc.Renewable, "Renewable scholarship")
	add(sc.Featured, "Featured opportunity")
	return out
}

type Level string

const (
	High   Level = "high"
	Medium Level = "medium"
	Low    Level = "low"
)

// Confidence labels an overall match score.
func Confidence(score float64) Level {
	switch {
	case score >= 85:
		return High
	case score >= 70:
		return Medium
	default:
		return Low
	}
}

// Urgency labels the raw time left before the deadline, independent of the deadlineUrgency factor.
func Urgency(deadline, now time.Time) Level {
	switch days := DaysUntil(deadline, now); {
	case days <= 14:
		return High
	case days <= 45:
		return Medium
	default:
		return Low
	}
}
