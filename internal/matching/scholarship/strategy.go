// Package scholarship scores scholarships for one student.
package scholarship

import (
	"context"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/models"
)

const Direction = "scholarship"

const (
	FieldMatch          = "fieldMatch"
	LevelMatch          = "levelMatch"
	CountryMatch        = "countryMatch"
	NationalityMatch    = "nationalityMatch"
	GPAMatch            = "gpaMatch"
	AgeMatch            = "ageMatch"
	LanguageMatch       = "languageMatch"
	DeadlineUrgency     = "deadlineUrgency"
	AmountScore         = "amountScore"
	EligibilityMatch    = "eligibilityMatch"
	ExperienceMatch     = "experienceMatch"
	AchievementMatch    = "achievementMatch"
	InstitutionPrestige = "institutionPrestige"
	RenewabilityBonus   = "renewabilityBonus"
	FeaturedBonus       = "featuredBonus"
)

const maxReasons = 5

// DefaultScheme is the scholarship weight table. The weights add up to more than one,
// aggregation normalizes by the weight actually evaluated.
func DefaultScheme() matching.Scheme {
	return matching.Scheme{
		Weights: map[string]float64{
			FieldMatch:          0.25,
			LevelMatch:          0.20,
			CountryMatch:        0.15,
			GPAMatch:            0.15,
			LanguageMatch:       0.10,
			NationalityMatch:    0.10,
			AgeMatch:            0.05,
			DeadlineUrgency:     0.05,
			AmountScore:         0.08,
			EligibilityMatch:    0.12,
			ExperienceMatch:     0.08,
			AchievementMatch:    0.10,
			InstitutionPrestige: 0.07,
			RenewabilityBonus:   0.03,
			FeaturedBonus:       0.02,
		},
		Bonuses:    []string{RenewabilityBonus, FeaturedBonus},
		MaxReasons: maxReasons,
	}
}

// InstitutionLookup resolves the institution that funds a scholarship.
type InstitutionLookup interface {
	Institution(ctx context.Context, id string) (*models.Institution, error)
}

type Strategy struct {
	similarity   matching.Similarity
	institutions InstitutionLookup
	logger       logger.Logger
}

// NewStrategy builds the scholarship strategy. A nil lookup scores every prestige factor as the default.
func NewStrategy(sim matching.Similarity, institutions InstitutionLookup, log logger.Logger) *Strategy {
	if sim == nil {
		sim = matching.KeywordSimilarity{}
	}
	return &Strategy{similarity: sim, institutions: institutions, logger: log}
}

func (s *Strategy) Direction() string { return Direction }

func (s *Strategy) SubjectID(st *models.StudentProfile) string { return st.ID }

func (s *Strategy) CandidateID(sc *models.Scholarship) string { return sc.ID }

func (s *Strategy) Scheme() matching.Scheme { return DefaultScheme() }

func (s *Strategy) Factors(ctx context.Context, st *models.StudentProfile, sc *models.Scholarship, now time.Time) matching.Factors {
	f := matching.Factors{}
	f.Put(FieldMatch)(matching.FieldCoverage(s.similarity, st.FieldOfStudy, sc.StudyFields))
	f.Put(LevelMatch)(levelMatch(st, sc))
	f.Put(CountryMatch)(countryMatch(st, sc))
	f.Put(NationalityMatch)(nationalityMatch(st, sc))
	f.Put(GPAMatch)(gpaMatch(st, sc))
	f.Put(AgeMatch)(ageMatch(st, sc, now))
	f[LanguageMatch] = languageMatch(st, sc)
	f[DeadlineUrgency] = deadlineUrgency(DaysUntil(sc.Deadline, now))
	f.Put(AmountScore)(amountScore(sc))
	f.Put(EligibilityMatch)(eligibilityMatch(st, sc))
	f.Put(ExperienceMatch)(experienceMatch(st, sc))
	f.Put(AchievementMatch)(matching.AchievementScore(st.AcademicAchievement))
	f[InstitutionPrestige] = s.prestige(ctx, sc, now)
	f[RenewabilityBonus] = bonus(sc.Renewable, renewableBonusPoints)
	f[FeaturedBonus] = bonus(sc.Featured, featuredBonusPoints)

	return f
}

func (s *Strategy) prestige(ctx context.Context, sc *models.Scholarship, now time.Time) float64 {
	if s.institutions == nil || sc.InstitutionID == "" {
		return defaultPrestige
	}
	inst, err := s.institutions.Institution(ctx, sc.InstitutionID)
	if err != nil || inst == nil {
		fields := map[string]interface{}{"institutionId": sc.InstitutionID, "scholarshipId": sc.ID}
		if err != nil {
			fields["error"] = err.Error()
		}
		s.logger.Debug("institution lookup failed, using default prestige", fields)
		return defaultPrestige
	}
	return PrestigeScore(inst, now)
}
