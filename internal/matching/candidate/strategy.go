// Package candidate scores students as candidates for one institution.
package candidate

import (
	"context"
	"time"

	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/models"
)

const Direction = "candidate"

const (
	AcademicExcellence    = "academicExcellence"
	FieldAlignment        = "fieldAlignment"
	GeographicFit         = "geographicFit"
	LanguageCompatibility = "languageCompatibility"
	ExperienceRelevance   = "experienceRelevance"
	AchievementQuality    = "achievementQuality"
	MotivationAlignment   = "motivationAlignment"
	DiversityValue        = "diversityValue"
	FinancialNeed         = "financialNeed"
	CareerPotential       = "careerPotential"
	ResearchCapability    = "researchCapability"
	LeadershipPotential   = "leadershipPotential"
)

const maxReasons = 6

func DefaultScheme() matching.Scheme {
	return matching.Scheme{
		Weights: map[string]float64{
			AcademicExcellence:    0.20,
			FieldAlignment:        0.18,
			GeographicFit:         0.08,
			LanguageCompatibility: 0.08,
			ExperienceRelevance:   0.10,
			AchievementQuality:    0.10,
			MotivationAlignment:   0.08,
			DiversityValue:        0.05,
			FinancialNeed:         0.05,
			CareerPotential:       0.06,
			ResearchCapability:    0.06,
			LeadershipPotential:   0.06,
		},
		MaxReasons: maxReasons,
	}
}

type Strategy struct {
	similarity matching.Similarity
}

func NewStrategy(sim matching.Similarity) *Strategy {
	if sim == nil {
		sim = matching.KeywordSimilarity{}
	}
	return &Strategy{similarity: sim}
}

func (s *Strategy) Direction() string { return Direction }

func (s *Strategy) SubjectID(inst *models.Institution) string { return inst.ID }

func (s *Strategy) CandidateID(st *models.StudentProfile) string { return st.ID }

func (s *Strategy) Scheme() matching.Scheme { return DefaultScheme() }

func (s *Strategy) Factors(_ context.Context, inst *models.Institution, st *models.StudentProfile, _ time.Time) matching.Factors {
	f := matching.Factors{}
	f.Put(AcademicExcellence)(academicExcellence(st))
	f.Put(FieldAlignment)(s.fieldAlignment(inst, st))
	f.Put(GeographicFit)(geographicFit(inst, st))
	f.Put(LanguageCompatibility)(languageCompatibility(inst, st))
	f.Put(ExperienceRelevance)(experienceRelevance(inst, st))
	f.Put(AchievementQuality)(matching.AchievementScore(st.AcademicAchievement))
	f.Put(MotivationAlignment)(motivationAlignment(inst, st))
	f[DiversityValue] = diversityValue(inst, st)
	f.Put(FinancialNeed)(financialNeed(st))
	f.Put(CareerPotential)(keywordScan(st, careerKeywords, 30))
	f.Put(ResearchCapability)(keywordScan(st, researchKeywords, 20))
	f.Put(LeadershipPotential)(keywordScan(st, leadershipKeywords, 20))
	return f
}

func (s *Strategy) fieldAlignment(inst *models.Institution, st *models.StudentProfile) (float64, bool) {
	if len(inst.FocusAreas) == 0 {
		return openDefault, true
	}
	return matching.FieldCoverage(s.similarity, st.FieldOfStudy, inst.FocusAreas)
}
