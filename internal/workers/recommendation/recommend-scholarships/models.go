package recommendscholarships

import (
	"time"

	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/matching/scholarship"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/workers/recommendation"
)

type Input = recommendation.Request

type Output = recommendation.Response[Recommendation]

// Recommendation is one ranked scholarship for the student.
type Recommendation struct {
	CandidateID     string            `json:"candidateId"`
	SubjectID       string            `json:"subjectId"`
	MatchScore      float64           `json:"matchScore"`
	Factors         matching.Factors  `json:"factors"`
	Reasons         []string          `json:"reasons"`
	ConfidenceLevel scholarship.Level `json:"confidenceLevel"`
	UrgencyLevel    scholarship.Level `json:"urgencyLevel"`
	GeneratedAt     time.Time         `json:"generatedAt"`

	Title               string                `json:"title"`
	Amount              *float64              `json:"amount,omitempty"`
	Currency            string                `json:"currency,omitempty"`
	StudyLevel          models.EducationLevel `json:"studyLevel,omitempty"`
	ApplicationDeadline time.Time             `json:"applicationDeadline"`
	InstitutionID       string                `json:"institutionId,omitempty"`
	Renewable           bool                  `json:"renewable"`
	Featured            bool                  `json:"featured"`
}

func newRecommendation(r matching.Scored[*models.Scholarship]) Recommendation {
	sc := r.Candidate
	return Recommendation{
		CandidateID:         r.CandidateID,
		SubjectID:           r.SubjectID,
		MatchScore:          r.Score,
		Factors:             r.Factors,
		Reasons:             r.Reasons,
		ConfidenceLevel:     scholarship.Confidence(r.Score),
		UrgencyLevel:        scholarship.Urgency(sc.Deadline, r.GeneratedAt),
		GeneratedAt:         r.GeneratedAt,
		Title:               sc.Title,
		Amount:              sc.Amount,
		Currency:            sc.Currency,
		StudyLevel:          sc.StudyLevel,
		ApplicationDeadline: sc.Deadline,
		InstitutionID:       sc.InstitutionID,
		Renewable:           sc.Renewable,
		Featured:            sc.Featured,
	}
}
