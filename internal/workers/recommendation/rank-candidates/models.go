package rankcandidates

import (
	"time"

	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/matching/candidate"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/workers/recommendation"
)

type Input = recommendation.Request

type Output = recommendation.Response[RankedCandidate]

// RankedCandidate is one student ranked for the institution.
type RankedCandidate struct {
	CandidateID    string           `json:"candidateId"`
	SubjectID      string           `json:"subjectId"`
	MatchScore     float64          `json:"matchScore"`
	Factors        matching.Factors `json:"factors"`
	Reasons        []string         `json:"reasons"`
	RiskAssessment candidate.Risk   `json:"riskAssessment"`
	GeneratedAt    time.Time        `json:"generatedAt"`

	FullName       string                `json:"fullName,omitempty"`
	FieldOfStudy   string                `json:"fieldOfStudy,omitempty"`
	EducationLevel models.EducationLevel `json:"currentEducationLevel,omitempty"`
	GPA            *float64              `json:"gpa,omitempty"`
	Nationality    string                `json:"nationality,omitempty"`
}

func newRankedCandidate(r matching.Scored[*models.StudentProfile]) RankedCandidate {
	st := r.Candidate
	return RankedCandidate{
		CandidateID:    r.CandidateID,
		SubjectID:      r.SubjectID,
		MatchScore:     r.Score,
		Factors:        r.Factors,
		Reasons:        r.Reasons,
		RiskAssessment: candidate.RiskAssessment(st),
		GeneratedAt:    r.GeneratedAt,
		FullName:       st.FullName,
		FieldOfStudy:   st.FieldOfStudy,
		EducationLevel: st.EducationLevel,
		GPA:            st.GPA,
		Nationality:    st.Nationality,
	}
}
