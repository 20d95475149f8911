package rankcandidates

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/matching/candidate"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

type fakeInstitutions map[string]*models.Institution

func (f fakeInstitutions) Institution(_ context.Context, id string) (*models.Institution, error) {
	inst, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("load institution %s: %w", id, store.ErrNotFound)
	}
	return inst, nil
}

type fakePool struct {
	students []*models.StudentProfile
	err      error
}

func (f *fakePool) Students(context.Context) ([]*models.StudentProfile, error) {
	return f.students, f.err
}

func strongStudent() *models.StudentProfile {
	return &models.StudentProfile{
		ID:                  "stu-9",
		Role:                models.RoleStudent,
		FullName:            "Priya Nair",
		FieldOfStudy:        "Computer Science",
		GPA:                 f64(3.9),
		Nationality:         "Indian",
		Languages:           []string{"English", "German", "Hindi"},
		PreferredCountries:  []string{"Germany", "Netherlands"},
		FinancialNeed:       intp(3),
		WorkExperience:      "Software engineering internship at a research laboratory",
		AcademicAchievement: "Published a paper at an international conference; dean's list",
		Bio:                 "I am passionate about machine learning and engineering and want to contribute to open research",
	}
}

func newTestHandler(t *testing.T, pool *fakePool) *Handler {
	h, err := NewHandler(HandlerOptions{
		Institutions: fakeInstitutions{
			"inst-1": {ID: "inst-1", Country: "Germany", FocusAreas: []string{"Computer Science", "Engineering"}},
		},
		Students: pool,
		Logger:   logger.NewTestLogger(t),
		Clock:    func() time.Time { return now },
	})
	require.NoError(t, err)
	return h
}

func TestHandler_Execute_RanksCandidates(t *testing.T) {
	pool := &fakePool{students: []*models.StudentProfile{
		{ID: "stu-2", GPA: f64(3.2), Languages: []string{"German"}},
		strongStudent(),
		{ID: "stu-3", GPA: f64(2.0), Languages: []string{"Spanish"}},
	}}
	h := newTestHandler(t, pool)

	out, err := h.Execute(context.Background(), &Input{SubjectID: "inst-1"})
	require.NoError(t, err)

	// default threshold is 70
	require.Len(t, out.Data, 2)
	assert.Equal(t, "stu-9", out.Data[0].CandidateID)
	assert.InDelta(t, 85.23, out.Data[0].MatchScore, 0.001)
	assert.Equal(t, candidate.RiskLow, out.Data[0].RiskAssessment)
	assert.Equal(t, "Priya Nair", out.Data[0].FullName)
	assert.Len(t, out.Data[0].Reasons, 6)

	// (75*.20 + 100*.08 + 50*.05) / .33
	assert.Equal(t, "stu-2", out.Data[1].CandidateID)
	assert.InDelta(t, 77.27, out.Data[1].MatchScore, 0.001)
	assert.Equal(t, candidate.RiskHigh, out.Data[1].RiskAssessment)

	assert.Equal(t, 3, out.Metadata.TotalCandidatesConsidered)
	assert.Equal(t, 2, out.Metadata.RecommendationsGenerated)
	assert.InDelta(t, 81.25, out.Metadata.AverageScore, 0.001)
}

func TestHandler_Execute_SkipsBrokenCandidate(t *testing.T) {
	pool := &fakePool{students: []*models.StudentProfile{nil, strongStudent()}}
	h := newTestHandler(t, pool)

	out, err := h.Execute(context.Background(), &Input{SubjectID: "inst-1", MinScore: f64(0)})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "stu-9", out.Data[0].CandidateID)
	assert.Equal(t, 2, out.Metadata.TotalCandidatesConsidered)
}

func TestHandler_Execute_Limit(t *testing.T) {
	pool := &fakePool{students: []*models.StudentProfile{
		{ID: "stu-2", GPA: f64(3.2)},
		strongStudent(),
	}}
	h := newTestHandler(t, pool)

	out, err := h.Execute(context.Background(), &Input{SubjectID: "inst-1", MinScore: f64(0), CandidateLimit: intp(1)})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "stu-9", out.Data[0].CandidateID)
	assert.Equal(t, 1, out.Metadata.RecommendationsGenerated)
}

func TestHandler_Execute_Errors(t *testing.T) {
	t.Run("unknown institution", func(t *testing.T) {
		h := newTestHandler(t, &fakePool{})
		_, err := h.Execute(context.Background(), &Input{SubjectID: "inst-404"})
		assert.True(t, errors.HasCode(err, errors.ErrCodeSubjectNotFound), "got %v", err)
	})

	t.Run("pool load fails", func(t *testing.T) {
		h := newTestHandler(t, &fakePool{err: stderrors.New("connection reset by peer")})
		_, err := h.Execute(context.Background(), &Input{SubjectID: "inst-1"})
		assert.True(t, errors.HasCode(err, errors.ErrCodeCandidateLoadFailed), "got %v", err)
		assert.True(t, errors.AsStandardError(err).Retryable)
	})

	t.Run("pool query times out", func(t *testing.T) {
		h := newTestHandler(t, &fakePool{err: fmt.Errorf("query students: %w", context.DeadlineExceeded)})
		_, err := h.Execute(context.Background(), &Input{SubjectID: "inst-1"})
		assert.True(t, errors.HasCode(err, errors.ErrCodeQueryTimeout), "got %v", err)
	})
}

func TestHandler_Execute_EmptyPool(t *testing.T) {
	h := newTestHandler(t, &fakePool{})

	out, err := h.Execute(context.Background(), &Input{SubjectID: "inst-1"})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Empty(t, out.Data)
	assert.Equal(t, 0, out.Metadata.TotalCandidatesConsidered)
}

func TestHandler_WeightOverride(t *testing.T) {
	pool := &fakePool{students: []*models.StudentProfile{{ID: "stu-2", GPA: f64(3.2)}}}
	h, err := NewHandler(HandlerOptions{
		Config: &Config{
			Timeout:      time.Second,
			DefaultLimit: 10,
			// only academic excellence carries weight besides diversity
			Weights: map[string]float64{candidate.FieldAlignment: 0, candidate.DiversityValue: 0},
		},
		Institutions: fakeInstitutions{"inst-1": {ID: "inst-1"}},
		Students:     pool,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)

	out, err := h.Execute(context.Background(), &Input{SubjectID: "inst-1", MinScore: f64(0)})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, 75.0, out.Data[0].MatchScore)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(&config.Config{})
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, 70.0, cfg.DefaultMinScore)
	assert.True(t, cfg.Enabled)
	require.NoError(t, cfg.Validate())

	_, err := NewHandler(HandlerOptions{Config: cfg})
	assert.Error(t, err)
}
