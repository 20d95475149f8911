package recommendscholarships

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"scholarship-workers/internal/common/aws"
	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/validation"
	"scholarship-workers/internal/matching/scholarship"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/store"
	"scholarship-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.January, 10, 9, 30, 0, 0, time.UTC)

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

type fakeStudents struct {
	students map[string]*models.StudentProfile
	err      error
}

func (f *fakeStudents) Student(_ context.Context, id string) (*models.StudentProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	st, ok := f.students[id]
	if !ok {
		return nil, fmt.Errorf("load student %s: %w", id, store.ErrNotFound)
	}
	return st, nil
}

type fakeScholarships struct {
	pool  []*models.Scholarship
	err   error
	query store.ScholarshipQuery
}

func (f *fakeScholarships) ActiveScholarships(_ context.Context, q store.ScholarshipQuery) ([]*models.Scholarship, error) {
	f.query = q
	return f.pool, f.err
}

type fakePublisher struct {
	summaries []aws.BatchSummary
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, s aws.BatchSummary) (string, error) {
	f.summaries = append(f.summaries, s)
	return "msg-1", f.err
}

func testStudent() *models.StudentProfile {
	return &models.StudentProfile{
		ID:             "stu-1",
		Role:           models.RoleStudent,
		FieldOfStudy:   "Computer Science",
		GPA:            f64(3.9),
		EducationLevel: models.LevelBachelor,
	}
}

func testPool() []*models.Scholarship {
	return []*models.Scholarship{
		{
			ID:          "sch-2",
			Title:       "History Fellowship",
			StudyLevel:  models.LevelPhD,
			StudyFields: []string{"History"},
			Deadline:    now.Add(100 * 24 * time.Hour),
			Active:      true,
		},
		{
			ID:          "sch-1",
			Title:       "STEM Excellence",
			StudyFields: []string{"Computer Science", "Engineering"},
			StudyLevel:  models.LevelMaster,
			MinGPA:      f64(3.0),
			Amount:      f64(30000),
			Deadline:    now.Add(10 * 24 * time.Hour),
			Active:      true,
		},
	}
}

type fixture struct {
	handler      *Handler
	students     *fakeStudents
	scholarships *fakeScholarships
	publisher    *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		students:     &fakeStudents{students: map[string]*models.StudentProfile{"stu-1": testStudent()}},
		scholarships: &fakeScholarships{pool: testPool()},
		publisher:    &fakePublisher{},
	}
	h, err := NewHandler(HandlerOptions{
		Students:     f.students,
		Scholarships: f.scholarships,
		Publisher:    f.publisher,
		Logger:       logger.NewTestLogger(t),
		Clock:        func() time.Time { return now },
	})
	require.NoError(t, err)
	f.handler = h
	return f
}

func TestHandler_Execute_RanksScholarships(t *testing.T) {
	f := newFixture(t)

	out, err := f.handler.Execute(context.Background(), &Input{SubjectID: "stu-1", MinScore: f64(0), TargetID: "inst-1"})
	require.NoError(t, err)

	assert.True(t, out.Success)
	require.Len(t, out.Data, 2)
	assert.Equal(t, "sch-1", out.Data[0].CandidateID)
	assert.Equal(t, "stu-1", out.Data[0].SubjectID)
	assert.Equal(t, 90.1, out.Data[0].MatchScore)
	assert.Equal(t, scholarship.High, out.Data[0].ConfidenceLevel)
	assert.Equal(t, scholarship.High, out.Data[0].UrgencyLevel)
	assert.Equal(t, "STEM Excellence", out.Data[0].Title)
	assert.GreaterOrEqual(t, out.Data[0].MatchScore, out.Data[1].MatchScore)
	assert.Equal(t, scholarship.Low, out.Data[1].UrgencyLevel)
	for _, r := range out.Data {
		assert.GreaterOrEqual(t, len(r.Reasons), 2)
		assert.LessOrEqual(t, len(r.Reasons), 5)
	}

	assert.Equal(t, 2, out.Metadata.TotalCandidatesConsidered)
	assert.Equal(t, 2, out.Metadata.RecommendationsGenerated)
	assert.NotEmpty(t, out.Metadata.RequestID)
	assert.Equal(t, now, out.Metadata.GeneratedAt)

	assert.Equal(t, "inst-1", f.scholarships.query.TargetID)
	assert.Equal(t, now, f.scholarships.query.Now)

	require.Len(t, f.publisher.summaries, 1)
	assert.Equal(t, TaskType, f.publisher.summaries[0].TaskType)
	assert.Equal(t, out.Metadata.RequestID, f.publisher.summaries[0].RequestID)
	assert.Equal(t, out.Metadata.AverageScore, f.publisher.summaries[0].AverageScore)
}

func TestHandler_Execute_DefaultThreshold(t *testing.T) {
	f := newFixture(t)

	out, err := f.handler.Execute(context.Background(), &Input{SubjectID: "stu-1"})
	require.NoError(t, err)
	for _, r := range out.Data {
		assert.GreaterOrEqual(t, r.MatchScore, 60.0)
	}
	assert.Equal(t, 2, out.Metadata.TotalCandidatesConsidered)
}

func TestHandler_Execute_NothingAboveThreshold(t *testing.T) {
	f := newFixture(t)

	out, err := f.handler.Execute(context.Background(), &Input{SubjectID: "stu-1", MinScore: f64(99)})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Empty(t, out.Data)
	assert.NotNil(t, out.Data)
	assert.Equal(t, 0, out.Metadata.RecommendationsGenerated)
	assert.Equal(t, 0.0, out.Metadata.AverageScore)
	assert.Equal(t, 2, out.Metadata.TotalCandidatesConsidered)
}

func TestHandler_Execute_Limit(t *testing.T) {
	f := newFixture(t)

	out, err := f.handler.Execute(context.Background(), &Input{SubjectID: "stu-1", MinScore: f64(0), CandidateLimit: intp(1)})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "sch-1", out.Data[0].CandidateID)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
		input *Input
		ctx   func() context.Context
		code  errors.ErrorCode
	}{
		{
			name:  "subject not found",
			input: &Input{SubjectID: "missing"},
			code:  errors.ErrCodeSubjectNotFound,
		},
		{
			name: "subject is not a student",
			setup: func(f *fixture) {
				f.students.students["adm-1"] = &models.StudentProfile{ID: "adm-1", Role: "admin"}
			},
			input: &Input{SubjectID: "adm-1"},
			code:  errors.ErrCodeSubjectRoleInvalid,
		},
		{
			name:  "database down",
			setup: func(f *fixture) { f.students.err = stderrors.New("dial tcp: connection refused") },
			input: &Input{SubjectID: "stu-1"},
			code:  errors.ErrCodeDatabaseConnectionFailed,
		},
		{
			name:  "pool load fails",
			setup: func(f *fixture) { f.scholarships.err = stderrors.New("relation does not exist") },
			input: &Input{SubjectID: "stu-1"},
			code:  errors.ErrCodeCandidateLoadFailed,
		},
		{
			name:  "budget spent before scoring",
			input: &Input{SubjectID: "stu-1"},
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			code: errors.ErrCodeScoringTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}

			out, err := f.handler.Execute(ctx, tt.input)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
			assert.Empty(t, f.publisher.summaries)
		})
	}
}

func TestHandler_Execute_PublisherFailureDoesNotFailJob(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = stderrors.New("throttled")

	out, err := f.handler.Execute(context.Background(), &Input{SubjectID: "stu-1"})
	require.NoError(t, err)
	assert.True(t, out.Success)
}

func TestHandler_ParseInput(t *testing.T) {
	reg := &registry.ActivityRegistry{Activities: []registry.Activity{{
		ID:       TaskType,
		TaskType: TaskType,
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"subjectId"},
			"properties": map[string]interface{}{
				"subjectId":      map[string]interface{}{"type": "string", "minLength": 1},
				"candidateLimit": map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 200},
			},
		},
	}}}
	v, err := validation.NewValidator(reg)
	require.NoError(t, err)

	f := newFixture(t)
	f.handler.validator = v

	input, err := f.handler.parseInput(createMockJob(1, map[string]interface{}{
		"subjectId": "stu-1", "candidateLimit": 5, "targetId": "inst-1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "stu-1", input.SubjectID)
	assert.Equal(t, 5, *input.CandidateLimit)
	assert.Nil(t, input.MinScore)

	_, err = f.handler.parseInput(createMockJob(2, map[string]interface{}{"candidateLimit": 5}))
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))

	_, err = f.handler.parseInput(createMockJob(3, map[string]interface{}{"subjectId": "stu-1", "candidateLimit": 500}))
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
}

func TestNewConfig(t *testing.T) {
	app := &config.Config{
		Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: true, MaxJobsActive: 8, Timeout: 15000},
		},
	}
	app.Scoring.Scholarship = config.DirectionConfig{
		DefaultLimit:    10,
		DefaultMinScore: 55,
		Weights:         map[string]float64{scholarship.FieldMatch: 0.5},
	}
	app.Scoring.CandidateSource = config.SourceElasticsearch

	cfg := NewConfig(app)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 8, cfg.MaxJobsActive)
	assert.Equal(t, 10, cfg.DefaultLimit)
	assert.Equal(t, 55.0, cfg.DefaultMinScore)
	assert.Equal(t, config.SourceElasticsearch, cfg.Source)

	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())
}

func TestOutput_JSONShape(t *testing.T) {
	f := newFixture(t)
	out, err := f.handler.Execute(context.Background(), &Input{SubjectID: "stu-1", MinScore: f64(0)})
	require.NoError(t, err)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, true, decoded["success"])
	meta := decoded["metadata"].(map[string]interface{})
	assert.Contains(t, meta, "totalCandidatesConsidered")
	assert.Contains(t, meta, "recommendationsGenerated")
	assert.Contains(t, meta, "averageScore")
	assert.Contains(t, meta, "generatedAt")

	first := decoded["data"].([]interface{})[0].(map[string]interface{})
	for _, key := range []string{"candidateId", "subjectId", "matchScore", "factors", "reasons", "confidenceLevel", "urgencyLevel", "generatedAt"} {
		assert.Contains(t, first, key)
	}
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "scholarship-matching",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func BenchmarkHandler_Execute(b *testing.B) {
	pool := make([]*models.Scholarship, 0, 500)
	for i := 0; i < 500; i++ {
		for _, sc := range testPool() {
			cp := *sc
			cp.ID = fmt.Sprintf("%s-%d", sc.ID, i)
			pool = append(pool, &cp)
		}
	}

	h, err := NewHandler(HandlerOptions{
		Students:     &fakeStudents{students: map[string]*models.StudentProfile{"stu-1": testStudent()}},
		Scholarships: &fakeScholarships{pool: pool},
		Logger:       logger.NewNoOpLogger(),
		Clock:        func() time.Time { return now },
	})
	require.NoError(b, err)

	input := &Input{SubjectID: "stu-1", MinScore: f64(0)}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := h.Execute(ctx, input); err != nil {
			b.Fatal(err)
		}
	}
}
