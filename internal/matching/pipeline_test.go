package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"scholarship-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id    string
	fit   float64
	bonus float64
	boom  bool
}

type fakeStrategy struct {
	cancelAfter int
	cancel      context.CancelFunc
	calls       int
}

func (f *fakeStrategy) Direction() string         { return "test" }
func (f *fakeStrategy) SubjectID(s string) string { return s }
func (f *fakeStrategy) CandidateID(c item) string { return c.id }
func (f *fakeStrategy) Scheme() Scheme {
	return Scheme{
		Weights:    map[string]float64{"fit": 1, "bonus": 0.1},
		Bonuses:    []string{"bonus"},
		MaxReasons: 3,
	}
}

func (f *fakeStrategy) Factors(_ context.Context, _ string, c item, _ time.Time) Factors {
	f.calls++
	if f.cancel != nil && f.calls == f.cancelAfter {
		f.cancel()
	}
	if c.boom {
		var m map[string]int
		m["x"] = 1
	}
	return Factors{"fit": c.fit, "bonus": c.bonus}
}

func (f *fakeStrategy) Reasons(_ string, _ item, factors Factors) []string {
	if factors["fit"] >= 80 {
		return []string{"Strong fit"}
	}
	return nil
}

var fixedNow = time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)

func newTestPipeline(t *testing.T, s *fakeStrategy, opts ...Option) *Pipeline[string, item] {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewPipeline[string, item](s, logger.NewTestLogger(t), opts...)
}

func TestPipeline_Run(t *testing.T) {
	p := newTestPipeline(t, &fakeStrategy{})
	candidates := []item{
		{id: "c", fit: 65},
		{id: "a", fit: 90},
		{id: "b", fit: 50, bonus: 15},
		{id: "d", fit: 40},
	}

	batch, err := p.Run(context.Background(), "subject-1", candidates, RunOptions{Limit: 10, MinScore: 60})
	require.NoError(t, err)

	assert.Equal(t, 4, batch.Considered)
	assert.Equal(t, 0, batch.Skipped)
	assert.Equal(t, fixedNow, batch.GeneratedAt)
	require.Len(t, batch.Results, 3)

	assert.Equal(t, "a", batch.Results[0].CandidateID)
	assert.Equal(t, 90.0, batch.Results[0].Score)
	assert.Equal(t, []string{"Strong fit", "Eligibility criteria match"}, batch.Results[0].Reasons)
	assert.Equal(t, "subject-1", batch.Results[0].SubjectID)

	assert.Equal(t, "b", batch.Results[1].CandidateID)
	assert.Equal(t, 65.0, batch.Results[1].Score)
	assert.Equal(t, "c", batch.Results[2].CandidateID)

	assert.Equal(t, 73.33, batch.AverageScore)

	for _, r := range batch.Results {
		assert.GreaterOrEqual(t, r.Score, 60.0)
		assert.GreaterOrEqual(t, len(r.Reasons), MinReasons)
		assert.LessOrEqual(t, len(r.Reasons), 3)
	}
}

func TestPipeline_SkipsPanickingCandidate(t *testing.T) {
	p := newTestPipeline(t, &fakeStrategy{})
	candidates := []item{{id: "ok", fit: 70}, {id: "bad", fit: 99, boom: true}}

	batch, err := p.Run(context.Background(), "s", candidates, RunOptions{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Considered)
	assert.Equal(t, 1, batch.Skipped)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, "ok", batch.Results[0].CandidateID)
}

func TestPipeline_BudgetExceeded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &fakeStrategy{cancelAfter: 2, cancel: cancel}
	p := newTestPipeline(t, s)

	_, err := p.Run(ctx, "s", []item{{id: "1"}, {id: "2"}, {id: "3"}}, RunOptions{})
	require.Error(t, err)

	var budget *BudgetExceededError
	require.True(t, errors.As(err, &budget))
	assert.Equal(t, 2, budget.Scored)
	assert.Equal(t, 3, budget.Total)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_EmptyResultIsNotAnError(t *testing.T) {
	p := newTestPipeline(t, &fakeStrategy{})
	batch, err := p.Run(context.Background(), "s", []item{{id: "x", fit: 10}}, RunOptions{MinScore: 60})
	require.NoError(t, err)
	assert.Empty(t, batch.Results)
	assert.Equal(t, 1, batch.Considered)
	assert.Equal(t, 0.0, batch.AverageScore)
}

func TestPipeline_Idempotent(t *testing.T) {
	p := newTestPipeline(t, &fakeStrategy{})
	candidates := []item{{id: "a", fit: 81}, {id: "b", fit: 81}, {id: "c", fit: 77, bonus: 4}}

	first, err := p.Run(context.Background(), "s", candidates, RunOptions{})
	require.NoError(t, err)
	second, err := p.Run(context.Background(), "s", candidates, RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPipeline_WeightOverrides(t *testing.T) {
	p := newTestPipeline(t, &fakeStrategy{}, WithWeights(map[string]float64{"fit": 0}))
	res, ok := p.Score(context.Background(), "s", item{id: "a", fit: 90})
	require.True(t, ok)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 0.0, p.Scheme().Weights["fit"])
}
