package matching

import (
	"context"
	"fmt"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
)

type RunOptions struct {
	Limit    int
	MinScore float64
}

// Batch is the ranked outcome of one run.
type Batch[C any] struct {
	Results      []Scored[C]
	Considered   int
	Skipped      int
	AverageScore float64
	GeneratedAt  time.Time
}

// BudgetExceededError is returned when ctx ends before every candidate was scored.
type BudgetExceededError struct {
	Scored int
	Total  int
	Cause  error
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("scoring stopped after %d of %d candidates: %v", e.Scored, e.Total, e.Cause)
}

func (e *BudgetExceededError) Unwrap() error {
	return e.Cause
}

// Pipeline runs a Strategy over a candidate batch. It holds no per-run state and is safe for concurrent use.
type Pipeline[S, C any] struct {
	strategy Strategy[S, C]
	scheme   Scheme
	logger   logger.Logger
	now      func() time.Time
}

type pipelineConfig struct {
	now       func() time.Time
	overrides map[string]float64
}

type Option func(*pipelineConfig)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *pipelineConfig) { c.now = now }
}

// WithWeights overrides individual weights of the strategy's scheme.
func WithWeights(overrides map[string]float64) Option {
	return func(c *pipelineConfig) { c.overrides = overrides }
}

func NewPipeline[S, C any](strategy Strategy[S, C], log logger.Logger, opts ...Option) *Pipeline[S, C] {
	cfg := pipelineConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pipeline[S, C]{
		strategy: strategy,
		scheme:   strategy.Scheme().WithOverrides(cfg.overrides),
		logger:   log.WithFields(map[string]interface{}{"direction": strategy.Direction()}),
		now:      cfg.now,
	}
}

func (p *Pipeline[S, C]) Scheme() Scheme {
	return p.scheme
}

// Run scores every candidate against subject and returns the ranked batch.
func (p *Pipeline[S, C]) Run(ctx context.Context, subject S, candidates []C, opts RunOptions) (*Batch[C], error) {
	now := p.now().UTC()
	direction := p.strategy.Direction()
	subjectID := p.strategy.SubjectID(subject)

	scored := make([]Scored[C], 0, len(candidates))
	skipped := 0
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, &BudgetExceededError{Scored: i, Total: len(candidates), Cause: err}
		}

		result, ok := p.scoreOne(ctx, subject, subjectID, c, now)
		if !ok {
			skipped++
			metrics.CandidatesSkipped.WithLabelValues(direction).Inc()
			continue
		}
		scored = append(scored, result)
	}
	metrics.CandidatesScored.WithLabelValues(direction).Add(float64(len(scored)))

	ranked := Rank(scored, opts.MinScore, opts.Limit)
	for _, r := range ranked {
		metrics.MatchScore.WithLabelValues(direction).Observe(r.Score)
	}

	return &Batch[C]{
		Results:      ranked,
		Considered:   len(candidates),
		Skipped:      skipped,
		AverageScore: AverageScore(ranked),
		GeneratedAt:  now,
	}, nil
}

// Score evaluates a single pair without ranking.
func (p *Pipeline[S, C]) Score(ctx context.Context, subject S, candidate C) (Scored[C], bool) {
	return p.scoreOne(ctx, subject, p.strategy.SubjectID(subject), candidate, p.now().UTC())
}

func (p *Pipeline[S, C]) scoreOne(ctx context.Context, subject S, subjectID string, candidate C, now time.Time) (result Scored[C], ok bool) {
	var candidateID string
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("candidate scoring panicked, skipping", map[string]interface{}{
				"subjectId":   subjectID,
				"candidateId": candidateID,
				"panic":       fmt.Sprint(r),
			})
			ok = false
		}
	}()

	candidateID = p.strategy.CandidateID(candidate)
	factors := p.strategy.Factors(ctx, subject, candidate, now)
	for name, v := range factors {
		factors[name] = Round2(Clamp(v))
	}

	return Scored[C]{
		Candidate:   candidate,
		CandidateID: candidateID,
		SubjectID:   subjectID,
		Score:       Aggregate(factors, p.scheme),
		Factors:     factors,
		Reasons:     FinalizeReasons(p.strategy.Reasons(subject, candidate, factors), p.scheme.MaxReasons),
		GeneratedAt: now,
	}, true
}
