// Package recommendation holds what both match workers share: the request and response
// envelope, load error classification and the batch summary hook.
package recommendation

import (
	"context"
	stderrors "errors"
	"time"

	"scholarship-workers/internal/common/aws"
	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

// Request is the job variable contract of both workers.
type Request struct {
	SubjectID      string   `json:"subjectId"`
	CandidateLimit *int     `json:"candidateLimit,omitempty"`
	MinScore       *float64 `json:"minScore,omitempty"`
	TargetID       string   `json:"targetId,omitempty"`
}

// RunOptions resolves the limit and threshold against the worker defaults.
func (r *Request) RunOptions(defaultLimit int, defaultMinScore float64) matching.RunOptions {
	opts := matching.RunOptions{Limit: defaultLimit, MinScore: defaultMinScore}
	if r.CandidateLimit != nil && *r.CandidateLimit > 0 {
		opts.Limit = *r.CandidateLimit
	}
	if r.MinScore != nil {
		opts.MinScore = *r.MinScore
	}
	return opts
}

type Metadata struct {
	TotalCandidatesConsidered int       `json:"totalCandidatesConsidered"`
	RecommendationsGenerated  int       `json:"recommendationsGenerated"`
	AverageScore              float64   `json:"averageScore"`
	GeneratedAt               time.Time `json:"generatedAt"`
	RequestID                 string    `json:"requestId"`
}

// Response is the completed job payload.
type Response[T any] struct {
	Success  bool     `json:"success"`
	Data     []T      `json:"data"`
	Metadata Metadata `json:"metadata"`
}

// NewResponse wraps the items of a finished batch.
func NewResponse[T, C any](items []T, batch *matching.Batch[C]) *Response[T] {
	if items == nil {
		items = []T{}
	}
	return &Response[T]{
		Success: true,
		Data:    items,
		Metadata: Metadata{
			TotalCandidatesConsidered: batch.Considered,
			RecommendationsGenerated:  len(items),
			AverageScore:              batch.AverageScore,
			GeneratedAt:               batch.GeneratedAt,
			RequestID:                 uuid.NewString(),
		},
	}
}

// SubjectError classifies a failure to load the subject record.
func SubjectError(ctx context.Context, subjectID string, err error) error {
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return errors.NewSubjectNotFoundError(subjectID)
	case stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return errors.NewQueryTimeoutError("subject")
	default:
		return errors.NewDatabaseConnectionFailedError(err)
	}
}

// PoolError classifies a failure to load the candidate pool.
func PoolError(ctx context.Context, source string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError(source)
	}
	if stderrors.Is(err, store.ErrSearchFailed) {
		return errors.NewSearchQueryFailedError(err)
	}
	return errors.NewCandidateLoadFailedError(source, err)
}

// ScoringError maps a pipeline failure.
func ScoringError(err error) error {
	var budget *matching.BudgetExceededError
	if stderrors.As(err, &budget) {
		return errors.NewScoringTimeoutError(budget.Scored, budget.Total)
	}
	return errors.NewInternalError(err)
}

// SummaryPublisher receives one summary per finished batch.
type SummaryPublisher interface {
	Publish(ctx context.Context, s aws.BatchSummary) (string, error)
}

// PublishSummary sends the batch summary when a publisher is configured. Failures are logged only.
func PublishSummary[T any](ctx context.Context, pub SummaryPublisher, log logger.Logger, taskType, subjectID string, resp *Response[T]) {
	if pub == nil {
		return
	}
	id, err := pub.Publish(ctx, aws.BatchSummary{
		RequestID:                 resp.Metadata.RequestID,
		TaskType:                  taskType,
		SubjectID:                 subjectID,
		TotalCandidatesConsidered: resp.Metadata.TotalCandidatesConsidered,
		RecommendationsGenerated:  resp.Metadata.RecommendationsGenerated,
		AverageScore:              resp.Metadata.AverageScore,
		GeneratedAt:               resp.Metadata.GeneratedAt,
	})
	if err != nil {
		log.Warn("failed to publish batch summary", map[string]interface{}{
			"requestId": resp.Metadata.RequestID,
			"error":     err,
		})
		return
	}
	log.Debug("batch summary published", map[string]interface{}{
		"requestId": resp.Metadata.RequestID,
		"messageId": id,
	})
}

// Complete sends resp as the job's result variables.
func Complete(ctx context.Context, client worker.JobClient, job entities.Job, resp interface{}, log logger.Logger) error {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(resp)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		log.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
		return err
	}
	return nil
}
