package rankcandidates

import (
	"context"
	"fmt"
	"time"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/common/observability"
	"scholarship-workers/internal/common/validation"
	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/matching/candidate"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/workers/recommendation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const TaskType = "rank-candidates"

type InstitutionLoader interface {
	Institution(ctx context.Context, id string) (*models.Institution, error)
}

type StudentPool interface {
	Students(ctx context.Context) ([]*models.StudentProfile, error)
}

type HandlerOptions struct {
	Config        *Config
	Institutions  InstitutionLoader
	Students      StudentPool
	Validator     *validation.Validator
	Publisher     recommendation.SummaryPublisher
	Observability *observability.Observability
	Logger        logger.Logger
	Clock         func() time.Time
}

// Handler ranks students as candidates for one institution.
type Handler struct {
	config       *Config
	institutions InstitutionLoader
	students     StudentPool
	validator    *validation.Validator
	publisher    recommendation.SummaryPublisher
	obs          *observability.Observability
	pipeline     *matching.Pipeline[*models.Institution, *models.StudentProfile]
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Institutions == nil || opts.Students == nil {
		return nil, fmt.Errorf("%s: institution and student loaders are required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	pipelineOpts := []matching.Option{matching.WithWeights(cfg.Weights)}
	if opts.Clock != nil {
		pipelineOpts = append(pipelineOpts, matching.WithClock(opts.Clock))
	}

	return &Handler{
		config:       cfg,
		institutions: opts.Institutions,
		students:     opts.Students,
		validator:    opts.Validator,
		publisher:    opts.Publisher,
		obs:          opts.Observability,
		pipeline: matching.NewPipeline[*models.Institution, *models.StudentProfile](
			candidate.NewStrategy(nil), log, pipelineOpts...),
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.Int64("jobKey", job.GetKey()))
	defer span.End()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"workflowKey": job.GetProcessInstanceKey(),
	})

	var output *Output
	input, err := h.parseInput(job)
	if err == nil {
		output, err = h.Execute(ctx, input)
	}

	reportCtx, reportCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer reportCancel()

	status := "completed"
	if err != nil {
		status = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		bpmnErr := h.errorHandler.HandleJobError(reportCtx, client, job, err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
	} else if cerr := recommendation.Complete(reportCtx, client, job, output, h.logger); cerr == nil {
		metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	}

	elapsed := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	h.obs.RecordJobProcessed(reportCtx, TaskType, status)
	h.obs.RecordJobDuration(reportCtx, TaskType, elapsed, status)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	if err := h.validator.ValidateJSON(TaskType, job.GetVariables()); err != nil {
		return nil, err
	}
	var input Input
	if err := job.GetVariablesAs(&input); err != nil {
		return nil, errors.NewInvalidRequestError(fmt.Sprintf("parse variables: %v", err))
	}
	if input.SubjectID == "" {
		return nil, errors.NewInvalidRequestError("subjectId is required")
	}
	return &input, nil
}

// Execute ranks the student pool for the institution input.SubjectID. TargetID is ignored.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	log := h.logger.WithFields(map[string]interface{}{"subjectId": input.SubjectID})

	inst, err := h.institutions.Institution(ctx, input.SubjectID)
	if err != nil {
		return nil, recommendation.SubjectError(ctx, input.SubjectID, err)
	}

	pool, err := h.students.Students(ctx)
	if err != nil {
		return nil, recommendation.PoolError(ctx, "students", err)
	}

	opts := input.RunOptions(h.config.DefaultLimit, h.config.DefaultMinScore)
	batch, err := h.pipeline.Run(ctx, inst, pool, opts)
	if err != nil {
		return nil, recommendation.ScoringError(err)
	}

	items := make([]RankedCandidate, 0, len(batch.Results))
	for _, r := range batch.Results {
		items = append(items, newRankedCandidate(r))
	}
	output := recommendation.NewResponse(items, batch)

	log.Info("candidates ranked", map[string]interface{}{
		"considered":   batch.Considered,
		"skipped":      batch.Skipped,
		"returned":     len(items),
		"averageScore": batch.AverageScore,
		"minScore":     opts.MinScore,
		"requestId":    output.Metadata.RequestID,
	})
	h.obs.RecordCandidates(ctx, candidate.Direction, batch.Considered)
	recommendation.PublishSummary(ctx, h.publisher, log, TaskType, input.SubjectID, output)

	return output, nil
}
