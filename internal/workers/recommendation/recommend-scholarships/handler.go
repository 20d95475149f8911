package recommendscholarships

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
	"scholarship-workers/internal/matching/scholarship"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/store"
	"scholarship-workers/internal/workers/recommendation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const TaskType = "recommend-scholarships"

type StudentLoader interface {
	Student(ctx context.Context, id string) (*models.StudentProfile, error)
}

type HandlerOptions struct {
	Config        *Config
	Students      StudentLoader
	Scholarships  store.ScholarshipSource
	Institutions  scholarship.InstitutionLookup
	Validator     *validation.Validator
	Publisher     recommendation.SummaryPublisher
	Observability *observability.Observability
	Logger        logger.Logger
	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// Handler ranks open scholarships for one student.
type Handler struct {
	config       *Config
	students     StudentLoader
	scholarships store.ScholarshipSource
	validator    *validation.Validator
	publisher    recommendation.SummaryPublisher
	obs          *observability.Observability
	pipeline     *matching.Pipeline[*models.StudentProfile, *models.Scholarship]
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Students == nil || opts.Scholarships == nil {
		return nil, fmt.Errorf("%s: student and scholarship loaders are required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	strategy := scholarship.NewStrategy(nil, opts.Institutions, log)
	return &Handler{
		config:       cfg,
		students:     opts.Students,
		scholarships: opts.Scholarships,
		validator:    opts.Validator,
		publisher:    opts.Publisher,
		obs:          opts.Observability,
		pipeline: matching.NewPipeline[*models.StudentProfile, *models.Scholarship](strategy, log,
			matching.WithClock(now), matching.WithWeights(cfg.Weights)),
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
		now:          now,
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

	output, err := h.process(ctx, job)

	// report with a fresh context so a spent budget can still be reported
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

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := h.parseInput(job)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
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

// Execute scores the open scholarships for input.SubjectID.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	log := h.logger.WithFields(map[string]interface{}{"subjectId": input.SubjectID})

	student, err := h.students.Student(ctx, input.SubjectID)
	if err != nil {
		return nil, recommendation.SubjectError(ctx, input.SubjectID, err)
	}
	if student.Role != models.RoleStudent {
		return nil, errors.NewSubjectRoleInvalidError(input.SubjectID, student.Role)
	}

	pool, err := h.scholarships.ActiveScholarships(ctx, store.ScholarshipQuery{
		TargetID: input.TargetID,
		Now:      h.now().UTC(),
	})
	if err != nil {
		return nil, recommendation.PoolError(ctx, h.config.Source, err)
	}

	opts := input.RunOptions(h.config.DefaultLimit, h.config.DefaultMinScore)
	batch, err := h.pipeline.Run(ctx, student, pool, opts)
	if err != nil {
		return nil, recommendation.ScoringError(err)
	}

	items := make([]Recommendation, 0, len(batch.Results))
	for _, r := range batch.Results {
		items = append(items, newRecommendation(r))
	}
	output := recommendation.NewResponse(items, batch)

	log.Info("scholarships ranked", map[string]interface{}{
		"considered":   batch.Considered,
		"skipped":      batch.Skipped,
		"returned":     len(items),
		"averageScore": batch.AverageScore,
		"minScore":     opts.MinScore,
		"requestId":    output.Metadata.RequestID,
	})
	h.obs.RecordCandidates(ctx, scholarship.Direction, batch.Considered)
	recommendation.PublishSummary(ctx, h.publisher, log, TaskType, input.SubjectID, output)

	return output, nil
}
