package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/dealership/backend/internal/infrastructure/scheduler"
	"github.com/dealership/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// JobExecutor runs scheduler jobs against the report engine
type JobExecutor struct {
	generation *ReportGenerationService
	metrics    GenerationMetrics
	logger     *zap.Logger
}

// NewJobExecutor creates a JobExecutor. A nil metrics sink is allowed.
func NewJobExecutor(generation *ReportGenerationService, metrics GenerationMetrics, logger *zap.Logger) *JobExecutor {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &JobExecutor{generation: generation, metrics: metrics, logger: logger}
}

var _ scheduler.JobExecutor = (*JobExecutor)(nil)

// Execute implements scheduler.JobExecutor
func (e *JobExecutor) Execute(ctx context.Context, job *scheduler.Job) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "report_jobs", "execute",
		telemetry.WithAttribute(telemetry.SpanAttrJobType, string(job.Type)),
		telemetry.WithAttribute(telemetry.SpanAttrJobID, job.ID.String()),
	)
	defer span.End()
	telemetry.SetAttributes(span, "job.retry_count", job.RetryCount)

	err := e.execute(ctx, job)
	telemetry.RecordError(span, err)
	e.metrics.RecordJob(ctx, string(job.Type), err)
	return err
}

func (e *JobExecutor) execute(ctx context.Context, job *scheduler.Job) error {
	p := job.Params
	switch job.Type {
	case scheduler.JobTypeForceRange:
		result, err := e.generation.RegenerateRange(ctx, p.From, p.To, RegenerateOptions{SkipEmpty: p.SkipEmpty, Force: p.Force})
		if err != nil {
			return err
		}
		return result.Err()

	case scheduler.JobTypeRegenerateMonth:
		_, err := e.generation.RegenerateReportsForMonth(ctx, p.Year, p.Month)
		return err

	case scheduler.JobTypeRecomputeFinance:
		result, err := e.generation.RecomputeFinanceCosts(ctx, p.Year)
		if err != nil {
			return err
		}
		if result.MonthsFailed > 0 {
			return fmt.Errorf("%d months failed finance recompute for %d", result.MonthsFailed, p.Year)
		}
		return nil

	case scheduler.JobTypeAutoGenerate:
		_, dailyErr := e.generation.AutoGenerateDailyReport(ctx)
		_, monthlyErr := e.generation.AutoGenerateReportsForNewMonth(ctx)
		return errors.Join(dailyErr, monthlyErr)

	default:
		e.logger.Warn("Unknown job type", zap.String("job_type", string(job.Type)))
		return scheduler.ErrInvalidJobType
	}
}
