package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a nil meter is passed to NewReportMetrics.
var ErrMeterNil = errors.New("meter cannot be nil")

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// ReportMetrics records report generation, batch and job outcomes.
type ReportMetrics struct {
	generations *Counter
	duration    *Histogram
	batchItems  *Counter
	jobs        *Counter
}

// NewReportMetrics registers the report instruments on meter.
func NewReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	generations, err := NewCounter(meter, "report_generations_total", "Report generation runs by operation and outcome", "{run}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "report_generation_duration_seconds",
		Description: "Duration of report generation runs",
		Unit:        "s",
		Boundaries:  GenerationDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	batchItems, err := NewCounter(meter, "report_batch_items_total", "Dates processed by batch regeneration by outcome", "{date}")
	if err != nil {
		return nil, err
	}
	jobs, err := NewCounter(meter, "report_jobs_total", "Scheduled report jobs by type and outcome", "{job}")
	if err != nil {
		return nil, err
	}

	return &ReportMetrics{
		generations: generations,
		duration:    duration,
		batchItems:  batchItems,
		jobs:        jobs,
	}, nil
}

// RecordGeneration records one orchestrator run.
func (m *ReportMetrics) RecordGeneration(ctx context.Context, operation string, d time.Duration, err error) {
	outcome := outcomeOf(err)
	m.generations.Inc(ctx, AttrOperation.String(operation), AttrOutcome.String(outcome))
	m.duration.RecordDuration(ctx, d, AttrOperation.String(operation), AttrOutcome.String(outcome))
}

// RecordBatchItem records one date handled by a batch run. Outcome is success, skipped or failure.
func (m *ReportMetrics) RecordBatchItem(ctx context.Context, operation, outcome string) {
	m.batchItems.Inc(ctx, AttrOperation.String(operation), AttrOutcome.String(outcome))
}

// RecordJob records a finished scheduler job.
func (m *ReportMetrics) RecordJob(ctx context.Context, jobType string, err error) {
	m.jobs.Inc(ctx, AttrJobType.String(jobType), AttrOutcome.String(outcomeOf(err)))
}

func outcomeOf(err error) string {
	if err != nil {
		return outcomeFailure
	}
	return outcomeSuccess
}
