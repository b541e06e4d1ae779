package report

import (
	"context"
	"fmt"
	"time"

	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

const (
	batchOutcomeSuccess = "success"
	batchOutcomeSkipped = "skipped"
	batchOutcomeFailure = "failure"
)

// RegenerateOptions controls a range regeneration.
type RegenerateOptions struct {
	// SkipEmpty skips dates without sales instead of writing empty reports.
	SkipEmpty bool
	// Force regenerates dates that already have a daily report. Without it
	// only dates lacking a daily report are processed.
	Force bool
}

// BatchError is the failure of one date in a batch run
type BatchError struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

// BatchResult counts the outcome of a batch run
type BatchResult struct {
	Processed int          `json:"processed"`
	Succeeded int          `json:"succeeded"`
	Skipped   int          `json:"skipped"`
	Failed    int          `json:"failed"`
	Errors    []BatchError `json:"errors,omitempty"`
}

func (r *BatchResult) fail(date time.Time, err error) {
	r.Failed++
	r.Errors = append(r.Errors, BatchError{Date: valueobject.FormatDate(date), Error: err.Error()})
}

// Err summarizes the failures of the run, or nil when every date succeeded
func (r *BatchResult) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d dates failed, first: %s: %s", r.Failed, r.Processed, r.Errors[0].Date, r.Errors[0].Error)
}

// RegenerateRange regenerates each date in [from, to] sequentially through the
// forced path. Every date commits in its own transaction; a failing date is
// recorded and the loop continues.
func (s *ReportGenerationService) RegenerateRange(ctx context.Context, from, to time.Time, opts RegenerateOptions) (*BatchResult, error) {
	if err := report.ValidateDateRange(from, to); err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for _, date := range report.DatesBetween(from, to) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++

		skip, err := s.shouldSkip(ctx, date, opts)
		if err != nil {
			result.fail(date, err)
			s.metrics.RecordBatchItem(ctx, "regenerate_range", batchOutcomeFailure)
			continue
		}
		if skip {
			result.Skipped++
			s.metrics.RecordBatchItem(ctx, "regenerate_range", batchOutcomeSkipped)
			continue
		}

		if _, err := s.ForceGenerateReportsForSale(ctx, date); err != nil {
			result.fail(date, err)
			s.metrics.RecordBatchItem(ctx, "regenerate_range", batchOutcomeFailure)
			continue
		}
		result.Succeeded++
		s.metrics.RecordBatchItem(ctx, "regenerate_range", batchOutcomeSuccess)
	}

	s.logger.Info("Range regeneration finished",
		zap.String("from", valueobject.FormatDate(from)),
		zap.String("to", valueobject.FormatDate(to)),
		zap.Int("processed", result.Processed),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *ReportGenerationService) shouldSkip(ctx context.Context, date time.Time, opts RegenerateOptions) (bool, error) {
	if opts.SkipEmpty {
		count, err := s.repos.Sales().CountByDate(ctx, date)
		if err != nil {
			return false, fmt.Errorf("count sales: %w", err)
		}
		if count == 0 {
			return true, nil
		}
	}
	if !opts.Force {
		exists, err := s.repos.DailyReports().ExistsForDate(ctx, date)
		if err != nil {
			return false, fmt.Errorf("check daily report: %w", err)
		}
		return exists, nil
	}
	return false, nil
}

// RegenerateMissing finds sale dates lacking report coverage in [from, to] and
// regenerates each through the forced path.
func (s *ReportGenerationService) RegenerateMissing(ctx context.Context, from, to time.Time) (*BatchResult, error) {
	missing, err := s.GetMissingReports(ctx, from, to)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for _, m := range missing {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++
		if _, err := s.ForceGenerateReportsForSale(ctx, m.Date); err != nil {
			result.fail(m.Date, err)
			s.metrics.RecordBatchItem(ctx, "regenerate_missing", batchOutcomeFailure)
			continue
		}
		result.Succeeded++
		s.metrics.RecordBatchItem(ctx, "regenerate_missing", batchOutcomeSuccess)
	}

	s.logger.Info("Missing report regeneration finished",
		zap.Int("processed", result.Processed),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
