package report

import (
	"context"
	"fmt"
	"time"

	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/dealership/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const serviceSpanName = "report_generation"

// GenerationMetrics receives report generation outcomes
type GenerationMetrics interface {
	RecordGeneration(ctx context.Context, operation string, d time.Duration, err error)
	RecordBatchItem(ctx context.Context, operation, outcome string)
	RecordJob(ctx context.Context, jobType string, err error)
}

type noopMetrics struct{}

func (noopMetrics) RecordGeneration(context.Context, string, time.Duration, error) {}
func (noopMetrics) RecordBatchItem(context.Context, string, string)                {}
func (noopMetrics) RecordJob(context.Context, string, error)                       {}

// GenerationResult holds the reports written by one orchestrator run
type GenerationResult struct {
	Daily   *report.DailyReport   `json:"daily,omitempty"`
	Monthly *report.MonthlyReport `json:"monthly,omitempty"`
	Yearly  *report.YearlyReport  `json:"yearly,omitempty"`
}

// AutoGenerationResult describes what a scheduled run generated
type AutoGenerationResult struct {
	Target    string            `json:"target"`
	Generated bool              `json:"generated"`
	Result    *GenerationResult `json:"result,omitempty"`
}

// ReportExistence flags which reports cover a date
type ReportExistence struct {
	Date     string `json:"date"`
	Daily    bool   `json:"daily"`
	Monthly  bool   `json:"monthly"`
	Yearly   bool   `json:"yearly"`
	AllExist bool   `json:"all_exist"`
}

// MissingReport is a sale date lacking at least one covering report
type MissingReport struct {
	Date           time.Time `json:"date"`
	MissingDaily   bool      `json:"missing_daily"`
	MissingMonthly bool      `json:"missing_monthly"`
	MissingYearly  bool      `json:"missing_yearly"`
}

// ReportGenerationService drives Daily, Monthly and Yearly aggregation and
// keeps the generation tracker current.
type ReportGenerationService struct {
	scope      TransactionScope
	repos      Repositories
	aggregator *Aggregator
	metrics    GenerationMetrics
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a ReportGenerationService
type Option func(*ReportGenerationService)

// WithMetrics sets the metrics sink
func WithMetrics(m GenerationMetrics) Option {
	return func(s *ReportGenerationService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the wall clock used by scheduled generation
func WithClock(now func() time.Time) Option {
	return func(s *ReportGenerationService) {
		s.now = now
	}
}

// NewReportGenerationService creates the orchestrator.
// scope provides transactional repositories; repos serves read-only checks outside a transaction.
func NewReportGenerationService(scope TransactionScope, repos Repositories, logger *zap.Logger, opts ...Option) *ReportGenerationService {
	s := &ReportGenerationService{
		scope:      scope,
		repos:      repos,
		aggregator: NewAggregator(logger),
		metrics:    noopMetrics{},
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateReportsForSale regenerates the day, month and year of saleDate in one
// transaction. Tracker cursors that had not reached this period are advanced.
func (s *ReportGenerationService) GenerateReportsForSale(ctx context.Context, saleDate time.Time) (*GenerationResult, error) {
	date := valueobject.DateOf(saleDate)
	ctx, span := telemetry.StartServiceSpan(ctx, serviceSpanName, "generate_for_sale",
		telemetry.WithAttribute(telemetry.SpanAttrReportDate, valueobject.FormatDate(date)))
	defer span.End()
	started := time.Now()

	var result *GenerationResult
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		tracker, err := repos.Tracker().Get(ctx)
		if err != nil {
			return fmt.Errorf("load generation tracker: %w", err)
		}
		year, month := date.Year(), int(date.Month())
		needsDaily := tracker.NeedsDailyReport(date)
		needsMonthly := tracker.NeedsMonthlyReport(year, month)
		needsYearly := tracker.NeedsYearlyReport(year)

		result, err = s.generateAll(ctx, repos, date)
		if err != nil {
			return err
		}

		if !needsDaily && !needsMonthly && !needsYearly {
			return nil
		}
		if needsDaily {
			tracker.UpdateLastDailyReportDate(date)
		}
		if needsMonthly {
			tracker.UpdateLastMonthlyReportDate(year, month)
		}
		if needsYearly {
			tracker.UpdateLastYearlyReportDate(year)
		}
		if err := repos.Tracker().Save(ctx, tracker); err != nil {
			return fmt.Errorf("save generation tracker: %w", err)
		}
		return nil
	})
	s.metrics.RecordGeneration(ctx, "generate_for_sale", time.Since(started), err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Report generation for sale failed",
			zap.String("report_date", valueobject.FormatDate(date)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Reports generated for sale date",
		zap.String("report_date", valueobject.FormatDate(date)),
		zap.Int("daily_sales", result.Daily.TotalSales),
	)
	return result, nil
}

// ForceGenerateReportsForSale regenerates the day, month and year of date in one
// transaction without reading or writing the tracker. Used for backfill and repair.
func (s *ReportGenerationService) ForceGenerateReportsForSale(ctx context.Context, date time.Time) (*GenerationResult, error) {
	date = valueobject.DateOf(date)
	ctx, span := telemetry.StartServiceSpan(ctx, serviceSpanName, "force_generate",
		telemetry.WithAttribute(telemetry.SpanAttrReportDate, valueobject.FormatDate(date)))
	defer span.End()
	started := time.Now()

	var result *GenerationResult
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		result, err = s.generateAll(ctx, repos, date)
		return err
	})
	s.metrics.RecordGeneration(ctx, "force_generate", time.Since(started), err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Forced report generation failed",
			zap.String("report_date", valueobject.FormatDate(date)),
			zap.Error(err),
		)
		return nil, err
	}
	return result, nil
}

// RegenerateReportsForMonth re-runs Monthly and Yearly aggregation for a month.
// Daily reports are assumed current.
func (s *ReportGenerationService) RegenerateReportsForMonth(ctx context.Context, year, month int) (*GenerationResult, error) {
	if err := report.ValidateMonth(year, month); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, serviceSpanName, "regenerate_month",
		telemetry.WithAttribute(telemetry.SpanAttrYear, year),
		telemetry.WithAttribute(telemetry.SpanAttrMonth, month))
	defer span.End()
	started := time.Now()

	result := &GenerationResult{}
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		if result.Monthly, err = s.aggregator.AggregateMonthly(ctx, repos, year, month); err != nil {
			return err
		}
		result.Yearly, err = s.aggregator.AggregateYearly(ctx, repos, year)
		return err
	})
	s.metrics.RecordGeneration(ctx, "regenerate_month", time.Since(started), err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Monthly regeneration failed",
			zap.Int("year", year),
			zap.Int("month", month),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Monthly and yearly reports regenerated", zap.Int("year", year), zap.Int("month", month))
	return result, nil
}

// AutoGenerateReportsForNewMonth generates the month that most recently ended,
// and its year, if the tracker has not yet reached that month.
func (s *ReportGenerationService) AutoGenerateReportsForNewMonth(ctx context.Context) (*AutoGenerationResult, error) {
	target := report.PeriodOf(s.now()).Previous()
	ctx, span := telemetry.StartServiceSpan(ctx, serviceSpanName, "auto_generate_month",
		telemetry.WithAttribute(telemetry.SpanAttrYear, target.Year),
		telemetry.WithAttribute(telemetry.SpanAttrMonth, target.Month))
	defer span.End()
	started := time.Now()

	out := &AutoGenerationResult{Target: target.String()}
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		tracker, err := repos.Tracker().Get(ctx)
		if err != nil {
			return fmt.Errorf("load generation tracker: %w", err)
		}
		if !tracker.NeedsMonthlyReport(target.Year, target.Month) {
			return nil
		}

		result := &GenerationResult{}
		if result.Monthly, err = s.aggregator.AggregateMonthly(ctx, repos, target.Year, target.Month); err != nil {
			return err
		}
		if result.Yearly, err = s.aggregator.AggregateYearly(ctx, repos, target.Year); err != nil {
			return err
		}

		tracker.UpdateLastMonthlyReportDate(target.Year, target.Month)
		if tracker.NeedsYearlyReport(target.Year) {
			tracker.UpdateLastYearlyReportDate(target.Year)
		}
		if err := repos.Tracker().Save(ctx, tracker); err != nil {
			return fmt.Errorf("save generation tracker: %w", err)
		}
		out.Generated = true
		out.Result = result
		return nil
	})
	s.metrics.RecordGeneration(ctx, "auto_generate_month", time.Since(started), err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Automatic monthly generation failed", zap.String("period", target.String()), zap.Error(err))
		return nil, err
	}

	if out.Generated {
		s.logger.Info("Automatic monthly generation completed", zap.String("period", target.String()))
	} else {
		s.logger.Debug("Automatic monthly generation skipped, tracker already current", zap.String("period", target.String()))
	}
	return out, nil
}

// AutoGenerateDailyReport generates yesterday's daily report if the tracker has
// not reached it. A day without sales gets an empty report.
func (s *ReportGenerationService) AutoGenerateDailyReport(ctx context.Context) (*AutoGenerationResult, error) {
	target := valueobject.DateOf(s.now()).AddDate(0, 0, -1)
	day := valueobject.FormatDate(target)
	ctx, span := telemetry.StartServiceSpan(ctx, serviceSpanName, "auto_generate_daily",
		telemetry.WithAttribute(telemetry.SpanAttrReportDate, day))
	defer span.End()
	started := time.Now()

	out := &AutoGenerationResult{Target: day}
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		tracker, err := repos.Tracker().Get(ctx)
		if err != nil {
			return fmt.Errorf("load generation tracker: %w", err)
		}
		if !tracker.NeedsDailyReport(target) {
			return nil
		}

		daily, err := s.aggregator.AggregateDaily(ctx, repos, target)
		if err != nil {
			return err
		}
		tracker.UpdateLastDailyReportDate(target)
		if err := repos.Tracker().Save(ctx, tracker); err != nil {
			return fmt.Errorf("save generation tracker: %w", err)
		}
		out.Generated = true
		out.Result = &GenerationResult{Daily: daily}
		if daily.IsEmpty() {
			s.logger.Info("No sales found, wrote empty daily report", zap.String("report_date", day))
		}
		return nil
	})
	s.metrics.RecordGeneration(ctx, "auto_generate_daily", time.Since(started), err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Automatic daily generation failed", zap.String("report_date", day), zap.Error(err))
		return nil, err
	}
	return out, nil
}

// CheckReportsExist reports which of the day, month and year reports covering date exist
func (s *ReportGenerationService) CheckReportsExist(ctx context.Context, date time.Time) (*ReportExistence, error) {
	date = valueobject.DateOf(date)
	year, month := date.Year(), int(date.Month())

	daily, err := s.repos.DailyReports().ExistsForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("check daily report: %w", err)
	}
	monthly, err := s.repos.MonthlyReports().Exists(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("check monthly report: %w", err)
	}
	yearly, err := s.repos.YearlyReports().Exists(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("check yearly report: %w", err)
	}

	return &ReportExistence{
		Date:     valueobject.FormatDate(date),
		Daily:    daily,
		Monthly:  monthly,
		Yearly:   yearly,
		AllExist: daily && monthly && yearly,
	}, nil
}

// GetMissingReports lists the sale dates in [from, to] whose daily, monthly or
// yearly report is absent.
func (s *ReportGenerationService) GetMissingReports(ctx context.Context, from, to time.Time) ([]MissingReport, error) {
	if err := report.ValidateDateRange(from, to); err != nil {
		return nil, err
	}
	from, to = valueobject.DateOf(from), valueobject.DateOf(to)

	saleDates, err := s.repos.Sales().FindDistinctSaleDates(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load sale dates: %w", err)
	}
	reportDates, err := s.repos.DailyReports().FindReportDates(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load daily report dates: %w", err)
	}
	haveDaily := make(map[time.Time]bool, len(reportDates))
	for _, d := range reportDates {
		haveDaily[valueobject.DateOf(d)] = true
	}

	monthly := make(map[report.Period]bool)
	yearly := make(map[int]bool)
	var missing []MissingReport
	for _, d := range saleDates {
		d = valueobject.DateOf(d)
		p := report.PeriodOf(d)
		hasMonthly, ok := monthly[p]
		if !ok {
			if hasMonthly, err = s.repos.MonthlyReports().Exists(ctx, p.Year, p.Month); err != nil {
				return nil, fmt.Errorf("check monthly report %s: %w", p, err)
			}
			monthly[p] = hasMonthly
		}
		hasYearly, ok := yearly[p.Year]
		if !ok {
			if hasYearly, err = s.repos.YearlyReports().Exists(ctx, p.Year); err != nil {
				return nil, fmt.Errorf("check yearly report %d: %w", p.Year, err)
			}
			yearly[p.Year] = hasYearly
		}

		m := MissingReport{
			Date:           d,
			MissingDaily:   !haveDaily[d],
			MissingMonthly: !hasMonthly,
			MissingYearly:  !hasYearly,
		}
		if m.MissingDaily || m.MissingMonthly || m.MissingYearly {
			missing = append(missing, m)
		}
	}
	return missing, nil
}

// InitializeTracker seeds the tracker cursors from the highest existing report keys
func (s *ReportGenerationService) InitializeTracker(ctx context.Context) (*report.GenerationTracker, error) {
	var tracker *report.GenerationTracker
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		latestDaily, err := repos.DailyReports().LatestReportDate(ctx)
		if err != nil {
			return fmt.Errorf("load latest daily report: %w", err)
		}
		latestMonthly, err := repos.MonthlyReports().LatestPeriod(ctx)
		if err != nil {
			return fmt.Errorf("load latest monthly report: %w", err)
		}
		latestYear, err := repos.YearlyReports().LatestYear(ctx)
		if err != nil {
			return fmt.Errorf("load latest yearly report: %w", err)
		}

		if tracker, err = repos.Tracker().Get(ctx); err != nil {
			return fmt.Errorf("load generation tracker: %w", err)
		}
		tracker.Seed(latestDaily, latestMonthly, latestYear)
		return repos.Tracker().Save(ctx, tracker)
	})
	if err != nil {
		s.logger.Error("Tracker initialization failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Generation tracker initialized")
	return tracker, nil
}

func (s *ReportGenerationService) generateAll(ctx context.Context, repos Repositories, date time.Time) (*GenerationResult, error) {
	daily, err := s.aggregator.AggregateDaily(ctx, repos, date)
	if err != nil {
		return nil, err
	}
	monthly, err := s.aggregator.AggregateMonthly(ctx, repos, date.Year(), int(date.Month()))
	if err != nil {
		return nil, err
	}
	yearly, err := s.aggregator.AggregateYearly(ctx, repos, date.Year())
	if err != nil {
		return nil, err
	}
	return &GenerationResult{Daily: daily, Monthly: monthly, Yearly: yearly}, nil
}
