package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dealership/backend/internal/domain/finance"
	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// Aggregator recomputes one report at a time from the current facts and upserts it.
// Every call reads the full fact set for its period, so reruns converge.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates an Aggregator
func NewAggregator(logger *zap.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// AggregateDaily rolls up the sales of one date and upserts the daily report.
// A date without sales still produces an empty report.
func (a *Aggregator) AggregateDaily(ctx context.Context, repos Repositories, date time.Time) (*report.DailyReport, error) {
	date = valueobject.DateOf(date)
	day := valueobject.FormatDate(date)

	facts, err := repos.Sales().FindByDateRange(ctx, date, date)
	if err != nil {
		return nil, fmt.Errorf("load sales for %s: %w", day, err)
	}

	r := report.CalculateDailyReport(date, facts)
	if err := repos.DailyReports().Upsert(ctx, r); err != nil {
		return nil, fmt.Errorf("upsert daily report %s: %w", day, err)
	}

	a.logger.Debug("Daily report aggregated",
		zap.String("report_date", day),
		zap.Int("total_sales", r.TotalSales),
		zap.String("total_profit", r.TotalProfit.String()),
	)
	return r, nil
}

// AggregateMonthly rolls up a month and upserts the monthly report.
// It sums the month's daily reports when any exist and regroups raw sales otherwise.
func (a *Aggregator) AggregateMonthly(ctx context.Context, repos Repositories, year, month int) (*report.MonthlyReport, error) {
	start, end, err := report.MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	period := report.Period{Year: year, Month: month}

	dailies, err := repos.DailyReports().FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load daily reports for %s: %w", period, err)
	}
	records, err := repos.FinanceRecords().FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load finance records for %s: %w", period, err)
	}
	financeCost := finance.TotalCost(records)

	hasSubPeriodReports := len(dailies) > 0
	var r *report.MonthlyReport
	if hasSubPeriodReports {
		r, err = report.MonthlyFromDailyReports(year, month, dailies, financeCost)
	} else {
		facts, loadErr := repos.Sales().FindByDateRange(ctx, start, end)
		if loadErr != nil {
			return nil, fmt.Errorf("load sales for %s: %w", period, loadErr)
		}
		if len(facts) > 0 {
			a.logger.Warn("No daily reports for month, aggregating from raw sales",
				zap.Int("year", year),
				zap.Int("month", month),
				zap.Int("sales", len(facts)),
			)
		}
		r, err = report.MonthlyFromSales(year, month, facts, financeCost)
	}
	if err != nil {
		return nil, err
	}

	existing, err := repos.MonthlyReports().FindByYearMonth(ctx, year, month)
	switch {
	case err == nil:
		r.FinanceCost = existing.FinanceCost
	case !errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("load monthly report %s: %w", period, err)
	}

	if err := repos.MonthlyReports().Upsert(ctx, r); err != nil {
		return nil, fmt.Errorf("upsert monthly report %s: %w", period, err)
	}

	a.logger.Debug("Monthly report aggregated",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.String("source", string(r.Source)),
		zap.Int("total_sales", r.TotalSales),
		zap.String("net_profit", r.NetProfit.String()),
	)
	return r, nil
}

// AggregateYearly rolls up a year and upserts the yearly report, including
// growth against the prior year's report when one exists.
func (a *Aggregator) AggregateYearly(ctx context.Context, repos Repositories, year int) (*report.YearlyReport, error) {
	start, end, err := report.YearRange(year)
	if err != nil {
		return nil, err
	}

	monthlies, err := repos.MonthlyReports().FindByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("load monthly reports for %d: %w", year, err)
	}

	hasSubPeriodReports := len(monthlies) > 0
	var r *report.YearlyReport
	if hasSubPeriodReports {
		r, err = report.YearlyFromMonthlyReports(year, monthlies)
	} else {
		r, err = a.yearlyFromFacts(ctx, repos, year, start, end)
	}
	if err != nil {
		return nil, err
	}

	prior, err := repos.YearlyReports().FindByYear(ctx, year-1)
	switch {
	case err == nil:
		r.ApplyPriorYear(prior)
	case errors.Is(err, shared.ErrNotFound):
		r.ApplyPriorYear(nil)
	default:
		return nil, fmt.Errorf("load yearly report %d: %w", year-1, err)
	}

	if err := repos.YearlyReports().Upsert(ctx, r); err != nil {
		return nil, fmt.Errorf("upsert yearly report %d: %w", year, err)
	}

	a.logger.Debug("Yearly report aggregated",
		zap.Int("year", year),
		zap.String("source", string(r.Source)),
		zap.Int("total_sales", r.TotalSales),
		zap.String("total_net_profit", r.TotalNetProfit.String()),
	)
	return r, nil
}

func (a *Aggregator) yearlyFromFacts(ctx context.Context, repos Repositories, year int, start, end time.Time) (*report.YearlyReport, error) {
	facts, err := repos.Sales().FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load sales for %d: %w", year, err)
	}
	records, err := repos.FinanceRecords().FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load finance records for %d: %w", year, err)
	}
	if len(facts) > 0 {
		a.logger.Warn("No monthly reports for year, aggregating from raw sales",
			zap.Int("year", year),
			zap.Int("sales", len(facts)),
		)
	}
	return report.YearlyFromSales(year, facts, finance.TotalCost(records))
}
