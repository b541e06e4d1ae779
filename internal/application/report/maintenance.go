package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/dealership/backend/internal/domain/finance"
	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FinanceRecomputeResult describes a finance cost recompute over one year
type FinanceRecomputeResult struct {
	Year          int                  `json:"year"`
	MonthsUpdated int                  `json:"months_updated"`
	MonthsFailed  int                  `json:"months_failed"`
	Errors        []BatchError         `json:"errors,omitempty"`
	Yearly        *report.YearlyReport `json:"yearly,omitempty"`
}

// RecomputeFinanceCosts refreshes TotalFinanceCost and NetProfit of every monthly
// report in year from current finance records, leaving other fields untouched,
// then re-aggregates the year. Each month commits on its own.
func (s *ReportGenerationService) RecomputeFinanceCosts(ctx context.Context, year int) (*FinanceRecomputeResult, error) {
	if err := report.ValidateYear(year); err != nil {
		return nil, err
	}

	result := &FinanceRecomputeResult{Year: year}
	for month := 1; month <= 12; month++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		updated, err := s.recomputeMonthFinance(ctx, year, month)
		if err != nil {
			result.MonthsFailed++
			result.Errors = append(result.Errors, BatchError{
				Date:  report.Period{Year: year, Month: month}.String(),
				Error: err.Error(),
			})
			s.logger.Error("Finance cost recompute failed",
				zap.Int("year", year),
				zap.Int("month", month),
				zap.Error(err),
			)
			continue
		}
		if updated {
			result.MonthsUpdated++
		}
	}

	yearlyExists, err := s.repos.YearlyReports().Exists(ctx, year)
	if err != nil {
		return result, fmt.Errorf("check yearly report %d: %w", year, err)
	}
	if result.MonthsUpdated > 0 || yearlyExists {
		err := s.scope.Execute(ctx, func(repos Repositories) error {
			var err error
			result.Yearly, err = s.aggregator.AggregateYearly(ctx, repos, year)
			return err
		})
		if err != nil {
			s.logger.Error("Yearly re-aggregation after finance recompute failed", zap.Int("year", year), zap.Error(err))
			return result, err
		}
	}

	s.logger.Info("Finance costs recomputed",
		zap.Int("year", year),
		zap.Int("months_updated", result.MonthsUpdated),
		zap.Int("months_failed", result.MonthsFailed),
	)
	return result, nil
}

func (s *ReportGenerationService) recomputeMonthFinance(ctx context.Context, year, month int) (bool, error) {
	start, end, err := report.MonthRange(year, month)
	if err != nil {
		return false, err
	}

	updated := false
	err = s.scope.Execute(ctx, func(repos Repositories) error {
		monthly, err := repos.MonthlyReports().FindByYearMonth(ctx, year, month)
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		records, err := repos.FinanceRecords().FindByDateRange(ctx, start, end)
		if err != nil {
			return err
		}
		monthly.ApplyFinanceCost(finance.TotalCost(records))
		if err := repos.MonthlyReports().UpdateFinanceTotals(ctx, year, month, monthly.TotalFinanceCost, monthly.NetProfit); err != nil {
			return err
		}
		updated = true
		return nil
	})
	return updated, err
}

// SetMonthlyFinanceEstimate records the informational finance cost of an
// existing monthly report and refreshes the year's totals. Net profit is unaffected.
func (s *ReportGenerationService) SetMonthlyFinanceEstimate(ctx context.Context, year, month int, amount decimal.Decimal) (*report.MonthlyReport, error) {
	if err := report.ValidateMonth(year, month); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FINANCE_COST", "Finance cost cannot be negative")
	}

	var monthly *report.MonthlyReport
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		var err error
		if monthly, err = repos.MonthlyReports().FindByYearMonth(ctx, year, month); err != nil {
			return err
		}
		monthly.FinanceCost = valueobject.RoundMoney(amount)
		if err := repos.MonthlyReports().UpdateFinanceCost(ctx, year, month, monthly.FinanceCost); err != nil {
			return err
		}
		_, err = s.aggregator.AggregateYearly(ctx, repos, year)
		return err
	})
	if err != nil {
		return nil, err
	}
	return monthly, nil
}
