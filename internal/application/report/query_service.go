package report

import (
	"context"
	"time"

	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
)

// ReportQueryService serves persisted reports and tracker state
type ReportQueryService struct {
	repos Repositories
}

// NewReportQueryService creates a ReportQueryService
func NewReportQueryService(repos Repositories) *ReportQueryService {
	return &ReportQueryService{repos: repos}
}

// GetDailyReport returns the report for date, or a NOT_FOUND domain error
func (s *ReportQueryService) GetDailyReport(ctx context.Context, date time.Time) (*report.DailyReport, error) {
	return s.repos.DailyReports().FindByDate(ctx, valueobject.DateOf(date))
}

// GetMonthlyReport returns the report for (year, month)
func (s *ReportQueryService) GetMonthlyReport(ctx context.Context, year, month int) (*report.MonthlyReport, error) {
	if err := report.ValidateMonth(year, month); err != nil {
		return nil, err
	}
	return s.repos.MonthlyReports().FindByYearMonth(ctx, year, month)
}

// GetYearlyReport returns the report for year
func (s *ReportQueryService) GetYearlyReport(ctx context.Context, year int) (*report.YearlyReport, error) {
	if err := report.ValidateYear(year); err != nil {
		return nil, err
	}
	return s.repos.YearlyReports().FindByYear(ctx, year)
}

// ListDailyReports returns daily reports dated in [from, to]
func (s *ReportQueryService) ListDailyReports(ctx context.Context, from, to time.Time) ([]report.DailyReport, error) {
	if err := report.ValidateDateRange(from, to); err != nil {
		return nil, err
	}
	return s.repos.DailyReports().FindByDateRange(ctx, valueobject.DateOf(from), valueobject.DateOf(to))
}

// ListMonthlyReports returns a year's monthly reports ordered by month
func (s *ReportQueryService) ListMonthlyReports(ctx context.Context, year int) ([]report.MonthlyReport, error) {
	if err := report.ValidateYear(year); err != nil {
		return nil, err
	}
	return s.repos.MonthlyReports().FindByYear(ctx, year)
}

// ListYearlyReports returns every yearly report ordered by year
func (s *ReportQueryService) ListYearlyReports(ctx context.Context) ([]report.YearlyReport, error) {
	return s.repos.YearlyReports().FindAll(ctx)
}

// GetTracker returns the generation tracker, creating it if absent
func (s *ReportQueryService) GetTracker(ctx context.Context) (*report.GenerationTracker, error) {
	return s.repos.Tracker().Get(ctx)
}
