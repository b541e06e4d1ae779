package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DailyReportRepository persists daily reports keyed by report date
type DailyReportRepository interface {
	// FindByDate returns the report for a date, or shared.ErrNotFound
	FindByDate(ctx context.Context, date time.Time) (*DailyReport, error)

	// FindByDateRange returns reports dated in [from, to], ascending
	FindByDateRange(ctx context.Context, from, to time.Time) ([]DailyReport, error)

	// ExistsForDate checks if a report exists for the date
	ExistsForDate(ctx context.Context, date time.Time) (bool, error)

	// FindReportDates returns the set of dates in [from, to] that have a report
	FindReportDates(ctx context.Context, from, to time.Time) ([]time.Time, error)

	// LatestReportDate returns the highest report date, or nil when there are none
	LatestReportDate(ctx context.Context) (*time.Time, error)

	// Upsert inserts or fully overwrites the report for its date
	Upsert(ctx context.Context, r *DailyReport) error
}

// MonthlyReportRepository persists monthly reports keyed by (year, month)
type MonthlyReportRepository interface {
	// FindByYearMonth returns the report for a month, or shared.ErrNotFound
	FindByYearMonth(ctx context.Context, year, month int) (*MonthlyReport, error)

	// FindByYear returns the year's reports ordered by month
	FindByYear(ctx context.Context, year int) ([]MonthlyReport, error)

	// Exists checks if a report exists for the month
	Exists(ctx context.Context, year, month int) (bool, error)

	// LatestPeriod returns the highest (year, month) key, or nil when there are none
	LatestPeriod(ctx context.Context) (*Period, error)

	// Upsert inserts or overwrites the report for its month.
	// An existing row keeps its FinanceCost.
	Upsert(ctx context.Context, r *MonthlyReport) error

	// UpdateFinanceTotals rewrites only TotalFinanceCost and NetProfit
	UpdateFinanceTotals(ctx context.Context, year, month int, totalFinanceCost, netProfit decimal.Decimal) error

	// UpdateFinanceCost rewrites only the informational FinanceCost
	UpdateFinanceCost(ctx context.Context, year, month int, financeCost decimal.Decimal) error
}

// YearlyReportRepository persists yearly reports keyed by year
type YearlyReportRepository interface {
	// FindByYear returns the report for a year, or shared.ErrNotFound
	FindByYear(ctx context.Context, year int) (*YearlyReport, error)

	// FindAll returns every yearly report ordered by year
	FindAll(ctx context.Context) ([]YearlyReport, error)

	// Exists checks if a report exists for the year
	Exists(ctx context.Context, year int) (bool, error)

	// LatestYear returns the highest year, or nil when there are none
	LatestYear(ctx context.Context) (*int, error)

	// Upsert inserts or fully overwrites the report for its year
	Upsert(ctx context.Context, r *YearlyReport) error
}

// GenerationTrackerRepository persists the singleton tracker
type GenerationTrackerRepository interface {
	// Get returns the tracker, creating an empty one if absent
	Get(ctx context.Context) (*GenerationTracker, error)

	// Save overwrites the tracker's cursors
	Save(ctx context.Context, t *GenerationTracker) error
}
