package report

import (
	"time"

	"github.com/dealership/backend/internal/domain/shared/valueobject"
)

// GenerationTracker is the singleton record of the last period generated at
// each granularity. It only detects whether a cursor has advanced; it is not
// a source of truth for which reports exist.
type GenerationTracker struct {
	LastDailyReportDate    *time.Time `json:"last_daily_report_date"`
	LastMonthlyReportYear  *int       `json:"last_monthly_report_year"`
	LastMonthlyReportMonth *int       `json:"last_monthly_report_month"`
	LastYearlyReportYear   *int       `json:"last_yearly_report_year"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// NewGenerationTracker returns a tracker with every cursor unset
func NewGenerationTracker() *GenerationTracker {
	return &GenerationTracker{}
}

// NeedsDailyReport is true when the daily cursor is unset or differs from date
func (t *GenerationTracker) NeedsDailyReport(date time.Time) bool {
	if t.LastDailyReportDate == nil {
		return true
	}
	return !valueobject.SameDate(*t.LastDailyReportDate, date)
}

// NeedsMonthlyReport is true when the monthly cursor is unset or differs from (year, month)
func (t *GenerationTracker) NeedsMonthlyReport(year, month int) bool {
	if t.LastMonthlyReportYear == nil || t.LastMonthlyReportMonth == nil {
		return true
	}
	return *t.LastMonthlyReportYear != year || *t.LastMonthlyReportMonth != month
}

// NeedsYearlyReport is true when the yearly cursor is unset or differs from year
func (t *GenerationTracker) NeedsYearlyReport(year int) bool {
	if t.LastYearlyReportYear == nil {
		return true
	}
	return *t.LastYearlyReportYear != year
}

// UpdateLastDailyReportDate overwrites the daily cursor
func (t *GenerationTracker) UpdateLastDailyReportDate(date time.Time) {
	d := valueobject.DateOf(date)
	t.LastDailyReportDate = &d
}

// UpdateLastMonthlyReportDate overwrites the monthly cursor
func (t *GenerationTracker) UpdateLastMonthlyReportDate(year, month int) {
	t.LastMonthlyReportYear = &year
	t.LastMonthlyReportMonth = &month
}

// UpdateLastYearlyReportDate overwrites the yearly cursor
func (t *GenerationTracker) UpdateLastYearlyReportDate(year int) {
	t.LastYearlyReportYear = &year
}

// Seed sets each cursor whose latest key is known. Nil inputs leave the cursor untouched.
func (t *GenerationTracker) Seed(latestDaily *time.Time, latestMonthly *Period, latestYear *int) {
	if latestDaily != nil {
		t.UpdateLastDailyReportDate(*latestDaily)
	}
	if latestMonthly != nil {
		t.UpdateLastMonthlyReportDate(latestMonthly.Year, latestMonthly.Month)
	}
	if latestYear != nil {
		t.UpdateLastYearlyReportDate(*latestYear)
	}
}
