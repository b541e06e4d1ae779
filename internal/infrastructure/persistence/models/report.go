package models

import (
	"time"

	"github.com/dealership/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrackerID is the primary key of the single generation tracker row
const TrackerID = 1

// DailyReportModel is the persistence model for a daily report, keyed by date.
type DailyReportModel struct {
	ReportDate          time.Time        `gorm:"type:date;primaryKey"`
	TotalSales          int              `gorm:"not null;default:0"`
	TotalRevenue        decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	TotalProfit         decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	AvgProfitPerSale    decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	MostProfitableCarID *uuid.UUID       `gorm:"type:uuid"`
	HighestSingleProfit *decimal.Decimal `gorm:"type:decimal(18,2)"`
	ReportTimestamps
}

// TableName returns the table name for GORM
func (DailyReportModel) TableName() string {
	return "daily_reports"
}

// ToDomain converts the persistence model to a domain DailyReport
func (m *DailyReportModel) ToDomain() *report.DailyReport {
	return &report.DailyReport{
		ReportDate:          utcDate(m.ReportDate),
		TotalSales:          m.TotalSales,
		TotalRevenue:        m.TotalRevenue,
		TotalProfit:         m.TotalProfit,
		AvgProfitPerSale:    m.AvgProfitPerSale,
		MostProfitableCarID: m.MostProfitableCarID,
		HighestSingleProfit: m.HighestSingleProfit,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// DailyReportModelFromDomain creates a new persistence model from a domain DailyReport
func DailyReportModelFromDomain(r *report.DailyReport) *DailyReportModel {
	return &DailyReportModel{
		ReportDate:          r.ReportDate,
		TotalSales:          r.TotalSales,
		TotalRevenue:        r.TotalRevenue,
		TotalProfit:         r.TotalProfit,
		AvgProfitPerSale:    r.AvgProfitPerSale,
		MostProfitableCarID: r.MostProfitableCarID,
		HighestSingleProfit: r.HighestSingleProfit,
		ReportTimestamps:    ReportTimestamps{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}

// MonthlyReportModel is the persistence model for a monthly report, keyed by (year, month).
type MonthlyReportModel struct {
	Year             int                      `gorm:"primaryKey;autoIncrement:false"`
	Month            int                      `gorm:"primaryKey;autoIncrement:false"`
	StartDate        time.Time                `gorm:"type:date;not null"`
	EndDate          time.Time                `gorm:"type:date;not null"`
	TotalSales       int                      `gorm:"not null;default:0"`
	TotalRevenue     decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	TotalProfit      decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	AvgDailyProfit   decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	BestDay          *time.Time               `gorm:"type:date"`
	BestDayProfit    *decimal.Decimal         `gorm:"type:decimal(18,2)"`
	ProfitMargin     decimal.Decimal          `gorm:"type:decimal(9,2);not null"`
	FinanceCost      decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	TotalFinanceCost decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	NetProfit        decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Source           report.AggregationSource `gorm:"type:varchar(30);not null"`
	ReportTimestamps
}

// TableName returns the table name for GORM
func (MonthlyReportModel) TableName() string {
	return "monthly_reports"
}

// ToDomain converts the persistence model to a domain MonthlyReport
func (m *MonthlyReportModel) ToDomain() *report.MonthlyReport {
	var bestDay *time.Time
	if m.BestDay != nil {
		d := utcDate(*m.BestDay)
		bestDay = &d
	}
	return &report.MonthlyReport{
		Year:             m.Year,
		Month:            m.Month,
		StartDate:        utcDate(m.StartDate),
		EndDate:          utcDate(m.EndDate),
		TotalSales:       m.TotalSales,
		TotalRevenue:     m.TotalRevenue,
		TotalProfit:      m.TotalProfit,
		AvgDailyProfit:   m.AvgDailyProfit,
		BestDay:          bestDay,
		BestDayProfit:    m.BestDayProfit,
		ProfitMargin:     m.ProfitMargin,
		FinanceCost:      m.FinanceCost,
		TotalFinanceCost: m.TotalFinanceCost,
		NetProfit:        m.NetProfit,
		Source:           m.Source,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// MonthlyReportModelFromDomain creates a new persistence model from a domain MonthlyReport
func MonthlyReportModelFromDomain(r *report.MonthlyReport) *MonthlyReportModel {
	return &MonthlyReportModel{
		Year:             r.Year,
		Month:            r.Month,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		TotalSales:       r.TotalSales,
		TotalRevenue:     r.TotalRevenue,
		TotalProfit:      r.TotalProfit,
		AvgDailyProfit:   r.AvgDailyProfit,
		BestDay:          r.BestDay,
		BestDayProfit:    r.BestDayProfit,
		ProfitMargin:     r.ProfitMargin,
		FinanceCost:      r.FinanceCost,
		TotalFinanceCost: r.TotalFinanceCost,
		NetProfit:        r.NetProfit,
		Source:           r.Source,
		ReportTimestamps: ReportTimestamps{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}

// YearlyReportModel is the persistence model for a yearly report, keyed by year.
type YearlyReportModel struct {
	Year             int             `gorm:"primaryKey;autoIncrement:false"`
	TotalSales       int             `gorm:"not null;default:0"`
	TotalRevenue     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalProfit      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	AvgMonthlyProfit decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	BestMonth        *int
	BestMonthProfit  *decimal.Decimal         `gorm:"type:decimal(18,2)"`
	ProfitMargin     decimal.Decimal          `gorm:"type:decimal(9,2);not null"`
	YoYGrowth        *decimal.Decimal         `gorm:"column:yoy_growth;type:decimal(12,2)"`
	FinanceCost      decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	TotalFinanceCost decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	TotalNetProfit   decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Source           report.AggregationSource `gorm:"type:varchar(30);not null"`
	ReportTimestamps
}

// TableName returns the table name for GORM
func (YearlyReportModel) TableName() string {
	return "yearly_reports"
}

// ToDomain converts the persistence model to a domain YearlyReport
func (m *YearlyReportModel) ToDomain() *report.YearlyReport {
	return &report.YearlyReport{
		Year:             m.Year,
		TotalSales:       m.TotalSales,
		TotalRevenue:     m.TotalRevenue,
		TotalProfit:      m.TotalProfit,
		AvgMonthlyProfit: m.AvgMonthlyProfit,
		BestMonth:        m.BestMonth,
		BestMonthProfit:  m.BestMonthProfit,
		ProfitMargin:     m.ProfitMargin,
		YoYGrowth:        m.YoYGrowth,
		FinanceCost:      m.FinanceCost,
		TotalFinanceCost: m.TotalFinanceCost,
		TotalNetProfit:   m.TotalNetProfit,
		Source:           m.Source,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// YearlyReportModelFromDomain creates a new persistence model from a domain YearlyReport
func YearlyReportModelFromDomain(r *report.YearlyReport) *YearlyReportModel {
	return &YearlyReportModel{
		Year:             r.Year,
		TotalSales:       r.TotalSales,
		TotalRevenue:     r.TotalRevenue,
		TotalProfit:      r.TotalProfit,
		AvgMonthlyProfit: r.AvgMonthlyProfit,
		BestMonth:        r.BestMonth,
		BestMonthProfit:  r.BestMonthProfit,
		ProfitMargin:     r.ProfitMargin,
		YoYGrowth:        r.YoYGrowth,
		FinanceCost:      r.FinanceCost,
		TotalFinanceCost: r.TotalFinanceCost,
		TotalNetProfit:   r.TotalNetProfit,
		Source:           r.Source,
		ReportTimestamps: ReportTimestamps{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}

// GenerationTrackerModel is the single-row table holding the generation cursors.
type GenerationTrackerModel struct {
	ID                     int        `gorm:"primaryKey;autoIncrement:false"`
	LastDailyReportDate    *time.Time `gorm:"type:date"`
	LastMonthlyReportYear  *int
	LastMonthlyReportMonth *int
	LastYearlyReportYear   *int
	UpdatedAt              time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (GenerationTrackerModel) TableName() string {
	return "report_generation_tracker"
}

// ToDomain converts the persistence model to a domain GenerationTracker
func (m *GenerationTrackerModel) ToDomain() *report.GenerationTracker {
	t := &report.GenerationTracker{
		LastMonthlyReportYear:  m.LastMonthlyReportYear,
		LastMonthlyReportMonth: m.LastMonthlyReportMonth,
		LastYearlyReportYear:   m.LastYearlyReportYear,
		UpdatedAt:              m.UpdatedAt,
	}
	if m.LastDailyReportDate != nil {
		d := utcDate(*m.LastDailyReportDate)
		t.LastDailyReportDate = &d
	}
	return t
}

// GenerationTrackerModelFromDomain creates the singleton row from a domain GenerationTracker
func GenerationTrackerModelFromDomain(t *report.GenerationTracker) *GenerationTrackerModel {
	return &GenerationTrackerModel{
		ID:                     TrackerID,
		LastDailyReportDate:    t.LastDailyReportDate,
		LastMonthlyReportYear:  t.LastMonthlyReportYear,
		LastMonthlyReportMonth: t.LastMonthlyReportMonth,
		LastYearlyReportYear:   t.LastYearlyReportYear,
		UpdatedAt:              t.UpdatedAt,
	}
}

// AllModels lists every model for AutoMigrate in tests
func AllModels() []any {
	return []any{
		&SaleModel{},
		&FinanceRecordModel{},
		&DailyReportModel{},
		&MonthlyReportModel{},
		&YearlyReportModel{},
		&GenerationTrackerModel{},
	}
}
