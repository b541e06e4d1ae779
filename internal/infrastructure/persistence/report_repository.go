package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDailyReportRepository implements DailyReportRepository using GORM
type GormDailyReportRepository struct {
	db *gorm.DB
}

// NewGormDailyReportRepository creates a new GormDailyReportRepository
func NewGormDailyReportRepository(db *gorm.DB) *GormDailyReportRepository {
	return &GormDailyReportRepository{db: db}
}

// FindByDate returns the report for a date
func (r *GormDailyReportRepository) FindByDate(ctx context.Context, date time.Time) (*report.DailyReport, error) {
	var model models.DailyReportModel
	if err := r.db.WithContext(ctx).Where("report_date = ?", date).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDateRange returns the reports dated in [from, to], ascending
func (r *GormDailyReportRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]report.DailyReport, error) {
	var rows []models.DailyReportModel
	if err := r.db.WithContext(ctx).
		Where("report_date >= ? AND report_date <= ?", from, to).
		Order("report_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]report.DailyReport, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// ExistsForDate checks if a report exists for the date
func (r *GormDailyReportRepository) ExistsForDate(ctx context.Context, date time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DailyReportModel{}).
		Where("report_date = ?", date).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindReportDates returns the dates in [from, to] that have a report
func (r *GormDailyReportRepository) FindReportDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	if err := r.db.WithContext(ctx).Model(&models.DailyReportModel{}).
		Where("report_date >= ? AND report_date <= ?", from, to).
		Order("report_date ASC").
		Pluck("report_date", &dates).Error; err != nil {
		return nil, err
	}
	return normalizeDates(dates), nil
}

// LatestReportDate returns the highest report date, or nil when the table is empty
func (r *GormDailyReportRepository) LatestReportDate(ctx context.Context) (*time.Time, error) {
	var rows []models.DailyReportModel
	if err := r.db.WithContext(ctx).Order("report_date DESC").Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	latest := rows[0].ToDomain().ReportDate
	return &latest, nil
}

// Upsert inserts or fully overwrites the report for its date
func (r *GormDailyReportRepository) Upsert(ctx context.Context, rep *report.DailyReport) error {
	model := models.DailyReportModelFromDomain(rep)
	stampReport(&model.ReportTimestamps)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "report_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_sales", "total_revenue", "total_profit", "avg_profit_per_sale",
			"most_profitable_car_id", "highest_single_profit", "updated_at",
		}),
	}).Create(model).Error; err != nil {
		return err
	}
	rep.CreatedAt, rep.UpdatedAt = model.CreatedAt, model.UpdatedAt
	return nil
}

// GormMonthlyReportRepository implements MonthlyReportRepository using GORM
type GormMonthlyReportRepository struct {
	db *gorm.DB
}

// NewGormMonthlyReportRepository creates a new GormMonthlyReportRepository
func NewGormMonthlyReportRepository(db *gorm.DB) *GormMonthlyReportRepository {
	return &GormMonthlyReportRepository{db: db}
}

// FindByYearMonth returns the report for a month
func (r *GormMonthlyReportRepository) FindByYearMonth(ctx context.Context, year, month int) (*report.MonthlyReport, error) {
	var model models.MonthlyReportModel
	if err := r.db.WithContext(ctx).Where("year = ? AND month = ?", year, month).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByYear returns the year's reports ordered by month
func (r *GormMonthlyReportRepository) FindByYear(ctx context.Context, year int) ([]report.MonthlyReport, error) {
	var rows []models.MonthlyReportModel
	if err := r.db.WithContext(ctx).Where("year = ?", year).Order("month ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]report.MonthlyReport, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Exists checks if a report exists for the month
func (r *GormMonthlyReportRepository) Exists(ctx context.Context, year, month int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.MonthlyReportModel{}).
		Where("year = ? AND month = ?", year, month).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LatestPeriod returns the highest (year, month), or nil when the table is empty
func (r *GormMonthlyReportRepository) LatestPeriod(ctx context.Context) (*report.Period, error) {
	var rows []models.MonthlyReportModel
	if err := r.db.WithContext(ctx).
		Order("year DESC").Order("month DESC").
		Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &report.Period{Year: rows[0].Year, Month: rows[0].Month}, nil
}

// Upsert inserts or overwrites the report for its month. An existing row keeps its finance_cost.
func (r *GormMonthlyReportRepository) Upsert(ctx context.Context, rep *report.MonthlyReport) error {
	model := models.MonthlyReportModelFromDomain(rep)
	stampReport(&model.ReportTimestamps)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"start_date", "end_date", "total_sales", "total_revenue", "total_profit",
			"avg_daily_profit", "best_day", "best_day_profit", "profit_margin",
			"total_finance_cost", "net_profit", "source", "updated_at",
		}),
	}).Create(model).Error; err != nil {
		return err
	}
	rep.CreatedAt, rep.UpdatedAt = model.CreatedAt, model.UpdatedAt
	return nil
}

// UpdateFinanceTotals rewrites total_finance_cost and net_profit of one month
func (r *GormMonthlyReportRepository) UpdateFinanceTotals(ctx context.Context, year, month int, totalFinanceCost, netProfit decimal.Decimal) error {
	return r.updateColumns(ctx, year, month, map[string]any{
		"total_finance_cost": totalFinanceCost,
		"net_profit":         netProfit,
	})
}

// UpdateFinanceCost rewrites the informational finance_cost of one month
func (r *GormMonthlyReportRepository) UpdateFinanceCost(ctx context.Context, year, month int, financeCost decimal.Decimal) error {
	return r.updateColumns(ctx, year, month, map[string]any{
		"finance_cost": financeCost,
	})
}

func (r *GormMonthlyReportRepository) updateColumns(ctx context.Context, year, month int, values map[string]any) error {
	values["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.MonthlyReportModel{}).
		Where("year = ? AND month = ?", year, month).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormYearlyReportRepository implements YearlyReportRepository using GORM
type GormYearlyReportRepository struct {
	db *gorm.DB
}

// NewGormYearlyReportRepository creates a new GormYearlyReportRepository
func NewGormYearlyReportRepository(db *gorm.DB) *GormYearlyReportRepository {
	return &GormYearlyReportRepository{db: db}
}

// FindByYear returns the report for a year
func (r *GormYearlyReportRepository) FindByYear(ctx context.Context, year int) (*report.YearlyReport, error) {
	var model models.YearlyReportModel
	if err := r.db.WithContext(ctx).Where("year = ?", year).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every yearly report ordered by year
func (r *GormYearlyReportRepository) FindAll(ctx context.Context) ([]report.YearlyReport, error) {
	var rows []models.YearlyReportModel
	if err := r.db.WithContext(ctx).Order("year ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]report.YearlyReport, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Exists checks if a report exists for the year
func (r *GormYearlyReportRepository) Exists(ctx context.Context, year int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.YearlyReportModel{}).
		Where("year = ?", year).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LatestYear returns the highest year, or nil when the table is empty
func (r *GormYearlyReportRepository) LatestYear(ctx context.Context) (*int, error) {
	var rows []models.YearlyReportModel
	if err := r.db.WithContext(ctx).Order("year DESC").Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	year := rows[0].Year
	return &year, nil
}

// Upsert inserts or fully overwrites the report for its year
func (r *GormYearlyReportRepository) Upsert(ctx context.Context, rep *report.YearlyReport) error {
	model := models.YearlyReportModelFromDomain(rep)
	stampReport(&model.ReportTimestamps)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_sales", "total_revenue", "total_profit", "avg_monthly_profit",
			"best_month", "best_month_profit", "profit_margin", "yoy_growth",
			"finance_cost", "total_finance_cost", "total_net_profit", "source", "updated_at",
		}),
	}).Create(model).Error; err != nil {
		return err
	}
	rep.CreatedAt, rep.UpdatedAt = model.CreatedAt, model.UpdatedAt
	return nil
}

// GormGenerationTrackerRepository implements GenerationTrackerRepository using GORM
type GormGenerationTrackerRepository struct {
	db *gorm.DB
}

// NewGormGenerationTrackerRepository creates a new GormGenerationTrackerRepository
func NewGormGenerationTrackerRepository(db *gorm.DB) *GormGenerationTrackerRepository {
	return &GormGenerationTrackerRepository{db: db}
}

// Get returns the tracker row, inserting an empty one first if it is missing
func (r *GormGenerationTrackerRepository) Get(ctx context.Context) (*report.GenerationTracker, error) {
	empty := &models.GenerationTrackerModel{ID: models.TrackerID, UpdatedAt: time.Now().UTC()}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(empty).Error; err != nil {
		return nil, err
	}

	var model models.GenerationTrackerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", models.TrackerID).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save overwrites the tracker cursors
func (r *GormGenerationTrackerRepository) Save(ctx context.Context, t *report.GenerationTracker) error {
	t.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(models.GenerationTrackerModelFromDomain(t)).Error
}

// stampReport sets the audit timestamps of a report row about to be written.
// created_at is excluded from conflict updates, so an existing row keeps its original value.
func stampReport(ts *models.ReportTimestamps) {
	now := time.Now().UTC()
	if ts.CreatedAt.IsZero() {
		ts.CreatedAt = now
	}
	ts.UpdatedAt = now
}

var (
	_ report.DailyReportRepository       = (*GormDailyReportRepository)(nil)
	_ report.MonthlyReportRepository     = (*GormMonthlyReportRepository)(nil)
	_ report.YearlyReportRepository      = (*GormYearlyReportRepository)(nil)
	_ report.GenerationTrackerRepository = (*GormGenerationTrackerRepository)(nil)
)
