package persistence

import (
	"context"

	appreport "github.com/dealership/backend/internal/application/report"
	"github.com/dealership/backend/internal/domain/finance"
	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every report write of one engine operation commits or rolls back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appreport.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormRepositories(tx))
	})
}

// GormRepositories provides every report engine repository bound to one *gorm.DB,
// which is either the root connection or an open transaction.
type GormRepositories struct {
	db *gorm.DB
}

// NewGormRepositories binds the repository set to db
func NewGormRepositories(db *gorm.DB) *GormRepositories {
	return &GormRepositories{db: db}
}

// Sales returns the sale repository
func (r *GormRepositories) Sales() sales.SaleRepository {
	return NewGormSaleRepository(r.db)
}

// FinanceRecords returns the finance record repository
func (r *GormRepositories) FinanceRecords() finance.FinanceRecordRepository {
	return NewGormFinanceRecordRepository(r.db)
}

// DailyReports returns the daily report repository
func (r *GormRepositories) DailyReports() report.DailyReportRepository {
	return NewGormDailyReportRepository(r.db)
}

// MonthlyReports returns the monthly report repository
func (r *GormRepositories) MonthlyReports() report.MonthlyReportRepository {
	return NewGormMonthlyReportRepository(r.db)
}

// YearlyReports returns the yearly report repository
func (r *GormRepositories) YearlyReports() report.YearlyReportRepository {
	return NewGormYearlyReportRepository(r.db)
}

// Tracker returns the generation tracker repository
func (r *GormRepositories) Tracker() report.GenerationTrackerRepository {
	return NewGormGenerationTrackerRepository(r.db)
}

var (
	_ appreport.TransactionScope = (*GormTransactionScope)(nil)
	_ appreport.Repositories     = (*GormRepositories)(nil)
)
