package report

import (
	"context"

	"github.com/dealership/backend/internal/domain/finance"
	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/sales"
)

// TransactionScope runs a unit of work against transaction-bound repositories.
// If fn returns an error, every write made through repos is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories groups the stores the report engine reads and writes.
// Implementations returned inside TransactionScope.Execute share one transaction.
type Repositories interface {
	Sales() sales.SaleRepository
	FinanceRecords() finance.FinanceRecordRepository
	DailyReports() report.DailyReportRepository
	MonthlyReports() report.MonthlyReportRepository
	YearlyReports() report.YearlyReportRepository
	Tracker() report.GenerationTrackerRepository
}

// NoOpTransactionScope runs fn directly against a fixed repository set.
// It is used in tests with in-memory repositories.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a scope that hands repos to fn unchanged
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute calls fn with the wrapped repositories
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos Repositories) error) error {
	return fn(s.repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
