package finance

import (
	"context"
	"time"

	"github.com/dealership/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FinanceRecordFilter defines filtering options for finance record listings
type FinanceRecordFilter struct {
	shared.Filter
	FromDate *time.Time
	ToDate   *time.Time
	Type     *RecordType
	Category string
}

// FinanceRecordRepository defines persistence for finance records
type FinanceRecordRepository interface {
	// FindByID finds a finance record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FinanceRecord, error)

	// FindAll lists finance records matching the filter
	FindAll(ctx context.Context, filter FinanceRecordFilter) ([]FinanceRecord, int64, error)

	// FindByDateRange returns the records dated in [from, to]
	FindByDateRange(ctx context.Context, from, to time.Time) ([]FinanceRecord, error)

	// Save creates or updates a finance record
	Save(ctx context.Context, record *FinanceRecord) error

	// Delete removes a finance record
	Delete(ctx context.Context, id uuid.UUID) error
}
