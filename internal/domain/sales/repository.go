package sales

import (
	"context"
	"time"

	"github.com/dealership/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleFilter defines filtering options for sale listings
type SaleFilter struct {
	shared.Filter
	FromDate *time.Time // inclusive
	ToDate   *time.Time // inclusive
	CarID    *uuid.UUID
	BuyerID  *uuid.UUID
}

// SaleRepository defines persistence for sale facts
type SaleRepository interface {
	// FindByID finds a sale by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindAll lists sales matching the filter
	FindAll(ctx context.Context, filter SaleFilter) ([]Sale, int64, error)

	// FindByDateRange returns every sale whose date falls in [from, to], ordered by date then creation
	FindByDateRange(ctx context.Context, from, to time.Time) ([]Sale, error)

	// FindDistinctSaleDates returns the distinct sale dates in [from, to], ascending
	FindDistinctSaleDates(ctx context.Context, from, to time.Time) ([]time.Time, error)

	// CountByDate counts the sales recorded on one date
	CountByDate(ctx context.Context, date time.Time) (int64, error)

	// Save creates or updates a sale
	Save(ctx context.Context, sale *Sale) error

	// Delete removes a sale
	Delete(ctx context.Context, id uuid.UUID) error
}
