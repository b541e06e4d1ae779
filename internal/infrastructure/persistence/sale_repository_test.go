package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/dealership/backend/internal/domain/finance"
	"github.com/dealership/backend/internal/domain/sales"
	"github.com/dealership/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSaleRepository_RoundTrip(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	sale := insertSale(t, db, day(2025, 3, 14), "21999.99", "18500.50")

	found, err := repo.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.CarID, found.CarID)
	assert.True(t, found.ProfitLoss.Equal(dec("3499.49")))
	assert.True(t, found.SaleDate.Equal(day(2025, 3, 14)))
	assert.Equal(t, time.UTC, found.SaleDate.Location())

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSaleRepository_DateQueries(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	insertSale(t, db, day(2025, 3, 1), "10000", "9000")
	insertSale(t, db, day(2025, 3, 1), "12000", "9000")
	insertSale(t, db, day(2025, 3, 5), "8000", "8100")
	insertSale(t, db, day(2025, 4, 1), "9000", "1000")

	inMarch, err := repo.FindByDateRange(ctx, day(2025, 3, 1), day(2025, 3, 31))
	require.NoError(t, err)
	assert.Len(t, inMarch, 3)

	dates, err := repo.FindDistinctSaleDates(ctx, day(2025, 3, 1), day(2025, 4, 30))
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.True(t, dates[0].Equal(day(2025, 3, 1)))
	assert.True(t, dates[1].Equal(day(2025, 3, 5)))
	assert.True(t, dates[2].Equal(day(2025, 4, 1)))

	count, err := repo.CountByDate(ctx, day(2025, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormSaleRepository_FindAllAndDelete(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	first := insertSale(t, db, day(2025, 1, 10), "10000", "9000")
	insertSale(t, db, day(2025, 1, 11), "10000", "9000")
	insertSale(t, db, day(2025, 2, 1), "10000", "9000")

	from := day(2025, 1, 1)
	to := day(2025, 1, 31)
	filter := sales.SaleFilter{FromDate: &from, ToDate: &to}
	filter.PageSize = 1
	filter.Page = 1
	filter.OrderBy = "sale_date"
	filter.OrderDir = "asc"

	page, total, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), shared.ErrNotFound)
}

func TestGormFinanceRecordRepository(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormFinanceRecordRepository(db)
	ctx := context.Background()

	rec := insertFinance(t, db, day(2025, 5, 3), "420.10")
	insertFinance(t, db, day(2025, 5, 20), "79.90")
	insertFinance(t, db, day(2025, 6, 1), "1000")

	may, err := repo.FindByDateRange(ctx, day(2025, 5, 1), day(2025, 5, 31))
	require.NoError(t, err)
	assert.True(t, finance.TotalCost(may).Equal(dec("500")))

	kind := finance.RecordTypeFloorPlan
	filter := finance.FinanceRecordFilter{Type: &kind}
	all, total, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	found, err := repo.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "floor plan interest", found.Category)

	require.NoError(t, repo.Delete(ctx, rec.ID))
	_, err = repo.FindByID(ctx, rec.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
