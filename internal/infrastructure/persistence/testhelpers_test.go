package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/dealership/backend/internal/domain/finance"
	"github.com/dealership/backend/internal/domain/sales"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens an in-memory database with the report schema.
// A single connection keeps every statement on the same in-memory database.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Discard,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, AutoMigrate(db))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return valueobject.NewDate(y, m, d)
}

func insertSale(t *testing.T, db *gorm.DB, date time.Time, price, cost string) *sales.Sale {
	t.Helper()
	s, err := sales.NewSale(sales.SaleDetails{
		CarID:        uuid.New(),
		BuyerID:      uuid.New(),
		SalePrice:    dec(price),
		PurchaseCost: dec(cost),
		SaleDate:     date,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormSaleRepository(db).Save(context.Background(), s))
	return s
}

func insertFinance(t *testing.T, db *gorm.DB, date time.Time, cost string) *finance.FinanceRecord {
	t.Helper()
	rec, err := finance.NewFinanceRecord(finance.RecordTypeFloorPlan, "floor plan interest", dec(cost), date, "")
	require.NoError(t, err)
	require.NoError(t, NewGormFinanceRecordRepository(db).Save(context.Background(), rec))
	return rec
}
