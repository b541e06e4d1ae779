//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a throwaway PostgreSQL container and applies the embedded migrations.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("dealership_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return db
}

func TestIntegration_ReportEngineOnPostgres(t *testing.T) {
	db := newPostgresDB(t)
	engine := newEngine(db)
	ctx := context.Background()

	insertSale(t, db, day(2024, 3, 10), "30000", "25000")
	insertSale(t, db, day(2025, 3, 10), "30000", "22000")
	insertSale(t, db, day(2025, 3, 11), "9000", "9500")
	insertFinance(t, db, day(2025, 3, 20), "1200")

	_, err := engine.ForceGenerateReportsForSale(ctx, day(2024, 3, 10))
	require.NoError(t, err)
	_, err = engine.RegenerateReportsForMonth(ctx, 2025, 3)
	require.NoError(t, err)

	repos := NewGormRepositories(db)
	monthly, err := repos.MonthlyReports().FindByYearMonth(ctx, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, monthly.TotalSales)
	assert.True(t, monthly.TotalProfit.Equal(dec("7500")))
	assert.True(t, monthly.TotalFinanceCost.Equal(dec("1200")))
	assert.True(t, monthly.NetProfit.Equal(dec("6300")))

	yearly, err := repos.YearlyReports().FindByYear(ctx, 2025)
	require.NoError(t, err)
	require.NotNil(t, yearly.YoYGrowth)
	assert.True(t, yearly.YoYGrowth.Equal(dec("50")), "got %s", yearly.YoYGrowth)

	tracker, err := repos.Tracker().Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, tracker.LastDailyReportDate)
}

func TestIntegration_MonthlyUpsertKeepsFinanceEstimate(t *testing.T) {
	db := newPostgresDB(t)
	engine := newEngine(db)
	ctx := context.Background()

	insertSale(t, db, day(2025, 5, 2), "10000", "8000")
	_, err := engine.ForceGenerateReportsForSale(ctx, day(2025, 5, 2))
	require.NoError(t, err)

	_, err = engine.SetMonthlyFinanceEstimate(ctx, 2025, 5, dec("250"))
	require.NoError(t, err)

	insertSale(t, db, day(2025, 5, 3), "5000", "4000")
	_, err = engine.ForceGenerateReportsForSale(ctx, day(2025, 5, 3))
	require.NoError(t, err)

	monthly, err := NewGormRepositories(db).MonthlyReports().FindByYearMonth(ctx, 2025, 5)
	require.NoError(t, err)
	assert.True(t, monthly.FinanceCost.Equal(dec("250")))
	assert.Equal(t, 2, monthly.TotalSales)
}

func TestIntegration_MissingMonthlyReport(t *testing.T) {
	db := newPostgresDB(t)
	_, err := NewGormRepositories(db).MonthlyReports().FindByYearMonth(context.Background(), 1999, 1)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
