package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dealership/backend/internal/domain/finance"
	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/sales"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return valueobject.NewDate(y, m, d)
}

type fixture struct {
	store   *memoryStore
	service *ReportGenerationService
}

func newFixture(opts ...Option) *fixture {
	store := newMemoryStore()
	return &fixture{
		store:   store,
		service: NewReportGenerationService(NewNoOpTransactionScope(store), store, zap.NewNop(), opts...),
	}
}

func (f *fixture) addSale(t *testing.T, date time.Time, price, cost string) *sales.Sale {
	t.Helper()
	s, err := sales.NewSale(sales.SaleDetails{
		CarID:        uuid.New(),
		BuyerID:      uuid.New(),
		SalePrice:    dec(price),
		PurchaseCost: dec(cost),
		SaleDate:     date,
	})
	require.NoError(t, err)
	require.NoError(t, f.store.Sales().Save(context.Background(), s))
	return s
}

func (f *fixture) addFinance(t *testing.T, date time.Time, cost string) {
	t.Helper()
	rec, err := finance.NewFinanceRecord(finance.RecordTypeOperating, "rent", dec(cost), date, "")
	require.NoError(t, err)
	require.NoError(t, f.store.FinanceRecords().Save(context.Background(), rec))
}

func TestGenerateReportsForSale_ConcreteScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	date := day(2025, 6, 1)
	f.addSale(t, date, "10000", "7000")
	best := f.addSale(t, date, "15000", "11000")
	f.addSale(t, date, "8000", "8500")

	result, err := f.service.GenerateReportsForSale(ctx, date)
	require.NoError(t, err)

	daily := result.Daily
	assert.Equal(t, 3, daily.TotalSales)
	assert.True(t, daily.TotalRevenue.Equal(dec("33000")))
	assert.True(t, daily.TotalProfit.Equal(dec("6500")))
	assert.True(t, daily.AvgProfitPerSale.Equal(dec("2166.67")))
	require.NotNil(t, daily.MostProfitableCarID)
	assert.Equal(t, best.CarID, *daily.MostProfitableCarID)
	assert.True(t, daily.HighestSingleProfit.Equal(dec("4000")))

	require.NotNil(t, result.Monthly)
	assert.Equal(t, report.SourceSubPeriodReports, result.Monthly.Source)
	assert.Equal(t, 3, result.Monthly.TotalSales)
	require.NotNil(t, result.Yearly)
	assert.Equal(t, report.SourceSubPeriodReports, result.Yearly.Source)
	assert.Nil(t, result.Yearly.YoYGrowth)

	tracker, err := f.store.Tracker().Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, tracker.LastDailyReportDate)
	assert.True(t, tracker.LastDailyReportDate.Equal(date))
	assert.Equal(t, 2025, *tracker.LastMonthlyReportYear)
	assert.Equal(t, 6, *tracker.LastMonthlyReportMonth)
	assert.Equal(t, 2025, *tracker.LastYearlyReportYear)
}

func TestGenerateReportsForSale_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	date := day(2025, 6, 1)
	f.addSale(t, date, "10000", "7000")
	f.addSale(t, date, "15000", "11000")

	first, err := f.service.GenerateReportsForSale(ctx, date)
	require.NoError(t, err)
	second, err := f.service.GenerateReportsForSale(ctx, date)
	require.NoError(t, err)

	assert.Equal(t, first.Daily, second.Daily)
	assert.Equal(t, first.Monthly, second.Monthly)
	assert.Equal(t, first.Yearly, second.Yearly)
	assert.Equal(t, 1, f.store.trackerSaves, "tracker is only saved while a cursor moves")
}

func TestGenerateReportsForSale_BackdatedSaleMovesOnlyChangedCursors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addSale(t, day(2025, 6, 10), "100", "50")
	_, err := f.service.GenerateReportsForSale(ctx, day(2025, 6, 10))
	require.NoError(t, err)

	f.addSale(t, day(2025, 6, 3), "100", "50")
	_, err = f.service.GenerateReportsForSale(ctx, day(2025, 6, 3))
	require.NoError(t, err)

	tracker, err := f.store.Tracker().Get(ctx)
	require.NoError(t, err)
	assert.True(t, tracker.LastDailyReportDate.Equal(day(2025, 6, 3)))
	assert.Equal(t, 6, *tracker.LastMonthlyReportMonth)
	assert.Equal(t, 2, f.store.trackerSaves)

	monthly, err := f.store.MonthlyReports().FindByYearMonth(ctx, 2025, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, monthly.TotalSales)
}

func TestGenerateReportsForSale_FailurePropagates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	date := day(2025, 6, 1)
	f.addSale(t, date, "100", "50")
	f.store.failYearlyUpsert = errors.New("connection reset")

	result, err := f.service.GenerateReportsForSale(ctx, date)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "upsert yearly report 2025")
	assert.Equal(t, 0, f.store.trackerSaves)
}

func TestForceGenerateReportsForSale_LeavesTrackerAlone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	date := day(2024, 2, 29)
	f.addSale(t, date, "500", "200")

	result, err := f.service.ForceGenerateReportsForSale(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Daily.TotalSales)
	assert.Equal(t, 0, f.store.trackerSaves)
}

func TestForceGenerate_EmptyDateWritesZeroReports(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.service.ForceGenerateReportsForSale(ctx, day(2030, 1, 15))
	require.NoError(t, err)

	assert.True(t, result.Daily.IsEmpty())
	assert.True(t, result.Daily.AvgProfitPerSale.IsZero())
	assert.Nil(t, result.Daily.MostProfitableCarID)
	assert.Equal(t, 0, result.Monthly.TotalSales)
	assert.True(t, result.Monthly.ProfitMargin.IsZero())
	assert.Equal(t, 0, result.Yearly.TotalSales)
	assert.Nil(t, result.Yearly.YoYGrowth)
}

func TestRegenerateReportsForMonth_FromDailies(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	june1 := day(2025, 6, 1)
	june2 := day(2025, 6, 2)
	require.NoError(t, f.store.DailyReports().Upsert(ctx, &report.DailyReport{
		ReportDate: june1, TotalSales: 3, TotalRevenue: dec("33000"), TotalProfit: dec("6500"),
	}))
	require.NoError(t, f.store.DailyReports().Upsert(ctx, &report.DailyReport{
		ReportDate: june2, TotalSales: 1, TotalRevenue: dec("9000"), TotalProfit: dec("2000"),
	}))
	f.addFinance(t, day(2025, 6, 5), "1000")
	f.addFinance(t, day(2025, 6, 20), "2000")
	f.addFinance(t, day(2025, 7, 1), "999")

	result, err := f.service.RegenerateReportsForMonth(ctx, 2025, 6)
	require.NoError(t, err)

	m := result.Monthly
	assert.Equal(t, report.SourceSubPeriodReports, m.Source)
	assert.Equal(t, 4, m.TotalSales)
	assert.True(t, m.TotalProfit.Equal(dec("8500")))
	assert.True(t, m.TotalFinanceCost.Equal(dec("3000")))
	assert.True(t, m.NetProfit.Equal(dec("5500")))
	assert.True(t, m.AvgDailyProfit.Equal(dec("4250")))
	require.NotNil(t, m.BestDay)
	assert.True(t, m.BestDay.Equal(june1))

	assert.True(t, result.Yearly.TotalNetProfit.Equal(dec("5500")))
	assert.Equal(t, 0, f.store.trackerSaves)
}

func TestRegenerateReportsForMonth_FallsBackToSales(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addSale(t, day(2025, 3, 4), "1000", "600")
	f.addSale(t, day(2025, 3, 9), "2000", "1000")

	result, err := f.service.RegenerateReportsForMonth(ctx, 2025, 3)
	require.NoError(t, err)

	assert.Equal(t, report.SourceFacts, result.Monthly.Source)
	assert.Equal(t, 2, result.Monthly.TotalSales)
	assert.True(t, result.Monthly.TotalProfit.Equal(dec("1400")))
	require.NotNil(t, result.Monthly.BestDay)
	assert.True(t, result.Monthly.BestDay.Equal(day(2025, 3, 9)))
}

func TestRegenerateReportsForMonth_InvalidMonth(t *testing.T) {
	f := newFixture()
	_, err := f.service.RegenerateReportsForMonth(context.Background(), 2025, 13)
	assert.ErrorIs(t, err, report.ErrInvalidPeriod)
}

func TestFinanceCostEstimate_SurvivesRegeneration(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addSale(t, day(2025, 6, 1), "1000", "500")
	_, err := f.service.ForceGenerateReportsForSale(ctx, day(2025, 6, 1))
	require.NoError(t, err)

	updated, err := f.service.SetMonthlyFinanceEstimate(ctx, 2025, 6, dec("123.456"))
	require.NoError(t, err)
	assert.True(t, updated.FinanceCost.Equal(dec("123.46")))
	assert.True(t, updated.NetProfit.Equal(dec("500")), "estimate does not touch net profit")

	_, err = f.service.RegenerateReportsForMonth(ctx, 2025, 6)
	require.NoError(t, err)

	monthly, err := f.store.MonthlyReports().FindByYearMonth(ctx, 2025, 6)
	require.NoError(t, err)
	assert.True(t, monthly.FinanceCost.Equal(dec("123.46")))

	yearly, err := f.store.YearlyReports().FindByYear(ctx, 2025)
	require.NoError(t, err)
	assert.True(t, yearly.FinanceCost.Equal(dec("123.46")))
}

func TestSetMonthlyFinanceEstimate_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.SetMonthlyFinanceEstimate(ctx, 2025, 6, dec("-1"))
	assert.Error(t, err)

	_, err = f.service.SetMonthlyFinanceEstimate(ctx, 2025, 6, dec("10"))
	assert.Error(t, err, "month without a report")
}

func TestYearlyGrowthAgainstPriorYear(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.store.YearlyReports().Upsert(ctx, &report.YearlyReport{Year: 2029, TotalProfit: decimal.Zero}))
	f.addSale(t, day(2030, 5, 5), "1500", "1000")

	result, err := f.service.ForceGenerateReportsForSale(ctx, day(2030, 5, 5))
	require.NoError(t, err)
	require.NotNil(t, result.Yearly.YoYGrowth)
	assert.True(t, result.Yearly.YoYGrowth.Equal(dec("100")))
}

func TestAutoGenerateReportsForNewMonth(t *testing.T) {
	now := time.Date(2025, 7, 1, 2, 0, 0, 0, time.UTC)
	f := newFixture(WithClock(func() time.Time { return now }))
	ctx := context.Background()
	f.addSale(t, day(2025, 6, 12), "2000", "1500")
	require.NoError(t, f.store.DailyReports().Upsert(ctx, report.CalculateDailyReport(day(2025, 6, 12), f.store.sales)))

	out, err := f.service.AutoGenerateReportsForNewMonth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-06", out.Target)
	assert.True(t, out.Generated)
	assert.Equal(t, 1, out.Result.Monthly.TotalSales)

	tracker, err := f.store.Tracker().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, *tracker.LastMonthlyReportMonth)
	assert.Equal(t, 2025, *tracker.LastYearlyReportYear)
	assert.Nil(t, tracker.LastDailyReportDate)

	again, err := f.service.AutoGenerateReportsForNewMonth(ctx)
	require.NoError(t, err)
	assert.False(t, again.Generated)
	assert.Equal(t, 1, f.store.trackerSaves)
}

func TestAutoGenerateReportsForNewMonth_January(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC)
	f := newFixture(WithClock(func() time.Time { return now }))

	out, err := f.service.AutoGenerateReportsForNewMonth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-12", out.Target)
	assert.True(t, out.Generated)
}

func TestAutoGenerateDailyReport(t *testing.T) {
	now := time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC)
	f := newFixture(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	out, err := f.service.AutoGenerateDailyReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", out.Target)
	assert.True(t, out.Generated)
	assert.True(t, out.Result.Daily.IsEmpty())

	exists, err := f.store.DailyReports().ExistsForDate(ctx, day(2025, 6, 1))
	require.NoError(t, err)
	assert.True(t, exists)

	again, err := f.service.AutoGenerateDailyReport(ctx)
	require.NoError(t, err)
	assert.False(t, again.Generated)
}

func TestCheckReportsExist(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	date := day(2025, 6, 1)

	before, err := f.service.CheckReportsExist(ctx, date)
	require.NoError(t, err)
	assert.False(t, before.AllExist)

	f.addSale(t, date, "100", "10")
	_, err = f.service.ForceGenerateReportsForSale(ctx, date)
	require.NoError(t, err)

	after, err := f.service.CheckReportsExist(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, &ReportExistence{Date: "2025-06-01", Daily: true, Monthly: true, Yearly: true, AllExist: true}, after)

	other, err := f.service.CheckReportsExist(ctx, day(2025, 6, 2))
	require.NoError(t, err)
	assert.False(t, other.Daily)
	assert.True(t, other.Monthly)
	assert.True(t, other.Yearly)
}

func TestGetMissingReports(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addSale(t, day(2025, 6, 1), "100", "10")
	f.addSale(t, day(2025, 6, 3), "100", "10")
	f.addSale(t, day(2025, 8, 1), "100", "10")
	_, err := f.service.ForceGenerateReportsForSale(ctx, day(2025, 6, 1))
	require.NoError(t, err)

	missing, err := f.service.GetMissingReports(ctx, day(2025, 1, 1), day(2025, 12, 31))
	require.NoError(t, err)
	require.Len(t, missing, 2)

	assert.True(t, missing[0].Date.Equal(day(2025, 6, 3)))
	assert.True(t, missing[0].MissingDaily)
	assert.False(t, missing[0].MissingMonthly)
	assert.False(t, missing[0].MissingYearly)

	assert.True(t, missing[1].Date.Equal(day(2025, 8, 1)))
	assert.True(t, missing[1].MissingDaily)
	assert.True(t, missing[1].MissingMonthly)

	_, err = f.service.GetMissingReports(ctx, day(2025, 2, 1), day(2025, 1, 1))
	assert.ErrorIs(t, err, report.ErrInvalidDateRange)
}

func TestInitializeTracker(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addSale(t, day(2024, 11, 5), "100", "10")
	f.addSale(t, day(2025, 2, 7), "100", "10")
	for _, d := range []time.Time{day(2024, 11, 5), day(2025, 2, 7)} {
		_, err := f.service.ForceGenerateReportsForSale(ctx, d)
		require.NoError(t, err)
	}

	tracker, err := f.service.InitializeTracker(ctx)
	require.NoError(t, err)
	assert.True(t, tracker.LastDailyReportDate.Equal(day(2025, 2, 7)))
	assert.Equal(t, 2025, *tracker.LastMonthlyReportYear)
	assert.Equal(t, 2, *tracker.LastMonthlyReportMonth)
	assert.Equal(t, 2025, *tracker.LastYearlyReportYear)
	assert.False(t, tracker.NeedsMonthlyReport(2025, 2))
}

func TestRecomputeFinanceCosts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addSale(t, day(2025, 4, 2), "3000", "1000")
	_, err := f.service.ForceGenerateReportsForSale(ctx, day(2025, 4, 2))
	require.NoError(t, err)
	before, err := f.store.MonthlyReports().FindByYearMonth(ctx, 2025, 4)
	require.NoError(t, err)

	f.addFinance(t, day(2025, 4, 30), "750.50")

	result, err := f.service.RecomputeFinanceCosts(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MonthsUpdated)
	assert.Equal(t, 0, result.MonthsFailed)

	after, err := f.store.MonthlyReports().FindByYearMonth(ctx, 2025, 4)
	require.NoError(t, err)
	assert.True(t, after.TotalFinanceCost.Equal(dec("750.50")))
	assert.True(t, after.NetProfit.Equal(dec("1249.50")))
	assert.True(t, after.TotalProfit.Equal(before.TotalProfit))
	assert.Equal(t, before.BestDay, after.BestDay)

	require.NotNil(t, result.Yearly)
	assert.True(t, result.Yearly.TotalFinanceCost.Equal(dec("750.50")))
	assert.True(t, result.Yearly.TotalNetProfit.Equal(dec("1249.50")))
}

func TestRecomputeFinanceCosts_InvalidYear(t *testing.T) {
	f := newFixture()
	_, err := f.service.RecomputeFinanceCosts(context.Background(), 0)
	assert.ErrorIs(t, err, report.ErrInvalidPeriod)
}
