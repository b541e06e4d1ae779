package handler

import (
	"context"
	"time"

	financeapp "github.com/dealership/backend/internal/application/finance"
	reportapp "github.com/dealership/backend/internal/application/report"
	salesapp "github.com/dealership/backend/internal/application/sales"
	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func resultOrNil[T any](args mock.Arguments, i int) *T {
	if v := args.Get(i); v != nil {
		return v.(*T)
	}
	return nil
}

// MockSaleService mocks SaleService
type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) CreateSale(ctx context.Context, in salesapp.SaleInput) (*salesapp.SaleResult, error) {
	args := m.Called(ctx, in)
	return resultOrNil[salesapp.SaleResult](args, 0), args.Error(1)
}

func (m *MockSaleService) UpdateSale(ctx context.Context, id uuid.UUID, in salesapp.SaleInput) (*salesapp.SaleResult, error) {
	args := m.Called(ctx, id, in)
	return resultOrNil[salesapp.SaleResult](args, 0), args.Error(1)
}

func (m *MockSaleService) DeleteSale(ctx context.Context, id uuid.UUID) (*salesapp.DeleteResult, error) {
	args := m.Called(ctx, id)
	return resultOrNil[salesapp.DeleteResult](args, 0), args.Error(1)
}

func (m *MockSaleService) GetSale(ctx context.Context, id uuid.UUID) (*salesapp.SaleResponse, error) {
	args := m.Called(ctx, id)
	return resultOrNil[salesapp.SaleResponse](args, 0), args.Error(1)
}

func (m *MockSaleService) ListSales(ctx context.Context, from, to *time.Time, filter shared.Filter) (*shared.Paginated[salesapp.SaleResponse], error) {
	args := m.Called(ctx, from, to, filter)
	return resultOrNil[shared.Paginated[salesapp.SaleResponse]](args, 0), args.Error(1)
}

// MockFinanceRecordService mocks FinanceRecordService
type MockFinanceRecordService struct {
	mock.Mock
}

func (m *MockFinanceRecordService) CreateRecord(ctx context.Context, in financeapp.RecordInput) (*financeapp.RecordResult, error) {
	args := m.Called(ctx, in)
	return resultOrNil[financeapp.RecordResult](args, 0), args.Error(1)
}

func (m *MockFinanceRecordService) DeleteRecord(ctx context.Context, id uuid.UUID) (*financeapp.RecordResult, error) {
	args := m.Called(ctx, id)
	return resultOrNil[financeapp.RecordResult](args, 0), args.Error(1)
}

func (m *MockFinanceRecordService) ListRecords(ctx context.Context, from, to *time.Time, filter shared.Filter) (*shared.Paginated[financeapp.RecordResponse], error) {
	args := m.Called(ctx, from, to, filter)
	return resultOrNil[shared.Paginated[financeapp.RecordResponse]](args, 0), args.Error(1)
}

// MockReportGenerator mocks ReportGenerator
type MockReportGenerator struct {
	mock.Mock
}

func (m *MockReportGenerator) GenerateReportsForSale(ctx context.Context, date time.Time) (*reportapp.GenerationResult, error) {
	args := m.Called(ctx, date)
	return resultOrNil[reportapp.GenerationResult](args, 0), args.Error(1)
}

func (m *MockReportGenerator) ForceGenerateReportsForSale(ctx context.Context, date time.Time) (*reportapp.GenerationResult, error) {
	args := m.Called(ctx, date)
	return resultOrNil[reportapp.GenerationResult](args, 0), args.Error(1)
}

func (m *MockReportGenerator) RegenerateReportsForMonth(ctx context.Context, year, month int) (*reportapp.GenerationResult, error) {
	args := m.Called(ctx, year, month)
	return resultOrNil[reportapp.GenerationResult](args, 0), args.Error(1)
}

func (m *MockReportGenerator) AutoGenerateReportsForNewMonth(ctx context.Context) (*reportapp.AutoGenerationResult, error) {
	args := m.Called(ctx)
	return resultOrNil[reportapp.AutoGenerationResult](args, 0), args.Error(1)
}

func (m *MockReportGenerator) AutoGenerateDailyReport(ctx context.Context) (*reportapp.AutoGenerationResult, error) {
	args := m.Called(ctx)
	return resultOrNil[reportapp.AutoGenerationResult](args, 0), args.Error(1)
}

func (m *MockReportGenerator) CheckReportsExist(ctx context.Context, date time.Time) (*reportapp.ReportExistence, error) {
	args := m.Called(ctx, date)
	return resultOrNil[reportapp.ReportExistence](args, 0), args.Error(1)
}

func (m *MockReportGenerator) GetMissingReports(ctx context.Context, from, to time.Time) ([]reportapp.MissingReport, error) {
	args := m.Called(ctx, from, to)
	missing, _ := args.Get(0).([]reportapp.MissingReport)
	return missing, args.Error(1)
}

func (m *MockReportGenerator) RegenerateMissing(ctx context.Context, from, to time.Time) (*reportapp.BatchResult, error) {
	args := m.Called(ctx, from, to)
	return resultOrNil[reportapp.BatchResult](args, 0), args.Error(1)
}

func (m *MockReportGenerator) InitializeTracker(ctx context.Context) (*report.GenerationTracker, error) {
	args := m.Called(ctx)
	return resultOrNil[report.GenerationTracker](args, 0), args.Error(1)
}

func (m *MockReportGenerator) RecomputeFinanceCosts(ctx context.Context, year int) (*reportapp.FinanceRecomputeResult, error) {
	args := m.Called(ctx, year)
	return resultOrNil[reportapp.FinanceRecomputeResult](args, 0), args.Error(1)
}

func (m *MockReportGenerator) SetMonthlyFinanceEstimate(ctx context.Context, year, month int, amount decimal.Decimal) (*report.MonthlyReport, error) {
	args := m.Called(ctx, year, month, amount)
	return resultOrNil[report.MonthlyReport](args, 0), args.Error(1)
}

// MockReportQuerier mocks ReportQuerier
type MockReportQuerier struct {
	mock.Mock
}

func (m *MockReportQuerier) GetDailyReport(ctx context.Context, date time.Time) (*report.DailyReport, error) {
	args := m.Called(ctx, date)
	return resultOrNil[report.DailyReport](args, 0), args.Error(1)
}

func (m *MockReportQuerier) GetMonthlyReport(ctx context.Context, year, month int) (*report.MonthlyReport, error) {
	args := m.Called(ctx, year, month)
	return resultOrNil[report.MonthlyReport](args, 0), args.Error(1)
}

func (m *MockReportQuerier) GetYearlyReport(ctx context.Context, year int) (*report.YearlyReport, error) {
	args := m.Called(ctx, year)
	return resultOrNil[report.YearlyReport](args, 0), args.Error(1)
}

func (m *MockReportQuerier) ListDailyReports(ctx context.Context, from, to time.Time) ([]report.DailyReport, error) {
	args := m.Called(ctx, from, to)
	reports, _ := args.Get(0).([]report.DailyReport)
	return reports, args.Error(1)
}

func (m *MockReportQuerier) ListMonthlyReports(ctx context.Context, year int) ([]report.MonthlyReport, error) {
	args := m.Called(ctx, year)
	reports, _ := args.Get(0).([]report.MonthlyReport)
	return reports, args.Error(1)
}

func (m *MockReportQuerier) ListYearlyReports(ctx context.Context) ([]report.YearlyReport, error) {
	args := m.Called(ctx)
	reports, _ := args.Get(0).([]report.YearlyReport)
	return reports, args.Error(1)
}

func (m *MockReportQuerier) GetTracker(ctx context.Context) (*report.GenerationTracker, error) {
	args := m.Called(ctx)
	return resultOrNil[report.GenerationTracker](args, 0), args.Error(1)
}

// MockReportExporter mocks ReportExporter
type MockReportExporter struct {
	mock.Mock
}

func (m *MockReportExporter) ExportKey(year int) string {
	return m.Called(year).String(0)
}

func (m *MockReportExporter) BuildYearWorkbook(ctx context.Context, year int) ([]byte, error) {
	args := m.Called(ctx, year)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockReportExporter) ExportYear(ctx context.Context, year int) (*reportapp.ExportResult, error) {
	args := m.Called(ctx, year)
	return resultOrNil[reportapp.ExportResult](args, 0), args.Error(1)
}

// MockJobScheduler mocks JobScheduler
type MockJobScheduler struct {
	mock.Mock
}

func (m *MockJobScheduler) Schedule(jobType scheduler.JobType, params scheduler.JobParams) (*scheduler.Job, error) {
	args := m.Called(jobType, params)
	return resultOrNil[scheduler.Job](args, 0), args.Error(1)
}

// MockJobStore mocks JobStore
type MockJobStore struct {
	mock.Mock
}

func (m *MockJobStore) FindByID(ctx context.Context, id uuid.UUID) (*scheduler.SchedulerJobRecord, error) {
	args := m.Called(ctx, id)
	return resultOrNil[scheduler.SchedulerJobRecord](args, 0), args.Error(1)
}

func (m *MockJobStore) ListRecent(ctx context.Context, jobType scheduler.JobType, limit int) ([]scheduler.SchedulerJobRecord, error) {
	args := m.Called(ctx, jobType, limit)
	records, _ := args.Get(0).([]scheduler.SchedulerJobRecord)
	return records, args.Error(1)
}
