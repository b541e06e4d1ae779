package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	appreport "github.com/dealership/backend/internal/application/report"
	"github.com/dealership/backend/internal/domain/finance"
	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockFinanceRecordRepository struct {
	mock.Mock
}

func (m *MockFinanceRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinanceRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinanceRecord), args.Error(1)
}

func (m *MockFinanceRecordRepository) FindAll(ctx context.Context, filter finance.FinanceRecordFilter) ([]finance.FinanceRecord, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.FinanceRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinanceRecordRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]finance.FinanceRecord, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]finance.FinanceRecord), args.Error(1)
}

func (m *MockFinanceRecordRepository) Save(ctx context.Context, record *finance.FinanceRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockFinanceRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockMonthRegenerator struct {
	mock.Mock
}

func (m *MockMonthRegenerator) RegenerateReportsForMonth(ctx context.Context, year, month int) (*appreport.GenerationResult, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreport.GenerationResult), args.Error(1)
}

func newRecordService() (*RecordService, *MockFinanceRecordRepository, *MockMonthRegenerator) {
	repo := new(MockFinanceRecordRepository)
	regen := new(MockMonthRegenerator)
	return NewRecordService(repo, regen, zap.NewNop()), repo, regen
}

func TestRecordService_CreateRecord(t *testing.T) {
	ctx := context.Background()
	in := RecordInput{
		Type:       finance.RecordTypeFloorPlan,
		Category:   "floor plan interest",
		Cost:       decimal.RequireFromString("1234.567"),
		RecordDate: valueobject.NewDate(2025, time.June, 15),
	}

	t.Run("saves and refreshes the month", func(t *testing.T) {
		svc, repo, regen := newRecordService()
		repo.On("Save", ctx, mock.AnythingOfType("*finance.FinanceRecord")).Return(nil)
		regen.On("RegenerateReportsForMonth", ctx, 2025, 6).Return(&appreport.GenerationResult{}, nil)

		result, err := svc.CreateRecord(ctx, in)
		require.NoError(t, err)
		require.NotNil(t, result.Record)
		assert.Equal(t, "1234.57", result.Record.Cost.StringFixed(2))
		assert.Equal(t, "FLOOR_PLAN", result.Record.Type)
		assert.Empty(t, result.ReportWarning)
		regen.AssertExpectations(t)
	})

	t.Run("refresh failure becomes a warning", func(t *testing.T) {
		svc, repo, regen := newRecordService()
		repo.On("Save", ctx, mock.Anything).Return(nil)
		regen.On("RegenerateReportsForMonth", ctx, 2025, 6).Return(nil, errors.New("db down"))

		result, err := svc.CreateRecord(ctx, in)
		require.NoError(t, err)
		assert.Contains(t, result.ReportWarning, "2025-06")
	})

	t.Run("negative cost rejected", func(t *testing.T) {
		svc, repo, _ := newRecordService()
		bad := in
		bad.Cost = decimal.NewFromInt(-1)

		_, err := svc.CreateRecord(ctx, bad)
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestRecordService_DeleteRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and refreshes the record month", func(t *testing.T) {
		svc, repo, regen := newRecordService()
		rec, err := finance.NewFinanceRecord(finance.RecordTypeOperating, "rent", decimal.NewFromInt(900), valueobject.NewDate(2025, time.March, 1), "")
		require.NoError(t, err)
		repo.On("FindByID", ctx, rec.ID).Return(rec, nil)
		repo.On("Delete", ctx, rec.ID).Return(nil)
		regen.On("RegenerateReportsForMonth", ctx, 2025, 3).Return(&appreport.GenerationResult{}, nil)

		_, err = svc.DeleteRecord(ctx, rec.ID)
		require.NoError(t, err)
		regen.AssertExpectations(t)
	})

	t.Run("missing record", func(t *testing.T) {
		svc, repo, regen := newRecordService()
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.DeleteRecord(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		regen.AssertNotCalled(t, "RegenerateReportsForMonth", mock.Anything, mock.Anything, mock.Anything)
	})
}
