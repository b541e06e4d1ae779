// Package finance records dealership costs and keeps monthly net profit in step with them.
package finance

import (
	"context"
	"fmt"
	"time"

	appreport "github.com/dealership/backend/internal/application/report"
	"github.com/dealership/backend/internal/domain/finance"
	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MonthRegenerator re-aggregates the monthly and yearly reports of a month
type MonthRegenerator interface {
	RegenerateReportsForMonth(ctx context.Context, year, month int) (*appreport.GenerationResult, error)
}

// RecordService handles finance record writes
type RecordService struct {
	recordRepo  finance.FinanceRecordRepository
	regenerator MonthRegenerator
	logger      *zap.Logger
}

// NewRecordService creates a new RecordService
func NewRecordService(recordRepo finance.FinanceRecordRepository, regenerator MonthRegenerator, log *zap.Logger) *RecordService {
	return &RecordService{
		recordRepo:  recordRepo,
		regenerator: regenerator,
		logger:      log,
	}
}

// CreateRecord stores a finance record and refreshes the reports of its month
func (s *RecordService) CreateRecord(ctx context.Context, in RecordInput) (*RecordResult, error) {
	rec, err := finance.NewFinanceRecord(in.Type, in.Category, in.Cost, in.RecordDate, in.Description)
	if err != nil {
		return nil, err
	}
	if err := s.recordRepo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save finance record: %w", err)
	}
	resp := ToRecordResponse(rec)
	return &RecordResult{
		Record:        &resp,
		ReportWarning: s.refreshMonth(ctx, rec.RecordDate),
	}, nil
}

// DeleteRecord removes a finance record and refreshes the reports of its month
func (s *RecordService) DeleteRecord(ctx context.Context, id uuid.UUID) (*RecordResult, error) {
	rec, err := s.recordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.recordRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return &RecordResult{ReportWarning: s.refreshMonth(ctx, rec.RecordDate)}, nil
}

// ListRecords lists finance records dated within [from, to]. Either bound may be nil.
func (s *RecordService) ListRecords(ctx context.Context, from, to *time.Time, filter shared.Filter) (*shared.Paginated[RecordResponse], error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "From date must not be after to date")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = shared.DefaultFilter().PageSize
	}
	items, total, err := s.recordRepo.FindAll(ctx, finance.FinanceRecordFilter{Filter: filter, FromDate: from, ToDate: to})
	if err != nil {
		return nil, err
	}
	out := make([]RecordResponse, len(items))
	for i := range items {
		out[i] = ToRecordResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *RecordService) refreshMonth(ctx context.Context, date time.Time) string {
	year, month := date.Year(), int(date.Month())
	if _, err := s.regenerator.RegenerateReportsForMonth(ctx, year, month); err != nil {
		logger.L(ctx, s.logger).Warn("Finance record saved but monthly report refresh failed",
			zap.Int("year", year),
			zap.Int("month", month),
			zap.Error(err),
		)
		return fmt.Sprintf("finance record saved; reports for %04d-%02d were not refreshed: %v", year, month, err)
	}
	return ""
}
