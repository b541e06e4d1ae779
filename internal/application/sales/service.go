// Package sales records car sales and keeps their reports current.
package sales

import (
	"context"
	"fmt"
	"time"

	appreport "github.com/dealership/backend/internal/application/report"
	"github.com/dealership/backend/internal/domain/sales"
	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/dealership/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportGenerator refreshes the reports covering a sale date
type ReportGenerator interface {
	GenerateReportsForSale(ctx context.Context, saleDate time.Time) (*appreport.GenerationResult, error)
	ForceGenerateReportsForSale(ctx context.Context, date time.Time) (*appreport.GenerationResult, error)
}

// SaleService handles sale writes. Report generation runs after the sale commits
// and its failure never undoes the sale.
type SaleService struct {
	saleRepo  sales.SaleRepository
	generator ReportGenerator
	logger    *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(saleRepo sales.SaleRepository, generator ReportGenerator, log *zap.Logger) *SaleService {
	return &SaleService{
		saleRepo:  saleRepo,
		generator: generator,
		logger:    log,
	}
}

// CreateSale records a sale and generates the reports for its date
func (s *SaleService) CreateSale(ctx context.Context, in SaleInput) (*SaleResult, error) {
	sale, err := sales.NewSale(in.details())
	if err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, fmt.Errorf("save sale: %w", err)
	}

	result := &SaleResult{Sale: ToSaleResponse(sale)}
	if _, err := s.generator.GenerateReportsForSale(ctx, sale.SaleDate); err != nil {
		result.ReportWarning = s.reportWarning(ctx, sale.ID, sale.SaleDate, err)
	}
	return result, nil
}

// UpdateSale replaces a sale's details and regenerates the reports of its
// new date and, when the date moved, its previous date.
func (s *SaleService) UpdateSale(ctx context.Context, id uuid.UUID, in SaleInput) (*SaleResult, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous, err := sale.Update(in.details())
	if err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, fmt.Errorf("save sale %s: %w", id, err)
	}

	result := &SaleResult{Sale: ToSaleResponse(sale)}
	dates := []time.Time{sale.SaleDate}
	if sale.DateMoved(previous) {
		dates = append(dates, previous)
	}
	result.ReportWarning = s.regenerate(ctx, sale.ID, dates)
	return result, nil
}

// DeleteSale removes a sale and regenerates the reports for its date
func (s *SaleService) DeleteSale(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.saleRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return &DeleteResult{
		ID:            id,
		ReportWarning: s.regenerate(ctx, id, []time.Time{sale.SaleDate}),
	}, nil
}

// GetSale returns one sale
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// ListSales lists sales dated within [from, to]. Either bound may be nil.
func (s *SaleService) ListSales(ctx context.Context, from, to *time.Time, filter shared.Filter) (*shared.Paginated[SaleResponse], error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "From date must not be after to date")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = shared.DefaultFilter().PageSize
	}
	items, total, err := s.saleRepo.FindAll(ctx, sales.SaleFilter{Filter: filter, FromDate: from, ToDate: to})
	if err != nil {
		return nil, err
	}
	out := make([]SaleResponse, len(items))
	for i := range items {
		out[i] = ToSaleResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *SaleService) regenerate(ctx context.Context, saleID uuid.UUID, dates []time.Time) string {
	var warning string
	for _, date := range dates {
		if _, err := s.generator.ForceGenerateReportsForSale(ctx, date); err != nil {
			warning = s.reportWarning(ctx, saleID, date, err)
		}
	}
	return warning
}

func (s *SaleService) reportWarning(ctx context.Context, saleID uuid.UUID, date time.Time, err error) string {
	day := valueobject.FormatDate(date)
	logger.L(ctx, s.logger).Warn("Sale saved but report generation failed",
		zap.String("sale_id", saleID.String()),
		zap.String("report_date", day),
		zap.Error(err),
	)
	return fmt.Sprintf("sale saved; reports for %s were not refreshed: %v", day, err)
}
