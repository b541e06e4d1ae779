package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/dealership/backend/internal/domain/sales"
	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists sales matching the filter with pagination
func (r *GormSaleRepository) FindAll(ctx context.Context, filter sales.SaleFilter) ([]sales.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SaleModel{})
	if filter.FromDate != nil {
		query = query.Where("sale_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("sale_date <= ?", *filter.ToDate)
	}
	if filter.CarID != nil {
		query = query.Where("car_id = ?", *filter.CarID)
	}
	if filter.BuyerID != nil {
		query = query.Where("buyer_id = ?", *filter.BuyerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, SaleSortFields, "sale_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder).Order("id " + sortOrder)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.SaleModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return salesToDomain(rows), total, nil
}

// FindByDateRange returns every sale dated in [from, to] ordered by date then creation
func (r *GormSaleRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]sales.Sale, error) {
	var rows []models.SaleModel
	if err := r.db.WithContext(ctx).
		Where("sale_date >= ? AND sale_date <= ?", from, to).
		Order("sale_date ASC").Order("created_at ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return salesToDomain(rows), nil
}

// FindDistinctSaleDates returns the distinct sale dates in [from, to], ascending
func (r *GormSaleRepository) FindDistinctSaleDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	if err := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("sale_date >= ? AND sale_date <= ?", from, to).
		Distinct("sale_date").
		Order("sale_date ASC").
		Pluck("sale_date", &dates).Error; err != nil {
		return nil, err
	}
	return normalizeDates(dates), nil
}

// CountByDate counts the sales recorded on one date
func (r *GormSaleRepository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("sale_date = ?", date).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a sale
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Save(models.SaleModelFromDomain(sale)).Error
}

// Delete removes a sale
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SaleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func salesToDomain(rows []models.SaleModel) []sales.Sale {
	out := make([]sales.Sale, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out
}

// normalizeDates maps driver-returned DATE values to UTC midnight
func normalizeDates(dates []time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		out = append(out, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
	}
	return out
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
