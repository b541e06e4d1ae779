package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/dealership/backend/internal/domain/finance"
	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFinanceRecordRepository implements FinanceRecordRepository using GORM
type GormFinanceRecordRepository struct {
	db *gorm.DB
}

// NewGormFinanceRecordRepository creates a new GormFinanceRecordRepository
func NewGormFinanceRecordRepository(db *gorm.DB) *GormFinanceRecordRepository {
	return &GormFinanceRecordRepository{db: db}
}

// FindByID finds a finance record by its ID
func (r *GormFinanceRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinanceRecord, error) {
	var model models.FinanceRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists finance records matching the filter with pagination
func (r *GormFinanceRecordRepository) FindAll(ctx context.Context, filter finance.FinanceRecordFilter) ([]finance.FinanceRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FinanceRecordModel{})
	if filter.FromDate != nil {
		query = query.Where("record_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("record_date <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, FinanceRecordSortFields, "record_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder).Order("id " + sortOrder)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.FinanceRecordModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return financeRecordsToDomain(rows), total, nil
}

// FindByDateRange returns the records dated in [from, to]
func (r *GormFinanceRecordRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]finance.FinanceRecord, error) {
	var rows []models.FinanceRecordModel
	if err := r.db.WithContext(ctx).
		Where("record_date >= ? AND record_date <= ?", from, to).
		Order("record_date ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return financeRecordsToDomain(rows), nil
}

// Save creates or updates a finance record
func (r *GormFinanceRecordRepository) Save(ctx context.Context, record *finance.FinanceRecord) error {
	return r.db.WithContext(ctx).Save(models.FinanceRecordModelFromDomain(record)).Error
}

// Delete removes a finance record
func (r *GormFinanceRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FinanceRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func financeRecordsToDomain(rows []models.FinanceRecordModel) []finance.FinanceRecord {
	out := make([]finance.FinanceRecord, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out
}

// Ensure GormFinanceRecordRepository implements FinanceRecordRepository
var _ finance.FinanceRecordRepository = (*GormFinanceRecordRepository)(nil)
