package models

import (
	"time"

	"github.com/dealership/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// FinanceRecordModel is the persistence model for a finance cost record.
type FinanceRecordModel struct {
	BaseModel
	Type        finance.RecordType `gorm:"type:varchar(30);not null;index"`
	Category    string             `gorm:"type:varchar(100);not null"`
	Cost        decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	RecordDate  time.Time          `gorm:"type:date;not null;index"`
	Description string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (FinanceRecordModel) TableName() string {
	return "finance_records"
}

// ToDomain converts the persistence model to a domain FinanceRecord
func (m *FinanceRecordModel) ToDomain() *finance.FinanceRecord {
	return &finance.FinanceRecord{
		BaseEntity:  m.BaseModel.ToDomain(),
		Type:        m.Type,
		Category:    m.Category,
		Cost:        m.Cost,
		RecordDate:  utcDate(m.RecordDate),
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain FinanceRecord
func (m *FinanceRecordModel) FromDomain(r *finance.FinanceRecord) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Type = r.Type
	m.Category = r.Category
	m.Cost = r.Cost
	m.RecordDate = r.RecordDate
	m.Description = r.Description
}

// FinanceRecordModelFromDomain creates a new persistence model from a domain FinanceRecord
func FinanceRecordModelFromDomain(r *finance.FinanceRecord) *FinanceRecordModel {
	m := &FinanceRecordModel{}
	m.FromDomain(r)
	return m
}
