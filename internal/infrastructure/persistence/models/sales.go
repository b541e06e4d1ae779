package models

import (
	"time"

	"github.com/dealership/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for a car sale fact.
type SaleModel struct {
	BaseModel
	CarID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	BuyerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PurchaseCost decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ProfitLoss   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SaleDate     time.Time       `gorm:"type:date;not null;index"`
	Notes        string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() *sales.Sale {
	return &sales.Sale{
		BaseEntity:   m.BaseModel.ToDomain(),
		CarID:        m.CarID,
		BuyerID:      m.BuyerID,
		SalePrice:    m.SalePrice,
		PurchaseCost: m.PurchaseCost,
		ProfitLoss:   m.ProfitLoss,
		SaleDate:     utcDate(m.SaleDate),
		Notes:        m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Sale
func (m *SaleModel) FromDomain(s *sales.Sale) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.CarID = s.CarID
	m.BuyerID = s.BuyerID
	m.SalePrice = s.SalePrice
	m.PurchaseCost = s.PurchaseCost
	m.ProfitLoss = s.ProfitLoss
	m.SaleDate = s.SaleDate
	m.Notes = s.Notes
}

// SaleModelFromDomain creates a new persistence model from a domain Sale
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// utcDate strips the driver's location from a DATE column.
// Postgres returns dates in the session zone; the domain works in UTC calendar dates.
func utcDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
