package sales

import (
	"time"

	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a single car sale. It is the fact record every report rolls up from.
type Sale struct {
	shared.BaseEntity
	CarID        uuid.UUID
	BuyerID      uuid.UUID
	SalePrice    decimal.Decimal
	PurchaseCost decimal.Decimal
	ProfitLoss   decimal.Decimal
	SaleDate     time.Time
	Notes        string
}

// SaleDetails carries the mutable fields of a sale
type SaleDetails struct {
	CarID        uuid.UUID
	BuyerID      uuid.UUID
	SalePrice    decimal.Decimal
	PurchaseCost decimal.Decimal
	SaleDate     time.Time
	Notes        string
}

// NewSale creates a validated sale with its profit/loss derived from price and cost
func NewSale(details SaleDetails) (*Sale, error) {
	if err := details.validate(); err != nil {
		return nil, err
	}
	s := &Sale{BaseEntity: shared.NewBaseEntity()}
	s.apply(details)
	return s, nil
}

// Update replaces the sale's details and recomputes profit/loss.
// It returns the previous sale date so callers can refresh both periods.
func (s *Sale) Update(details SaleDetails) (time.Time, error) {
	if err := details.validate(); err != nil {
		return time.Time{}, err
	}
	previous := s.SaleDate
	s.apply(details)
	s.Touch()
	return previous, nil
}

// DateMoved reports whether the sale date differs from previous
func (s *Sale) DateMoved(previous time.Time) bool {
	return !valueobject.SameDate(s.SaleDate, previous)
}

func (s *Sale) apply(d SaleDetails) {
	s.CarID = d.CarID
	s.BuyerID = d.BuyerID
	s.SalePrice = valueobject.RoundMoney(d.SalePrice)
	s.PurchaseCost = valueobject.RoundMoney(d.PurchaseCost)
	s.ProfitLoss = valueobject.RoundMoney(d.SalePrice.Sub(d.PurchaseCost))
	s.SaleDate = valueobject.DateOf(d.SaleDate)
	s.Notes = d.Notes
}

func (d SaleDetails) validate() error {
	if d.CarID == uuid.Nil {
		return shared.NewDomainError("INVALID_CAR", "Car ID is required")
	}
	if d.BuyerID == uuid.Nil {
		return shared.NewDomainError("INVALID_BUYER", "Buyer ID is required")
	}
	if !d.SalePrice.IsPositive() {
		return shared.NewDomainError("INVALID_SALE_PRICE", "Sale price must be positive")
	}
	if d.PurchaseCost.IsNegative() {
		return shared.NewDomainError("INVALID_PURCHASE_COST", "Purchase cost cannot be negative")
	}
	if d.SaleDate.IsZero() {
		return shared.NewDomainError("INVALID_SALE_DATE", "Sale date is required")
	}
	return nil
}
