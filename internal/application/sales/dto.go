package sales

import (
	"time"

	"github.com/dealership/backend/internal/domain/sales"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleInput carries the fields of a sale to create or update
type SaleInput struct {
	CarID        uuid.UUID
	BuyerID      uuid.UUID
	SalePrice    decimal.Decimal
	PurchaseCost decimal.Decimal
	SaleDate     time.Time
	Notes        string
}

func (in SaleInput) details() sales.SaleDetails {
	return sales.SaleDetails{
		CarID:        in.CarID,
		BuyerID:      in.BuyerID,
		SalePrice:    in.SalePrice,
		PurchaseCost: in.PurchaseCost,
		SaleDate:     in.SaleDate,
		Notes:        in.Notes,
	}
}

// SaleResponse is the API view of a sale
type SaleResponse struct {
	ID           uuid.UUID       `json:"id"`
	CarID        uuid.UUID       `json:"car_id"`
	BuyerID      uuid.UUID       `json:"buyer_id"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	ProfitLoss   decimal.Decimal `json:"profit_loss"`
	SaleDate     string          `json:"sale_date"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToSaleResponse converts a domain sale to its API view
func ToSaleResponse(s *sales.Sale) SaleResponse {
	return SaleResponse{
		ID:           s.ID,
		CarID:        s.CarID,
		BuyerID:      s.BuyerID,
		SalePrice:    s.SalePrice,
		PurchaseCost: s.PurchaseCost,
		ProfitLoss:   s.ProfitLoss,
		SaleDate:     valueobject.FormatDate(s.SaleDate),
		Notes:        s.Notes,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// SaleResult is a committed sale write.
// ReportWarning is set when the sale was saved but its reports could not be refreshed.
type SaleResult struct {
	Sale          SaleResponse `json:"sale"`
	ReportWarning string       `json:"report_warning,omitempty"`
}

// DeleteResult is a committed sale deletion
type DeleteResult struct {
	ID            uuid.UUID `json:"id"`
	ReportWarning string    `json:"report_warning,omitempty"`
}
