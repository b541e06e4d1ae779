package finance

import (
	"time"

	"github.com/dealership/backend/internal/domain/finance"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordInput carries the fields of a new finance record
type RecordInput struct {
	Type        finance.RecordType
	Category    string
	Cost        decimal.Decimal
	RecordDate  time.Time
	Description string
}

// RecordResponse is the API view of a finance record
type RecordResponse struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Cost        decimal.Decimal `json:"cost"`
	RecordDate  string          `json:"record_date"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToRecordResponse converts a domain finance record to its API view
func ToRecordResponse(r *finance.FinanceRecord) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		Type:        r.Type.String(),
		Category:    r.Category,
		Cost:        r.Cost,
		RecordDate:  valueobject.FormatDate(r.RecordDate),
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

// RecordResult is a committed finance record write.
// ReportWarning is set when the month's reports could not be refreshed.
type RecordResult struct {
	Record        *RecordResponse `json:"record,omitempty"`
	ReportWarning string          `json:"report_warning,omitempty"`
}
