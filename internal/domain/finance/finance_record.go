package finance

import (
	"strings"
	"time"

	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RecordType classifies a dealership cost entry
type RecordType string

const (
	RecordTypeFloorPlan   RecordType = "FLOOR_PLAN"  // inventory financing interest
	RecordTypeOperating   RecordType = "OPERATING"   // rent, utilities, salaries
	RecordTypeMarketing   RecordType = "MARKETING"   // advertising, listings
	RecordTypeMaintenance RecordType = "MAINTENANCE" // reconditioning, repairs
	RecordTypeOther       RecordType = "OTHER"
)

// IsValid checks if the type is a known RecordType
func (t RecordType) IsValid() bool {
	switch t {
	case RecordTypeFloorPlan, RecordTypeOperating, RecordTypeMarketing,
		RecordTypeMaintenance, RecordTypeOther:
		return true
	}
	return false
}

// String returns the string representation of RecordType
func (t RecordType) String() string {
	return string(t)
}

// FinanceRecord is a cost entry charged against the month it is dated in.
type FinanceRecord struct {
	shared.BaseEntity
	Type        RecordType
	Category    string
	Cost        decimal.Decimal
	RecordDate  time.Time
	Description string
}

// NewFinanceRecord creates a validated finance record
func NewFinanceRecord(recordType RecordType, category string, cost decimal.Decimal, recordDate time.Time, description string) (*FinanceRecord, error) {
	if !recordType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RECORD_TYPE", "Unknown finance record type: "+string(recordType))
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	if cost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost cannot be negative")
	}
	if recordDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_RECORD_DATE", "Record date is required")
	}
	return &FinanceRecord{
		BaseEntity:  shared.NewBaseEntity(),
		Type:        recordType,
		Category:    category,
		Cost:        valueobject.RoundMoney(cost),
		RecordDate:  valueobject.DateOf(recordDate),
		Description: description,
	}, nil
}

// TotalCost sums the cost of the records, rounded to cents
func TotalCost(records []FinanceRecord) decimal.Decimal {
	costs := make([]decimal.Decimal, 0, len(records))
	for _, r := range records {
		costs = append(costs, r.Cost)
	}
	return valueobject.SumMoney(costs...)
}
