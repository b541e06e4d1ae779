package report

import "github.com/dealership/backend/internal/domain/shared"

// Report-specific domain errors
var (
	ErrInvalidPeriod    = shared.NewDomainError("INVALID_PERIOD", "Year must be 1900-9999 and month 1-12")
	ErrInvalidDateRange = shared.NewDomainError("INVALID_DATE_RANGE", "Range start must not be after range end")
	ErrReportNotFound   = shared.NewDomainError("NOT_FOUND", "Report not found")
)
