package handler

import (
	"context"
	"time"

	financeapp "github.com/dealership/backend/internal/application/finance"
	"github.com/dealership/backend/internal/domain/finance"
	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinanceRecordService is the finance record use-case surface the handler needs
type FinanceRecordService interface {
	CreateRecord(ctx context.Context, in financeapp.RecordInput) (*financeapp.RecordResult, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) (*financeapp.RecordResult, error)
	ListRecords(ctx context.Context, from, to *time.Time, filter shared.Filter) (*shared.Paginated[financeapp.RecordResponse], error)
}

// FinanceRecordHandler handles /finance-records
type FinanceRecordHandler struct {
	BaseHandler
	service FinanceRecordService
}

// NewFinanceRecordHandler creates a new FinanceRecordHandler
func NewFinanceRecordHandler(service FinanceRecordService) *FinanceRecordHandler {
	return &FinanceRecordHandler{service: service}
}

// CreateFinanceRecordRequest is the body of POST /finance-records
type CreateFinanceRecordRequest struct {
	Type        string `json:"type" binding:"required,oneof=FLOOR_PLAN OPERATING MARKETING MAINTENANCE OTHER"`
	Category    string `json:"category" binding:"required,max=100"`
	Cost        string `json:"cost" binding:"required,money"`
	RecordDate  string `json:"record_date" binding:"required,date"`
	Description string `json:"description" binding:"max=2000"`
}

// CreateRecord handles POST /finance-records
func (h *FinanceRecordHandler) CreateRecord(c *gin.Context) {
	var req CreateFinanceRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	date, ok := h.parseDate(c, "record_date", req.RecordDate)
	if !ok {
		return
	}

	result, err := h.service.CreateRecord(c.Request.Context(), financeapp.RecordInput{
		Type:        finance.RecordType(req.Type),
		Category:    req.Category,
		Cost:        decimal.RequireFromString(req.Cost),
		RecordDate:  date,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListRecords handles GET /finance-records?from=&to=
func (h *FinanceRecordHandler) ListRecords(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	from, ok := h.parseOptionalDate(c, "from", req.From)
	if !ok {
		return
	}
	to, ok := h.parseOptionalDate(c, "to", req.To)
	if !ok {
		return
	}

	page, err := h.service.ListRecords(c.Request.Context(), from, to, listFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// DeleteRecord handles DELETE /finance-records/:id
func (h *FinanceRecordHandler) DeleteRecord(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.service.DeleteRecord(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
