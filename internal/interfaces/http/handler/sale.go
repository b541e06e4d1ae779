package handler

import (
	"context"
	"time"

	salesapp "github.com/dealership/backend/internal/application/sales"
	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/dealership/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleService is the sale use-case surface the handler needs
type SaleService interface {
	CreateSale(ctx context.Context, in salesapp.SaleInput) (*salesapp.SaleResult, error)
	UpdateSale(ctx context.Context, id uuid.UUID, in salesapp.SaleInput) (*salesapp.SaleResult, error)
	DeleteSale(ctx context.Context, id uuid.UUID) (*salesapp.DeleteResult, error)
	GetSale(ctx context.Context, id uuid.UUID) (*salesapp.SaleResponse, error)
	ListSales(ctx context.Context, from, to *time.Time, filter shared.Filter) (*shared.Paginated[salesapp.SaleResponse], error)
}

// SaleHandler handles /sales
type SaleHandler struct {
	BaseHandler
	service SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(service SaleService) *SaleHandler {
	return &SaleHandler{service: service}
}

// SaleRequest is the body of sale create and update.
// Amounts are decimal strings so cents survive JSON.
type SaleRequest struct {
	CarID        string `json:"car_id" binding:"required,uuid"`
	BuyerID      string `json:"buyer_id" binding:"required,uuid"`
	SalePrice    string `json:"sale_price" binding:"required,money"`
	PurchaseCost string `json:"purchase_cost" binding:"required,money"`
	SaleDate     string `json:"sale_date" binding:"required,date"`
	Notes        string `json:"notes" binding:"max=2000"`
}

func (r SaleRequest) toInput() (salesapp.SaleInput, error) {
	// The binding tags already validated every field's format.
	date, err := valueobject.ParseDate(r.SaleDate)
	if err != nil {
		return salesapp.SaleInput{}, err
	}
	return salesapp.SaleInput{
		CarID:        uuid.MustParse(r.CarID),
		BuyerID:      uuid.MustParse(r.BuyerID),
		SalePrice:    decimal.RequireFromString(r.SalePrice),
		PurchaseCost: decimal.RequireFromString(r.PurchaseCost),
		SaleDate:     date,
		Notes:        r.Notes,
	}, nil
}

// CreateSale handles POST /sales
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.CreateSale(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// GetSale handles GET /sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	sale, err := h.service.GetSale(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// ListSales handles GET /sales?from=&to=&page=&page_size=
func (h *SaleHandler) ListSales(c *gin.Context) {
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

	page, err := h.service.ListSales(c.Request.Context(), from, to, listFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateSale handles PUT /sales/:id
func (h *SaleHandler) UpdateSale(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.UpdateSale(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DeleteSale handles DELETE /sales/:id
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.service.DeleteSale(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
