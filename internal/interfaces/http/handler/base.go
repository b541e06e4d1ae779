// Package handler contains the gin handlers of the reporting API.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dealership/backend/internal/domain/shared"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/dealership/backend/internal/infrastructure/logger"
	"github.com/dealership/backend/internal/interfaces/http/dto"
	"github.com/dealership/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Accepted sends a 202 response for work handed to the job scheduler
func (h *BaseHandler) Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ServiceUnavailable sends a 503 response
func (h *BaseHandler) ServiceUnavailable(c *gin.Context, code, message string) {
	h.Error(c, http.StatusServiceUnavailable, code, message)
}

// ValidationError sends a 400 validation error for a failed bind
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError converts domain errors to their mapped status and everything
// else to a logged 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Error())
		return
	}

	logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}

// parseUUIDParam reads a UUID path parameter, writing a 400 on failure
func (h *BaseHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, name+": invalid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// parseDate parses a YYYY-MM-DD value, writing a 400 naming field on failure
func (h *BaseHandler) parseDate(c *gin.Context, field, value string) (time.Time, bool) {
	date, err := valueobject.ParseDate(value)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidDate, field+": expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

// parseOptionalDate parses value when non-empty
func (h *BaseHandler) parseOptionalDate(c *gin.Context, field, value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	date, ok := h.parseDate(c, field, value)
	if !ok {
		return nil, false
	}
	return &date, true
}

// parseIntParam reads an integer path parameter, writing a 400 on failure.
// Range checks are left to the domain.
func (h *BaseHandler) parseIntParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidPeriod, name+": must be an integer")
		return 0, false
	}
	return n, true
}

// listFilter converts a bound ListRequest into a repository filter
func listFilter(req dto.ListRequest) shared.Filter {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	return filter
}
