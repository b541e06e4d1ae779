package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	reportapp "github.com/dealership/backend/internal/application/report"
	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/dealership/backend/internal/infrastructure/scheduler"
	"github.com/dealership/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportGenerator is the orchestrator surface exposed over HTTP
type ReportGenerator interface {
	GenerateReportsForSale(ctx context.Context, saleDate time.Time) (*reportapp.GenerationResult, error)
	ForceGenerateReportsForSale(ctx context.Context, date time.Time) (*reportapp.GenerationResult, error)
	RegenerateReportsForMonth(ctx context.Context, year, month int) (*reportapp.GenerationResult, error)
	AutoGenerateReportsForNewMonth(ctx context.Context) (*reportapp.AutoGenerationResult, error)
	AutoGenerateDailyReport(ctx context.Context) (*reportapp.AutoGenerationResult, error)
	CheckReportsExist(ctx context.Context, date time.Time) (*reportapp.ReportExistence, error)
	GetMissingReports(ctx context.Context, from, to time.Time) ([]reportapp.MissingReport, error)
	RegenerateMissing(ctx context.Context, from, to time.Time) (*reportapp.BatchResult, error)
	InitializeTracker(ctx context.Context) (*report.GenerationTracker, error)
	RecomputeFinanceCosts(ctx context.Context, year int) (*reportapp.FinanceRecomputeResult, error)
	SetMonthlyFinanceEstimate(ctx context.Context, year, month int, amount decimal.Decimal) (*report.MonthlyReport, error)
}

// ReportQuerier reads stored reports
type ReportQuerier interface {
	GetDailyReport(ctx context.Context, date time.Time) (*report.DailyReport, error)
	GetMonthlyReport(ctx context.Context, year, month int) (*report.MonthlyReport, error)
	GetYearlyReport(ctx context.Context, year int) (*report.YearlyReport, error)
	ListDailyReports(ctx context.Context, from, to time.Time) ([]report.DailyReport, error)
	ListMonthlyReports(ctx context.Context, year int) ([]report.MonthlyReport, error)
	ListYearlyReports(ctx context.Context) ([]report.YearlyReport, error)
	GetTracker(ctx context.Context) (*report.GenerationTracker, error)
}

// ReportExporter renders yearly workbooks
type ReportExporter interface {
	ExportKey(year int) string
	BuildYearWorkbook(ctx context.Context, year int) ([]byte, error)
	ExportYear(ctx context.Context, year int) (*reportapp.ExportResult, error)
}

// JobScheduler enqueues background report jobs
type JobScheduler interface {
	Schedule(jobType scheduler.JobType, params scheduler.JobParams) (*scheduler.Job, error)
}

// JobStore reads recorded job runs
type JobStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*scheduler.SchedulerJobRecord, error)
	ListRecent(ctx context.Context, jobType scheduler.JobType, limit int) ([]scheduler.SchedulerJobRecord, error)
}

// ReportHandler handles /reports
type ReportHandler struct {
	BaseHandler
	generator ReportGenerator
	queries   ReportQuerier
	exporter  ReportExporter
	jobs      JobScheduler
	jobStore  JobStore
}

// ReportHandlerOption configures optional ReportHandler collaborators
type ReportHandlerOption func(*ReportHandler)

// WithExporter enables the export endpoints
func WithExporter(e ReportExporter) ReportHandlerOption {
	return func(h *ReportHandler) { h.exporter = e }
}

// WithJobs enables the async endpoints. store may be nil when runs are not recorded.
func WithJobs(s JobScheduler, store JobStore) ReportHandlerOption {
	return func(h *ReportHandler) {
		h.jobs = s
		h.jobStore = store
	}
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(generator ReportGenerator, queries ReportQuerier, opts ...ReportHandlerOption) *ReportHandler {
	h := &ReportHandler{generator: generator, queries: queries}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// DateRangeRequest is a body or query carrying an inclusive date range
type DateRangeRequest struct {
	From string `json:"from" form:"from" binding:"required,date"`
	To   string `json:"to" form:"to" binding:"required,date"`
}

func (h *ReportHandler) bindRange(c *gin.Context, req DateRangeRequest) (time.Time, time.Time, bool) {
	from, ok := h.parseDate(c, "from", req.From)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := h.parseDate(c, "to", req.To)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// GetDailyReport handles GET /reports/daily/:date
func (h *ReportHandler) GetDailyReport(c *gin.Context) {
	date, ok := h.parseDate(c, "date", c.Param("date"))
	if !ok {
		return
	}
	daily, err := h.queries.GetDailyReport(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, daily)
}

// ListDailyReports handles GET /reports/daily?from=&to=
func (h *ReportHandler) ListDailyReports(c *gin.Context) {
	var req DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	from, to, ok := h.bindRange(c, req)
	if !ok {
		return
	}
	reports, err := h.queries.ListDailyReports(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reports)
}

// GetMonthlyReport handles GET /reports/monthly/:year/:month
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	year, month, ok := h.yearMonthParams(c)
	if !ok {
		return
	}
	monthly, err := h.queries.GetMonthlyReport(c.Request.Context(), year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, monthly)
}

// ListMonthlyReports handles GET /reports/monthly/:year
func (h *ReportHandler) ListMonthlyReports(c *gin.Context) {
	year, ok := h.parseIntParam(c, "year")
	if !ok {
		return
	}
	reports, err := h.queries.ListMonthlyReports(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reports)
}

// GetYearlyReport handles GET /reports/yearly/:year
func (h *ReportHandler) GetYearlyReport(c *gin.Context) {
	year, ok := h.parseIntParam(c, "year")
	if !ok {
		return
	}
	yearly, err := h.queries.GetYearlyReport(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, yearly)
}

// ListYearlyReports handles GET /reports/yearly
func (h *ReportHandler) ListYearlyReports(c *gin.Context) {
	reports, err := h.queries.ListYearlyReports(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reports)
}

// CheckReportsExist handles GET /reports/exists?date=
func (h *ReportHandler) CheckReportsExist(c *gin.Context) {
	date, ok := h.parseDate(c, "date", c.Query("date"))
	if !ok {
		return
	}
	existence, err := h.generator.CheckReportsExist(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, existence)
}

// MissingReportResponse is one entry of GET /reports/missing
type MissingReportResponse struct {
	Date           string `json:"date"`
	MissingDaily   bool   `json:"missing_daily"`
	MissingMonthly bool   `json:"missing_monthly"`
	MissingYearly  bool   `json:"missing_yearly"`
}

// GetMissingReports handles GET /reports/missing?from=&to=
func (h *ReportHandler) GetMissingReports(c *gin.Context) {
	var req DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	from, to, ok := h.bindRange(c, req)
	if !ok {
		return
	}
	missing, err := h.generator.GetMissingReports(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]MissingReportResponse, 0, len(missing))
	for _, m := range missing {
		out = append(out, MissingReportResponse{
			Date:           valueobject.FormatDate(m.Date),
			MissingDaily:   m.MissingDaily,
			MissingMonthly: m.MissingMonthly,
			MissingYearly:  m.MissingYearly,
		})
	}
	h.Success(c, out)
}

// RegenerateMissing handles POST /reports/missing/regenerate
func (h *ReportHandler) RegenerateMissing(c *gin.Context) {
	var req DateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	from, to, ok := h.bindRange(c, req)
	if !ok {
		return
	}
	result, err := h.generator.RegenerateMissing(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GenerateRequest is the body of POST /reports/generate
type GenerateRequest struct {
	Date  string `json:"date" binding:"required,date"`
	Force bool   `json:"force"`
}

// Generate handles POST /reports/generate. Without force the tracker-aware
// path runs; with force the date is regenerated without touching the tracker.
func (h *ReportHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	date, ok := h.parseDate(c, "date", req.Date)
	if !ok {
		return
	}

	var (
		result *reportapp.GenerationResult
		err    error
	)
	if req.Force {
		result, err = h.generator.ForceGenerateReportsForSale(c.Request.Context(), date)
	} else {
		result, err = h.generator.GenerateReportsForSale(c.Request.Context(), date)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// YearMonthRequest is the body of POST /reports/regenerate-month
type YearMonthRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required"`
}

// RegenerateMonth handles POST /reports/regenerate-month
func (h *ReportHandler) RegenerateMonth(c *gin.Context) {
	var req YearMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	result, err := h.generator.RegenerateReportsForMonth(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AutoGenerateResponse reports both scheduled generation steps
type AutoGenerateResponse struct {
	Daily   *reportapp.AutoGenerationResult `json:"daily"`
	Monthly *reportapp.AutoGenerationResult `json:"monthly"`
}

// AutoGenerate handles POST /reports/auto. It runs what the cron job runs, inline.
func (h *ReportHandler) AutoGenerate(c *gin.Context) {
	ctx := c.Request.Context()
	daily, err := h.generator.AutoGenerateDailyReport(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	monthly, err := h.generator.AutoGenerateReportsForNewMonth(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, AutoGenerateResponse{Daily: daily, Monthly: monthly})
}

// GetTracker handles GET /reports/tracker
func (h *ReportHandler) GetTracker(c *gin.Context) {
	tracker, err := h.queries.GetTracker(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tracker)
}

// InitializeTracker handles POST /reports/tracker/init
func (h *ReportHandler) InitializeTracker(c *gin.Context) {
	tracker, err := h.generator.InitializeTracker(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tracker)
}

// RecomputeFinanceRequest is the body of POST /reports/recompute-finance
type RecomputeFinanceRequest struct {
	Year  int  `json:"year" binding:"required"`
	Async bool `json:"async"`
}

// RecomputeFinance handles POST /reports/recompute-finance.
// With async the recompute is queued as a RECOMPUTE_FINANCE job.
func (h *ReportHandler) RecomputeFinance(c *gin.Context) {
	var req RecomputeFinanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	if req.Async {
		if err := report.ValidateYear(req.Year); err != nil {
			h.HandleError(c, err)
			return
		}
		h.schedule(c, scheduler.JobTypeRecomputeFinance, scheduler.JobParams{Year: req.Year})
		return
	}

	result, err := h.generator.RecomputeFinanceCosts(c.Request.Context(), req.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// FinanceEstimateRequest is the body of PUT /reports/monthly/:year/:month/finance-cost
type FinanceEstimateRequest struct {
	Amount string `json:"amount" binding:"required,money"`
}

// SetMonthlyFinanceEstimate handles PUT /reports/monthly/:year/:month/finance-cost
func (h *ReportHandler) SetMonthlyFinanceEstimate(c *gin.Context) {
	year, month, ok := h.yearMonthParams(c)
	if !ok {
		return
	}
	var req FinanceEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	monthly, err := h.generator.SetMonthlyFinanceEstimate(c.Request.Context(), year, month, decimal.RequireFromString(req.Amount))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, monthly)
}

// BackfillRequest is the body of POST /reports/backfill
type BackfillRequest struct {
	DateRangeRequest
	SkipEmpty bool `json:"skip_empty"`
	Force     bool `json:"force"`
}

// Backfill handles POST /reports/backfill by queueing a FORCE_RANGE job
func (h *ReportHandler) Backfill(c *gin.Context) {
	var req BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	from, to, ok := h.bindRange(c, req.DateRangeRequest)
	if !ok {
		return
	}
	if err := report.ValidateDateRange(from, to); err != nil {
		h.HandleError(c, err)
		return
	}
	h.schedule(c, scheduler.JobTypeForceRange, scheduler.JobParams{
		From:      from,
		To:        to,
		SkipEmpty: req.SkipEmpty,
		Force:     req.Force,
	})
}

// JobResponse is the API view of a queued job
type JobResponse struct {
	ID     uuid.UUID           `json:"id"`
	Type   scheduler.JobType   `json:"type"`
	Status scheduler.JobStatus `json:"status"`
	Params scheduler.JobParams `json:"params"`
}

func (h *ReportHandler) schedule(c *gin.Context, jobType scheduler.JobType, params scheduler.JobParams) {
	if h.jobs == nil {
		h.ServiceUnavailable(c, dto.ErrCodeSchedulerUnavailable, "Job scheduler is disabled")
		return
	}
	job, err := h.jobs.Schedule(jobType, params)
	if err != nil {
		h.handleSchedulerError(c, err)
		return
	}
	c.Header("Location", "/api/v1/reports/jobs/"+job.ID.String())
	h.Accepted(c, JobResponse{ID: job.ID, Type: job.Type, Status: job.Status, Params: job.Params})
}

// GetJob handles GET /reports/jobs/:id
func (h *ReportHandler) GetJob(c *gin.Context) {
	if h.jobStore == nil {
		h.ServiceUnavailable(c, dto.ErrCodeSchedulerUnavailable, "Job history is not recorded")
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	record, err := h.jobStore.FindByID(c.Request.Context(), id)
	if err != nil {
		h.handleSchedulerError(c, err)
		return
	}
	h.Success(c, record)
}

// ListJobs handles GET /reports/jobs?type=&limit=
func (h *ReportHandler) ListJobs(c *gin.Context) {
	if h.jobStore == nil {
		h.ServiceUnavailable(c, dto.ErrCodeSchedulerUnavailable, "Job history is not recorded")
		return
	}
	jobType := scheduler.JobType(c.Query("type"))
	if jobType != "" && !jobType.IsValid() {
		h.BadRequest(c, "type: unknown job type")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		h.BadRequest(c, "limit: must be between 1 and 100")
		return
	}
	records, err := h.jobStore.ListRecent(c.Request.Context(), jobType, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

func (h *ReportHandler) handleSchedulerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		h.NotFound(c, "Job not found")
	case errors.Is(err, scheduler.ErrSchedulerNotRunning):
		h.ServiceUnavailable(c, dto.ErrCodeSchedulerUnavailable, err.Error())
	case errors.Is(err, scheduler.ErrJobQueueFull):
		h.ServiceUnavailable(c, dto.ErrCodeJobQueueFull, err.Error())
	case errors.Is(err, scheduler.ErrInvalidJobType):
		h.BadRequest(c, err.Error())
	default:
		h.HandleError(c, err)
	}
}

// ExportYear handles GET /reports/yearly/:year/export by streaming the workbook
func (h *ReportHandler) ExportYear(c *gin.Context) {
	if h.exporter == nil {
		h.ServiceUnavailable(c, dto.ErrCodeInternal, "Export is not configured")
		return
	}
	year, ok := h.parseIntParam(c, "year")
	if !ok {
		return
	}
	data, err := h.exporter.BuildYearWorkbook(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="yearly-%d.xlsx"`, year))
	c.Data(http.StatusOK, reportapp.XLSXContentType, data)
}

// StoreYearExport handles POST /reports/yearly/:year/export
func (h *ReportHandler) StoreYearExport(c *gin.Context) {
	if h.exporter == nil {
		h.ServiceUnavailable(c, dto.ErrCodeInternal, "Export is not configured")
		return
	}
	year, ok := h.parseIntParam(c, "year")
	if !ok {
		return
	}
	result, err := h.exporter.ExportYear(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

func (h *ReportHandler) yearMonthParams(c *gin.Context) (int, int, bool) {
	year, ok := h.parseIntParam(c, "year")
	if !ok {
		return 0, 0, false
	}
	month, ok := h.parseIntParam(c, "month")
	if !ok {
		return 0, 0, false
	}
	return year, month, true
}
