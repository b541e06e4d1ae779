package router

import (
	"github.com/dealership/backend/internal/infrastructure/logger"
	"github.com/dealership/backend/internal/infrastructure/telemetry"
	"github.com/dealership/backend/internal/interfaces/http/handler"
	"github.com/dealership/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers are the resource handlers mounted by New
type Handlers struct {
	Sales          *handler.SaleHandler
	FinanceRecords *handler.FinanceRecordHandler
	Reports        *handler.ReportHandler
	System         *handler.SystemHandler
}

// Config holds engine-level settings
type Config struct {
	ServiceName      string
	CORSAllowOrigins []string
	TrustedProxies   []string
	MaxBodySize      int64
	TracingEnabled   bool
	MeterProvider    *telemetry.MeterProvider
	Logger           *zap.Logger
}

// New builds the gin engine with the middleware chain and every API route
func New(cfg Config, h Handlers) (*gin.Engine, error) {
	middleware.SetupValidator()
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSAllowOrigins

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(cfg.Logger),
		middleware.TracingWithConfig(middleware.TracingConfig{ServiceName: cfg.ServiceName, Enabled: cfg.TracingEnabled}),
		middleware.SpanAttributes(),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{MeterProvider: cfg.MeterProvider, ServiceName: cfg.ServiceName, Logger: cfg.Logger}),
		logger.GinMiddleware(cfg.Logger),
		middleware.CORSWithConfig(cors),
		middleware.SecureWithConfig(middleware.DefaultSecurityConfig()),
		middleware.BodyLimit(cfg.MaxBodySize),
	)

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}

	r := NewRouter(engine)
	if h.System != nil {
		r.Register(NewDomainGroup("system", "/system").GET("/info", h.System.GetSystemInfo))
	}
	if h.Sales != nil {
		r.Register(saleRoutes(h.Sales))
	}
	if h.FinanceRecords != nil {
		r.Register(financeRecordRoutes(h.FinanceRecords))
	}
	if h.Reports != nil {
		r.Register(reportRoutes(h.Reports))
	}
	r.Setup()
	return engine, nil
}

func saleRoutes(h *handler.SaleHandler) *DomainGroup {
	return NewDomainGroup("sales", "/sales").
		POST("", h.CreateSale).
		GET("", h.ListSales).
		GET("/:id", h.GetSale).
		PUT("/:id", h.UpdateSale).
		DELETE("/:id", h.DeleteSale)
}

func financeRecordRoutes(h *handler.FinanceRecordHandler) *DomainGroup {
	return NewDomainGroup("finance-records", "/finance-records").
		POST("", h.CreateRecord).
		GET("", h.ListRecords).
		DELETE("/:id", h.DeleteRecord)
}

func reportRoutes(h *handler.ReportHandler) *DomainGroup {
	g := NewDomainGroup("reports", "/reports").
		GET("/exists", h.CheckReportsExist).
		GET("/missing", h.GetMissingReports).
		POST("/missing/regenerate", h.RegenerateMissing).
		POST("/generate", h.Generate).
		POST("/regenerate-month", h.RegenerateMonth).
		POST("/auto", h.AutoGenerate).
		POST("/backfill", h.Backfill).
		POST("/recompute-finance", h.RecomputeFinance)

	g.Group("daily", "/daily").
		GET("", h.ListDailyReports).
		GET("/:date", h.GetDailyReport)

	g.Group("monthly", "/monthly").
		GET("/:year", h.ListMonthlyReports).
		GET("/:year/:month", h.GetMonthlyReport).
		PUT("/:year/:month/finance-cost", h.SetMonthlyFinanceEstimate)

	g.Group("yearly", "/yearly").
		GET("", h.ListYearlyReports).
		GET("/:year", h.GetYearlyReport).
		GET("/:year/export", h.ExportYear).
		POST("/:year/export", h.StoreYearExport)

	g.Group("tracker", "/tracker").
		GET("", h.GetTracker).
		POST("/init", h.InitializeTracker)

	g.Group("jobs", "/jobs").
		GET("", h.ListJobs).
		GET("/:id", h.GetJob)

	return g
}
