package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dealership/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	group.Group("nested", "/nested").Use(func(c *gin.Context) {
		c.Header("X-Nested", "1")
	}).DELETE("/:id", func(c *gin.Context) {
		c.String(http.StatusOK, c.Param("id"))
	})
	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil))
	assert.Equal(t, "pong", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v2/test/nested/42", nil))
	assert.Equal(t, "42", w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-Nested"))

	assert.Equal(t, "test", group.Name())
	assert.Equal(t, "/test", group.Prefix())
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	engine, err := New(Config{ServiceName: "test", MaxBodySize: 1 << 20}, Handlers{
		Sales:          handler.NewSaleHandler(nil),
		FinanceRecords: handler.NewFinanceRecordHandler(nil),
		Reports:        handler.NewReportHandler(nil, nil),
		System:         handler.NewSystemHandler("dealership-reports", "test"),
	})
	require.NoError(t, err)
	return engine
}

func TestNew_RegistersAPI(t *testing.T) {
	engine := newTestEngine(t)

	got := make(map[string]bool)
	for _, route := range engine.Routes() {
		got[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /api/v1/system/info",
		"POST /api/v1/sales",
		"GET /api/v1/sales",
		"GET /api/v1/sales/:id",
		"PUT /api/v1/sales/:id",
		"DELETE /api/v1/sales/:id",
		"POST /api/v1/finance-records",
		"GET /api/v1/finance-records",
		"DELETE /api/v1/finance-records/:id",
		"GET /api/v1/reports/daily/:date",
		"GET /api/v1/reports/monthly/:year/:month",
		"GET /api/v1/reports/yearly/:year",
		"GET /api/v1/reports/exists",
		"GET /api/v1/reports/missing",
		"POST /api/v1/reports/generate",
		"POST /api/v1/reports/regenerate-month",
		"POST /api/v1/reports/auto",
		"GET /api/v1/reports/tracker",
		"POST /api/v1/reports/tracker/init",
		"POST /api/v1/reports/backfill",
		"POST /api/v1/reports/recompute-finance",
		"GET /api/v1/reports/yearly/:year/export",
		"POST /api/v1/reports/yearly/:year/export",
		"PUT /api/v1/reports/monthly/:year/:month/finance-cost",
		"GET /api/v1/reports/jobs/:id",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
}

func TestNew_MiddlewareChain(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("health carries request id and security headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("validation fails before any service call", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/generate", strings.NewReader(`{"date":"14/03/2025"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"date"`)
	})

	t.Run("oversized body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(strings.Repeat("x", 2<<20)))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
