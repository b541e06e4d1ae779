package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGinMiddleware_LogsByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(func(c *gin.Context) { c.Set("request_id", "req-1") })
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/reports", func(c *gin.Context) {
			assert.Equal(t, "req-1", GetRequestID(c.Request.Context()))
			c.Status(tt.status)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports?year=2025", nil))

		entries := recorded.FilterMessage("HTTP Request").All()
		require.Len(t, entries, 1)
		assert.Equal(t, tt.level, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "year=2025", fields["query"])
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGetGinLogger_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}
