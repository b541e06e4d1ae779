package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	return r
}

func TestRequestID(t *testing.T) {
	t.Run("propagates incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		newTestRouter(RequestID()).ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Body.String())
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("generates when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		newTestRouter(RequestID()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Len(t, w.Body.String(), 32)
		assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
	})

	t.Run("truncates oversized header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", 500))
		w := httptest.NewRecorder()
		newTestRouter(RequestID()).ServeHTTP(w, req)

		assert.Len(t, w.Body.String(), MaxRequestIDLength)
	})
}

func TestCORSWithConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://dash.example.com"}

	t.Run("allowed origin gets headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://dash.example.com")
		w := httptest.NewRecorder()
		newTestRouter(CORSWithConfig(cfg)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://dash.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin gets none", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		newTestRouter(CORSWithConfig(cfg)).ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight returns 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/anything", nil)
		req.Header.Set("Origin", "https://dash.example.com")
		w := httptest.NewRecorder()
		newTestRouter(CORSWithConfig(cfg)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
	})

	t.Run("wildcard never sends credentials", func(t *testing.T) {
		wild := DefaultCORSConfig()
		wild.AllowOrigins = []string{"*"}
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://any.example.com")
		w := httptest.NewRecorder()
		newTestRouter(CORSWithConfig(wild)).ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestSecureWithConfig(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	w := httptest.NewRecorder()
	newTestRouter(SecureWithConfig(cfg)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}
