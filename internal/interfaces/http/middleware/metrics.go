package middleware

import (
	"strconv"
	"time"

	"github.com/dealership/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HTTPDurationBuckets are bucket boundaries for request latency (seconds)
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Attribute keys of HTTP server metrics
var (
	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPRoute      = attribute.Key("http.route")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
)

// HTTPMetricsConfig holds configuration for HTTP metrics middleware.
type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	ServiceName   string
	Logger        *zap.Logger
}

type httpMetrics struct {
	requestTotal    *telemetry.Counter
	requestDuration *telemetry.Histogram
	responseSize    *telemetry.Histogram
	activeRequests  metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requestTotal, err := telemetry.NewCounter(meter,
		"http_server_request_total",
		"Total number of HTTP requests",
		"{request}",
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency distribution in seconds",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	// Workbook downloads dominate the upper buckets.
	responseSize, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_response_size_bytes",
		Description: "HTTP response body size distribution in bytes",
		Unit:        "By",
		Boundaries:  []float64{100, 1000, 10000, 100000, 1000000, 10000000},
	})
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		responseSize:    responseSize,
		activeRequests:  activeRequests,
	}, nil
}

// HTTPMetrics records request count, latency, response size and in-flight requests.
// It is a pass-through when the meter provider is absent or disabled.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	passThrough := func(c *gin.Context) { c.Next() }
	if cfg.MeterProvider == nil || !cfg.MeterProvider.IsEnabled() {
		return passThrough
	}

	m, err := newHTTPMetrics(cfg.MeterProvider.Meter(cfg.ServiceName + "/http"))
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passThrough
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		method := AttrHTTPMethod.String(c.Request.Method)

		m.activeRequests.Add(ctx, 1, metric.WithAttributes(method))
		defer m.activeRequests.Add(ctx, -1, metric.WithAttributes(method))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := []attribute.KeyValue{
			method,
			AttrHTTPRoute.String(route),
			AttrHTTPStatusCode.String(strconv.Itoa(c.Writer.Status())),
		}
		m.requestTotal.Inc(ctx, attrs...)
		m.requestDuration.RecordDuration(ctx, time.Since(start), attrs[:2]...)
		if size := c.Writer.Size(); size > 0 {
			m.responseSize.Record(ctx, float64(size), attrs[:2]...)
		}
	}
}
