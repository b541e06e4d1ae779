package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bound variables in spans; dev only
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DefaultDBTracingConfig returns the default database tracing configuration.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin registers otelgorm and flags slow statements on their spans.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// RegisterOtelGorm installs the otelgorm plugin plus slow-query callbacks on db.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	registrations := []error{
		cb.Create().Before("gorm:create").Register("report_timing:before_create", p.before),
		cb.Query().Before("gorm:query").Register("report_timing:before_query", p.before),
		cb.Update().Before("gorm:update").Register("report_timing:before_update", p.before),
		cb.Delete().Before("gorm:delete").Register("report_timing:before_delete", p.before),
		cb.Raw().Before("gorm:raw").Register("report_timing:before_raw", p.before),
		cb.Create().After("gorm:create").Register("report_timing:after_create", p.after),
		cb.Query().After("gorm:query").Register("report_timing:after_query", p.after),
		cb.Update().After("gorm:update").Register("report_timing:after_update", p.after),
		cb.Delete().After("gorm:delete").Register("report_timing:after_delete", p.after),
		cb.Raw().After("gorm:raw").Register("report_timing:after_raw", p.after),
	}
	if err := errors.Join(registrations...); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

func (p *DBTracingPlugin) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func (p *DBTracingPlugin) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
