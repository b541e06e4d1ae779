package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	financeapp "github.com/dealership/backend/internal/application/finance"
	reportapp "github.com/dealership/backend/internal/application/report"
	salesapp "github.com/dealership/backend/internal/application/sales"
	"github.com/dealership/backend/internal/infrastructure/config"
	"github.com/dealership/backend/internal/infrastructure/export"
	"github.com/dealership/backend/internal/infrastructure/lock"
	"github.com/dealership/backend/internal/infrastructure/logger"
	"github.com/dealership/backend/internal/infrastructure/persistence"
	"github.com/dealership/backend/internal/infrastructure/scheduler"
	"github.com/dealership/backend/internal/infrastructure/storage"
	"github.com/dealership/backend/internal/infrastructure/telemetry"
	"github.com/dealership/backend/internal/interfaces/http/handler"
	"github.com/dealership/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Report engine
	repos := persistence.NewGormRepositories(db.DB)
	var metrics reportapp.GenerationMetrics
	genOpts := []reportapp.Option{}
	if meterProvider.IsEnabled() {
		reportMetrics, err := telemetry.NewReportMetrics(meterProvider.Meter(cfg.Telemetry.ServiceName + "/reports"))
		if err != nil {
			log.Fatal("Failed to create report metrics", zap.Error(err))
		}
		metrics = reportMetrics
		genOpts = append(genOpts, reportapp.WithMetrics(reportMetrics))
	}
	generation := reportapp.NewReportGenerationService(persistence.NewGormTransactionScope(db.DB), repos, log, genOpts...)
	queries := reportapp.NewReportQueryService(repos)

	exportStorage, err := storage.New(ctx, &cfg.Export, log)
	if err != nil {
		log.Fatal("Failed to initialize export storage", zap.Error(err))
	}
	exports := reportapp.NewExportService(repos, export.NewXLSXBuilder(), exportStorage, cfg.Export.Prefix, log)

	saleService := salesapp.NewSaleService(persistence.NewGormSaleRepository(db.DB), generation, log)
	recordService := financeapp.NewRecordService(persistence.NewGormFinanceRecordRepository(db.DB), generation, log)

	// Job scheduler and cron trigger
	jobRepo := scheduler.NewSchedulerJobRepository(db.DB)
	jobScheduler := scheduler.NewScheduler(scheduler.SchedulerConfig{
		Enabled:           cfg.Scheduler.Enabled,
		MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
		QueueSize:         cfg.Scheduler.QueueSize,
		JobTimeout:        cfg.Scheduler.JobTimeout,
		RetryAttempts:     cfg.Scheduler.RetryAttempts,
		RetryDelay:        cfg.Scheduler.RetryDelay,
	}, reportapp.NewJobExecutor(generation, metrics, log), log, scheduler.WithRecorder(jobRepo))

	var cron *scheduler.CronTrigger
	var redisLocker *lock.RedisLocker
	if cfg.Scheduler.Enabled {
		if err := jobScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start report scheduler", zap.Error(err))
		}
		log.Info("Report scheduler started",
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)

		var locker scheduler.Locker = lock.NewInMemoryLocker()
		if cfg.Redis.Enabled {
			redisLocker, err = lock.NewRedisLocker(lock.RedisConfig{
				Host:      cfg.Redis.Host,
				Port:      cfg.Redis.Port,
				Password:  cfg.Redis.Password,
				DB:        cfg.Redis.DB,
				KeyPrefix: cfg.Redis.KeyPrefix,
			})
			if err != nil {
				log.Fatal("Failed to connect to redis", zap.Error(err))
			}
			locker = redisLocker
		}

		cron, err = scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
			Spec:     cfg.Scheduler.CronSchedule,
			Location: cfg.Scheduler.Location(),
			LockTTL:  cfg.Scheduler.LockTTL,
		}, jobScheduler, locker, log)
		if err != nil {
			log.Fatal("Failed to create cron trigger", zap.Error(err))
		}
		cron.Start()
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)
	systemHandler.AddCheck("database", db.Ping)
	if cfg.Scheduler.Enabled {
		systemHandler.AddCheck("scheduler", func(context.Context) error {
			if !jobScheduler.IsRunning() {
				return errors.New("scheduler is not running")
			}
			return nil
		})
	}

	reportOpts := []handler.ReportHandlerOption{handler.WithExporter(exports)}
	if cfg.Scheduler.Enabled {
		reportOpts = append(reportOpts, handler.WithJobs(jobScheduler, jobRepo))
	}

	engine, err := router.New(router.Config{
		ServiceName:      cfg.Telemetry.ServiceName,
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
		TrustedProxies:   cfg.HTTP.TrustedProxies,
		MaxBodySize:      cfg.HTTP.MaxBodySize,
		TracingEnabled:   tracerProvider.IsEnabled(),
		MeterProvider:    meterProvider,
		Logger:           log,
	}, router.Handlers{
		Sales:          handler.NewSaleHandler(saleService),
		FinanceRecords: handler.NewFinanceRecordHandler(recordService),
		Reports:        handler.NewReportHandler(generation, queries, reportOpts...),
		System:         systemHandler,
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if cron != nil {
		if err := cron.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping cron trigger", zap.Error(err))
		}
	}
	if jobScheduler.IsRunning() {
		if err := jobScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping report scheduler", zap.Error(err))
		}
	}
	if redisLocker != nil {
		if err := redisLocker.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
