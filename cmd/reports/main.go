package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	reportapp "github.com/dealership/backend/internal/application/report"
	"github.com/dealership/backend/internal/infrastructure/config"
	"github.com/dealership/backend/internal/infrastructure/export"
	"github.com/dealership/backend/internal/infrastructure/logger"
	"github.com/dealership/backend/internal/infrastructure/persistence"
	"github.com/dealership/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel), logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos := persistence.NewGormRepositories(db.DB)
	c := &cli{
		engine: reportapp.NewReportGenerationService(persistence.NewGormTransactionScope(db.DB), repos, log),
		out:    os.Stdout,
	}
	if args[0] == "export" {
		exportStorage, err := storage.New(ctx, &cfg.Export, log)
		if err != nil {
			log.Fatal("Failed to initialize export storage", zap.Error(err))
		}
		c.exporter = reportapp.NewExportService(repos, export.NewXLSXBuilder(), exportStorage, cfg.Export.Prefix, log)
	}

	if err := c.run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, errUsage) {
			printUsage()
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: reports [flags] <command> [args]

Commands:
  generate <date>                 Generate reports for a sale date
  force <from> [to]               Regenerate one date, or every date in a range
  regenerate-month <year> <month> Rebuild a monthly report and its year
  auto                            Run the scheduled daily and monthly generation
  check <date>                    Show which reports cover a date
  missing <from> <to> [--fix]     List sale dates lacking reports, optionally regenerating them
  init-tracker                    Seed the generation tracker
  recompute-finance <year>        Refresh finance costs of every month in a year
  export <year>                   Store the yearly workbook in the configured storage

Dates use YYYY-MM-DD. Bulk commands report per-date failures and keep going.

Flags:`)
	flag.PrintDefaults()
}
