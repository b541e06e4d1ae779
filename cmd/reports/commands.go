package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	reportapp "github.com/dealership/backend/internal/application/report"
	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
)

// reportEngine is the slice of the generation service the CLI drives
type reportEngine interface {
	GenerateReportsForSale(ctx context.Context, saleDate time.Time) (*reportapp.GenerationResult, error)
	ForceGenerateReportsForSale(ctx context.Context, date time.Time) (*reportapp.GenerationResult, error)
	RegenerateRange(ctx context.Context, from, to time.Time, opts reportapp.RegenerateOptions) (*reportapp.BatchResult, error)
	RegenerateMissing(ctx context.Context, from, to time.Time) (*reportapp.BatchResult, error)
	RegenerateReportsForMonth(ctx context.Context, year, month int) (*reportapp.GenerationResult, error)
	AutoGenerateDailyReport(ctx context.Context) (*reportapp.AutoGenerationResult, error)
	AutoGenerateReportsForNewMonth(ctx context.Context) (*reportapp.AutoGenerationResult, error)
	CheckReportsExist(ctx context.Context, date time.Time) (*reportapp.ReportExistence, error)
	GetMissingReports(ctx context.Context, from, to time.Time) ([]reportapp.MissingReport, error)
	InitializeTracker(ctx context.Context) (*report.GenerationTracker, error)
	RecomputeFinanceCosts(ctx context.Context, year int) (*reportapp.FinanceRecomputeResult, error)
}

type yearExporter interface {
	ExportYear(ctx context.Context, year int) (*reportapp.ExportResult, error)
}

var errUsage = errors.New("invalid usage")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// cli executes one subcommand and writes its result to out
type cli struct {
	engine   reportEngine
	exporter yearExporter
	out      io.Writer
}

func (c *cli) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "generate":
		return c.generate(ctx, args)
	case "force":
		return c.force(ctx, args)
	case "regenerate-month":
		return c.regenerateMonth(ctx, args)
	case "auto":
		return c.auto(ctx)
	case "check":
		return c.check(ctx, args)
	case "missing":
		return c.missing(ctx, args)
	case "init-tracker":
		tracker, err := c.engine.InitializeTracker(ctx)
		if err != nil {
			return err
		}
		return c.print(tracker)
	case "recompute-finance":
		return c.recomputeFinance(ctx, args)
	case "export":
		return c.export(ctx, args)
	default:
		return usageError("unknown command %q", command)
	}
}

func (c *cli) generate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("generate <date>")
	}
	date, err := parseDateArg(args[0])
	if err != nil {
		return err
	}
	result, err := c.engine.GenerateReportsForSale(ctx, date)
	if err != nil {
		return err
	}
	return c.print(result)
}

// force regenerates one date, or every date of an inclusive range
func (c *cli) force(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError("force <from> [to]")
	}
	from, err := parseDateArg(args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		result, err := c.engine.ForceGenerateReportsForSale(ctx, from)
		if err != nil {
			return err
		}
		return c.print(result)
	}
	to, err := parseDateArg(args[1])
	if err != nil {
		return err
	}
	batch, err := c.engine.RegenerateRange(ctx, from, to, reportapp.RegenerateOptions{Force: true})
	if err != nil {
		return err
	}
	c.printBatch(batch)
	return nil
}

func (c *cli) regenerateMonth(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("regenerate-month <year> <month>")
	}
	year, err := parseIntArg("year", args[0])
	if err != nil {
		return err
	}
	month, err := parseIntArg("month", args[1])
	if err != nil {
		return err
	}
	result, err := c.engine.RegenerateReportsForMonth(ctx, year, month)
	if err != nil {
		return err
	}
	return c.print(result)
}

// auto runs the scheduled job by hand: yesterday's daily report, then the
// previous month's monthly report.
func (c *cli) auto(ctx context.Context) error {
	daily, err := c.engine.AutoGenerateDailyReport(ctx)
	if err != nil {
		return fmt.Errorf("daily: %w", err)
	}
	monthly, err := c.engine.AutoGenerateReportsForNewMonth(ctx)
	if err != nil {
		return fmt.Errorf("monthly: %w", err)
	}
	return c.print(map[string]*reportapp.AutoGenerationResult{"daily": daily, "monthly": monthly})
}

func (c *cli) check(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("check <date>")
	}
	date, err := parseDateArg(args[0])
	if err != nil {
		return err
	}
	existence, err := c.engine.CheckReportsExist(ctx, date)
	if err != nil {
		return err
	}
	return c.print(existence)
}

// missing lists uncovered sale dates; with --fix it regenerates them
func (c *cli) missing(ctx context.Context, args []string) error {
	fix := slices.Contains(args, "--fix") || slices.Contains(args, "-fix")
	args = slices.DeleteFunc(slices.Clone(args), func(a string) bool { return a == "--fix" || a == "-fix" })
	if len(args) != 2 {
		return usageError("missing <from> <to> [--fix]")
	}
	from, err := parseDateArg(args[0])
	if err != nil {
		return err
	}
	to, err := parseDateArg(args[1])
	if err != nil {
		return err
	}

	if fix {
		batch, err := c.engine.RegenerateMissing(ctx, from, to)
		if err != nil {
			return err
		}
		c.printBatch(batch)
		return nil
	}

	missing, err := c.engine.GetMissingReports(ctx, from, to)
	if err != nil {
		return err
	}
	for _, m := range missing {
		fmt.Fprintf(c.out, "%s daily=%t monthly=%t yearly=%t\n",
			valueobject.FormatDate(m.Date), m.MissingDaily, m.MissingMonthly, m.MissingYearly)
	}
	fmt.Fprintf(c.out, "%d dates missing reports\n", len(missing))
	return nil
}

func (c *cli) recomputeFinance(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("recompute-finance <year>")
	}
	year, err := parseIntArg("year", args[0])
	if err != nil {
		return err
	}
	result, err := c.engine.RecomputeFinanceCosts(ctx, year)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		fmt.Fprintf(c.out, "FAILED %s: %s\n", e.Date, e.Error)
	}
	fmt.Fprintf(c.out, "year=%d months_updated=%d months_failed=%d\n", result.Year, result.MonthsUpdated, result.MonthsFailed)
	return nil
}

func (c *cli) export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("export <year>")
	}
	year, err := parseIntArg("year", args[0])
	if err != nil {
		return err
	}
	result, err := c.exporter.ExportYear(ctx, year)
	if err != nil {
		return err
	}
	return c.print(result)
}

func (c *cli) printBatch(batch *reportapp.BatchResult) {
	for _, e := range batch.Errors {
		fmt.Fprintf(c.out, "FAILED %s: %s\n", e.Date, e.Error)
	}
	fmt.Fprintf(c.out, "processed=%d succeeded=%d skipped=%d failed=%d\n",
		batch.Processed, batch.Succeeded, batch.Skipped, batch.Failed)
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseDateArg(s string) (time.Time, error) {
	date, err := valueobject.ParseDate(s)
	if err != nil {
		return time.Time{}, usageError("invalid date %q, expected YYYY-MM-DD", s)
	}
	return date, nil
}

func parseIntArg(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, usageError("invalid %s %q", name, s)
	}
	return n, nil
}
