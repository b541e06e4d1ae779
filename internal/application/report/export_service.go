package report

import (
	"context"
	"fmt"
	"path"

	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// XLSXContentType is the MIME type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkbookBuilder renders reports into a spreadsheet
type WorkbookBuilder interface {
	BuildYearlyWorkbook(yearly *report.YearlyReport, monthlies []report.MonthlyReport) ([]byte, error)
}

// ExportStorage stores an exported file and returns where it was written
type ExportStorage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ExportResult describes a stored export
type ExportResult struct {
	Year     int    `json:"year"`
	Key      string `json:"key"`
	Location string `json:"location"`
	Size     int    `json:"size"`
}

// ExportService renders yearly reports to workbooks
type ExportService struct {
	repos   Repositories
	builder WorkbookBuilder
	storage ExportStorage
	prefix  string
	logger  *zap.Logger
}

// NewExportService creates an ExportService. Keys are written under prefix.
func NewExportService(repos Repositories, builder WorkbookBuilder, storage ExportStorage, prefix string, logger *zap.Logger) *ExportService {
	return &ExportService{
		repos:   repos,
		builder: builder,
		storage: storage,
		prefix:  prefix,
		logger:  logger,
	}
}

// ExportKey returns the storage key of a year's workbook
func (s *ExportService) ExportKey(year int) string {
	return path.Join(s.prefix, fmt.Sprintf("yearly-%d.xlsx", year))
}

// BuildYearWorkbook renders the year's report and its months without storing it
func (s *ExportService) BuildYearWorkbook(ctx context.Context, year int) ([]byte, error) {
	if err := report.ValidateYear(year); err != nil {
		return nil, err
	}
	yearly, err := s.repos.YearlyReports().FindByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	monthlies, err := s.repos.MonthlyReports().FindByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("load monthly reports for %d: %w", year, err)
	}
	data, err := s.builder.BuildYearlyWorkbook(yearly, monthlies)
	if err != nil {
		return nil, fmt.Errorf("build workbook for %d: %w", year, err)
	}
	return data, nil
}

// ExportYear renders the year's workbook and writes it to storage
func (s *ExportService) ExportYear(ctx context.Context, year int) (*ExportResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report_export", "export_year",
		telemetry.WithAttribute(telemetry.SpanAttrYear, year))
	defer span.End()

	data, err := s.BuildYearWorkbook(ctx, year)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	key := s.ExportKey(year)
	location, err := s.storage.Save(ctx, key, data, XLSXContentType)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Storing yearly export failed", zap.Int("year", year), zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("store export %s: %w", key, err)
	}

	s.logger.Info("Yearly report exported",
		zap.Int("year", year),
		zap.String("location", location),
		zap.Int("bytes", len(data)),
	)
	return &ExportResult{Year: year, Key: key, Location: location, Size: len(data)}, nil
}
