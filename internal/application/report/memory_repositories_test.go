package report

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dealership/backend/internal/domain/finance"
	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/sales"
	"github.com/dealership/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memoryStore is an in-memory Repositories implementation for service tests.
type memoryStore struct {
	mu sync.Mutex

	sales   []sales.Sale
	records []finance.FinanceRecord
	daily   map[time.Time]report.DailyReport
	monthly map[report.Period]report.MonthlyReport
	yearly  map[int]report.YearlyReport
	tracker *report.GenerationTracker

	trackerSaves int

	failDailyUpsert  map[time.Time]error
	failYearlyUpsert error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		daily:           make(map[time.Time]report.DailyReport),
		monthly:         make(map[report.Period]report.MonthlyReport),
		yearly:          make(map[int]report.YearlyReport),
		failDailyUpsert: make(map[time.Time]error),
	}
}

func (m *memoryStore) Sales() sales.SaleRepository                     { return memorySales{m} }
func (m *memoryStore) FinanceRecords() finance.FinanceRecordRepository { return memoryFinance{m} }
func (m *memoryStore) DailyReports() report.DailyReportRepository      { return memoryDaily{m} }
func (m *memoryStore) MonthlyReports() report.MonthlyReportRepository  { return memoryMonthly{m} }
func (m *memoryStore) YearlyReports() report.YearlyReportRepository    { return memoryYearly{m} }
func (m *memoryStore) Tracker() report.GenerationTrackerRepository     { return memoryTracker{m} }

var _ Repositories = (*memoryStore)(nil)

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

type memorySales struct{ m *memoryStore }

func (r memorySales) FindByID(_ context.Context, id uuid.UUID) (*sales.Sale, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.sales {
		if s.ID == id {
			c := s
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memorySales) FindAll(_ context.Context, f sales.SaleFilter) ([]sales.Sale, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []sales.Sale
	for _, s := range r.m.sales {
		if f.FromDate != nil && s.SaleDate.Before(*f.FromDate) {
			continue
		}
		if f.ToDate != nil && s.SaleDate.After(*f.ToDate) {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r memorySales) FindByDateRange(_ context.Context, from, to time.Time) ([]sales.Sale, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []sales.Sale
	for _, s := range r.m.sales {
		if inRange(s.SaleDate, from, to) {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b sales.Sale) int { return a.SaleDate.Compare(b.SaleDate) })
	return out, nil
}

func (r memorySales) FindDistinctSaleDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	all, _ := r.FindByDateRange(ctx, from, to)
	var dates []time.Time
	for _, s := range all {
		if len(dates) == 0 || !dates[len(dates)-1].Equal(s.SaleDate) {
			dates = append(dates, s.SaleDate)
		}
	}
	return dates, nil
}

func (r memorySales) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	all, _ := r.FindByDateRange(ctx, date, date)
	return int64(len(all)), nil
}

func (r memorySales) Save(_ context.Context, s *sales.Sale) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.sales {
		if r.m.sales[i].ID == s.ID {
			r.m.sales[i] = *s
			return nil
		}
	}
	r.m.sales = append(r.m.sales, *s)
	return nil
}

func (r memorySales) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.sales {
		if r.m.sales[i].ID == id {
			r.m.sales = slices.Delete(r.m.sales, i, i+1)
			return nil
		}
	}
	return shared.ErrNotFound
}

type memoryFinance struct{ m *memoryStore }

func (r memoryFinance) FindByID(_ context.Context, id uuid.UUID) (*finance.FinanceRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, rec := range r.m.records {
		if rec.ID == id {
			c := rec
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memoryFinance) FindAll(_ context.Context, _ finance.FinanceRecordFilter) ([]finance.FinanceRecord, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return slices.Clone(r.m.records), int64(len(r.m.records)), nil
}

func (r memoryFinance) FindByDateRange(_ context.Context, from, to time.Time) ([]finance.FinanceRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []finance.FinanceRecord
	for _, rec := range r.m.records {
		if inRange(rec.RecordDate, from, to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r memoryFinance) Save(_ context.Context, rec *finance.FinanceRecord) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.records = append(r.m.records, *rec)
	return nil
}

func (r memoryFinance) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.records {
		if r.m.records[i].ID == id {
			r.m.records = slices.Delete(r.m.records, i, i+1)
			return nil
		}
	}
	return shared.ErrNotFound
}

type memoryDaily struct{ m *memoryStore }

func (r memoryDaily) FindByDate(_ context.Context, date time.Time) (*report.DailyReport, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.daily[date]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &d, nil
}

func (r memoryDaily) FindByDateRange(_ context.Context, from, to time.Time) ([]report.DailyReport, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []report.DailyReport
	for d, rep := range r.m.daily {
		if inRange(d, from, to) {
			out = append(out, rep)
		}
	}
	slices.SortFunc(out, func(a, b report.DailyReport) int { return a.ReportDate.Compare(b.ReportDate) })
	return out, nil
}

func (r memoryDaily) ExistsForDate(_ context.Context, date time.Time) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.daily[date]
	return ok, nil
}

func (r memoryDaily) FindReportDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	reports, _ := r.FindByDateRange(ctx, from, to)
	dates := make([]time.Time, 0, len(reports))
	for _, rep := range reports {
		dates = append(dates, rep.ReportDate)
	}
	return dates, nil
}

func (r memoryDaily) LatestReportDate(_ context.Context) (*time.Time, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var latest *time.Time
	for d := range r.m.daily {
		if latest == nil || d.After(*latest) {
			c := d
			latest = &c
		}
	}
	return latest, nil
}

func (r memoryDaily) Upsert(_ context.Context, rep *report.DailyReport) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failDailyUpsert[rep.ReportDate]; err != nil {
		return err
	}
	r.m.daily[rep.ReportDate] = *rep
	return nil
}

type memoryMonthly struct{ m *memoryStore }

func (r memoryMonthly) FindByYearMonth(_ context.Context, year, month int) (*report.MonthlyReport, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rep, ok := r.m.monthly[report.Period{Year: year, Month: month}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &rep, nil
}

func (r memoryMonthly) FindByYear(_ context.Context, year int) ([]report.MonthlyReport, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []report.MonthlyReport
	for p, rep := range r.m.monthly {
		if p.Year == year {
			out = append(out, rep)
		}
	}
	slices.SortFunc(out, func(a, b report.MonthlyReport) int { return a.Month - b.Month })
	return out, nil
}

func (r memoryMonthly) Exists(_ context.Context, year, month int) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.monthly[report.Period{Year: year, Month: month}]
	return ok, nil
}

func (r memoryMonthly) LatestPeriod(_ context.Context) (*report.Period, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var latest *report.Period
	for p := range r.m.monthly {
		if latest == nil || p.Year > latest.Year || (p.Year == latest.Year && p.Month > latest.Month) {
			c := p
			latest = &c
		}
	}
	return latest, nil
}

func (r memoryMonthly) Upsert(_ context.Context, rep *report.MonthlyReport) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := rep.Period()
	stored := *rep
	if existing, ok := r.m.monthly[key]; ok {
		stored.FinanceCost = existing.FinanceCost
	}
	r.m.monthly[key] = stored
	return nil
}

func (r memoryMonthly) UpdateFinanceTotals(_ context.Context, year, month int, total, net decimal.Decimal) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := report.Period{Year: year, Month: month}
	rep, ok := r.m.monthly[key]
	if !ok {
		return shared.ErrNotFound
	}
	rep.TotalFinanceCost = total
	rep.NetProfit = net
	r.m.monthly[key] = rep
	return nil
}

func (r memoryMonthly) UpdateFinanceCost(_ context.Context, year, month int, cost decimal.Decimal) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := report.Period{Year: year, Month: month}
	rep, ok := r.m.monthly[key]
	if !ok {
		return shared.ErrNotFound
	}
	rep.FinanceCost = cost
	r.m.monthly[key] = rep
	return nil
}

type memoryYearly struct{ m *memoryStore }

func (r memoryYearly) FindByYear(_ context.Context, year int) (*report.YearlyReport, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rep, ok := r.m.yearly[year]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &rep, nil
}

func (r memoryYearly) FindAll(_ context.Context) ([]report.YearlyReport, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []report.YearlyReport
	for _, rep := range r.m.yearly {
		out = append(out, rep)
	}
	slices.SortFunc(out, func(a, b report.YearlyReport) int { return a.Year - b.Year })
	return out, nil
}

func (r memoryYearly) Exists(_ context.Context, year int) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.yearly[year]
	return ok, nil
}

func (r memoryYearly) LatestYear(_ context.Context) (*int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var latest *int
	for y := range r.m.yearly {
		if latest == nil || y > *latest {
			c := y
			latest = &c
		}
	}
	return latest, nil
}

func (r memoryYearly) Upsert(_ context.Context, rep *report.YearlyReport) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failYearlyUpsert != nil {
		return r.m.failYearlyUpsert
	}
	r.m.yearly[rep.Year] = *rep
	return nil
}

type memoryTracker struct{ m *memoryStore }

func (r memoryTracker) Get(_ context.Context) (*report.GenerationTracker, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.tracker == nil {
		r.m.tracker = report.NewGenerationTracker()
	}
	c := *r.m.tracker
	return &c, nil
}

func (r memoryTracker) Save(_ context.Context, t *report.GenerationTracker) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c := *t
	r.m.tracker = &c
	r.m.trackerSaves++
	return nil
}
