package report

import (
	"slices"
	"time"

	"github.com/dealership/backend/internal/domain/sales"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AggregationSource records which inputs a monthly or yearly rollup was built from
type AggregationSource string

const (
	// SourceSubPeriodReports means the rollup summed persisted lower-granularity reports
	SourceSubPeriodReports AggregationSource = "SUB_PERIOD_REPORTS"
	// SourceFacts means no lower-granularity reports existed and raw sales were regrouped
	SourceFacts AggregationSource = "FACTS"
)

// MonthlyReport is the rollup of one calendar month, keyed by (Year, Month).
//
// FinanceCost is an informational estimate supplied from outside the engine.
// TotalFinanceCost is always recomputed from finance records and is the only
// cost that feeds NetProfit.
type MonthlyReport struct {
	Year             int               `json:"year"`
	Month            int               `json:"month"`
	StartDate        time.Time         `json:"start_date"`
	EndDate          time.Time         `json:"end_date"`
	TotalSales       int               `json:"total_sales"`
	TotalRevenue     decimal.Decimal   `json:"total_revenue"`
	TotalProfit      decimal.Decimal   `json:"total_profit"`
	AvgDailyProfit   decimal.Decimal   `json:"avg_daily_profit"`
	BestDay          *time.Time        `json:"best_day"`
	BestDayProfit    *decimal.Decimal  `json:"best_day_profit"`
	ProfitMargin     decimal.Decimal   `json:"profit_margin"`
	FinanceCost      decimal.Decimal   `json:"finance_cost"`
	TotalFinanceCost decimal.Decimal   `json:"total_finance_cost"`
	NetProfit        decimal.Decimal   `json:"net_profit"`
	Source           AggregationSource `json:"source"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Period returns the report's (year, month) key
func (r *MonthlyReport) Period() Period {
	return Period{Year: r.Year, Month: r.Month}
}

// ApplyFinanceCost sets the authoritative finance cost and re-derives net profit
func (r *MonthlyReport) ApplyFinanceCost(total decimal.Decimal) {
	r.TotalFinanceCost = valueobject.RoundMoney(total)
	r.NetProfit = valueobject.RoundMoney(r.TotalProfit.Sub(r.TotalFinanceCost))
}

// MonthlyFromDailyReports sums the persisted daily reports of a month.
// The best day is the highest-profit report, lowest date on ties.
func MonthlyFromDailyReports(year, month int, dailies []DailyReport, totalFinanceCost decimal.Decimal) (*MonthlyReport, error) {
	return buildMonthly(year, month, dailies, totalFinanceCost, SourceSubPeriodReports)
}

// MonthlyFromSales aggregates raw sales when no daily reports exist.
// Sales are regrouped by date so the best day and average daily profit are
// computed over the days that had sales.
func MonthlyFromSales(year, month int, facts []sales.Sale, totalFinanceCost decimal.Decimal) (*MonthlyReport, error) {
	return buildMonthly(year, month, groupDailyReports(facts), totalFinanceCost, SourceFacts)
}

func buildMonthly(year, month int, dailies []DailyReport, totalFinanceCost decimal.Decimal, source AggregationSource) (*MonthlyReport, error) {
	start, end, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}

	ordered := slices.Clone(dailies)
	slices.SortFunc(ordered, func(a, b DailyReport) int { return a.ReportDate.Compare(b.ReportDate) })

	r := &MonthlyReport{
		Year:        year,
		Month:       month,
		StartDate:   start,
		EndDate:     end,
		FinanceCost: decimal.Zero,
		Source:      source,
	}

	revenue := decimal.Zero
	profit := decimal.Zero
	best := -1
	for i := range ordered {
		r.TotalSales += ordered[i].TotalSales
		revenue = revenue.Add(ordered[i].TotalRevenue)
		profit = profit.Add(ordered[i].TotalProfit)
		if best < 0 || ordered[i].TotalProfit.GreaterThan(ordered[best].TotalProfit) {
			best = i
		}
	}

	r.TotalRevenue = valueobject.RoundMoney(revenue)
	r.TotalProfit = valueobject.RoundMoney(profit)
	r.AvgDailyProfit = valueobject.DivideMoney(r.TotalProfit, int64(len(ordered)))
	r.ProfitMargin = valueobject.Percentage(r.TotalProfit, r.TotalRevenue)
	if best >= 0 {
		day := ordered[best].ReportDate
		dayProfit := valueobject.RoundMoney(ordered[best].TotalProfit)
		r.BestDay = &day
		r.BestDayProfit = &dayProfit
	}
	r.ApplyFinanceCost(totalFinanceCost)
	return r, nil
}
