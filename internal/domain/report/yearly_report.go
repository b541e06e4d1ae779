package report

import (
	"slices"
	"time"

	"github.com/dealership/backend/internal/domain/sales"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// YearlyReport is the rollup of one calendar year, keyed by Year.
type YearlyReport struct {
	Year             int               `json:"year"`
	TotalSales       int               `json:"total_sales"`
	TotalRevenue     decimal.Decimal   `json:"total_revenue"`
	TotalProfit      decimal.Decimal   `json:"total_profit"`
	AvgMonthlyProfit decimal.Decimal   `json:"avg_monthly_profit"`
	BestMonth        *int              `json:"best_month"`
	BestMonthProfit  *decimal.Decimal  `json:"best_month_profit"`
	ProfitMargin     decimal.Decimal   `json:"profit_margin"`
	YoYGrowth        *decimal.Decimal  `json:"yoy_growth"`
	FinanceCost      decimal.Decimal   `json:"finance_cost"`
	TotalFinanceCost decimal.Decimal   `json:"total_finance_cost"`
	TotalNetProfit   decimal.Decimal   `json:"total_net_profit"`
	Source           AggregationSource `json:"source"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// YearlyFromMonthlyReports sums the persisted monthly reports of a year.
// Finance and net profit totals are the sums of the monthly fields.
func YearlyFromMonthlyReports(year int, monthlies []MonthlyReport) (*YearlyReport, error) {
	if err := ValidateYear(year); err != nil {
		return nil, err
	}
	r := buildYearly(year, monthlies, SourceSubPeriodReports)

	financeCost := decimal.Zero
	totalFinanceCost := decimal.Zero
	netProfit := decimal.Zero
	for i := range monthlies {
		financeCost = financeCost.Add(monthlies[i].FinanceCost)
		totalFinanceCost = totalFinanceCost.Add(monthlies[i].TotalFinanceCost)
		netProfit = netProfit.Add(monthlies[i].NetProfit)
	}
	r.FinanceCost = valueobject.RoundMoney(financeCost)
	r.TotalFinanceCost = valueobject.RoundMoney(totalFinanceCost)
	r.TotalNetProfit = valueobject.RoundMoney(netProfit)
	return r, nil
}

// YearlyFromSales aggregates raw sales when no monthly reports exist.
// Sales are regrouped by month so the best month and monthly average are
// computed over months that had sales. The finance cost is the year's total
// from finance records.
func YearlyFromSales(year int, facts []sales.Sale, totalFinanceCost decimal.Decimal) (*YearlyReport, error) {
	if err := ValidateYear(year); err != nil {
		return nil, err
	}

	byMonth := make(map[int][]sales.Sale)
	for _, s := range facts {
		m := int(s.SaleDate.Month())
		byMonth[m] = append(byMonth[m], s)
	}
	months := make([]int, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	slices.Sort(months)

	monthlies := make([]MonthlyReport, 0, len(months))
	for _, m := range months {
		mr, err := MonthlyFromSales(year, m, byMonth[m], decimal.Zero)
		if err != nil {
			return nil, err
		}
		monthlies = append(monthlies, *mr)
	}

	r := buildYearly(year, monthlies, SourceFacts)
	r.FinanceCost = decimal.Zero
	r.TotalFinanceCost = valueobject.RoundMoney(totalFinanceCost)
	r.TotalNetProfit = valueobject.RoundMoney(r.TotalProfit.Sub(r.TotalFinanceCost))
	return r, nil
}

func buildYearly(year int, monthlies []MonthlyReport, source AggregationSource) *YearlyReport {
	ordered := slices.Clone(monthlies)
	slices.SortFunc(ordered, func(a, b MonthlyReport) int { return a.Month - b.Month })

	r := &YearlyReport{Year: year, Source: source}
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
	r.AvgMonthlyProfit = valueobject.DivideMoney(r.TotalProfit, int64(len(ordered)))
	r.ProfitMargin = valueobject.Percentage(r.TotalProfit, r.TotalRevenue)
	if best >= 0 {
		month := ordered[best].Month
		monthProfit := valueobject.RoundMoney(ordered[best].TotalProfit)
		r.BestMonth = &month
		r.BestMonthProfit = &monthProfit
	}
	return r
}

// ApplyPriorYear sets the year-over-year growth against the prior year's report.
func (r *YearlyReport) ApplyPriorYear(prior *YearlyReport) {
	r.YoYGrowth = YoYGrowth(r.TotalProfit, prior)
}

// YoYGrowth computes growth of current profit over the prior year's profit, in percent.
//
//   - no prior report: nil
//   - prior profit zero: 100 when current is positive, otherwise 0
//   - otherwise (current-prior)/|prior|*100
func YoYGrowth(current decimal.Decimal, prior *YearlyReport) *decimal.Decimal {
	if prior == nil {
		return nil
	}
	var growth decimal.Decimal
	switch {
	case prior.TotalProfit.IsZero() && current.IsPositive():
		growth = decimal.NewFromInt(100)
	case prior.TotalProfit.IsZero():
		growth = decimal.Zero
	default:
		growth = valueobject.Percentage(current.Sub(prior.TotalProfit), prior.TotalProfit.Abs())
	}
	return &growth
}
