package report

import (
	"time"

	"github.com/dealership/backend/internal/domain/sales"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyReport is the rollup of every sale on one calendar date.
// ReportDate is its natural key.
type DailyReport struct {
	ReportDate          time.Time        `json:"report_date"`
	TotalSales          int              `json:"total_sales"`
	TotalRevenue        decimal.Decimal  `json:"total_revenue"`
	TotalProfit         decimal.Decimal  `json:"total_profit"`
	AvgProfitPerSale    decimal.Decimal  `json:"avg_profit_per_sale"`
	MostProfitableCarID *uuid.UUID       `json:"most_profitable_car_id"`
	HighestSingleProfit *decimal.Decimal `json:"highest_single_profit"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// IsEmpty reports whether the day had no sales
func (r *DailyReport) IsEmpty() bool {
	return r.TotalSales == 0
}

// CalculateDailyReport rolls up the sales of one date.
// The most profitable car is the first sale with the strictly highest profit/loss.
func CalculateDailyReport(date time.Time, facts []sales.Sale) *DailyReport {
	r := &DailyReport{
		ReportDate:       valueobject.DateOf(date),
		TotalRevenue:     decimal.Zero,
		TotalProfit:      decimal.Zero,
		AvgProfitPerSale: decimal.Zero,
	}
	if len(facts) == 0 {
		return r
	}

	revenue := decimal.Zero
	profit := decimal.Zero
	best := 0
	for i := range facts {
		revenue = revenue.Add(facts[i].SalePrice)
		profit = profit.Add(facts[i].ProfitLoss)
		if facts[i].ProfitLoss.GreaterThan(facts[best].ProfitLoss) {
			best = i
		}
	}

	r.TotalSales = len(facts)
	r.TotalRevenue = valueobject.RoundMoney(revenue)
	r.TotalProfit = valueobject.RoundMoney(profit)
	r.AvgProfitPerSale = valueobject.DivideMoney(r.TotalProfit, int64(r.TotalSales))

	carID := facts[best].CarID
	highest := valueobject.RoundMoney(facts[best].ProfitLoss)
	r.MostProfitableCarID = &carID
	r.HighestSingleProfit = &highest
	return r
}

// groupDailyReports regroups raw sales into per-date reports, ascending by date.
func groupDailyReports(facts []sales.Sale) []DailyReport {
	byDate := make(map[time.Time][]sales.Sale)
	var order []time.Time
	for _, s := range facts {
		d := valueobject.DateOf(s.SaleDate)
		if _, ok := byDate[d]; !ok {
			order = append(order, d)
		}
		byDate[d] = append(byDate[d], s)
	}
	sortDates(order)

	reports := make([]DailyReport, 0, len(order))
	for _, d := range order {
		reports = append(reports, *CalculateDailyReport(d, byDate[d]))
	}
	return reports
}
