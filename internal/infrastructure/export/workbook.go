// Package export renders reports as xlsx workbooks.
package export

import (
	"fmt"

	"github.com/dealership/backend/internal/domain/report"
	"github.com/dealership/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	MonthsSheet  = "Months"
)

var monthHeaders = []string{
	"Month", "Total Sales", "Total Revenue", "Total Profit", "Avg Daily Profit",
	"Best Day", "Best Day Profit", "Profit Margin %", "Finance Cost",
	"Total Finance Cost", "Net Profit", "Source",
}

// XLSXBuilder renders yearly reports with excelize
type XLSXBuilder struct{}

// NewXLSXBuilder creates an XLSXBuilder
func NewXLSXBuilder() *XLSXBuilder {
	return &XLSXBuilder{}
}

// BuildYearlyWorkbook writes the yearly summary to one sheet and the months to another
func (b *XLSXBuilder) BuildYearlyWorkbook(yearly *report.YearlyReport, monthlies []report.MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if err := writeSummary(f, yearly); err != nil {
		return nil, fmt.Errorf("write summary sheet: %w", err)
	}

	if _, err := f.NewSheet(MonthsSheet); err != nil {
		return nil, err
	}
	if err := writeMonths(f, monthlies); err != nil {
		return nil, fmt.Errorf("write months sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, y *report.YearlyReport) error {
	rows := [][]any{
		{"Year", y.Year},
		{"Total Sales", y.TotalSales},
		{"Total Revenue", money(y.TotalRevenue)},
		{"Total Profit", money(y.TotalProfit)},
		{"Avg Monthly Profit", money(y.AvgMonthlyProfit)},
		{"Best Month", optionalInt(y.BestMonth)},
		{"Best Month Profit", optionalMoney(y.BestMonthProfit)},
		{"Profit Margin %", money(y.ProfitMargin)},
		{"YoY Growth %", optionalMoney(y.YoYGrowth)},
		{"Finance Cost", money(y.FinanceCost)},
		{"Total Finance Cost", money(y.TotalFinanceCost)},
		{"Total Net Profit", money(y.TotalNetProfit)},
		{"Source", string(y.Source)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeMonths(f *excelize.File, monthlies []report.MonthlyReport) error {
	if err := f.SetSheetRow(MonthsSheet, "A1", &monthHeaders); err != nil {
		return err
	}
	for i, m := range monthlies {
		bestDay := ""
		if m.BestDay != nil {
			bestDay = valueobject.FormatDate(*m.BestDay)
		}
		row := []any{
			m.Period().String(),
			m.TotalSales,
			money(m.TotalRevenue),
			money(m.TotalProfit),
			money(m.AvgDailyProfit),
			bestDay,
			optionalMoney(m.BestDayProfit),
			money(m.ProfitMargin),
			money(m.FinanceCost),
			money(m.TotalFinanceCost),
			money(m.NetProfit),
			string(m.Source),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(MonthsSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// money renders amounts as fixed two-decimal numbers
func money(d decimal.Decimal) float64 {
	return valueobject.RoundMoney(d).InexactFloat64()
}

func optionalMoney(d *decimal.Decimal) any {
	if d == nil {
		return ""
	}
	return money(*d)
}

func optionalInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
