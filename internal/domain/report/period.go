package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/dealership/backend/internal/domain/shared/valueobject"
)

const (
	minYear = 1900
	maxYear = 9999
)

// Period identifies a calendar month
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// PeriodOf returns the month a date falls in
func PeriodOf(date time.Time) Period {
	return Period{Year: date.Year(), Month: int(date.Month())}
}

// Previous returns the month before p
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// ValidateYear checks the year is within the supported range
func ValidateYear(year int) error {
	if year < minYear || year > maxYear {
		return ErrInvalidPeriod
	}
	return nil
}

// ValidateMonth checks both year and month
func ValidateMonth(year, month int) error {
	if err := ValidateYear(year); err != nil {
		return err
	}
	if month < 1 || month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}

// MonthRange returns the first and last calendar day of the month
func MonthRange(year, month int) (time.Time, time.Time, error) {
	if err := ValidateMonth(year, month); err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := valueobject.NewDate(year, time.Month(month), 1)
	return start, start.AddDate(0, 1, -1), nil
}

// YearRange returns January 1st and December 31st of the year
func YearRange(year int) (time.Time, time.Time, error) {
	if err := ValidateYear(year); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return valueobject.NewDate(year, time.January, 1), valueobject.NewDate(year, time.December, 31), nil
}

// ValidateDateRange checks from <= to after normalizing both to dates
func ValidateDateRange(from, to time.Time) error {
	if valueobject.DateOf(from).After(valueobject.DateOf(to)) {
		return ErrInvalidDateRange
	}
	return nil
}

// DatesBetween lists every calendar date in [from, to], ascending
func DatesBetween(from, to time.Time) []time.Time {
	from, to = valueobject.DateOf(from), valueobject.DateOf(to)
	var dates []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func sortDates(dates []time.Time) {
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
}
