package valueobject

import (
	"fmt"
	"time"

	"github.com/dealership/backend/internal/domain/shared"
)

// DateLayout is the canonical wire form of a calendar date.
const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar date at UTC midnight.
// The calendar fields are taken from t's own location, so a sale entered
// as 2025-06-15 23:30 local time stays on the 15th.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDate builds a UTC-midnight date from calendar fields.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC-midnight date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, shared.WrapDomainError(shared.ErrInvalidDate.Code, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s), err)
	}
	return t, nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDate reports whether two instants fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
