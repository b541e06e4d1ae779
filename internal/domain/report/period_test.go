package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthRange(t *testing.T) {
	start, end, err := MonthRange(2024, 2)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 1), start)
	assert.Equal(t, date(2024, 2, 29), end)

	_, _, err = MonthRange(2024, 0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, _, err = MonthRange(1800, 1)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestYearRange(t *testing.T) {
	start, end, err := YearRange(2025)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 1, 1), start)
	assert.Equal(t, date(2025, 12, 31), end)
}

func TestPeriod_Previous(t *testing.T) {
	assert.Equal(t, Period{Year: 2024, Month: 12}, Period{Year: 2025, Month: 1}.Previous())
	assert.Equal(t, Period{Year: 2025, Month: 5}, Period{Year: 2025, Month: 6}.Previous())
	assert.Equal(t, "2025-06", Period{Year: 2025, Month: 6}.String())
}

func TestDatesBetween(t *testing.T) {
	dates := DatesBetween(date(2025, 2, 27), date(2025, 3, 2))
	assert.Equal(t, []time.Time{date(2025, 2, 27), date(2025, 2, 28), date(2025, 3, 1), date(2025, 3, 2)}, dates)

	assert.Empty(t, DatesBetween(date(2025, 3, 2), date(2025, 3, 1)))
	assert.ErrorIs(t, ValidateDateRange(date(2025, 3, 2), date(2025, 3, 1)), ErrInvalidDateRange)
	assert.NoError(t, ValidateDateRange(date(2025, 3, 1), date(2025, 3, 1)))
}
