package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationTracker_Needs(t *testing.T) {
	t.Run("empty tracker needs everything", func(t *testing.T) {
		tr := NewGenerationTracker()

		assert.True(t, tr.NeedsDailyReport(date(2025, 6, 1)))
		assert.True(t, tr.NeedsMonthlyReport(2025, 6))
		assert.True(t, tr.NeedsYearlyReport(2025))
	})

	t.Run("monthly cursor advancement", func(t *testing.T) {
		tr := NewGenerationTracker()
		tr.UpdateLastMonthlyReportDate(2025, 6)

		assert.True(t, tr.NeedsMonthlyReport(2025, 7))

		tr.UpdateLastMonthlyReportDate(2025, 7)
		assert.False(t, tr.NeedsMonthlyReport(2025, 7))
	})

	t.Run("cursor differs in either direction", func(t *testing.T) {
		tr := NewGenerationTracker()
		tr.UpdateLastDailyReportDate(date(2025, 6, 10))

		assert.False(t, tr.NeedsDailyReport(date(2025, 6, 10)))
		assert.True(t, tr.NeedsDailyReport(date(2025, 6, 9)))
		assert.True(t, tr.NeedsDailyReport(date(2025, 6, 11)))
	})

	t.Run("yearly cursor", func(t *testing.T) {
		tr := NewGenerationTracker()
		tr.UpdateLastYearlyReportDate(2024)

		assert.True(t, tr.NeedsYearlyReport(2025))
		assert.False(t, tr.NeedsYearlyReport(2024))
	})
}

func TestGenerationTracker_Seed(t *testing.T) {
	tr := NewGenerationTracker()
	tr.UpdateLastYearlyReportDate(2020)
	d := date(2025, 6, 30)

	tr.Seed(&d, &Period{Year: 2025, Month: 6}, nil)

	assert.False(t, tr.NeedsDailyReport(d))
	assert.False(t, tr.NeedsMonthlyReport(2025, 6))
	assert.False(t, tr.NeedsYearlyReport(2020))
}
