package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1"},
		{"-1.005", "-1.01"},
		{"2.5", "2.5"},
		{"1234.5678", "1234.57"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, RoundMoney(dec(tt.in)).Equal(dec(tt.want)), "got %s", RoundMoney(dec(tt.in)))
		})
	}
}

func TestSumMoney(t *testing.T) {
	assert.True(t, SumMoney().IsZero())
	assert.True(t, SumMoney(dec("0.1"), dec("0.2")).Equal(dec("0.3")))
	assert.True(t, SumMoney(dec("4000"), dec("-500")).Equal(dec("3500")))
}

func TestDivideMoney(t *testing.T) {
	assert.True(t, DivideMoney(dec("3500"), 2).Equal(dec("1750")))
	assert.True(t, DivideMoney(dec("10"), 3).Equal(dec("3.33")))
	assert.True(t, DivideMoney(dec("10"), 0).IsZero())
}

func TestPercentage(t *testing.T) {
	assert.True(t, Percentage(dec("3500"), dec("50000")).Equal(dec("7")))
	assert.True(t, Percentage(dec("1"), dec("3")).Equal(dec("33.33")))
	assert.True(t, Percentage(dec("100"), decimal.Zero).IsZero())
}

func TestParseMoney(t *testing.T) {
	t.Run("valid amount", func(t *testing.T) {
		d, err := ParseMoney("25000.50")
		require.NoError(t, err)
		assert.True(t, d.Equal(dec("25000.5")))
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := ParseMoney("-1")
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseMoney("abc")
		assert.Error(t, err)
	})
}
