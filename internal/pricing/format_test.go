package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{100, "$1.00"},
		{123456, "$1,234.56"},
		{100000000, "$1,000,000.00"},
		{-1200, "-$12.00"},
		{-123456789, "-$1,234,567.89"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.cents))
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, float64(0), Percentage(50, 0))
	assert.Equal(t, float64(50), Percentage(1, 2))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, float64(100), Percentage(7, 7))
}

func TestSummary(t *testing.T) {
	res, err := CalculateOrderPricing(OrderPricing{
		IsRush: true,
		Items:  []Item{{Quantity: 2, BasePriceCents: 2500}},
		Config: defaultConfig(),
	})
	require.NoError(t, err)

	s := Summary(res)
	assert.Contains(t, s, "1 item(s)")
	assert.Contains(t, s, "subtotal $50.00")
	assert.Contains(t, s, "rush $30.00")
	assert.Contains(t, s, "total $89.60")
}
