package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func defaultConfig() Config {
	return Config{
		RushFeeSmallCents: 3000,
		RushFeeLargeCents: 6000,
		GSTPSTRateBps:     1200,
	}
}

func TestCalculateItemPrice(t *testing.T) {
	ip, err := CalculateItemPrice(Item{Quantity: 2, BasePriceCents: 2500})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), ip.UnitPriceCents)
	assert.Equal(t, int64(5000), ip.TotalPriceCents)
	assert.False(t, ip.IsCustom)
}

func TestCalculateItemPriceCustomOverride(t *testing.T) {
	ip, err := CalculateItemPrice(Item{Quantity: 1, BasePriceCents: 3000, CustomPriceCents: int64Ptr(4000)})
	require.NoError(t, err)
	assert.Equal(t, int64(4000), ip.UnitPriceCents)
	assert.Equal(t, int64(4000), ip.TotalPriceCents)
	assert.True(t, ip.IsCustom)

	// A custom price of zero is still an override, not a fallback.
	ip, err = CalculateItemPrice(Item{Quantity: 3, BasePriceCents: 3000, CustomPriceCents: int64Ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), ip.UnitPriceCents)
	assert.True(t, ip.IsCustom)
}

func TestCalculateItemPriceZeroQuantity(t *testing.T) {
	ip, err := CalculateItemPrice(Item{Quantity: 0, BasePriceCents: 99999})
	require.NoError(t, err)
	assert.Equal(t, int64(0), ip.TotalPriceCents)
}

func TestCalculateItemPriceRejectsNegatives(t *testing.T) {
	_, err := CalculateItemPrice(Item{Quantity: -1, BasePriceCents: 100})
	assert.ErrorIs(t, err, ErrNegativeQuantity)

	_, err = CalculateItemPrice(Item{Quantity: 1, BasePriceCents: -100})
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = CalculateItemPrice(Item{Quantity: 1, BasePriceCents: 100, CustomPriceCents: int64Ptr(-1)})
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestCalculateRushFeeTiers(t *testing.T) {
	cfg := defaultConfig()

	tests := []struct {
		name     string
		subtotal int64
		wantFee  int64
		wantTier RushTier
	}{
		{"zero subtotal still pays small fee", 0, 3000, RushTierSmall},
		{"one cent below threshold", 9999, 3000, RushTierSmall},
		{"exactly at threshold", 10000, 6000, RushTierLarge},
		{"above threshold", 25000, 6000, RushTierLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, tier := CalculateRushFee(tt.subtotal, cfg, 0)
			assert.Equal(t, tt.wantFee, fee)
			assert.Equal(t, tt.wantTier, tier)
		})
	}
}

func TestCalculateRushFeeCustomThreshold(t *testing.T) {
	cfg := defaultConfig()

	fee, tier := CalculateRushFee(5000, cfg, 5000)
	assert.Equal(t, int64(6000), fee)
	assert.Equal(t, RushTierLarge, tier)

	fee, tier = CalculateRushFee(4999, cfg, 5000)
	assert.Equal(t, int64(3000), fee)
	assert.Equal(t, RushTierSmall, tier)
}

func TestCalculateTax(t *testing.T) {
	// 12% of 9000 = 1080, exact.
	assert.Equal(t, int64(1080), CalculateTax(9000, 0, 1200))

	// Rush fee is taxable: 12% of 12000 = 1440.
	assert.Equal(t, int64(1440), CalculateTax(9000, 3000, 1200))

	// Round half-up on the cent: 12% of 1254 = 150.48 -> 150,
	// 12% of 1255 = 150.6 -> 151, 5% of 50 = 2.5 -> 3.
	assert.Equal(t, int64(150), CalculateTax(1254, 0, 1200))
	assert.Equal(t, int64(151), CalculateTax(1255, 0, 1200))
	assert.Equal(t, int64(3), CalculateTax(50, 0, 500))

	assert.Equal(t, int64(0), CalculateTax(0, 0, 1200))
	assert.Equal(t, int64(0), CalculateTax(9000, 0, 0))
}

func TestCalculateOrderPricingNonRush(t *testing.T) {
	op := OrderPricing{
		OrderID: 1,
		Items: []Item{
			{Quantity: 2, BasePriceCents: 2500},
			{Quantity: 1, BasePriceCents: 3000, CustomPriceCents: int64Ptr(4000)},
		},
		Config: defaultConfig(),
	}

	res, err := CalculateOrderPricing(op)
	require.NoError(t, err)

	assert.Equal(t, int64(9000), res.SubtotalCents)
	assert.Equal(t, int64(0), res.RushFeeCents)
	assert.Equal(t, int64(1080), res.TaxCents)
	assert.Equal(t, int64(10080), res.TotalCents)

	require.Len(t, res.Breakdown.Items, 2)
	assert.False(t, res.Breakdown.Items[0].IsCustom)
	assert.True(t, res.Breakdown.Items[1].IsCustom)
	assert.False(t, res.Breakdown.RushApplied)
	assert.Equal(t, int64(1200), res.Breakdown.TaxRateBps)
}

func TestCalculateOrderPricingRush(t *testing.T) {
	op := OrderPricing{
		OrderID: 1,
		IsRush:  true,
		Items: []Item{
			{Quantity: 2, BasePriceCents: 2500},
			{Quantity: 1, BasePriceCents: 3000, CustomPriceCents: int64Ptr(4000)},
		},
		Config: defaultConfig(),
	}

	res, err := CalculateOrderPricing(op)
	require.NoError(t, err)

	// Subtotal 9000 is below the $100 threshold, so the small tier applies.
	assert.Equal(t, int64(9000), res.SubtotalCents)
	assert.Equal(t, int64(3000), res.RushFeeCents)
	assert.Equal(t, int64(1440), res.TaxCents)
	assert.Equal(t, int64(13440), res.TotalCents)
	assert.True(t, res.Breakdown.RushApplied)
}

func TestCalculateOrderPricingEmptyItems(t *testing.T) {
	res, err := CalculateOrderPricing(OrderPricing{Config: defaultConfig()})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.SubtotalCents)
	assert.Equal(t, int64(0), res.TotalCents)
	assert.Empty(t, res.Breakdown.Items)

	// Rush on an empty order still pays the small-tier fee, and tax on it.
	res, err = CalculateOrderPricing(OrderPricing{IsRush: true, Config: defaultConfig()})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.SubtotalCents)
	assert.Equal(t, int64(3000), res.RushFeeCents)
	assert.Equal(t, int64(360), res.TaxCents)
	assert.Equal(t, int64(3360), res.TotalCents)
}

func TestCalculateOrderPricingTotalsInvariant(t *testing.T) {
	ops := []OrderPricing{
		{Items: []Item{{Quantity: 3, BasePriceCents: 1333}}, Config: defaultConfig()},
		{IsRush: true, Items: []Item{{Quantity: 7, BasePriceCents: 1429}}, Config: defaultConfig()},
		{IsRush: true, Items: []Item{{Quantity: 1, BasePriceCents: 9999}}, Config: Config{RushFeeSmallCents: 1, RushFeeLargeCents: 2, GSTPSTRateBps: 333}},
	}

	for _, op := range ops {
		res, err := CalculateOrderPricing(op)
		require.NoError(t, err)
		assert.Equal(t, res.TotalCents, res.SubtotalCents+res.RushFeeCents+res.TaxCents)
	}
}

func TestCalculateOrderPricingDeterminism(t *testing.T) {
	op := OrderPricing{
		OrderID: 42,
		IsRush:  true,
		Items: []Item{
			{GarmentID: 1, ServiceID: 2, Quantity: 2, BasePriceCents: 2500},
			{GarmentID: 1, ServiceID: 3, Quantity: 1, BasePriceCents: 3000, CustomPriceCents: int64Ptr(4000)},
		},
		Config: defaultConfig(),
	}

	first, err := CalculateOrderPricing(op)
	require.NoError(t, err)
	second, err := CalculateOrderPricing(op)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculateBatchPricing(t *testing.T) {
	orders := []OrderPricing{
		{OrderID: 1, Items: []Item{{Quantity: 1, BasePriceCents: 1000}}, Config: defaultConfig()},
		{OrderID: 2, Items: []Item{{Quantity: 1, BasePriceCents: 2000}}, Config: defaultConfig()},
	}

	results, err := CalculateBatchPricing(orders)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(1000), results[1].SubtotalCents)
	assert.Equal(t, int64(2000), results[2].SubtotalCents)
}

func TestCalculateBatchPricingDuplicateIDsLastWriteWins(t *testing.T) {
	orders := []OrderPricing{
		{OrderID: 1, Items: []Item{{Quantity: 1, BasePriceCents: 1000}}, Config: defaultConfig()},
		{OrderID: 1, Items: []Item{{Quantity: 1, BasePriceCents: 5000}}, Config: defaultConfig()},
	}

	results, err := CalculateBatchPricing(orders)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(5000), results[1].SubtotalCents)
}

func TestValidateConfig(t *testing.T) {
	v := ValidateConfig(defaultConfig())
	assert.True(t, v.IsValid)
	assert.Empty(t, v.Errors)
}

func TestValidateConfigInvertedTiers(t *testing.T) {
	v := ValidateConfig(Config{RushFeeSmallCents: 6000, RushFeeLargeCents: 3000, GSTPSTRateBps: 1200})
	assert.False(t, v.IsValid)
	assert.Contains(t, v.Errors, "Rush fee large must be greater than or equal to rush fee small")
}

func TestValidateConfigReportsAllViolations(t *testing.T) {
	v := ValidateConfig(Config{RushFeeSmallCents: -1, RushFeeLargeCents: -2, GSTPSTRateBps: 20000})
	assert.False(t, v.IsValid)
	assert.Len(t, v.Errors, 3)
}

func TestValidateConfigRateBounds(t *testing.T) {
	assert.True(t, ValidateConfig(Config{GSTPSTRateBps: 0}).IsValid)
	assert.True(t, ValidateConfig(Config{GSTPSTRateBps: 10000}).IsValid)
	assert.False(t, ValidateConfig(Config{GSTPSTRateBps: 10001}).IsValid)
	assert.False(t, ValidateConfig(Config{GSTPSTRateBps: -1}).IsValid)
}
