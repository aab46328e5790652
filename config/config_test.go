package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadPricingDefaults(t *testing.T) {
	t.Setenv("RUSH_FEE_SMALL_CENTS", "")
	t.Setenv("RUSH_FEE_LARGE_CENTS", "")
	t.Setenv("GST_PST_RATE_BPS", "")
	t.Setenv("RUSH_THRESHOLD_CENTS", "")

	pc := loadPricing()

	assert.Equal(t, int64(DefaultRushFeeSmallCents), pc.Engine.RushFeeSmallCents)
	assert.Equal(t, int64(DefaultRushFeeLargeCents), pc.Engine.RushFeeLargeCents)
	assert.Equal(t, int64(DefaultGSTPSTRateBps), pc.Engine.GSTPSTRateBps)
	assert.Equal(t, int64(10000), pc.RushThresholdCents)
}

func TestLoadPricingFromEnv(t *testing.T) {
	t.Setenv("RUSH_FEE_SMALL_CENTS", "2000")
	t.Setenv("RUSH_FEE_LARGE_CENTS", "5000")
	t.Setenv("GST_PST_RATE_BPS", "500")
	t.Setenv("RUSH_THRESHOLD_CENTS", "15000")

	pc := loadPricing()

	assert.Equal(t, int64(2000), pc.Engine.RushFeeSmallCents)
	assert.Equal(t, int64(5000), pc.Engine.RushFeeLargeCents)
	assert.Equal(t, int64(500), pc.Engine.GSTPSTRateBps)
	assert.Equal(t, int64(15000), pc.RushThresholdCents)
}

func TestLoadPricingUnparseableFallsBack(t *testing.T) {
	t.Setenv("RUSH_FEE_SMALL_CENTS", "thirty dollars")
	t.Setenv("RUSH_FEE_LARGE_CENTS", "")
	t.Setenv("GST_PST_RATE_BPS", "")
	t.Setenv("RUSH_THRESHOLD_CENTS", "")

	pc := loadPricing()
	assert.Equal(t, int64(DefaultRushFeeSmallCents), pc.Engine.RushFeeSmallCents)
}

func TestLoadPricingInvalidConfigFallsBack(t *testing.T) {
	// Inverted tiers fail validation, so the whole pricing config reverts
	// to the documented defaults rather than failing the calculation later.
	t.Setenv("RUSH_FEE_SMALL_CENTS", "6000")
	t.Setenv("RUSH_FEE_LARGE_CENTS", "3000")
	t.Setenv("GST_PST_RATE_BPS", "")
	t.Setenv("RUSH_THRESHOLD_CENTS", "")

	pc := loadPricing()
	assert.Equal(t, int64(DefaultRushFeeSmallCents), pc.Engine.RushFeeSmallCents)
	assert.Equal(t, int64(DefaultRushFeeLargeCents), pc.Engine.RushFeeLargeCents)
}
