package pricing

import (
	"errors"
	"fmt"
)

// DefaultRushThresholdCents is the subtotal at which a rush order moves from
// the small flat fee to the large one ($100).
const DefaultRushThresholdCents int64 = 10000

var (
	ErrNegativeQuantity = errors.New("quantity must be non-negative")
	ErrNegativePrice    = errors.New("price must be non-negative")
)

// RushTier selects which flat rush fee applies to an order.
type RushTier string

const (
	RushTierSmall RushTier = "small"
	RushTierLarge RushTier = "large"
)

// Config holds the shop's pricing configuration. All amounts are integer
// cents; the tax rate is in basis points (1200 = 12%).
type Config struct {
	RushFeeSmallCents int64 `json:"rush_fee_small_cents"`
	RushFeeLargeCents int64 `json:"rush_fee_large_cents"`
	GSTPSTRateBps     int64 `json:"gst_pst_rate_bps"`
}

// Item is one billable garment/service line. CustomPriceCents, when set,
// overrides the catalog base price for this line.
type Item struct {
	GarmentID        int64  `json:"garment_id"`
	ServiceID        int64  `json:"service_id"`
	Quantity         int    `json:"quantity"`
	BasePriceCents   int64  `json:"base_price_cents"`
	CustomPriceCents *int64 `json:"custom_price_cents,omitempty"`
}

// OrderPricing is the input to a full order calculation.
// RushThresholdCents of 0 means DefaultRushThresholdCents.
type OrderPricing struct {
	OrderID            int64  `json:"order_id"`
	IsRush             bool   `json:"is_rush"`
	Items              []Item `json:"items"`
	Config             Config `json:"config"`
	RushThresholdCents int64  `json:"rush_threshold_cents,omitempty"`
}

// ItemPrice is the computed price of a single line.
type ItemPrice struct {
	UnitPriceCents  int64 `json:"unit_price_cents"`
	TotalPriceCents int64 `json:"total_price_cents"`
	IsCustom        bool  `json:"is_custom"`
}

// Breakdown records how a total was arrived at, item by item, so the
// intake estimate, the pricing review and the server-side recompute can
// all be audited against each other.
type Breakdown struct {
	Items       []ItemPrice `json:"items"`
	RushApplied bool        `json:"rush_applied"`
	TaxRateBps  int64       `json:"tax_rate_bps"`
}

// Result is the full pricing of one order.
// Invariant: TotalCents == SubtotalCents + RushFeeCents + TaxCents.
type Result struct {
	SubtotalCents int64     `json:"subtotal_cents"`
	RushFeeCents  int64     `json:"rush_fee_cents"`
	TaxCents      int64     `json:"tax_cents"`
	TotalCents    int64     `json:"total_cents"`
	Breakdown     Breakdown `json:"breakdown"`
}

// CalculateItemPrice prices one line. A custom price, when present, wins over
// the catalog base price. Quantity 0 yields a total of 0 and is not an error;
// negative quantities or prices are rejected.
func CalculateItemPrice(item Item) (ItemPrice, error) {
	if item.Quantity < 0 {
		return ItemPrice{}, fmt.Errorf("garment %d service %d: %w", item.GarmentID, item.ServiceID, ErrNegativeQuantity)
	}

	unit := item.BasePriceCents
	isCustom := item.CustomPriceCents != nil
	if isCustom {
		unit = *item.CustomPriceCents
	}
	if unit < 0 {
		return ItemPrice{}, fmt.Errorf("garment %d service %d: %w", item.GarmentID, item.ServiceID, ErrNegativePrice)
	}

	return ItemPrice{
		UnitPriceCents:  unit,
		TotalPriceCents: unit * int64(item.Quantity),
		IsCustom:        isCustom,
	}, nil
}

// CalculateRushFee returns the flat rush surcharge for a subtotal. The fee is
// flat per tier, not proportional: a zero subtotal still pays the small-tier
// fee once rush is requested. Callers apply it only when the order is rush.
// thresholdCents <= 0 selects DefaultRushThresholdCents.
func CalculateRushFee(subtotalCents int64, cfg Config, thresholdCents int64) (int64, RushTier) {
	if thresholdCents <= 0 {
		thresholdCents = DefaultRushThresholdCents
	}
	if subtotalCents >= thresholdCents {
		return cfg.RushFeeLargeCents, RushTierLarge
	}
	return cfg.RushFeeSmallCents, RushTierSmall
}

// CalculateTax computes tax on subtotal plus rush fee (the rush fee is
// taxable), rounding half-up on the cent boundary. Integer math only.
func CalculateTax(subtotalCents, rushFeeCents, rateBps int64) int64 {
	base := subtotalCents + rushFeeCents
	if base <= 0 || rateBps <= 0 {
		return 0
	}
	return (base*rateBps + 5000) / 10000
}

// CalculateOrderPricing prices a whole order. It is deterministic: identical
// inputs always produce identical results, so the intake-time estimate, the
// review-step estimate and the server-side recompute agree exactly.
func CalculateOrderPricing(op OrderPricing) (Result, error) {
	itemPrices := make([]ItemPrice, 0, len(op.Items))
	var subtotal int64
	for _, item := range op.Items {
		ip, err := CalculateItemPrice(item)
		if err != nil {
			return Result{}, fmt.Errorf("order %d: %w", op.OrderID, err)
		}
		itemPrices = append(itemPrices, ip)
		subtotal += ip.TotalPriceCents
	}

	var rushFee int64
	if op.IsRush {
		rushFee, _ = CalculateRushFee(subtotal, op.Config, op.RushThresholdCents)
	}

	tax := CalculateTax(subtotal, rushFee, op.Config.GSTPSTRateBps)

	return Result{
		SubtotalCents: subtotal,
		RushFeeCents:  rushFee,
		TaxCents:      tax,
		TotalCents:    subtotal + rushFee + tax,
		Breakdown: Breakdown{
			Items:       itemPrices,
			RushApplied: op.IsRush,
			TaxRateBps:  op.Config.GSTPSTRateBps,
		},
	}, nil
}

// CalculateBatchPricing prices each order independently. Duplicate order IDs
// are last-write-wins into the result map.
func CalculateBatchPricing(orders []OrderPricing) (map[int64]Result, error) {
	results := make(map[int64]Result, len(orders))
	for _, op := range orders {
		res, err := CalculateOrderPricing(op)
		if err != nil {
			return nil, err
		}
		results[op.OrderID] = res
	}
	return results, nil
}
