package pricing

// Validation is the outcome of checking a Config. Every violated rule is
// reported, not just the first, so the caller can display them all at once.
type Validation struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ValidateConfig checks a pricing configuration. Each rule is evaluated
// independently.
func ValidateConfig(cfg Config) Validation {
	var errs []string

	if cfg.RushFeeSmallCents < 0 {
		errs = append(errs, "Rush fee small must be non-negative")
	}
	if cfg.RushFeeLargeCents < cfg.RushFeeSmallCents {
		errs = append(errs, "Rush fee large must be greater than or equal to rush fee small")
	}
	if cfg.GSTPSTRateBps < 0 || cfg.GSTPSTRateBps > 10000 {
		errs = append(errs, "GST/PST rate must be between 0 and 10000 basis points (0-100%)")
	}

	return Validation{IsValid: len(errs) == 0, Errors: errs}
}
