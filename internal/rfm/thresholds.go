package rfm

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/optikart/optikart-backend/pkg/config"
)

const tierCount = 4

// Thresholds holds the tier boundaries for the three scoring axes. Each array
// runs from the score-5 boundary down to the score-2 boundary; anything past
// the last entry scores 1.
//
// Recency boundaries are inclusive upper bounds in days (fewer days is
// better). Frequency and monetary boundaries are inclusive lower bounds
// (more is better).
type Thresholds struct {
	RecencyDays     [tierCount]int
	FrequencyOrders [tierCount]int64
	MonetarySpend   [tierCount]decimal.Decimal
}

// DefaultThresholds returns the reference tier table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RecencyDays:     [tierCount]int{90, 180, 365, 730},
		FrequencyOrders: [tierCount]int64{5, 4, 3, 2},
		MonetarySpend: [tierCount]decimal.Decimal{
			decimal.NewFromInt(50000),
			decimal.NewFromInt(25000),
			decimal.NewFromInt(10000),
			decimal.NewFromInt(5000),
		},
	}
}

// NewThresholds builds a validated tier table from environment configuration.
func NewThresholds(cfg config.RFMConfig) (Thresholds, error) {
	var t Thresholds

	if len(cfg.RecencyDays) != tierCount {
		return t, fmt.Errorf("recency tiers: expected %d values, got %d", tierCount, len(cfg.RecencyDays))
	}
	if len(cfg.FrequencyOrders) != tierCount {
		return t, fmt.Errorf("frequency tiers: expected %d values, got %d", tierCount, len(cfg.FrequencyOrders))
	}
	if len(cfg.MonetarySpend) != tierCount {
		return t, fmt.Errorf("monetary tiers: expected %d values, got %d", tierCount, len(cfg.MonetarySpend))
	}

	copy(t.RecencyDays[:], cfg.RecencyDays)
	copy(t.FrequencyOrders[:], cfg.FrequencyOrders)
	for i, raw := range cfg.MonetarySpend {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return t, fmt.Errorf("monetary tier %d: %w", i, err)
		}
		t.MonetarySpend[i] = amount
	}

	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate checks that every tier table is positive and strictly ordered so
// the scorers stay monotonic.
func (t Thresholds) Validate() error {
	for i := 0; i < tierCount; i++ {
		if t.RecencyDays[i] <= 0 {
			return fmt.Errorf("recency tier %d must be positive", i)
		}
		if t.FrequencyOrders[i] <= 0 {
			return fmt.Errorf("frequency tier %d must be positive", i)
		}
		if t.MonetarySpend[i].Sign() <= 0 {
			return fmt.Errorf("monetary tier %d must be positive", i)
		}
	}
	for i := 1; i < tierCount; i++ {
		if t.RecencyDays[i] <= t.RecencyDays[i-1] {
			return fmt.Errorf("recency tiers must be strictly increasing")
		}
		if t.FrequencyOrders[i] >= t.FrequencyOrders[i-1] {
			return fmt.Errorf("frequency tiers must be strictly decreasing")
		}
		if t.MonetarySpend[i].GreaterThanOrEqual(t.MonetarySpend[i-1]) {
			return fmt.Errorf("monetary tiers must be strictly decreasing")
		}
	}
	return nil
}
