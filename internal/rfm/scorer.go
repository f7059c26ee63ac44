package rfm

import (
	"fmt"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/optikart/optikart-backend/pkg/errors"
)

// Scorer maps raw customer metrics onto 1..5 scores using a tier table.
type Scorer struct {
	thresholds Thresholds
}

// NewScorer returns a scorer over a validated tier table.
func NewScorer(t Thresholds) *Scorer {
	return &Scorer{thresholds: t}
}

// ScoreRecency scores days since the last purchase. Fewer days scores higher.
func (s *Scorer) ScoreRecency(days int) (int, error) {
	if days < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("days since last purchase cannot be negative, got %d", days))
	}
	for i, bound := range s.thresholds.RecencyDays {
		if days <= bound {
			return 5 - i, nil
		}
	}
	return 1, nil
}

// ScoreFrequency scores the lifetime completed order count.
func (s *Scorer) ScoreFrequency(orders int64) (int, error) {
	if orders < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("order count cannot be negative, got %d", orders))
	}
	for i, bound := range s.thresholds.FrequencyOrders {
		if orders >= bound {
			return 5 - i, nil
		}
	}
	return 1, nil
}

// ScoreMonetary scores the lifetime spend.
func (s *Scorer) ScoreMonetary(spend decimal.Decimal) (int, error) {
	if spend.IsNegative() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("total spend cannot be negative, got %s", spend))
	}
	for i, bound := range s.thresholds.MonetarySpend {
		if spend.GreaterThanOrEqual(bound) {
			return 5 - i, nil
		}
	}
	return 1, nil
}

// ScoreCustomer scores all three axes and classifies the result. A customer
// with no purchase on record scores the lowest recency tier.
func (s *Scorer) ScoreCustomer(m CustomerMetrics) (Score, error) {
	recency := 1
	if m.LastPurchaseAt != nil {
		r, err := s.ScoreRecency(m.DaysSinceLastPurchase)
		if err != nil {
			return Score{}, err
		}
		recency = r
	}

	frequency, err := s.ScoreFrequency(m.TotalOrders)
	if err != nil {
		return Score{}, err
	}
	monetary, err := s.ScoreMonetary(m.TotalSpend)
	if err != nil {
		return Score{}, err
	}

	segment, err := Classify(recency, frequency, monetary)
	if err != nil {
		return Score{}, err
	}

	return Score{
		CustomerID: m.CustomerID,
		Recency:    recency,
		Frequency:  frequency,
		Monetary:   monetary,
		Total:      recency + frequency + monetary,
		Segment:    segment,
	}, nil
}
