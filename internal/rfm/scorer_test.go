package rfm

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/optikart/optikart-backend/pkg/enums"
)

func TestScoreRecencyBoundaries(t *testing.T) {
	s := NewScorer(DefaultThresholds())

	cases := []struct {
		days int
		want int
	}{
		{0, 5},
		{90, 5},
		{91, 4},
		{180, 4},
		{181, 3},
		{365, 3},
		{366, 2},
		{730, 2},
		{731, 1},
		{10000, 1},
	}
	for _, tc := range cases {
		got, err := s.ScoreRecency(tc.days)
		if err != nil {
			t.Fatalf("ScoreRecency(%d) returned error: %v", tc.days, err)
		}
		if got != tc.want {
			t.Fatalf("ScoreRecency(%d) = %d, want %d", tc.days, got, tc.want)
		}
	}

	if _, err := s.ScoreRecency(-1); err == nil {
		t.Fatal("ScoreRecency(-1) expected error, got nil")
	}
}

func TestScoreFrequencyBoundaries(t *testing.T) {
	s := NewScorer(DefaultThresholds())

	cases := []struct {
		orders int64
		want   int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 4},
		{5, 5},
		{50, 5},
	}
	for _, tc := range cases {
		got, err := s.ScoreFrequency(tc.orders)
		if err != nil {
			t.Fatalf("ScoreFrequency(%d) returned error: %v", tc.orders, err)
		}
		if got != tc.want {
			t.Fatalf("ScoreFrequency(%d) = %d, want %d", tc.orders, got, tc.want)
		}
	}

	if _, err := s.ScoreFrequency(-1); err == nil {
		t.Fatal("ScoreFrequency(-1) expected error, got nil")
	}
}

func TestScoreMonetaryBoundaries(t *testing.T) {
	s := NewScorer(DefaultThresholds())

	cases := []struct {
		spend string
		want  int
	}{
		{"0", 1},
		{"4999.99", 1},
		{"5000", 2},
		{"9999.99", 2},
		{"10000", 3},
		{"24999.99", 3},
		{"25000", 4},
		{"49999", 4},
		{"49999.99", 4},
		{"50000", 5},
		{"120000.50", 5},
	}
	for _, tc := range cases {
		spend, err := decimal.NewFromString(tc.spend)
		if err != nil {
			t.Fatalf("bad fixture %q: %v", tc.spend, err)
		}
		got, err := s.ScoreMonetary(spend)
		if err != nil {
			t.Fatalf("ScoreMonetary(%s) returned error: %v", tc.spend, err)
		}
		if got != tc.want {
			t.Fatalf("ScoreMonetary(%s) = %d, want %d", tc.spend, got, tc.want)
		}
	}

	if _, err := s.ScoreMonetary(decimal.NewFromInt(-1)); err == nil {
		t.Fatal("ScoreMonetary(-1) expected error, got nil")
	}
}

func TestScoreRecencyMonotonic(t *testing.T) {
	s := NewScorer(DefaultThresholds())

	prev := 5
	for days := 0; days <= 800; days++ {
		got, err := s.ScoreRecency(days)
		if err != nil {
			t.Fatalf("ScoreRecency(%d) returned error: %v", days, err)
		}
		if got > prev {
			t.Fatalf("ScoreRecency(%d) = %d, increased from %d", days, got, prev)
		}
		prev = got
	}
}

func TestScoreCustomer(t *testing.T) {
	s := NewScorer(DefaultThresholds())
	lastPurchase := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)

	metrics := CustomerMetrics{
		CustomerID:            uuid.New(),
		LastPurchaseAt:        &lastPurchase,
		DaysSinceLastPurchase: 45,
		TotalOrders:           6,
		TotalSpend:            decimal.NewFromInt(62000),
	}

	score, err := s.ScoreCustomer(metrics)
	if err != nil {
		t.Fatalf("ScoreCustomer returned error: %v", err)
	}
	if score.Recency != 5 || score.Frequency != 5 || score.Monetary != 5 {
		t.Fatalf("unexpected scores: %+v", score)
	}
	if score.Total != 15 {
		t.Fatalf("Total = %d, want 15", score.Total)
	}
	if score.Segment != enums.SegmentChampion {
		t.Fatalf("Segment = %s, want %s", score.Segment, enums.SegmentChampion)
	}
	if score.CustomerID != metrics.CustomerID {
		t.Fatal("CustomerID not carried through")
	}
}

func TestScoreCustomerDormant(t *testing.T) {
	s := NewScorer(DefaultThresholds())
	lastPurchase := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	score, err := s.ScoreCustomer(CustomerMetrics{
		CustomerID:            uuid.New(),
		LastPurchaseAt:        &lastPurchase,
		DaysSinceLastPurchase: 800,
		TotalOrders:           1,
		TotalSpend:            decimal.NewFromInt(2000),
	})
	if err != nil {
		t.Fatalf("ScoreCustomer returned error: %v", err)
	}
	if score.Recency != 1 || score.Frequency != 1 || score.Monetary != 1 {
		t.Fatalf("unexpected scores: %+v", score)
	}
	if score.Segment != enums.SegmentLost {
		t.Fatalf("Segment = %s, want %s", score.Segment, enums.SegmentLost)
	}
}

func TestScoreCustomerNeverPurchased(t *testing.T) {
	s := NewScorer(DefaultThresholds())

	score, err := s.ScoreCustomer(CustomerMetrics{
		CustomerID: uuid.New(),
		TotalSpend: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("ScoreCustomer returned error: %v", err)
	}
	if score.Recency != 1 {
		t.Fatalf("Recency = %d for customer without purchases, want 1", score.Recency)
	}
	if score.Segment != enums.SegmentLost {
		t.Fatalf("Segment = %s, want %s", score.Segment, enums.SegmentLost)
	}
}

func TestScoreCustomerInvalidMetrics(t *testing.T) {
	s := NewScorer(DefaultThresholds())
	lastPurchase := time.Now()

	cases := []struct {
		name    string
		metrics CustomerMetrics
	}{
		{
			"negative days",
			CustomerMetrics{LastPurchaseAt: &lastPurchase, DaysSinceLastPurchase: -3, TotalSpend: decimal.Zero},
		},
		{
			"negative orders",
			CustomerMetrics{TotalOrders: -1, TotalSpend: decimal.Zero},
		},
		{
			"negative spend",
			CustomerMetrics{TotalSpend: decimal.NewFromInt(-500)},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.ScoreCustomer(tc.metrics); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
