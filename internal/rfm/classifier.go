package rfm

import (
	"fmt"

	"github.com/optikart/optikart-backend/pkg/enums"
	pkgerrors "github.com/optikart/optikart-backend/pkg/errors"
)

type rule struct {
	segment enums.Segment
	matches func(r, f, m int) bool
}

// rules is an ordered decision list. The first matching rule wins, so the
// order here is load-bearing: CHAMPION must be tested before LOYAL, and the
// low-recency rules before the broad attention rules.
var rules = []rule{
	{enums.SegmentChampion, func(r, f, m int) bool { return r >= 4 && f >= 4 && m >= 4 }},
	{enums.SegmentLoyal, func(r, f, m int) bool { return f >= 4 && r >= 3 }},
	{enums.SegmentCantLose, func(r, f, m int) bool { return r <= 2 && f >= 4 && m >= 4 }},
	{enums.SegmentAtRisk, func(r, f, m int) bool { return r <= 2 && f >= 3 && m >= 3 }},
	{enums.SegmentPotentialLoyalist, func(r, f, m int) bool { return r >= 4 && f >= 2 && f <= 3 }},
	{enums.SegmentNewCustomer, func(r, f, m int) bool { return r >= 4 && f == 1 }},
	{enums.SegmentPromising, func(r, f, m int) bool { return r >= 3 && f <= 2 && m >= 3 }},
	{enums.SegmentNeedsAttention, func(r, f, m int) bool { return r == 3 && f >= 2 }},
	{enums.SegmentAboutToSleep, func(r, f, m int) bool { return r == 2 && f <= 2 }},
	{enums.SegmentHibernating, func(r, f, m int) bool { return r == 1 && f >= 2 }},
}

// Classify maps a score triple onto its customer segment. Every triple in
// 1..5 on all three axes maps to exactly one segment; anything else is a
// validation error.
func Classify(recency, frequency, monetary int) (enums.Segment, error) {
	if err := checkScore("recency", recency); err != nil {
		return "", err
	}
	if err := checkScore("frequency", frequency); err != nil {
		return "", err
	}
	if err := checkScore("monetary", monetary); err != nil {
		return "", err
	}

	for _, r := range rules {
		if r.matches(recency, frequency, monetary) {
			return r.segment, nil
		}
	}
	return enums.SegmentLost, nil
}

func checkScore(axis string, score int) error {
	if score < 1 || score > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s score must be between 1 and 5, got %d", axis, score))
	}
	return nil
}
