package enums

import "fmt"

// Segment is a customer lifecycle class derived from RFM scoring.
type Segment string

const (
	SegmentChampion          Segment = "champion"
	SegmentLoyal             Segment = "loyal"
	SegmentPotentialLoyalist Segment = "potential_loyalist"
	SegmentNewCustomer       Segment = "new_customer"
	SegmentPromising         Segment = "promising"
	SegmentNeedsAttention    Segment = "needs_attention"
	SegmentAboutToSleep      Segment = "about_to_sleep"
	SegmentAtRisk            Segment = "at_risk"
	SegmentCantLose          Segment = "cant_lose"
	SegmentHibernating       Segment = "hibernating"
	SegmentLost              Segment = "lost"
)

// validSegments doubles as the deterministic tie-break order for summary
// entries with equal counts.
var validSegments = []Segment{
	SegmentChampion,
	SegmentLoyal,
	SegmentPotentialLoyalist,
	SegmentNewCustomer,
	SegmentPromising,
	SegmentNeedsAttention,
	SegmentAboutToSleep,
	SegmentAtRisk,
	SegmentCantLose,
	SegmentHibernating,
	SegmentLost,
}

// String implements fmt.Stringer.
func (s Segment) String() string {
	return string(s)
}

// IsValid reports whether the segment is a known value.
func (s Segment) IsValid() bool {
	for _, candidate := range validSegments {
		if candidate == s {
			return true
		}
	}
	return false
}

// Ordinal returns the declaration position of the segment, or -1 for unknown
// values.
func (s Segment) Ordinal() int {
	for i, candidate := range validSegments {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Segments returns every segment in declaration order.
func Segments() []Segment {
	out := make([]Segment, len(validSegments))
	copy(out, validSegments)
	return out
}

// ParseSegment converts raw input into a Segment.
func ParseSegment(value string) (Segment, error) {
	for _, candidate := range validSegments {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid segment %q", value)
}

// SegmentMetadata is the static descriptive record the back-office UI and
// campaign tooling read for each segment. Nothing here affects classification.
type SegmentMetadata struct {
	Label  string `json:"label"`
	Action string `json:"action"`
	Tone   string `json:"tone"`
}

var segmentMetadata = map[Segment]SegmentMetadata{
	SegmentChampion: {
		Label:  "Champion",
		Action: "Reward them; they are the first audience for new collections.",
		Tone:   "emerald",
	},
	SegmentLoyal: {
		Label:  "Loyal Customer",
		Action: "Upsell higher-value products and ask for reviews.",
		Tone:   "green",
	},
	SegmentPotentialLoyalist: {
		Label:  "Potential Loyalist",
		Action: "Offer the loyalty program and a membership discount.",
		Tone:   "teal",
	},
	SegmentNewCustomer: {
		Label:  "New Customer",
		Action: "Provide onboarding support and a first repeat-purchase offer.",
		Tone:   "sky",
	},
	SegmentPromising: {
		Label:  "Promising",
		Action: "Build brand awareness with curated recommendations.",
		Tone:   "cyan",
	},
	SegmentNeedsAttention: {
		Label:  "Needs Attention",
		Action: "Send limited-time offers based on past purchases.",
		Tone:   "amber",
	},
	SegmentAboutToSleep: {
		Label:  "About To Sleep",
		Action: "Recommend popular products before they disengage.",
		Tone:   "orange",
	},
	SegmentAtRisk: {
		Label:  "At Risk",
		Action: "Send personalized reactivation offers and reconnect.",
		Tone:   "rose",
	},
	SegmentCantLose: {
		Label:  "Can't Lose Them",
		Action: "Win them back with renewals; reach out personally.",
		Tone:   "red",
	},
	SegmentHibernating: {
		Label:  "Hibernating",
		Action: "Offer relevant products with meaningful discounts.",
		Tone:   "slate",
	},
	SegmentLost: {
		Label:  "Lost",
		Action: "Attempt one revive campaign; deprioritize otherwise.",
		Tone:   "gray",
	},
}

// Metadata returns the display record for the segment. Unknown segments map
// to the lost record so callers never render an empty badge.
func (s Segment) Metadata() SegmentMetadata {
	if meta, ok := segmentMetadata[s]; ok {
		return meta
	}
	return segmentMetadata[SegmentLost]
}
