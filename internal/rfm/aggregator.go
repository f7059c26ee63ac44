package rfm

import (
	"math"
	"sort"

	"github.com/optikart/optikart-backend/pkg/enums"
)

// SegmentBucket is one row of a segment distribution summary.
type SegmentBucket struct {
	Segment    enums.Segment         `json:"segment"`
	Count      int64                 `json:"count"`
	Percentage int                   `json:"percentage"`
	Metadata   enums.SegmentMetadata `json:"metadata"`
}

// Summarize tallies classified scores into a distribution sorted by count
// descending. Segments with no customers are omitted; ties fall back to the
// segment declaration order. An empty input yields an empty summary.
func Summarize(scores []Score) []SegmentBucket {
	counts := make(map[enums.Segment]int64, len(enums.Segments()))
	for _, s := range scores {
		counts[s.Segment]++
	}
	return SummarizeCounts(counts)
}

// SummarizeCounts builds a distribution from pre-tallied segment counts.
func SummarizeCounts(counts map[enums.Segment]int64) []SegmentBucket {
	var total int64
	for _, c := range counts {
		total += c
	}

	buckets := make([]SegmentBucket, 0, len(counts))
	for segment, count := range counts {
		if count == 0 {
			continue
		}
		buckets = append(buckets, SegmentBucket{
			Segment:    segment,
			Count:      count,
			Percentage: int(math.Round(float64(count) / float64(total) * 100)),
			Metadata:   segment.Metadata(),
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Segment.Ordinal() < buckets[j].Segment.Ordinal()
	})
	return buckets
}
