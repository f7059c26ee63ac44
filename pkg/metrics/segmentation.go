package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SegmentationMetrics tracks the health of RFM batch runs.
type SegmentationMetrics struct {
	classified *prometheus.CounterVec
	invalid    prometheus.Counter
	population *prometheus.GaugeVec
}

// NewSegmentationMetrics registers the segmentation collectors on the provided
// registerer.
func NewSegmentationMetrics(reg prometheus.Registerer) *SegmentationMetrics {
	if reg == nil {
		return &SegmentationMetrics{}
	}
	classified := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "segmentation_customers_classified",
		Help: "Customers classified per batch run, labeled by segment.",
	}, []string{"segment"})
	invalid := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "segmentation_invalid_metrics",
		Help: "Customer metric records rejected during classification.",
	})
	population := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "segmentation_population",
		Help: "Customers in each segment as of the latest snapshot.",
	}, []string{"segment"})
	reg.MustRegister(classified, invalid, population)
	return &SegmentationMetrics{
		classified: classified,
		invalid:    invalid,
		population: population,
	}
}

// IncClassified counts one classified customer for the given segment.
func (s *SegmentationMetrics) IncClassified(segment string) {
	if s == nil || s.classified == nil {
		return
	}
	s.classified.WithLabelValues(normalizeLabel(segment)).Inc()
}

// IncInvalid counts one rejected metrics record.
func (s *SegmentationMetrics) IncInvalid() {
	if s == nil || s.invalid == nil {
		return
	}
	s.invalid.Inc()
}

// SetPopulation records the snapshot count for the given segment.
func (s *SegmentationMetrics) SetPopulation(segment string, count int) {
	if s == nil || s.population == nil {
		return
	}
	s.population.WithLabelValues(normalizeLabel(segment)).Set(float64(count))
}
