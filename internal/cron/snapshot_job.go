package cron

import (
	"context"
	"fmt"

	"github.com/optikart/optikart-backend/internal/segmentation"
	"github.com/optikart/optikart-backend/pkg/enums"
	"github.com/optikart/optikart-backend/pkg/logger"
	"github.com/optikart/optikart-backend/pkg/metrics"
)

type summaryRefresher interface {
	Summary(ctx context.Context, refresh bool) (*segmentation.Summary, error)
}

// SnapshotJobParams configure the segmentation snapshot job.
type SnapshotJobParams struct {
	Logger  *logger.Logger
	Service summaryRefresher
	Metrics *metrics.SegmentationMetrics
}

// NewSnapshotJob builds the job that recomputes the segment distribution,
// rewarms the summary cache and publishes population gauges.
func NewSnapshotJob(params SnapshotJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Service == nil {
		return nil, fmt.Errorf("segmentation service required")
	}
	return &snapshotJob{
		logg:    params.Logger,
		service: params.Service,
		metrics: params.Metrics,
	}, nil
}

type snapshotJob struct {
	logg    *logger.Logger
	service summaryRefresher
	metrics *metrics.SegmentationMetrics
}

func (j *snapshotJob) Name() string { return "segmentation-snapshot" }

func (j *snapshotJob) Run(ctx context.Context) error {
	summary, err := j.service.Summary(ctx, true)
	if err != nil {
		return fmt.Errorf("segmentation snapshot: %w", err)
	}

	// Reset every gauge first so segments that emptied out drop to zero.
	populations := make(map[enums.Segment]int64, len(summary.Buckets))
	for _, bucket := range summary.Buckets {
		populations[bucket.Segment] = bucket.Count
	}
	for _, segment := range enums.Segments() {
		j.metrics.SetPopulation(segment.String(), int(populations[segment]))
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"total_customers": summary.TotalCustomers,
		"classified":      summary.Classified,
		"invalid":         summary.Invalid,
		"segments":        len(summary.Buckets),
	})
	if len(summary.Buckets) > 0 {
		// Buckets are sorted by count, so the first one is the largest cohort.
		logCtx = j.logg.WithSegment(logCtx, summary.Buckets[0].Segment.String())
	}
	j.logg.Info(logCtx, "segmentation snapshot complete")
	return nil
}
