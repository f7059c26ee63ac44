package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/optikart/optikart-backend/internal/rfm"
	"github.com/optikart/optikart-backend/internal/segmentation"
	"github.com/optikart/optikart-backend/pkg/enums"
	"github.com/optikart/optikart-backend/pkg/logger"
)

type fakeRefresher struct {
	summary    *segmentation.Summary
	err        error
	calls      int
	lastForced bool
}

func (f *fakeRefresher) Summary(_ context.Context, refresh bool) (*segmentation.Summary, error) {
	f.calls++
	f.lastForced = refresh
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func TestSnapshotJobForcesRefresh(t *testing.T) {
	refresher := &fakeRefresher{summary: &segmentation.Summary{
		TotalCustomers: 3,
		Classified:     3,
		Buckets: []rfm.SegmentBucket{
			{Segment: enums.SegmentChampion, Count: 2, Percentage: 67},
			{Segment: enums.SegmentLost, Count: 1, Percentage: 33},
		},
	}}
	job, err := NewSnapshotJob(SnapshotJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Service: refresher,
	})
	if err != nil {
		t.Fatalf("NewSnapshotJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if refresher.calls != 1 {
		t.Fatalf("expected one summary call, got %d", refresher.calls)
	}
	if !refresher.lastForced {
		t.Fatal("snapshot must bypass the cache")
	}
}

func TestSnapshotJobPropagatesErrors(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("boom")}
	job, err := NewSnapshotJob(SnapshotJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Service: refresher,
	})
	if err != nil {
		t.Fatalf("NewSnapshotJob: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSnapshotJobName(t *testing.T) {
	job, err := NewSnapshotJob(SnapshotJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Service: &fakeRefresher{summary: &segmentation.Summary{}},
	})
	if err != nil {
		t.Fatalf("NewSnapshotJob: %v", err)
	}
	if job.Name() != "segmentation-snapshot" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
}
