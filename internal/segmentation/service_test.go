package segmentation

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/optikart/optikart-backend/internal/rfm"
	"github.com/optikart/optikart-backend/pkg/config"
	"github.com/optikart/optikart-backend/pkg/db/models"
	"github.com/optikart/optikart-backend/pkg/enums"
	pkgerrors "github.com/optikart/optikart-backend/pkg/errors"
	"github.com/optikart/optikart-backend/pkg/logger"
	"github.com/optikart/optikart-backend/pkg/pagination"
	"github.com/optikart/optikart-backend/pkg/redis"
)

type fakeSource struct {
	customers map[uuid.UUID]*models.Customer
	metrics   []rfm.CustomerMetrics
	listErr   error
}

func (f *fakeSource) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	if c, ok := f.customers[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSource) MetricsByID(_ context.Context, id uuid.UUID) (*rfm.CustomerMetrics, error) {
	for _, m := range f.metrics {
		if m.CustomerID == id {
			copied := m
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSource) ListMetrics(_ context.Context, params pagination.Params) ([]rfm.CustomerMetrics, *pagination.Cursor, error) {
	if f.listErr != nil {
		return nil, nil, f.listErr
	}
	limit := pagination.NormalizeLimit(params.Limit)
	if limit >= len(f.metrics) {
		return f.metrics, nil, nil
	}
	return f.metrics[:limit], &pagination.Cursor{CreatedAt: time.Now(), ID: f.metrics[limit-1].CustomerID}, nil
}

func (f *fakeSource) ForEachMetricsBatch(_ context.Context, batchSize int, fn func([]rfm.CustomerMetrics) error) error {
	if f.listErr != nil {
		return f.listErr
	}
	for start := 0; start < len(f.metrics); start += batchSize {
		end := start + batchSize
		if end > len(f.metrics) {
			end = len(f.metrics)
		}
		if err := fn(f.metrics[start:end]); err != nil {
			return err
		}
	}
	return nil
}

type fakeCache struct {
	values map[string]string
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.sets++
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return nil
}

func (f *fakeCache) CacheKey(parts ...string) string {
	return "ok:cache:" + strings.Join(parts, ":")
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func metricsFor(id uuid.UUID, days int, orders int64, spend int64) rfm.CustomerMetrics {
	at := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
	return rfm.CustomerMetrics{
		CustomerID:            id,
		LastPurchaseAt:        &at,
		DaysSinceLastPurchase: days,
		TotalOrders:           orders,
		TotalSpend:            decimal.NewFromInt(spend),
	}
}

func newTestService(t *testing.T, source *fakeSource, cache *fakeCache) *Service {
	t.Helper()

	var c summaryCache
	if cache != nil {
		c = cache
	}
	svc, err := NewService(
		source,
		c,
		rfm.NewScorer(rfm.DefaultThresholds()),
		nil,
		testLogger(),
		config.SegmentationConfig{Workers: 3, SummaryCacheTTL: time.Minute},
	)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc.WithClock(func() time.Time {
		return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	})
}

func TestSummaryComputesAndCaches(t *testing.T) {
	source := &fakeSource{metrics: []rfm.CustomerMetrics{
		metricsFor(uuid.New(), 30, 6, 60000),
		metricsFor(uuid.New(), 30, 6, 60000),
		metricsFor(uuid.New(), 900, 1, 100),
	}}
	cache := newFakeCache()
	svc := newTestService(t, source, cache)

	summary, err := svc.Summary(context.Background(), false)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.FromCache {
		t.Fatal("first summary should not come from cache")
	}
	if summary.TotalCustomers != 3 || summary.Classified != 3 || summary.Invalid != 0 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if len(summary.Buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(summary.Buckets))
	}
	if summary.Buckets[0].Segment != enums.SegmentChampion || summary.Buckets[0].Count != 2 {
		t.Fatalf("unexpected first bucket: %+v", summary.Buckets[0])
	}
	if summary.Buckets[1].Segment != enums.SegmentLost || summary.Buckets[1].Count != 1 {
		t.Fatalf("unexpected second bucket: %+v", summary.Buckets[1])
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}

	again, err := svc.Summary(context.Background(), false)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if !again.FromCache {
		t.Fatal("second summary should come from cache")
	}
	if again.Classified != 3 {
		t.Fatalf("cached summary lost data: %+v", again)
	}
}

func TestSummaryRefreshBypassesCache(t *testing.T) {
	source := &fakeSource{metrics: []rfm.CustomerMetrics{metricsFor(uuid.New(), 30, 6, 60000)}}
	cache := newFakeCache()
	stale, _ := json.Marshal(Summary{Classified: 99})
	cache.values["ok:cache:segmentation:summary"] = string(stale)
	svc := newTestService(t, source, cache)

	summary, err := svc.Summary(context.Background(), true)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.FromCache || summary.Classified != 1 {
		t.Fatalf("refresh should recompute, got %+v", summary)
	}
	if cache.sets != 1 {
		t.Fatalf("refresh should rewrite the cache, got %d writes", cache.sets)
	}
}

func TestSummaryIsolatesInvalidRecords(t *testing.T) {
	bad := metricsFor(uuid.New(), 30, 6, 60000)
	bad.TotalSpend = decimal.NewFromInt(-1)
	source := &fakeSource{metrics: []rfm.CustomerMetrics{
		metricsFor(uuid.New(), 30, 6, 60000),
		bad,
		metricsFor(uuid.New(), 900, 1, 100),
	}}
	svc := newTestService(t, source, nil)

	summary, err := svc.Summary(context.Background(), false)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.TotalCustomers != 3 || summary.Classified != 2 || summary.Invalid != 1 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
}

func TestSummaryEmptyBase(t *testing.T) {
	svc := newTestService(t, &fakeSource{}, nil)

	summary, err := svc.Summary(context.Background(), false)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.TotalCustomers != 0 || len(summary.Buckets) != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

func TestSummaryPropagatesScanFailure(t *testing.T) {
	source := &fakeSource{listErr: gorm.ErrInvalidDB}
	svc := newTestService(t, source, nil)

	_, err := svc.Summary(context.Background(), false)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestScoredCustomers(t *testing.T) {
	champID := uuid.New()
	bad := metricsFor(uuid.New(), 30, 6, 60000)
	bad.TotalOrders = -1
	source := &fakeSource{metrics: []rfm.CustomerMetrics{
		metricsFor(champID, 30, 6, 60000),
		bad,
	}}
	svc := newTestService(t, source, nil)

	page, err := svc.ScoredCustomers(context.Background(), pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("ScoredCustomers returned error: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected invalid record dropped, got %d items", len(page.Items))
	}
	item := page.Items[0]
	if item.CustomerID != champID || item.Score.Segment != enums.SegmentChampion {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.TotalSpend != "60000.00" {
		t.Fatalf("unexpected spend formatting: %q", item.TotalSpend)
	}
	if item.Metadata.Label != "Champion" {
		t.Fatalf("metadata missing: %+v", item.Metadata)
	}
}

func TestCustomerDetail(t *testing.T) {
	id := uuid.New()
	source := &fakeSource{
		customers: map[uuid.UUID]*models.Customer{
			id: {ID: id, FirstName: "Ana", LastName: "Reyes", StoreCode: "MNL-01"},
		},
		metrics: []rfm.CustomerMetrics{metricsFor(id, 400, 4, 12000)},
	}
	svc := newTestService(t, source, nil)

	detail, err := svc.CustomerDetail(context.Background(), id)
	if err != nil {
		t.Fatalf("CustomerDetail returned error: %v", err)
	}
	if detail.FirstName != "Ana" || detail.StoreCode != "MNL-01" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.Scored.Score.Segment != enums.SegmentAtRisk {
		t.Fatalf("Segment = %s, want %s", detail.Scored.Score.Segment, enums.SegmentAtRisk)
	}
}

func TestCustomerDetailLapsedHighValue(t *testing.T) {
	id := uuid.New()
	source := &fakeSource{
		customers: map[uuid.UUID]*models.Customer{
			id: {ID: id, FirstName: "Ben", LastName: "Santos", StoreCode: "CEB-02"},
		},
		metrics: []rfm.CustomerMetrics{metricsFor(id, 400, 4, 30000)},
	}
	svc := newTestService(t, source, nil)

	detail, err := svc.CustomerDetail(context.Background(), id)
	if err != nil {
		t.Fatalf("CustomerDetail returned error: %v", err)
	}
	// Lapsed but frequent and high spend outranks the at-risk bucket.
	if detail.Scored.Score.Segment != enums.SegmentCantLose {
		t.Fatalf("Segment = %s, want %s", detail.Scored.Score.Segment, enums.SegmentCantLose)
	}
}

func TestCustomerDetailNotFound(t *testing.T) {
	svc := newTestService(t, &fakeSource{}, nil)

	_, err := svc.CustomerDetail(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestPreview(t *testing.T) {
	svc := newTestService(t, &fakeSource{}, nil)
	days := 45

	score, err := svc.Preview(context.Background(), PreviewInput{
		DaysSinceLastPurchase: &days,
		TotalOrders:           6,
		TotalSpend:            "60000",
	})
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if score.Segment != enums.SegmentChampion || score.Total != 15 {
		t.Fatalf("unexpected score: %+v", score)
	}
}

func TestPreviewNeverPurchased(t *testing.T) {
	svc := newTestService(t, &fakeSource{}, nil)

	score, err := svc.Preview(context.Background(), PreviewInput{TotalOrders: 0, TotalSpend: "0"})
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if score.Recency != 1 || score.Segment != enums.SegmentLost {
		t.Fatalf("unexpected score: %+v", score)
	}
}

func TestPreviewRejectsBadInput(t *testing.T) {
	svc := newTestService(t, &fakeSource{}, nil)
	negative := -4

	cases := []PreviewInput{
		{TotalSpend: "abc"},
		{DaysSinceLastPurchase: &negative},
		{TotalOrders: -1},
		{TotalSpend: "-10"},
	}
	for _, input := range cases {
		if _, err := svc.Preview(context.Background(), input); err == nil {
			t.Fatalf("Preview(%+v) expected error, got nil", input)
		}
	}
}

func TestSegmentsCatalog(t *testing.T) {
	svc := newTestService(t, &fakeSource{}, nil)

	infos := svc.Segments()
	if len(infos) != 11 {
		t.Fatalf("expected 11 segments, got %d", len(infos))
	}
	if infos[0].Segment != enums.SegmentChampion || infos[10].Segment != enums.SegmentLost {
		t.Fatalf("unexpected ordering: first=%s last=%s", infos[0].Segment, infos[10].Segment)
	}
	for i, info := range infos {
		if info.Ordinal != i {
			t.Fatalf("segment %s ordinal = %d, want %d", info.Segment, info.Ordinal, i)
		}
		if info.Metadata.Label == "" {
			t.Fatalf("segment %s missing metadata", info.Segment)
		}
	}
}
