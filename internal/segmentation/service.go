package segmentation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/optikart/optikart-backend/internal/rfm"
	"github.com/optikart/optikart-backend/pkg/config"
	"github.com/optikart/optikart-backend/pkg/enums"
	pkgerrors "github.com/optikart/optikart-backend/pkg/errors"
	"github.com/optikart/optikart-backend/pkg/logger"
	"github.com/optikart/optikart-backend/pkg/metrics"
	"github.com/optikart/optikart-backend/pkg/pagination"
	"github.com/optikart/optikart-backend/pkg/redis"
)

const (
	summaryCacheScope = "segmentation"
	summaryCacheName  = "summary"
	scanBatchSize     = 500
)

// Service runs RFM scoring over the customer base and serves the results.
type Service struct {
	source  metricsSource
	cache   summaryCache
	scorer  *rfm.Scorer
	metrics *metrics.SegmentationMetrics
	logg    *logger.Logger

	workers  int
	cacheTTL time.Duration
	now      func() time.Time
}

// NewService wires a segmentation service. The cache and metrics sink are
// optional; a nil cache makes every summary a full recompute.
func NewService(
	source metricsSource,
	cache summaryCache,
	scorer *rfm.Scorer,
	seg *metrics.SegmentationMetrics,
	logg *logger.Logger,
	cfg config.SegmentationConfig,
) (*Service, error) {
	if source == nil {
		return nil, errors.New("metrics source is required")
	}
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Service{
		source:   source,
		cache:    cache,
		scorer:   scorer,
		metrics:  seg,
		logg:     logg,
		workers:  workers,
		cacheTTL: cfg.SummaryCacheTTL,
		now:      time.Now,
	}, nil
}

// WithClock overrides the service clock. Intended for tests and the snapshot
// worker.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Summary returns the segment distribution, served from cache unless refresh
// is set or the cached copy is missing.
func (s *Service) Summary(ctx context.Context, refresh bool) (*Summary, error) {
	if !refresh {
		if cached := s.cachedSummary(ctx); cached != nil {
			return cached, nil
		}
	}

	summary, err := s.computeSummary(ctx)
	if err != nil {
		return nil, err
	}
	s.storeSummary(ctx, summary)
	return summary, nil
}

func (s *Service) cachedSummary(ctx context.Context) *Summary {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.summaryKey())
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "summary cache read failed")
		}
		return nil
	}

	var summary Summary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "summary cache payload corrupt")
		return nil
	}
	summary.FromCache = true
	return &summary
}

func (s *Service) storeSummary(ctx context.Context, summary *Summary) {
	if s.cache == nil || summary == nil {
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		s.logg.Error(ctx, "marshaling summary for cache", err)
		return
	}
	if err := s.cache.Set(ctx, s.summaryKey(), payload, s.cacheTTL); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "summary cache write failed")
	}
}

func (s *Service) summaryKey() string {
	return s.cache.CacheKey(summaryCacheScope, summaryCacheName)
}

type tally struct {
	counts  map[enums.Segment]int64
	invalid int64
}

// computeSummary streams the customer base through a scoring worker pool and
// merges the per-worker tallies. A record that fails scoring is counted and
// skipped; it never aborts the run.
func (s *Service) computeSummary(ctx context.Context) (*Summary, error) {
	jobs := make(chan rfm.CustomerMetrics, s.workers*scanBatchSize)
	tallies := make([]tally, s.workers)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			local := tally{counts: make(map[enums.Segment]int64)}
			for m := range jobs {
				score, err := s.scorer.ScoreCustomer(m)
				if err != nil {
					local.invalid++
					s.metrics.IncInvalid()
					warnCtx := s.logg.WithCustomerID(ctx, m.CustomerID.String())
					s.logg.Warn(s.logg.WithField(warnCtx, "error", err.Error()), "customer metrics rejected")
					continue
				}
				local.counts[score.Segment]++
				s.metrics.IncClassified(score.Segment.String())
			}
			tallies[slot] = local
		}(i)
	}

	walkErr := s.source.ForEachMetricsBatch(ctx, scanBatchSize, func(batch []rfm.CustomerMetrics) error {
		for _, m := range batch {
			select {
			case jobs <- m:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	close(jobs)
	wg.Wait()

	if walkErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, walkErr, "scanning customer metrics")
	}

	merged := make(map[enums.Segment]int64)
	var invalid int64
	for _, t := range tallies {
		for segment, count := range t.counts {
			merged[segment] += count
		}
		invalid += t.invalid
	}

	var classified int64
	for _, count := range merged {
		classified += count
	}

	return &Summary{
		GeneratedAt:    s.now().UTC(),
		TotalCustomers: classified + invalid,
		Classified:     classified,
		Invalid:        invalid,
		Buckets:        rfm.SummarizeCounts(merged),
	}, nil
}

// ScoredCustomers returns one page of customers with their current scores.
// Records whose metrics fail validation are dropped from the page.
func (s *Service) ScoredCustomers(ctx context.Context, params pagination.Params) (*CustomerPage, error) {
	metricsPage, cursor, err := s.source.ListMetrics(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing customer metrics")
	}

	items := make([]ScoredCustomer, 0, len(metricsPage))
	for _, m := range metricsPage {
		scored, err := s.scoreOne(ctx, m)
		if err != nil {
			continue
		}
		items = append(items, scored)
	}

	page := &CustomerPage{Items: items}
	if cursor != nil {
		page.NextCursor = pagination.EncodeCursor(*cursor)
	}
	return page, nil
}

// CustomerDetail scores a single customer by id.
func (s *Service) CustomerDetail(ctx context.Context, id uuid.UUID) (*CustomerDetail, error) {
	customer, err := s.source.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("customer %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer")
	}

	m, err := s.source.MetricsByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer metrics")
	}

	scored, err := s.scoreOne(ctx, *m)
	if err != nil {
		return nil, err
	}

	return &CustomerDetail{
		CustomerID: customer.ID,
		FirstName:  customer.FirstName,
		LastName:   customer.LastName,
		StoreCode:  customer.StoreCode,
		Scored:     scored,
	}, nil
}

// Preview scores ad-hoc metrics without touching storage.
func (s *Service) Preview(ctx context.Context, input PreviewInput) (*rfm.Score, error) {
	spend := decimal.Zero
	if input.TotalSpend != "" {
		parsed, err := decimal.NewFromString(input.TotalSpend)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid total spend %q", input.TotalSpend))
		}
		spend = parsed
	}

	m := rfm.CustomerMetrics{
		TotalOrders: input.TotalOrders,
		TotalSpend:  spend,
	}
	if input.DaysSinceLastPurchase != nil {
		at := s.now().UTC().AddDate(0, 0, -*input.DaysSinceLastPurchase)
		m.LastPurchaseAt = &at
		m.DaysSinceLastPurchase = *input.DaysSinceLastPurchase
	}

	score, err := s.scorer.ScoreCustomer(m)
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// Segments lists every segment with its display metadata in declaration order.
func (s *Service) Segments() []SegmentInfo {
	all := enums.Segments()
	out := make([]SegmentInfo, len(all))
	for i, segment := range all {
		out[i] = SegmentInfo{
			Segment:  segment,
			Ordinal:  segment.Ordinal(),
			Metadata: segment.Metadata(),
		}
	}
	return out
}

func (s *Service) scoreOne(ctx context.Context, m rfm.CustomerMetrics) (ScoredCustomer, error) {
	score, err := s.scorer.ScoreCustomer(m)
	if err != nil {
		s.metrics.IncInvalid()
		warnCtx := s.logg.WithCustomerID(ctx, m.CustomerID.String())
		s.logg.Warn(s.logg.WithField(warnCtx, "error", err.Error()), "customer metrics rejected")
		return ScoredCustomer{}, err
	}

	return ScoredCustomer{
		CustomerID:            m.CustomerID,
		LastPurchaseAt:        m.LastPurchaseAt,
		DaysSinceLastPurchase: m.DaysSinceLastPurchase,
		TotalOrders:           m.TotalOrders,
		TotalSpend:            m.TotalSpend.StringFixed(2),
		Score:                 score,
		Metadata:              score.Segment.Metadata(),
	}, nil
}
