package redis

import (
	"testing"
	"time"

	"github.com/optikart/optikart-backend/pkg/config"
)

func TestOptionsFromConfig_RequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address is set")
	}
}

func TestOptionsFromConfig_ParsesURL(t *testing.T) {
	cfg := config.RedisConfig{
		URL:         "redis://:pass@localhost:6380/2",
		PoolSize:    12,
		DialTimeout: 3 * time.Second,
	}
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.PoolSize != 12 {
		t.Fatalf("expected pool size fallback, got %d", opts.PoolSize)
	}
	if opts.DialTimeout != 3*time.Second {
		t.Fatalf("expected dial timeout fallback, got %v", opts.DialTimeout)
	}
}

func TestKeyBuilders(t *testing.T) {
	c := &Client{}
	if got := c.CacheKey("segment_summary"); got != "ok:cache:segment_summary" {
		t.Fatalf("unexpected cache key %q", got)
	}
	if got := c.LockKey("segmentation-worker", "production"); got != "ok:lock:segmentation-worker:production" {
		t.Fatalf("unexpected lock key %q", got)
	}
	if got := c.CacheKey("", "summary"); got != "ok:cache:summary" {
		t.Fatalf("expected empty parts skipped, got %q", got)
	}
}
