package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/stockpulse/internal/config"
	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/stockstatus"
)

func TestPeriodHistoryKeyDependsOnFilter(t *testing.T) {
	base := buildPeriodHistoryKey(domain.PeriodHistoryFilter{})
	if base != "stockpulse:periods:history:default" {
		t.Fatalf("expected default key, got %s", base)
	}

	cost := buildPeriodHistoryKey(domain.PeriodHistoryFilter{PeriodType: domain.PeriodCost, Limit: 5})
	profit := buildPeriodHistoryKey(domain.PeriodHistoryFilter{PeriodType: domain.PeriodProfit, Limit: 5})
	if cost == profit {
		t.Fatalf("expected distinct keys per period type")
	}
	if !strings.HasPrefix(cost, periodHistoryKeys.prefix()+":") {
		t.Fatalf("expected key under %s, got %s", periodHistoryKeys.prefix(), cost)
	}
	if again := buildPeriodHistoryKey(domain.PeriodHistoryFilter{PeriodType: domain.PeriodCost, Limit: 5}); again != cost {
		t.Fatalf("expected stable key, got %s and %s", cost, again)
	}
}

func TestStockSummaryKeyIncludesThresholdAndCatalog(t *testing.T) {
	base := SummaryKey{Threshold: 10, CatalogVersion: "4-1700000000000000"}

	if buildStockSummaryKey(base) == buildStockSummaryKey(SummaryKey{Threshold: 5, CatalogVersion: base.CatalogVersion}) {
		t.Fatalf("expected thresholds to produce distinct keys")
	}
	if buildStockSummaryKey(base) == buildStockSummaryKey(SummaryKey{Threshold: 10, CatalogVersion: "4-1700000000000001"}) {
		t.Fatalf("expected catalog versions to produce distinct keys")
	}
	if got := buildStockSummaryKey(base); got != "stockpulse:stock:summary:threshold=10:catalog=4-1700000000000000" {
		t.Fatalf("unexpected key %s", got)
	}
	if !strings.HasPrefix(buildStockSummaryKey(base), stockSummaryKeys.prefix()+":") {
		t.Fatalf("expected summary key to fall under the purge pattern")
	}
}

func TestCacheTTLDefaults(t *testing.T) {
	if got := cacheTTL(config.CacheConfig{}); got != defaultCacheTTL {
		t.Fatalf("expected default ttl, got %s", got)
	}
	if got := cacheTTL(config.CacheConfig{SummaryTTLSeconds: 30}); got != 30*time.Second {
		t.Fatalf("expected 30s ttl, got %s", got)
	}
}

func TestNilClientFallsBackToNoop(t *testing.T) {
	ctx := context.Background()

	summaries := NewStockSummaryCache(nil, 0)
	key := SummaryKey{Threshold: 10, CatalogVersion: "1-1"}
	if err := summaries.SetSummary(ctx, key, stockstatus.Summary{Good: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := summaries.GetSummary(ctx, key); ok {
		t.Fatalf("expected noop cache to miss")
	}

	history := NewPeriodHistoryCache(nil, 0)
	if _, ok, _ := history.GetHistory(ctx, domain.PeriodHistoryFilter{}); ok {
		t.Fatalf("expected noop cache to miss")
	}
	if err := history.InvalidateAll(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.DB != 2 || opts.ClientName != clientName {
		t.Fatalf("unexpected options: addr=%s db=%d name=%s", opts.Addr, opts.DB, opts.ClientName)
	}

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://:secret@localhost:6379/3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 3 || opts.Password != "secret" {
		t.Fatalf("expected url options to be parsed, got db=%d", opts.DB)
	}

	if _, err := buildRedisOptions(config.CacheConfig{RedisURL: "://bad"}); err == nil {
		t.Fatalf("expected invalid url error")
	}
}
