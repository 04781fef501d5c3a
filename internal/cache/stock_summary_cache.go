package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/andresuchdata/stockpulse/internal/stockstatus"
	"github.com/redis/go-redis/v9"
)

// SummaryKey identifies a cached summary. A catalog write changes
// CatalogVersion, so entries for an older catalog are never read again.
type SummaryKey struct {
	Threshold      int
	CatalogVersion string
}

// StockSummaryCache holds computed stock summaries per threshold and catalog version.
type StockSummaryCache interface {
	GetSummary(ctx context.Context, key SummaryKey) (*stockstatus.Summary, bool, error)
	SetSummary(ctx context.Context, key SummaryKey, summary stockstatus.Summary) error
	InvalidateAll(ctx context.Context) error
}

type redisStockSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopStockSummaryCache struct{}

func NewStockSummaryCache(client *redis.Client, ttl time.Duration) StockSummaryCache {
	if client == nil {
		return &noopStockSummaryCache{}
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisStockSummaryCache{client: client, ttl: ttl}
}

func NewNoopStockSummaryCache() StockSummaryCache {
	return &noopStockSummaryCache{}
}

func (c *redisStockSummaryCache) GetSummary(ctx context.Context, key SummaryKey) (*stockstatus.Summary, bool, error) {
	payload, err := c.client.Get(ctx, buildStockSummaryKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary stockstatus.Summary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode stock summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisStockSummaryCache) SetSummary(ctx context.Context, key SummaryKey, summary stockstatus.Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode stock summary cache: %w", err)
	}

	if err := c.client.Set(ctx, buildStockSummaryKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisStockSummaryCache) InvalidateAll(ctx context.Context) error {
	_, err := stockSummaryKeys.purge(ctx, c.client)
	return err
}

func (n *noopStockSummaryCache) GetSummary(ctx context.Context, key SummaryKey) (*stockstatus.Summary, bool, error) {
	return nil, false, nil
}

func (n *noopStockSummaryCache) SetSummary(ctx context.Context, key SummaryKey, summary stockstatus.Summary) error {
	return nil
}

func (n *noopStockSummaryCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildStockSummaryKey(key SummaryKey) string {
	return stockSummaryKeys.key(
		"threshold="+strconv.Itoa(key.Threshold),
		"catalog="+key.CatalogVersion,
	)
}
