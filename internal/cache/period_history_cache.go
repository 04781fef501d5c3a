package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/redis/go-redis/v9"
)

// PeriodHistoryCache holds history listings. Resets and undos invalidate everything.
type PeriodHistoryCache interface {
	GetHistory(ctx context.Context, filter domain.PeriodHistoryFilter) ([]domain.PeriodHistoryRecord, bool, error)
	SetHistory(ctx context.Context, filter domain.PeriodHistoryFilter, records []domain.PeriodHistoryRecord) error
	InvalidateAll(ctx context.Context) error
}

type redisPeriodHistoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPeriodHistoryCache struct{}

func NewPeriodHistoryCache(client *redis.Client, ttl time.Duration) PeriodHistoryCache {
	if client == nil {
		return &noopPeriodHistoryCache{}
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisPeriodHistoryCache{client: client, ttl: ttl}
}

func NewNoopPeriodHistoryCache() PeriodHistoryCache {
	return &noopPeriodHistoryCache{}
}

func (c *redisPeriodHistoryCache) GetHistory(ctx context.Context, filter domain.PeriodHistoryFilter) ([]domain.PeriodHistoryRecord, bool, error) {
	payload, err := c.client.Get(ctx, buildPeriodHistoryKey(filter)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var records []domain.PeriodHistoryRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, false, fmt.Errorf("decode period history cache: %w", err)
	}

	return records, true, nil
}

func (c *redisPeriodHistoryCache) SetHistory(ctx context.Context, filter domain.PeriodHistoryFilter, records []domain.PeriodHistoryRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode period history cache: %w", err)
	}

	if err := c.client.Set(ctx, buildPeriodHistoryKey(filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisPeriodHistoryCache) InvalidateAll(ctx context.Context) error {
	_, err := periodHistoryKeys.purge(ctx, c.client)
	return err
}

func (n *noopPeriodHistoryCache) GetHistory(ctx context.Context, filter domain.PeriodHistoryFilter) ([]domain.PeriodHistoryRecord, bool, error) {
	return nil, false, nil
}

func (n *noopPeriodHistoryCache) SetHistory(ctx context.Context, filter domain.PeriodHistoryFilter, records []domain.PeriodHistoryRecord) error {
	return nil
}

func (n *noopPeriodHistoryCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildPeriodHistoryKey(filter domain.PeriodHistoryFilter) string {
	var parts []string
	if filter.PeriodType != "" {
		parts = append(parts, "type="+strings.ToLower(string(filter.PeriodType)))
	}
	if filter.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit=%d", filter.Limit))
	}

	if len(parts) == 0 {
		return periodHistoryKeys.key("default")
	}

	raw := strings.Join(parts, "|")
	hash := sha1.Sum([]byte(raw))
	return periodHistoryKeys.key(hex.EncodeToString(hash[:]))
}
