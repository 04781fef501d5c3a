package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/stockpulse/internal/cache"
	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/period"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/andresuchdata/stockpulse/internal/repository/memory"
	"github.com/andresuchdata/stockpulse/internal/stockstatus"
)

type memorySummaryCache struct {
	entries map[cache.SummaryKey]stockstatus.Summary
	sets    int
}

func newMemorySummaryCache() *memorySummaryCache {
	return &memorySummaryCache{entries: map[cache.SummaryKey]stockstatus.Summary{}}
}

func (c *memorySummaryCache) GetSummary(_ context.Context, key cache.SummaryKey) (*stockstatus.Summary, bool, error) {
	s, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

func (c *memorySummaryCache) SetSummary(_ context.Context, key cache.SummaryKey, summary stockstatus.Summary) error {
	c.entries[key] = summary
	c.sets++
	return nil
}

func (c *memorySummaryCache) InvalidateAll(context.Context) error {
	c.entries = map[cache.SummaryKey]stockstatus.Summary{}
	return nil
}

func (c *memorySummaryCache) thresholds() map[int]bool {
	out := map[int]bool{}
	for key := range c.entries {
		out[key.Threshold] = true
	}
	return out
}

func seedCatalog(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	_, err := store.UpsertProducts(context.Background(), []domain.Product{
		{ID: "out", Name: "Mug", Stock: 0, MinStock: 5},
		{ID: "nomin", Name: "Cap", Stock: 4, MinStock: 0},
		{ID: "good", Name: "Tee", Stock: 50, MinStock: 10},
		{ID: "quiet", Name: "Pin", Stock: 2, MinStock: 5, StockWarningLevel: domain.WarningOutOnly},
	})
	if err != nil {
		t.Fatalf("seed products: %v", err)
	}
	return store
}

func TestStockSummaryUsesSettingsAndCache(t *testing.T) {
	store := seedCatalog(t)
	store.SetSettings(&domain.Settings{LowStockThreshold: 5})
	c := newMemorySummaryCache()
	svc := NewStockService(store, store, c, period.Fixed(time.Now()), 10)
	ctx := context.Background()

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.OutOfStock != 1 || summary.Low != 1 || summary.Good != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.TotalNeedingAttention != 1 {
		t.Fatalf("expected 1 product needing attention, got %d", summary.TotalNeedingAttention)
	}

	if _, err := svc.Summary(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.sets != 1 {
		t.Fatalf("expected second call to hit the cache, got %d sets", c.sets)
	}
	if !c.thresholds()[5] {
		t.Fatalf("expected summary cached under threshold 5")
	}

	svc.InvalidateSummary(ctx)
	if len(c.entries) != 0 {
		t.Fatalf("expected cache to be cleared")
	}
}

func TestStockSummaryFollowsCatalogWrites(t *testing.T) {
	store := seedCatalog(t)
	c := newMemorySummaryCache()
	svc := NewStockService(store, store, c, period.Fixed(time.Now()), 10)
	ctx := context.Background()

	before, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before.OutOfStock != 1 || before.TotalNeedingAttention != 1 {
		t.Fatalf("unexpected summary before write %+v", before)
	}

	// Catalog write that does not go through InvalidateSummary.
	if _, err := store.UpsertProducts(ctx, []domain.Product{{ID: "good", Name: "Tee", Stock: 0, MinStock: 10}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	after, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.OutOfStock != 2 || after.Good != before.Good-1 {
		t.Fatalf("expected the write to move a product to out of stock, got %+v", after)
	}

	attention, err := svc.Attention(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.TotalNeedingAttention != len(attention) {
		t.Fatalf("summary counts %d needing attention, attention list has %d", after.TotalNeedingAttention, len(attention))
	}
	if c.sets != 2 {
		t.Fatalf("expected a recount after the write, got %d sets", c.sets)
	}
}

func TestStockSettingsFallBackToDefault(t *testing.T) {
	store := seedCatalog(t)
	svc := NewStockService(store, store, nil, nil, 0)

	settings, err := svc.Settings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LowStockThreshold != stockstatus.DefaultThreshold {
		t.Fatalf("expected default threshold %d, got %d", stockstatus.DefaultThreshold, settings.LowStockThreshold)
	}
}

func TestStockAttentionAndNotifications(t *testing.T) {
	store := seedCatalog(t)
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	svc := NewStockService(store, store, nil, period.Fixed(now), 10)
	ctx := context.Background()

	items, err := svc.Attention(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "out" {
		t.Fatalf("expected only the out-of-stock product, got %+v", items)
	}

	low := stockstatus.LevelLow
	lowItems, err := svc.Attention(ctx, &low)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lowItems) != 1 || lowItems[0].ID != "quiet" {
		t.Fatalf("expected the out_only product in the low filter, got %+v", lowItems)
	}

	notifications, err := svc.Notifications(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifications) != 1 || notifications[0].Severity != domain.SeverityError {
		t.Fatalf("expected a single error notification, got %+v", notifications)
	}
	if !notifications[0].CreatedAt.Equal(now) {
		t.Fatalf("expected notification stamped with the clock, got %s", notifications[0].CreatedAt)
	}
}

func TestStockProductStatus(t *testing.T) {
	store := seedCatalog(t)
	svc := NewStockService(store, store, nil, nil, 10)
	ctx := context.Background()

	status, err := svc.ProductStatus(ctx, "good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.StockStatus.Level != stockstatus.LevelGood || status.StockStatus.Percentage != 500 {
		t.Fatalf("unexpected status %+v", status.StockStatus)
	}

	if _, err := svc.ProductStatus(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
