package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestCreatePeriodHistoryRejectsDuplicateWindow(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	rec := &domain.PeriodHistoryRecord{PeriodType: domain.PeriodCost, PeriodStart: day(1), PeriodEnd: day(14)}
	if err := store.CreatePeriodHistory(ctx, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == uuid.Nil {
		t.Fatalf("expected id to be assigned")
	}

	dup := &domain.PeriodHistoryRecord{PeriodType: domain.PeriodCost, PeriodStart: day(1), PeriodEnd: day(14)}
	if err := store.CreatePeriodHistory(ctx, dup); !errors.Is(err, repository.ErrDuplicateArchive) {
		t.Fatalf("expected ErrDuplicateArchive, got %v", err)
	}

	// Same window under the other type is a different archive.
	other := &domain.PeriodHistoryRecord{PeriodType: domain.PeriodProfit, PeriodStart: day(1), PeriodEnd: day(14)}
	if err := store.CreatePeriodHistory(ctx, other); err != nil {
		t.Fatalf("expected profit archive to be accepted, got %v", err)
	}
}

func TestListPeriodHistoryNewestFirstWithLimit(t *testing.T) {
	store := NewStore()
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}
	ctx := context.Background()

	for d := 1; d <= 3; d++ {
		rec := &domain.PeriodHistoryRecord{PeriodType: domain.PeriodCost, PeriodStart: day(d), PeriodEnd: day(d)}
		if err := store.CreatePeriodHistory(ctx, rec); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := store.CreatePeriodHistory(ctx, &domain.PeriodHistoryRecord{
		PeriodType: domain.PeriodProfit, PeriodStart: day(1), PeriodEnd: day(1),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	records, err := store.ListPeriodHistory(ctx, domain.PeriodHistoryFilter{PeriodType: domain.PeriodCost, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].PeriodStart.Equal(day(3)) || !records[1].PeriodStart.Equal(day(2)) {
		t.Fatalf("expected newest first, got %s then %s", records[0].PeriodStart, records[1].PeriodStart)
	}

	all, _ := store.ListPeriodHistory(ctx, domain.PeriodHistoryFilter{})
	if len(all) != 4 {
		t.Fatalf("expected 4 records without filter, got %d", len(all))
	}
}

func TestListSalesBetweenInclusiveBounds(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, _ = store.InsertSales(ctx, []domain.Sale{
		{Date: day(1), UnitCost: decimal.NewFromInt(1), Quantity: 1},
		{Date: day(14).Add(23 * time.Hour), UnitCost: decimal.NewFromInt(1), Quantity: 1},
		{Date: day(15), UnitCost: decimal.NewFromInt(1), Quantity: 1},
	})

	sales, err := store.ListSalesBetween(ctx, day(1), day(14))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(sales))
	}
	if sales[0].ID == sales[1].ID {
		t.Fatalf("expected distinct sale ids")
	}
}

func TestDeleteAndNotFound(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.DeletePeriodHistory(ctx, uuid.New()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetSettings(ctx); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for settings, got %v", err)
	}
	if _, err := store.LatestResetTracking(ctx, domain.PeriodCost); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for reset tracking, got %v", err)
	}
	if _, err := store.GetProduct(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for product, got %v", err)
	}
}

func TestUpsertProductsReplacesByID(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, _ = store.UpsertProducts(ctx, []domain.Product{{ID: "a", Name: "Mug", Stock: 1}})
	_, _ = store.UpsertProducts(ctx, []domain.Product{{ID: "a", Name: "Mug", Stock: 7}, {ID: "b", Name: "Cap"}})

	products, _ := store.ListProducts(ctx)
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	p, err := store.GetProduct(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Stock != 7 {
		t.Fatalf("expected stock 7, got %d", p.Stock)
	}
}

func TestCatalogVersionTracksWrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	v0, _ := store.CatalogVersion(ctx)
	_, _ = store.UpsertProducts(ctx, []domain.Product{{ID: "a", Stock: 1}})
	v1, _ := store.CatalogVersion(ctx)
	_, _ = store.UpsertProducts(ctx, []domain.Product{{ID: "a", Stock: 0}})
	v2, _ := store.CatalogVersion(ctx)

	if v0 == v1 || v1 == v2 {
		t.Fatalf("expected every write to change the version, got %s, %s, %s", v0, v1, v2)
	}
	if v3, _ := store.CatalogVersion(ctx); v3 != v2 {
		t.Fatalf("expected reads to keep the version, got %s then %s", v2, v3)
	}
}
