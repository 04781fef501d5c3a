package repository

import (
	"context"
	"errors"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateArchive = errors.New("period already archived")
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	UpsertProducts(ctx context.Context, products []domain.Product) (int, error)
	// CatalogVersion changes whenever a product row is inserted, updated or removed.
	CatalogVersion(ctx context.Context) (string, error)
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
}

type SalesRepository interface {
	// ListSalesBetween returns sales dated within [start, end], both inclusive.
	ListSalesBetween(ctx context.Context, start, end time.Time) ([]domain.Sale, error)
	InsertSales(ctx context.Context, sales []domain.Sale) (int, error)
}

type PeriodHistoryRepository interface {
	// CreatePeriodHistory persists rec and fills in its ID and CreatedAt.
	CreatePeriodHistory(ctx context.Context, rec *domain.PeriodHistoryRecord) error
	ListPeriodHistory(ctx context.Context, filter domain.PeriodHistoryFilter) ([]domain.PeriodHistoryRecord, error)
	DeletePeriodHistory(ctx context.Context, id uuid.UUID) error
}

type ResetTrackingRepository interface {
	CreateResetTracking(ctx context.Context, rec *domain.ResetTrackingRecord) error
	LatestResetTracking(ctx context.Context, resetType domain.PeriodType) (*domain.ResetTrackingRecord, error)
}
