package service

import (
	"context"
	"errors"

	"github.com/andresuchdata/stockpulse/internal/cache"
	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/period"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/andresuchdata/stockpulse/internal/stockstatus"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type StockService struct {
	products         repository.ProductRepository
	settings         repository.SettingsRepository
	cache            cache.StockSummaryCache
	clock            period.Clock
	defaultThreshold int
}

// NewStockService wires the stock status reads. defaultThreshold applies when
// no settings row exists.
func NewStockService(
	products repository.ProductRepository,
	settings repository.SettingsRepository,
	cacheImpl cache.StockSummaryCache,
	clock period.Clock,
	defaultThreshold int,
) *StockService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopStockSummaryCache()
	}
	if clock == nil {
		clock = period.SystemClock{}
	}
	if defaultThreshold <= 0 {
		defaultThreshold = stockstatus.DefaultThreshold
	}
	return &StockService{
		products:         products,
		settings:         settings,
		cache:            cacheImpl,
		clock:            clock,
		defaultThreshold: defaultThreshold,
	}
}

// Settings returns the stored settings or the configured default.
func (s *StockService) Settings(ctx context.Context) (domain.Settings, error) {
	settings, err := s.settings.GetSettings(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Settings{LowStockThreshold: s.defaultThreshold}, nil
	}
	if err != nil {
		return domain.Settings{}, err
	}
	return *settings, nil
}

// Summary buckets the catalog. Cached entries are keyed by the catalog
// version, so any product write forces a recount.
func (s *StockService) Summary(ctx context.Context) (stockstatus.Summary, error) {
	var (
		settings domain.Settings
		version  string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settings, err = s.Settings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		version, err = s.products.CatalogVersion(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return stockstatus.Summary{}, err
	}

	key := cache.SummaryKey{Threshold: settings.LowStockThreshold, CatalogVersion: version}
	if summary, ok, err := s.cache.GetSummary(ctx, key); err == nil && ok {
		return *summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("stock: cache get summary failed")
	}

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return stockstatus.Summary{}, err
	}

	summary := stockstatus.Summarize(products, settings.LowStockThreshold)
	if err := s.cache.SetSummary(ctx, key, summary); err != nil {
		log.Warn().Err(err).Msg("stock: cache set summary failed")
	}

	return summary, nil
}

// Attention lists products matching level, or every product needing
// attention when level is nil.
func (s *StockService) Attention(ctx context.Context, level *stockstatus.Level) ([]stockstatus.ProductStatus, error) {
	products, settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	items := stockstatus.Filter(products, settings.LowStockThreshold, level)
	if items == nil {
		items = make([]stockstatus.ProductStatus, 0)
	}
	return items, nil
}

func (s *StockService) Notifications(ctx context.Context) ([]domain.Notification, error) {
	products, settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	notifications := stockstatus.GenerateNotifications(products, settings, s.clock.Now())
	if notifications == nil {
		notifications = make([]domain.Notification, 0)
	}
	return notifications, nil
}

func (s *StockService) ProductStatus(ctx context.Context, id string) (*stockstatus.ProductStatus, error) {
	var (
		product  *domain.Product
		settings domain.Settings
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		product, err = s.products.GetProduct(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = s.Settings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &stockstatus.ProductStatus{
		Product:     *product,
		StockStatus: stockstatus.Evaluate(*product, settings.LowStockThreshold),
	}, nil
}

// InvalidateSummary drops cached summaries after catalog writes.
func (s *StockService) InvalidateSummary(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("stock: cache invalidate failed")
	}
}

func (s *StockService) load(ctx context.Context) ([]domain.Product, domain.Settings, error) {
	var (
		products []domain.Product
		settings domain.Settings
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = s.Settings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.Settings{}, err
	}

	return products, settings, nil
}
