package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/stockpulse/internal/api"
	"github.com/andresuchdata/stockpulse/internal/cache"
	"github.com/andresuchdata/stockpulse/internal/config"
	"github.com/andresuchdata/stockpulse/internal/period"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/andresuchdata/stockpulse/internal/repository/memory"
	"github.com/andresuchdata/stockpulse/internal/repository/postgres"
	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/andresuchdata/stockpulse/pkg/logger"
	"github.com/gin-gonic/gin"
)

type repositories struct {
	products repository.ProductRepository
	settings repository.SettingsRepository
	sales    repository.SalesRepository
	history  repository.PeriodHistoryRepository
	tracking repository.ResetTrackingRepository
	close    func() error
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Setup(cfg.Server.Mode, "stockpulse-server")
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := openRepositories(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer repos.close()

	summaryCache, historyCache := openCaches(cfg.Cache)

	loc := cfg.Period.Location()
	clock := period.SystemClock{Location: loc}

	// Initialize services
	archiver := service.NewArchiveService(repos.sales, repos.history, clock)
	services := &api.Services{
		StockService: service.NewStockService(repos.products, repos.settings, summaryCache, clock, cfg.Stock.LowStockThreshold),
		ResetService: service.NewResetService(archiver, repos.history, repos.tracking, service.ResetServiceOptions{
			Cache:        historyCache,
			Clock:        clock,
			HistoryLimit: cfg.Period.HistoryLimit,
		}),
		Location: loc,
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Str("timezone", loc.String()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func openRepositories(cfg *config.Config) (*repositories, error) {
	if cfg.Database.InMemory {
		logger.Log.Warn().Msg("DB_IN_MEMORY set, data will not survive a restart")
		store := memory.NewStore()
		return &repositories{
			products: store,
			settings: store,
			sales:    store,
			history:  store,
			tracking: store,
			close:    func() error { return nil },
		}, nil
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	periods := postgres.NewPeriodRepository(db)
	return &repositories{
		products: postgres.NewProductRepository(db),
		settings: postgres.NewSettingsRepository(db),
		sales:    postgres.NewSalesRepository(db),
		history:  periods,
		tracking: periods,
		close:    db.Close,
	}, nil
}

// openCaches falls back to no-op caches when redis is disabled or unreachable.
func openCaches(cfg config.CacheConfig) (cache.StockSummaryCache, cache.PeriodHistoryCache) {
	if !cfg.Enabled {
		return cache.NewNoopStockSummaryCache(), cache.NewNoopPeriodHistoryCache()
	}

	client, ttl, err := cache.NewRedisClient(cfg)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("redis unavailable, caching disabled")
		return cache.NewNoopStockSummaryCache(), cache.NewNoopPeriodHistoryCache()
	}

	return cache.NewStockSummaryCache(client, ttl), cache.NewPeriodHistoryCache(client, ttl)
}
