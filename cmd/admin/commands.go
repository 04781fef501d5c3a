package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/andresuchdata/stockpulse/internal/cache"
	"github.com/andresuchdata/stockpulse/internal/config"
	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/export"
	"github.com/andresuchdata/stockpulse/internal/importer"
	"github.com/andresuchdata/stockpulse/internal/period"
	"github.com/andresuchdata/stockpulse/internal/repository/postgres"
	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/andresuchdata/stockpulse/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func runMigrate(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	if err := db.Migrate(c.Context); err != nil {
		return err
	}
	log.Info().Msg("schema applied")
	return nil
}

func runImportSales(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	table, err := readImportTable(c)
	if err != nil {
		return err
	}

	sales, err := importer.ParseSales(table, config.Load().Period.Location())
	if err != nil {
		return fmt.Errorf("failed to parse sales: %w", err)
	}

	n, err := postgres.NewSalesRepository(db).InsertSales(c.Context, sales)
	if err != nil {
		return err
	}

	log.Info().Int("rows", n).Msg("sales imported")
	return nil
}

func runImportProducts(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	table, err := readImportTable(c)
	if err != nil {
		return err
	}

	products, err := importer.ParseProducts(table)
	if err != nil {
		return fmt.Errorf("failed to parse products: %w", err)
	}

	n, err := postgres.NewProductRepository(db).UpsertProducts(c.Context, products)
	if err != nil {
		return err
	}

	// Server summaries are keyed by threshold only, so drop them after catalog writes.
	if err := summaryCache(config.Load().Cache).InvalidateAll(c.Context); err != nil {
		log.Warn().Err(err).Msg("stock summary cache invalidate failed")
	}

	log.Info().Int("rows", n).Msg("products imported")
	return nil
}

func runReset(c *cli.Context) error {
	resets, err := newResetService(c)
	if err != nil {
		return err
	}

	loc := config.Load().Period.Location()
	req := service.ArchiveRequest{PeriodType: domain.PeriodType(c.String("type"))}
	if req.Start, err = optionalDate(c.String("start"), loc); err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	if req.End, err = optionalDate(c.String("end"), loc); err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	result, err := resets.PerformReset(c.Context, req)
	if err != nil {
		return err
	}

	rec := result.Archived
	fmt.Fprintf(c.App.Writer, "archived %s %s..%s id=%s sales=%d cost=%s profit=%s\n",
		rec.PeriodType,
		rec.PeriodStart.Format(period.DateLayout),
		rec.PeriodEnd.Format(period.DateLayout),
		rec.ID,
		rec.TotalSales,
		rec.TotalCost.StringFixed(2),
		rec.TotalProfit.StringFixed(2),
	)
	if result.TrackingError != "" {
		fmt.Fprintf(c.App.Writer, "warning: reset tracking not recorded: %s\n", result.TrackingError)
	} else {
		fmt.Fprintf(c.App.Writer, "next %s reset: %s\n", rec.PeriodType, result.Tracking.NextResetDate.Format(period.DateLayout))
	}
	return nil
}

func runUndo(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one archive id")
	}
	id, err := uuid.Parse(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid archive id: %w", err)
	}

	resets, err := newResetService(c)
	if err != nil {
		return err
	}
	if err := resets.UndoPeriodReset(c.Context, id); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "deleted archive %s\n", id)
	return nil
}

func runHistory(c *cli.Context) error {
	resets, err := newResetService(c)
	if err != nil {
		return err
	}

	records, err := resets.History(c.Context, domain.PeriodHistoryFilter{
		PeriodType: domain.PeriodType(c.String("type")),
		Limit:      c.Int("limit"),
	})
	if err != nil {
		return err
	}

	for _, rec := range records {
		fmt.Fprintf(c.App.Writer, "%s  %-6s  %s..%s  sales=%-5d cost=%s profit=%s\n",
			rec.ID,
			rec.PeriodType,
			rec.PeriodStart.Format(period.DateLayout),
			rec.PeriodEnd.Format(period.DateLayout),
			rec.TotalSales,
			rec.TotalCost.StringFixed(2),
			rec.TotalProfit.StringFixed(2),
		)
	}
	return nil
}

func runExport(c *cli.Context) error {
	resets, err := newResetService(c)
	if err != nil {
		return err
	}

	records, err := resets.History(c.Context, domain.PeriodHistoryFilter{
		PeriodType: domain.PeriodType(c.String("type")),
		Limit:      c.Int("limit"),
	})
	if err != nil {
		return err
	}

	payload, err := export.HistoryXLSX(records)
	if err != nil {
		return err
	}

	if key := c.String("storage-key"); key != "" {
		client, err := storage.NewMinioClient(config.Load().Storage)
		if err != nil {
			return err
		}
		if err := client.UploadObject(c.Context, key, payload, export.ContentType); err != nil {
			return err
		}
		log.Info().Str("key", key).Int("records", len(records)).Msg("history exported to storage")
		return nil
	}

	out := c.String("out")
	if err := os.WriteFile(out, payload, 0o644); err != nil {
		return fmt.Errorf("failed writing %s: %w", out, err)
	}
	log.Info().Str("file", out).Int("records", len(records)).Msg("history exported")
	return nil
}

func runListObjects(c *cli.Context) error {
	client, err := storage.NewMinioClient(config.Load().Storage)
	if err != nil {
		return err
	}

	objects, err := client.ListObjects(c.Context, c.String("prefix"))
	if err != nil {
		return err
	}

	for _, obj := range objects {
		fmt.Fprintf(c.App.Writer, "%10d  %s\n", obj.Size, obj.Key)
	}
	return nil
}

func newResetService(c *cli.Context) (*service.ResetService, error) {
	db, err := dbFrom(c)
	if err != nil {
		return nil, err
	}

	cfg := config.Load()
	clock := period.SystemClock{Location: cfg.Period.Location()}
	periods := postgres.NewPeriodRepository(db)
	archiver := service.NewArchiveService(postgres.NewSalesRepository(db), periods, clock)

	return service.NewResetService(archiver, periods, periods, service.ResetServiceOptions{
		Cache:        historyCache(cfg.Cache),
		Clock:        clock,
		HistoryLimit: cfg.Period.HistoryLimit,
	}), nil
}

// readImportTable reads the positional file argument, or downloads
// --storage-key into a temp dir first.
func readImportTable(c *cli.Context) (*importer.Table, error) {
	path := c.Args().First()

	if key := c.String("storage-key"); key != "" {
		client, err := storage.NewMinioClient(config.Load().Storage)
		if err != nil {
			return nil, err
		}
		dir, err := os.MkdirTemp("", "stockpulse-import-")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp dir: %w", err)
		}
		defer os.RemoveAll(dir)

		path = filepath.Join(dir, objectRelativePath("", key))
		if err := client.DownloadObject(c.Context, key, path); err != nil {
			return nil, err
		}
	}

	if path == "" {
		return nil, fmt.Errorf("a file argument or --storage-key is required")
	}

	start := time.Now()
	table, err := importer.ReadFile(path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", path).Int("rows", len(table.Rows)).Dur("took", time.Since(start)).Msg("import file read")
	return table, nil
}

func optionalDate(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := period.ParseDate(value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func summaryCache(cfg config.CacheConfig) cache.StockSummaryCache {
	if !cfg.Enabled {
		return cache.NewNoopStockSummaryCache()
	}
	client, ttl, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, skipping cache invalidation")
		return cache.NewNoopStockSummaryCache()
	}
	return cache.NewStockSummaryCache(client, ttl)
}

func historyCache(cfg config.CacheConfig) cache.PeriodHistoryCache {
	if !cfg.Enabled {
		return cache.NewNoopPeriodHistoryCache()
	}
	client, ttl, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, skipping cache invalidation")
		return cache.NewNoopPeriodHistoryCache()
	}
	return cache.NewPeriodHistoryCache(client, ttl)
}
