package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/andresuchdata/stockpulse/internal/config"
	"github.com/andresuchdata/stockpulse/internal/repository/postgres"
	"github.com/andresuchdata/stockpulse/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

type contextKey string

const dbKey contextKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string (defaults to the DB_* settings)",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func newTypeFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "type",
		Aliases:  []string{"t"},
		Usage:    "Period type: cost or profit",
		Required: required,
	}
}

func newStorageKeyFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "storage-key",
		Usage: usage,
	}
}

func initDB(c *cli.Context) error {
	cfg := config.Load()

	dsn := c.String("db-url")
	if dsn == "" {
		dsn = cfg.Database.DSN()
	}

	raw, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := raw.PingContext(c.Context); err != nil {
		raw.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db := postgres.Wrap(sqlx.NewDb(raw, "pgx"), cfg.Database.MaxConcurrency)
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Server.Mode, "stockpulse-admin")

	app := &cli.App{
		Name:  "stockpulse-admin",
		Usage: "Maintenance commands for stock data and period archives",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level override (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return initDB(c)
		},
		After:  closeDB,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply the database schema",
				Action: runMigrate,
			},
			{
				Name:  "import",
				Usage: "Import sales or products from a CSV/XLSX file",
				Subcommands: []*cli.Command{
					{
						Name:      "sales",
						Usage:     "Append sales rows",
						ArgsUsage: "[file]",
						Flags:     []cli.Flag{newStorageKeyFlag("Object key to download instead of a local file")},
						Action:    runImportSales,
					},
					{
						Name:      "products",
						Usage:     "Upsert catalog products",
						ArgsUsage: "[file]",
						Flags:     []cli.Flag{newStorageKeyFlag("Object key to download instead of a local file")},
						Action:    runImportProducts,
					},
				},
			},
			{
				Name:  "objects",
				Usage: "List import files in object storage",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "prefix", Usage: "Key prefix to list"},
				},
				Action: runListObjects,
			},
			{
				Name:  "reset",
				Usage: "Archive a period and record the reset",
				Flags: []cli.Flag{
					newTypeFlag(true),
					&cli.StringFlag{Name: "start", Usage: "Start date YYYY-MM-DD (defaults to the current period)"},
					&cli.StringFlag{Name: "end", Usage: "End date YYYY-MM-DD (defaults to the current period)"},
				},
				Action: runReset,
			},
			{
				Name:      "undo",
				Usage:     "Delete an archived period by id",
				ArgsUsage: "<id>",
				Action:    runUndo,
			},
			{
				Name:  "history",
				Usage: "List archived periods, newest first",
				Flags: []cli.Flag{
					newTypeFlag(false),
					&cli.IntFlag{Name: "limit", Usage: "Maximum rows", Value: cfg.Period.HistoryLimit},
				},
				Action: runHistory,
			},
			{
				Name:  "export",
				Usage: "Write archived periods to an XLSX workbook",
				Flags: []cli.Flag{
					newTypeFlag(false),
					&cli.IntFlag{Name: "limit", Usage: "Maximum rows", Value: cfg.Period.HistoryLimit},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file", Value: "period-history.xlsx"},
					newStorageKeyFlag("Upload the workbook to object storage under this key"),
				},
				Action: runExport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
