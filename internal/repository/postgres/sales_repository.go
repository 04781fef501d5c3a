package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/jmoiron/sqlx"
)

const dateLayout = "2006-01-02"

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) ListSalesBetween(ctx context.Context, start, end time.Time) ([]domain.Sale, error) {
	query := `
		SELECT
			id, product_id, date, unit_cost, quantity, profit,
			COALESCE(seller_name, '') AS seller_name
		FROM sales
		WHERE date BETWEEN $1::date AND $2::date
		ORDER BY date, id
	`

	var sales []domain.Sale
	if err := r.db.SelectContext(ctx, &sales, query, start.Format(dateLayout), end.Format(dateLayout)); err != nil {
		return nil, fmt.Errorf("error listing sales between %s and %s: %w",
			start.Format(dateLayout), end.Format(dateLayout), err)
	}

	return sales, nil
}

func (r *salesRepository) InsertSales(ctx context.Context, sales []domain.Sale) (int, error) {
	if len(sales) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO sales (product_id, date, unit_cost, quantity, profit, seller_name)
		VALUES ($1, $2::date, $3, $4, $5, NULLIF($6, ''))
	`

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, s := range sales {
			if _, err := stmt.ExecContext(ctx,
				s.ProductID,
				s.Date.Format(dateLayout),
				s.UnitCost,
				s.Quantity,
				s.Profit,
				s.Seller,
			); err != nil {
				return fmt.Errorf("failed to insert sale: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(sales), nil
}

type settingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var s domain.Settings
	err := r.db.GetContext(ctx, &s, `SELECT low_stock_threshold FROM settings WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting settings: %w", err)
	}

	return &s, nil
}
