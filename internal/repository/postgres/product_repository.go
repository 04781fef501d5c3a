package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/jmoiron/sqlx"
)

const productColumns = `
	id, sku, name, stock, min_stock,
	COALESCE(color_variants, '[]'::jsonb) AS color_variants,
	stock_warning_level
`

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name, id`

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	return products, nil
}

func (r *productRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p domain.Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting product %s: %w", id, err)
	}

	return &p, nil
}

// CatalogVersion combines the row count with the newest updated_at in
// microseconds. The products trigger stamps updated_at on every write.
func (r *productRepository) CatalogVersion(ctx context.Context) (string, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE((EXTRACT(EPOCH FROM MAX(updated_at)) * 1000000)::BIGINT, 0)
		FROM products
	`

	var count, updatedMicros int64
	if err := r.db.QueryRowxContext(ctx, query).Scan(&count, &updatedMicros); err != nil {
		return "", fmt.Errorf("error reading catalog version: %w", err)
	}

	return fmt.Sprintf("%d-%d", count, updatedMicros), nil
}

func (r *productRepository) UpsertProducts(ctx context.Context, products []domain.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO products (id, sku, name, stock, min_stock, color_variants, stock_warning_level, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			sku = EXCLUDED.sku,
			name = EXCLUDED.name,
			stock = EXCLUDED.stock,
			min_stock = EXCLUDED.min_stock,
			color_variants = EXCLUDED.color_variants,
			stock_warning_level = EXCLUDED.stock_warning_level,
			updated_at = NOW()
	`

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, p := range products {
			if _, err := stmt.ExecContext(ctx,
				p.ID,
				p.SKU,
				p.Name,
				p.Stock,
				p.MinStock,
				p.ColorVariants,
				string(p.StockWarningLevel.Effective()),
			); err != nil {
				return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(products), nil
}
