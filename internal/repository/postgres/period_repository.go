package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/google/uuid"
)

const defaultHistoryLimit = 20

type periodRepository struct {
	db *DB
}

// NewPeriodRepository serves both the period_history and reset_tracking tables.
func NewPeriodRepository(db *DB) *periodRepository {
	return &periodRepository{db: db}
}

var (
	_ repository.PeriodHistoryRepository = (*periodRepository)(nil)
	_ repository.ResetTrackingRepository = (*periodRepository)(nil)
)

func (r *periodRepository) CreatePeriodHistory(ctx context.Context, rec *domain.PeriodHistoryRecord) error {
	query := `
		INSERT INTO period_history (
			period_type, period_start, period_end,
			total_cost, total_profit, total_sales, seller_breakdown
		) VALUES ($1, $2::date, $3::date, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		string(rec.PeriodType),
		rec.PeriodStart.Format(dateLayout),
		rec.PeriodEnd.Format(dateLayout),
		rec.TotalCost,
		rec.TotalProfit,
		rec.TotalSales,
		rec.SellerBreakdown,
	).Scan(&rec.ID, &rec.CreatedAt)
	if isUniqueViolation(err) {
		return repository.ErrDuplicateArchive
	}
	if err != nil {
		return fmt.Errorf("error inserting period history: %w", err)
	}

	return nil
}

func (r *periodRepository) ListPeriodHistory(ctx context.Context, filter domain.PeriodHistoryFilter) ([]domain.PeriodHistoryRecord, error) {
	query := `
		SELECT
			id, period_type, period_start, period_end,
			total_cost, total_profit, total_sales, seller_breakdown, created_at
		FROM period_history
		WHERE 1=1
	`

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.PeriodType != "" {
		conditions = append(conditions, fmt.Sprintf("period_type = $%d", argCounter))
		args = append(args, string(filter.PeriodType))
		argCounter++
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argCounter)
	args = append(args, limit)

	var records []domain.PeriodHistoryRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("error listing period history: %w", err)
	}

	return records, nil
}

func (r *periodRepository) DeletePeriodHistory(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM period_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting period history %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *periodRepository) CreateResetTracking(ctx context.Context, rec *domain.ResetTrackingRecord) error {
	query := `
		INSERT INTO reset_tracking (reset_type, reset_date, next_reset_date)
		VALUES ($1, $2, $3::date)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		string(rec.ResetType),
		rec.ResetDate,
		rec.NextResetDate.Format(dateLayout),
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting reset tracking: %w", err)
	}

	return nil
}

func (r *periodRepository) LatestResetTracking(ctx context.Context, resetType domain.PeriodType) (*domain.ResetTrackingRecord, error) {
	query := `
		SELECT id, reset_type, reset_date, next_reset_date, created_at
		FROM reset_tracking
		WHERE reset_type = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var rec domain.ResetTrackingRecord
	err := r.db.GetContext(ctx, &rec, query, string(resetType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting latest %s reset: %w", resetType, err)
	}

	return &rec, nil
}
