package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/period"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ArchiveRequest names the window to archive. Nil bounds default to the
// current semi-monthly period.
type ArchiveRequest struct {
	PeriodType domain.PeriodType
	Start      *time.Time
	End        *time.Time
}

type ArchiveService struct {
	sales   repository.SalesRepository
	history repository.PeriodHistoryRepository
	clock   period.Clock
}

func NewArchiveService(sales repository.SalesRepository, history repository.PeriodHistoryRepository, clock period.Clock) *ArchiveService {
	if clock == nil {
		clock = period.SystemClock{}
	}
	return &ArchiveService{sales: sales, history: history, clock: clock}
}

// Archive snapshots the sales totals of a window into a new period history
// record. Sales rows are only read.
func (s *ArchiveService) Archive(ctx context.Context, req ArchiveRequest) (*domain.PeriodHistoryRecord, error) {
	periodType, start, end, err := s.resolveWindow(req)
	if err != nil {
		return nil, err
	}

	sales, err := s.sales.ListSalesBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales for %s period: %w", periodType, err)
	}

	rec := Aggregate(sales)
	rec.PeriodType = periodType
	rec.PeriodStart = start
	rec.PeriodEnd = end

	if err := s.history.CreatePeriodHistory(ctx, &rec); err != nil {
		return nil, fmt.Errorf("failed to archive %s period: %w", periodType, err)
	}

	log.Info().
		Str("period_type", string(periodType)).
		Str("period_start", start.Format(period.DateLayout)).
		Str("period_end", end.Format(period.DateLayout)).
		Int("total_sales", rec.TotalSales).
		Str("total_cost", rec.TotalCost.StringFixed(2)).
		Msg("period archived")

	return &rec, nil
}

func (s *ArchiveService) resolveWindow(req ArchiveRequest) (domain.PeriodType, time.Time, time.Time, error) {
	periodType, ok := domain.ParsePeriodType(string(req.PeriodType))
	if !ok {
		return "", time.Time{}, time.Time{}, ErrInvalidPeriodType
	}

	info := period.CurrentInfo(s.clock.Now())
	start, end := info.PeriodStart, info.PeriodEnd
	if req.Start != nil {
		start = period.StartOfDay(*req.Start)
	}
	if req.End != nil {
		end = period.StartOfDay(*req.End)
	}

	if start.After(end) {
		return "", time.Time{}, time.Time{}, ErrInvalidRange
	}

	return periodType, start, end, nil
}

// Aggregate totals sales and groups them by seller. Sales without a seller
// are booked under domain.UnknownSeller.
func Aggregate(sales []domain.Sale) domain.PeriodHistoryRecord {
	rec := domain.PeriodHistoryRecord{
		TotalCost:       decimal.Zero,
		TotalProfit:     decimal.Zero,
		SellerBreakdown: domain.SellerBreakdown{},
	}

	for _, sale := range sales {
		cost := sale.Cost()

		rec.TotalCost = rec.TotalCost.Add(cost)
		rec.TotalProfit = rec.TotalProfit.Add(sale.Profit)
		rec.TotalSales++

		name := sale.SellerName()
		totals := rec.SellerBreakdown[name]
		totals.Cost = totals.Cost.Add(cost)
		totals.Profit = totals.Profit.Add(sale.Profit)
		totals.Sales++
		rec.SellerBreakdown[name] = totals
	}

	return rec
}
