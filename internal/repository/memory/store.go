// Package memory holds an in-process implementation of the repository
// interfaces. It backs the service tests and the server when no database
// URL is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/google/uuid"
)

const defaultHistoryLimit = 20

type windowKey struct {
	periodType domain.PeriodType
	start      string
	end        string
}

type Store struct {
	mu sync.RWMutex

	products []domain.Product
	settings *domain.Settings
	sales    []domain.Sale
	history  []domain.PeriodHistoryRecord
	resets   []domain.ResetTrackingRecord

	nextSaleID      int64
	nextResetID     int64
	catalogRevision int64

	now func() time.Time
}

var (
	_ repository.ProductRepository       = (*Store)(nil)
	_ repository.SettingsRepository      = (*Store)(nil)
	_ repository.SalesRepository         = (*Store)(nil)
	_ repository.PeriodHistoryRepository = (*Store)(nil)
	_ repository.ResetTrackingRepository = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{now: time.Now}
}

// SetSettings replaces the stored settings. Nil clears them.
func (s *Store) SetSettings(settings *domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if settings == nil {
		s.settings = nil
		return
	}
	cp := *settings
	s.settings = &cp
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) UpsertProducts(_ context.Context, products []domain.Product) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range products {
		replaced := false
		for i := range s.products {
			if s.products[i].ID == p.ID {
				s.products[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			s.products = append(s.products, p)
		}
	}
	if len(products) > 0 {
		s.catalogRevision++
	}
	return len(products), nil
}

func (s *Store) CatalogVersion(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fmt.Sprintf("%d-%d", len(s.products), s.catalogRevision), nil
}

func (s *Store) GetSettings(_ context.Context) (*domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, repository.ErrNotFound
	}
	cp := *s.settings
	return &cp, nil
}

func (s *Store) ListSalesBetween(_ context.Context, start, end time.Time) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from := dateKey(start)
	to := dateKey(end)

	var out []domain.Sale
	for _, sale := range s.sales {
		d := dateKey(sale.Date)
		if d >= from && d <= to {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (s *Store) InsertSales(_ context.Context, sales []domain.Sale) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sale := range sales {
		s.nextSaleID++
		sale.ID = s.nextSaleID
		s.sales = append(s.sales, sale)
	}
	return len(sales), nil
}

func (s *Store) CreatePeriodHistory(_ context.Context, rec *domain.PeriodHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(rec)
	for i := range s.history {
		if keyOf(&s.history[i]) == key {
			return repository.ErrDuplicateArchive
		}
	}

	rec.ID = uuid.New()
	rec.CreatedAt = s.now()
	if rec.SellerBreakdown == nil {
		rec.SellerBreakdown = domain.SellerBreakdown{}
	}
	s.history = append(s.history, *rec)
	return nil
}

func (s *Store) ListPeriodHistory(_ context.Context, filter domain.PeriodHistoryFilter) ([]domain.PeriodHistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Walk backwards so later inserts win ties on created_at.
	var out []domain.PeriodHistoryRecord
	for i := len(s.history) - 1; i >= 0; i-- {
		rec := s.history[i]
		if filter.PeriodType != "" && rec.PeriodType != filter.PeriodType {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) DeletePeriodHistory(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.history {
		if s.history[i].ID == id {
			s.history = append(s.history[:i], s.history[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) CreateResetTracking(_ context.Context, rec *domain.ResetTrackingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextResetID++
	rec.ID = s.nextResetID
	rec.CreatedAt = s.now()
	s.resets = append(s.resets, *rec)
	return nil
}

func (s *Store) LatestResetTracking(_ context.Context, resetType domain.PeriodType) (*domain.ResetTrackingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.resets) - 1; i >= 0; i-- {
		if s.resets[i].ResetType == resetType {
			cp := s.resets[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func keyOf(rec *domain.PeriodHistoryRecord) windowKey {
	return windowKey{
		periodType: rec.PeriodType,
		start:      dateKey(rec.PeriodStart),
		end:        dateKey(rec.PeriodEnd),
	}
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
