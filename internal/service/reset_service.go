package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockpulse/internal/cache"
	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/period"
	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultHistoryLimit = 20

// ResetResult reports a completed reset. TrackingError is set when the
// archive was stored but the tracking row could not be written.
type ResetResult struct {
	Archived      *domain.PeriodHistoryRecord `json:"archived"`
	Tracking      *domain.ResetTrackingRecord `json:"tracking,omitempty"`
	TrackingError string                      `json:"tracking_error,omitempty"`
}

type ResetService struct {
	archiver     *ArchiveService
	history      repository.PeriodHistoryRepository
	tracking     repository.ResetTrackingRepository
	cache        cache.PeriodHistoryCache
	clock        period.Clock
	historyLimit int
}

type ResetServiceOptions struct {
	Cache        cache.PeriodHistoryCache
	Clock        period.Clock
	HistoryLimit int
}

func NewResetService(
	archiver *ArchiveService,
	history repository.PeriodHistoryRepository,
	tracking repository.ResetTrackingRepository,
	opts ResetServiceOptions,
) *ResetService {
	if opts.Cache == nil {
		opts.Cache = cache.NewNoopPeriodHistoryCache()
	}
	if opts.Clock == nil {
		opts.Clock = period.SystemClock{}
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}

	return &ResetService{
		archiver:     archiver,
		history:      history,
		tracking:     tracking,
		cache:        opts.Cache,
		clock:        opts.Clock,
		historyLimit: opts.HistoryLimit,
	}
}

// PerformReset archives the window and then records the reset. A failed
// archive writes nothing; a failed tracking write leaves the archive in place.
func (s *ResetService) PerformReset(ctx context.Context, req ArchiveRequest) (*ResetResult, error) {
	archived, err := s.archiver.Archive(ctx, req)
	if err != nil {
		return nil, err
	}
	s.invalidateHistory(ctx)

	now := s.clock.Now()
	tracking := &domain.ResetTrackingRecord{
		ResetType:     archived.PeriodType,
		ResetDate:     now,
		NextResetDate: period.NextResetDate(archived.PeriodType, now),
	}

	result := &ResetResult{Archived: archived}
	if err := s.tracking.CreateResetTracking(ctx, tracking); err != nil {
		log.Warn().
			Err(err).
			Str("reset_type", string(archived.PeriodType)).
			Str("archive_id", archived.ID.String()).
			Msg("reset: archive stored but tracking write failed")
		result.TrackingError = err.Error()
		return result, nil
	}

	result.Tracking = tracking
	return result, nil
}

// UndoPeriodReset removes one archive record. Sales and products are untouched.
func (s *ResetService) UndoPeriodReset(ctx context.Context, id uuid.UUID) error {
	if err := s.history.DeletePeriodHistory(ctx, id); err != nil {
		return err
	}
	s.invalidateHistory(ctx)

	log.Info().Str("archive_id", id.String()).Msg("period reset undone")
	return nil
}

// History lists archives newest first. An empty period type lists both.
func (s *ResetService) History(ctx context.Context, filter domain.PeriodHistoryFilter) ([]domain.PeriodHistoryRecord, error) {
	if filter.PeriodType != "" {
		periodType, ok := domain.ParsePeriodType(string(filter.PeriodType))
		if !ok {
			return nil, ErrInvalidPeriodType
		}
		filter.PeriodType = periodType
	}
	if filter.Limit <= 0 {
		filter.Limit = s.historyLimit
	}

	if records, ok, err := s.cache.GetHistory(ctx, filter); err == nil && ok {
		return records, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("periods: cache get history failed")
	}

	records, err := s.history.ListPeriodHistory(ctx, filter)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = make([]domain.PeriodHistoryRecord, 0)
	}

	if err := s.cache.SetHistory(ctx, filter, records); err != nil {
		log.Warn().Err(err).Msg("periods: cache set history failed")
	}

	return records, nil
}

// LastReset returns the most recent tracking row for a reset type.
func (s *ResetService) LastReset(ctx context.Context, resetType domain.PeriodType) (*domain.ResetTrackingRecord, error) {
	parsed, ok := domain.ParsePeriodType(string(resetType))
	if !ok {
		return nil, ErrInvalidPeriodType
	}

	rec, err := s.tracking.LatestResetTracking(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to load last %s reset: %w", parsed, err)
	}
	return rec, nil
}

// CurrentPeriod derives the period info from the service clock.
func (s *ResetService) CurrentPeriod() period.Info {
	return period.CurrentInfo(s.clock.Now())
}

func (s *ResetService) invalidateHistory(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("periods: cache invalidate failed")
	}
}
