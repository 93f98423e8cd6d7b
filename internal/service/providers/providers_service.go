package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ougirez/popchart/internal/domain"
	"github.com/ougirez/popchart/internal/domain/dto"
	"github.com/ougirez/popchart/internal/pkg/constants"
	"github.com/ougirez/popchart/internal/pkg/logger"
	"github.com/ougirez/popchart/internal/pkg/store"
)

// Fetcher is the upstream population API.
type Fetcher interface {
	FetchPrefectures(ctx context.Context) (*dto.PrefecturesResponse, error)
	FetchComposition(ctx context.Context, prefCode int) (*dto.CompositionResponse, error)
}

// Service serves population data from the upstream API, going through the
// cache store first when one is configured.
type Service struct {
	client Fetcher
	store  store.Store
	ttl    time.Duration
	now    func() time.Time
}

// NewProvidersService builds the service. A nil store disables caching.
func NewProvidersService(client Fetcher, store store.Store, ttl time.Duration) *Service {
	return &Service{client: client, store: store, ttl: ttl, now: time.Now}
}

func (s *Service) cacheEnabled() bool {
	return s.store != nil && s.ttl > 0
}

func (s *Service) freshAfter() time.Time {
	return s.now().Add(-s.ttl)
}

// ListRegions returns all regions unselected, with strokes assigned by list position.
func (s *Service) ListRegions(ctx context.Context) ([]domain.Region, error) {
	if s.cacheEnabled() {
		regions, err := s.store.ListRegions(ctx, s.freshAfter())
		switch {
		case err == nil:
			for i := range regions {
				regions[i].StrokeColor = domain.StrokeAt(i)
			}
			logger.Debugf(ctx, "regions served from cache: %d", len(regions))
			return regions, nil
		case !errors.Is(err, constants.ErrDBNotFound):
			logger.Warnf(ctx, "store.ListRegions: %s", err.Error())
		}
	}

	resp, err := s.client.FetchPrefectures(ctx)
	if err != nil {
		return nil, fmt.Errorf("client.FetchPrefectures: %w", err)
	}
	regions := resp.Regions()

	if s.cacheEnabled() {
		if err := s.store.UpsertRegions(ctx, regions); err != nil {
			logger.Warnf(ctx, "store.UpsertRegions: %s", err.Error())
		}
	}

	return regions, nil
}

// GetComposition returns the population composition of prefCode keyed by category label.
func (s *Service) GetComposition(ctx context.Context, prefCode int) (domain.Composition, error) {
	if s.cacheEnabled() {
		composition, err := s.store.GetComposition(ctx, prefCode, s.freshAfter())
		switch {
		case err == nil:
			logger.Debugf(ctx, "composition of %d served from cache", prefCode)
			return composition, nil
		case !errors.Is(err, constants.ErrDBNotFound):
			logger.Warnf(ctx, "store.GetComposition, pref_code-%d: %s", prefCode, err.Error())
		}
	}

	resp, err := s.client.FetchComposition(ctx, prefCode)
	if err != nil {
		return nil, fmt.Errorf("client.FetchComposition, pref_code-%d: %w", prefCode, err)
	}
	composition := resp.ToComposition()

	if s.cacheEnabled() {
		if err := s.store.SaveComposition(ctx, prefCode, composition); err != nil {
			logger.Warnf(ctx, "store.SaveComposition, pref_code-%d: %s", prefCode, err.Error())
		}
	}

	return composition, nil
}

// PurgeCache drops every cached composition and reports how many rows went.
func (s *Service) PurgeCache(ctx context.Context) (int64, error) {
	if s.store == nil {
		return 0, nil
	}

	n, err := s.store.PurgeCompositions(ctx)
	if err != nil {
		return 0, fmt.Errorf("store.PurgeCompositions: %w", err)
	}

	logger.Infof(ctx, "purged %d cached compositions", n)
	return n, nil
}
