package region

import (
	"context"
	"fmt"
	"sync"

	"github.com/ougirez/popchart/internal/domain"
	"github.com/ougirez/popchart/internal/pkg/constants"
	"github.com/ougirez/popchart/internal/pkg/logger"
	"github.com/ougirez/popchart/internal/service/series"
	"golang.org/x/sync/errgroup"
)

// DefaultRegionCode is the region whose composition is fetched alongside the list.
const DefaultRegionCode = 1

// CompositionProvider is where the service gets regions and their population data.
type CompositionProvider interface {
	ListRegions(ctx context.Context) ([]domain.Region, error)
	GetComposition(ctx context.Context, prefCode int) (domain.Composition, error)
}

// Graph is everything the chart needs for one render.
type Graph struct {
	Category domain.StatCategory
	Rows     []domain.GraphRow
	Lines    []series.Line
}

// Service owns the dashboard view state: the region list, the active category,
// the loading state and the last fetch error. Network calls happen outside the lock.
type Service struct {
	provider CompositionProvider

	mx                 sync.Mutex
	regions            []domain.Region
	index              map[int]int
	generations        map[int]uint64
	inflight           int
	category           domain.StatCategory
	lastErr            string
	defaultComposition domain.Composition
}

func NewRegionService(provider CompositionProvider) *Service {
	return &Service{
		provider:    provider,
		index:       make(map[int]int),
		generations: make(map[int]uint64),
		category:    domain.DefaultCategory,
	}
}

func (s *Service) beginLoading() {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.inflight++
}

func (s *Service) endLoading() {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.inflight--
}

func (s *Service) setError(err error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.lastErr = err.Error()
}

// Initialize loads the region list and the default region's composition concurrently.
// Either failure leaves the current list untouched. The default composition is kept
// aside and not attached to any region.
func (s *Service) Initialize(ctx context.Context) error {
	s.beginLoading()
	defer s.endLoading()

	var (
		regions            []domain.Region
		defaultComposition domain.Composition
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		regions, err = s.provider.ListRegions(egCtx)
		if err != nil {
			return fmt.Errorf("provider.ListRegions: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		defaultComposition, err = s.provider.GetComposition(egCtx, DefaultRegionCode)
		if err != nil {
			return fmt.Errorf("provider.GetComposition, pref_code-%d: %w", DefaultRegionCode, err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		logger.Errorf(ctx, "initialize regions: %s", err.Error())
		s.setError(err)
		return fmt.Errorf("initialize regions: %w", err)
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	// responses of selects issued against the previous list are stale now
	for code := range s.generations {
		s.generations[code]++
	}

	s.regions = make([]domain.Region, 0, len(regions))
	s.index = make(map[int]int, len(regions))
	for i, r := range regions {
		s.regions = append(s.regions, domain.Region{
			Code:        r.Code,
			Name:        r.Name,
			StrokeColor: domain.StrokeAt(i),
		})
		s.index[r.Code] = i
	}
	s.defaultComposition = defaultComposition
	s.lastErr = ""

	logger.Infof(ctx, "loaded %d regions", len(s.regions))
	return nil
}

// Select fetches the composition of code and marks the region as plotted.
// A response that was overtaken by a later Select or Deselect of the same
// region is dropped.
func (s *Service) Select(ctx context.Context, code int) error {
	s.mx.Lock()
	if _, ok := s.index[code]; !ok {
		s.mx.Unlock()
		return fmt.Errorf("%w: code %d", constants.ErrRegionNotFound, code)
	}
	s.generations[code]++
	generation := s.generations[code]
	s.inflight++
	s.mx.Unlock()

	defer s.endLoading()

	composition, err := s.provider.GetComposition(ctx, code)
	if err != nil {
		logger.Errorf(ctx, "select region %d: %s", code, err.Error())
		s.setError(err)
		return fmt.Errorf("provider.GetComposition, pref_code-%d: %w", code, err)
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	if s.generations[code] != generation {
		logger.Warnf(ctx, "dropping stale composition of region %d", code)
		return nil
	}

	i := s.index[code]
	s.regions[i].Selected = true
	s.regions[i].Composition = composition
	s.regions[i].StrokeColor = domain.StrokeAt(code - 1)
	s.lastErr = ""

	return nil
}

// Deselect removes code from the plot. It never touches the network.
func (s *Service) Deselect(code int) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	i, ok := s.index[code]
	if !ok {
		return fmt.Errorf("%w: code %d", constants.ErrRegionNotFound, code)
	}
	s.generations[code]++

	s.regions[i].Selected = false
	s.regions[i].Composition = nil
	s.regions[i].StrokeColor = ""

	return nil
}

// Toggle selects or deselects code depending on selected.
func (s *Service) Toggle(ctx context.Context, code int, selected bool) error {
	if selected {
		return s.Select(ctx, code)
	}
	return s.Deselect(code)
}

func (s *Service) SetActiveCategory(category domain.StatCategory) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %q", constants.ErrUnknownCategory, category)
	}

	s.mx.Lock()
	defer s.mx.Unlock()
	s.category = category

	return nil
}

func (s *Service) ActiveCategory() domain.StatCategory {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.category
}

func (s *Service) Loading() bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.inflight > 0
}

// DefaultComposition is the composition fetched for DefaultRegionCode at initialization.
func (s *Service) DefaultComposition() domain.Composition {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.defaultComposition.Clone()
}

// Snapshot returns a deep copy of the current view state.
func (s *Service) Snapshot() domain.ViewState {
	s.mx.Lock()
	defer s.mx.Unlock()

	regions := make([]domain.Region, 0, len(s.regions))
	for _, r := range s.regions {
		regions = append(regions, r.Clone())
	}

	return domain.ViewState{
		Regions:        regions,
		Loading:        s.inflight > 0,
		ActiveCategory: s.category,
		LastError:      s.lastErr,
	}
}

// Graph recomputes the chart rows from the current state.
func (s *Service) Graph() Graph {
	state := s.Snapshot()
	rows := series.BuildRows(state.Regions, state.ActiveCategory)

	return Graph{
		Category: state.ActiveCategory,
		Rows:     rows,
		Lines:    series.Lines(rows, state.Regions),
	}
}
