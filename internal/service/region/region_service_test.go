package region

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ougirez/popchart/internal/domain"
	"github.com/ougirez/popchart/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mx      sync.Mutex
	calls   []int
	listErr error
	compErr error

	// started and gate hold back fetches of every code but DefaultRegionCode.
	started chan int
	gate    chan struct{}
}

func (f *fakeProvider) ListRegions(context.Context) ([]domain.Region, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []domain.Region{
		{Code: 1, Name: "北海道"},
		{Code: 2, Name: "青森県"},
		{Code: 3, Name: "岩手県"},
	}, nil
}

func (f *fakeProvider) GetComposition(_ context.Context, prefCode int) (domain.Composition, error) {
	f.mx.Lock()
	f.calls = append(f.calls, prefCode)
	f.mx.Unlock()

	if prefCode != DefaultRegionCode {
		if f.started != nil {
			f.started <- prefCode
		}
		if f.gate != nil {
			<-f.gate
		}
	}
	if f.compErr != nil {
		return nil, f.compErr
	}

	v := int64(prefCode * 10)
	return domain.Composition{
		domain.CategoryTotal:   {{Year: 2015, Value: v}, {Year: 2020, Value: v + 1}},
		domain.CategoryElderly: {{Year: 2015, Value: v / 2}, {Year: 2020, Value: v/2 + 1}},
	}, nil
}

func (f *fakeProvider) callCount() int {
	f.mx.Lock()
	defer f.mx.Unlock()
	return len(f.calls)
}

func newInitialized(t *testing.T, provider *fakeProvider) *Service {
	t.Helper()
	svc := NewRegionService(provider)
	require.NoError(t, svc.Initialize(context.Background()))
	return svc
}

func TestInitialize(t *testing.T) {
	provider := &fakeProvider{}
	svc := newInitialized(t, provider)

	state := svc.Snapshot()
	require.Len(t, state.Regions, 3)
	assert.False(t, state.Loading)
	assert.Equal(t, domain.CategoryTotal, state.ActiveCategory)
	assert.Empty(t, state.LastError)

	for i, r := range state.Regions {
		assert.False(t, r.Selected)
		assert.Nil(t, r.Composition)
		assert.Equal(t, domain.Palette[i], r.StrokeColor)
	}

	// fetched for the default region but attached to nothing
	assert.NotNil(t, svc.DefaultComposition())
	assert.Equal(t, []int{DefaultRegionCode}, provider.calls)
}

func TestInitializeFailure(t *testing.T) {
	for name, provider := range map[string]*fakeProvider{
		"list fails":        {listErr: constants.ErrUpstream},
		"composition fails": {compErr: constants.ErrMalformedResponse},
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewRegionService(provider)
			require.Error(t, svc.Initialize(context.Background()))

			state := svc.Snapshot()
			assert.Empty(t, state.Regions)
			assert.False(t, state.Loading)
			assert.NotEmpty(t, state.LastError)
		})
	}
}

func TestSelectAndDeselect(t *testing.T) {
	provider := &fakeProvider{started: make(chan int), gate: make(chan struct{})}
	svc := newInitialized(t, provider)

	done := make(chan error)
	go func() { done <- svc.Select(context.Background(), 2) }()

	assert.Equal(t, 2, <-provider.started)
	assert.True(t, svc.Loading())
	close(provider.gate)
	require.NoError(t, <-done)
	assert.False(t, svc.Loading())

	r := svc.Snapshot().Regions[1]
	assert.True(t, r.Selected)
	assert.Equal(t, int64(21), r.Composition[domain.CategoryTotal][1].Value)

	calls := provider.callCount()
	require.NoError(t, svc.Deselect(2))

	state := svc.Snapshot()
	assert.False(t, state.Regions[1].Selected)
	assert.Nil(t, state.Regions[1].Composition)
	assert.Empty(t, state.Regions[1].StrokeColor)
	assert.False(t, state.Loading)
	assert.Equal(t, calls, provider.callCount())
	assert.Empty(t, svc.Graph().Rows)
}

func TestSelectFailureKeepsState(t *testing.T) {
	provider := &fakeProvider{}
	svc := newInitialized(t, provider)
	before := svc.Snapshot()

	provider.compErr = constants.ErrUpstream
	err := svc.Select(context.Background(), 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, constants.ErrUpstream))

	after := svc.Snapshot()
	assert.Equal(t, before.Regions, after.Regions)
	assert.False(t, after.Loading)
	assert.Contains(t, after.LastError, constants.ErrUpstream.Error())

	provider.compErr = nil
	require.NoError(t, svc.Select(context.Background(), 3))
	assert.Empty(t, svc.Snapshot().LastError)
}

func TestSelectUnknownRegion(t *testing.T) {
	provider := &fakeProvider{}
	svc := newInitialized(t, provider)

	err := svc.Select(context.Background(), 99)
	assert.True(t, errors.Is(err, constants.ErrRegionNotFound))
	assert.True(t, errors.Is(svc.Deselect(99), constants.ErrRegionNotFound))
	assert.Equal(t, 1, provider.callCount())
	assert.False(t, svc.Loading())
}

func TestStaleSelectIsDropped(t *testing.T) {
	provider := &fakeProvider{started: make(chan int), gate: make(chan struct{})}
	svc := newInitialized(t, provider)

	done := make(chan error)
	go func() { done <- svc.Select(context.Background(), 3) }()
	<-provider.started

	require.NoError(t, svc.Deselect(3))
	close(provider.gate)
	require.NoError(t, <-done)

	r := svc.Snapshot().Regions[2]
	assert.False(t, r.Selected)
	assert.Nil(t, r.Composition)
	assert.False(t, svc.Loading())
}

func TestStrokeStableAcrossToggles(t *testing.T) {
	svc := newInitialized(t, &fakeProvider{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Toggle(ctx, 2, true))
		assert.Equal(t, domain.Palette[1], svc.Snapshot().Regions[1].StrokeColor)
		require.NoError(t, svc.Toggle(ctx, 2, false))
	}
	require.NoError(t, svc.Toggle(ctx, 2, true))
	assert.Equal(t, domain.Palette[1], svc.Snapshot().Regions[1].StrokeColor)
}

func TestSetActiveCategory(t *testing.T) {
	svc := newInitialized(t, &fakeProvider{})
	ctx := context.Background()
	require.NoError(t, svc.Select(ctx, 1))
	require.NoError(t, svc.Select(ctx, 3))

	total := svc.Graph()
	require.NoError(t, svc.SetActiveCategory(domain.CategoryElderly))
	elderly := svc.Graph()

	assert.Equal(t, domain.CategoryElderly, elderly.Category)
	assert.Equal(t, total.Rows[0].Columns, elderly.Rows[0].Columns)
	assert.Equal(t, int64(15), elderly.Rows[0].Values["岩手県"])
	assert.Len(t, elderly.Lines, 2)

	state := svc.Snapshot()
	assert.True(t, state.Regions[0].Selected)
	assert.True(t, state.Regions[2].Selected)

	err := svc.SetActiveCategory("人口密度")
	assert.True(t, errors.Is(err, constants.ErrUnknownCategory))
	assert.Equal(t, domain.CategoryElderly, svc.ActiveCategory())
}

func TestReloadDropsInflightSelect(t *testing.T) {
	provider := &fakeProvider{started: make(chan int), gate: make(chan struct{})}
	svc := newInitialized(t, provider)

	done := make(chan error)
	go func() { done <- svc.Select(context.Background(), 2) }()
	<-provider.started

	require.NoError(t, svc.Initialize(context.Background()))
	close(provider.gate)
	require.NoError(t, <-done)

	assert.False(t, svc.Snapshot().Regions[1].Selected)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	svc := newInitialized(t, &fakeProvider{})
	require.NoError(t, svc.Select(context.Background(), 1))

	state := svc.Snapshot()
	state.Regions[0].Composition[domain.CategoryTotal][0].Value = -1

	assert.Equal(t, int64(10), svc.Snapshot().Regions[0].Composition[domain.CategoryTotal][0].Value)
}
