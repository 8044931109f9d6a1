package usecases_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
	"github.com/hanamagouda9611/map-poi-app/internal/core/usecases"
)

func ptr(v float64) *float64 { return &v }

func cafeInput() domain.POIInput {
	return domain.POIInput{Name: "Cafe", Description: "Coffee shop", Lat: ptr(12.9716), Lng: ptr(77.5946)}
}

func TestPOIService_Create_PassesLatLngUnswapped(t *testing.T) {
	var got domain.GeoPoint
	repo := &mockPOIRepo{
		createFn: func(ctx context.Context, name, description string, loc domain.GeoPoint) (int64, error) {
			got = loc
			return 42, nil
		},
	}

	svc := usecases.NewPOIService(repo)
	id, err := svc.Create(context.Background(), domain.POIInput{
		Name: "Axis", Description: "order", Lat: ptr(12.97), Lng: ptr(77.59),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, domain.GeoPoint{Lat: 12.97, Lng: 77.59}, got)
}

func TestPOIService_Create_InvalidInputNeverReachesRepo(t *testing.T) {
	cases := map[string]func(in *domain.POIInput){
		"missing name":        func(in *domain.POIInput) { in.Name = "" },
		"missing description": func(in *domain.POIInput) { in.Description = "" },
		"null lat":            func(in *domain.POIInput) { in.Lat = nil },
		"null lng":            func(in *domain.POIInput) { in.Lng = nil },
	}
	for name, mut := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &mockPOIRepo{}
			pub := &recordingPublisher{}
			svc := usecases.NewPOIService(repo, usecases.WithEvents(pub))

			in := cafeInput()
			mut(&in)
			_, err := svc.Create(context.Background(), in)

			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
			assert.Zero(t, repo.calls, "repository must not be called")
			assert.Empty(t, pub.events)
		})
	}
}

func TestPOIService_Update_NotFound(t *testing.T) {
	repo := &mockPOIRepo{
		updateFn: func(ctx context.Context, id int64, name, description string, loc domain.GeoPoint) error {
			return domain.ErrNotFound
		},
	}
	pub := &recordingPublisher{}
	svc := usecases.NewPOIService(repo, usecases.WithEvents(pub))

	err := svc.Update(context.Background(), 999999, cafeInput())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, pub.events)
}

func TestPOIService_Update_Idempotent(t *testing.T) {
	var updates int
	repo := &mockPOIRepo{
		updateFn: func(ctx context.Context, id int64, name, description string, loc domain.GeoPoint) error {
			updates++
			return nil
		},
	}
	svc := usecases.NewPOIService(repo)

	in := domain.POIInput{Name: "Cafe 2", Description: "Moved", Lat: ptr(13.0), Lng: ptr(77.6)}
	require.NoError(t, svc.Update(context.Background(), 1, in))
	require.NoError(t, svc.Update(context.Background(), 1, in))
	assert.Equal(t, 2, updates)
}

func TestPOIService_Delete_MissingIDSucceedsWithoutEvent(t *testing.T) {
	repo := &mockPOIRepo{
		deleteFn: func(ctx context.Context, id int64) (bool, error) { return false, nil },
	}
	pub := &recordingPublisher{}
	svc := usecases.NewPOIService(repo, usecases.WithEvents(pub))

	require.NoError(t, svc.Delete(context.Background(), 5))
	require.NoError(t, svc.Delete(context.Background(), 5))
	assert.Empty(t, pub.events)
}

func TestPOIService_StoreFaultIsInternal(t *testing.T) {
	repo := &mockPOIRepo{
		listFn: func(ctx context.Context) ([]domain.PointOfInterest, error) {
			return nil, domain.NewInternalError("list pois", errors.New("connection refused"))
		},
	}
	svc := usecases.NewPOIService(repo)

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestPOIService_EventsCarryClockTimeAndPayload(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
	repo := &mockPOIRepo{
		createFn: func(ctx context.Context, name, description string, loc domain.GeoPoint) (int64, error) {
			return 7, nil
		},
	}
	pub := &recordingPublisher{}
	svc := usecases.NewPOIService(repo, usecases.WithEvents(pub), usecases.WithClock(clock))

	_, err := svc.Create(context.Background(), cafeInput())
	require.NoError(t, err)
	require.NoError(t, svc.Update(context.Background(), 7, cafeInput()))
	require.NoError(t, svc.Delete(context.Background(), 7))

	require.Len(t, pub.events, 3)
	assert.Equal(t, domain.POICreated, pub.events[0].Type)
	assert.Equal(t, domain.POIUpdated, pub.events[1].Type)
	assert.Equal(t, domain.POIDeleted, pub.events[2].Type)
	for _, ev := range pub.events {
		assert.Equal(t, int64(7), ev.POIID)
		assert.Equal(t, clock.Now(), ev.OccurredAt)
		assert.NotEmpty(t, ev.ID)
	}
	require.NotNil(t, pub.events[0].POI)
	assert.Equal(t, domain.GeoPoint{Lat: 12.9716, Lng: 77.5946}, pub.events[0].POI.Location)
	assert.Nil(t, pub.events[2].POI)
	assert.NotEqual(t, pub.events[0].ID, pub.events[1].ID)
}

func TestPOIService_PublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("nats down")}
	svc := usecases.NewPOIService(&mockPOIRepo{}, usecases.WithEvents(pub))

	_, err := svc.Create(context.Background(), cafeInput())
	assert.NoError(t, err)
	assert.Len(t, pub.events, 1)
}

func TestPOIService_CacheReadThroughAndInvalidation(t *testing.T) {
	stored := []domain.PointOfInterest{
		{ID: 1, Name: "Cafe", Description: "Coffee shop", Location: domain.GeoPoint{Lat: 12.9716, Lng: 77.5946}},
	}
	repo := &mockPOIRepo{
		listFn: func(ctx context.Context) ([]domain.PointOfInterest, error) { return stored, nil },
	}
	cache := newMemCache()
	svc := usecases.NewPOIService(repo, usecases.WithCache(cache, 30))
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls, "second list should be served from cache")

	assert.True(t, cache.has("pois:0:all"))

	require.NoError(t, svc.Update(ctx, 1, cafeInput()))
	assert.True(t, cache.has("pois:gen"), "update must bump the cache generation")

	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.calls, "list after update must hit the repository")
}

func TestPOIService_Get_CachesFoundOnly(t *testing.T) {
	found := &domain.PointOfInterest{ID: 3, Name: "Park", Description: "Green", Location: domain.GeoPoint{Lat: -33.8688, Lng: 151.2093}}
	repo := &mockPOIRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.PointOfInterest, error) {
			if id == 3 {
				return found, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	cache := newMemCache()
	svc := usecases.NewPOIService(repo, usecases.WithCache(cache, 30))
	ctx := context.Background()

	_, err := svc.Get(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Get(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.Get(ctx, 3)
	require.NoError(t, err)
	cached, err := svc.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, got, cached)
	assert.Equal(t, 3, repo.calls)
}

func TestPOIService_ReadRacingUpdateIsNotServedStale(t *testing.T) {
	var (
		mu      sync.Mutex
		current = domain.PointOfInterest{ID: 1, Name: "Cafe", Description: "Coffee shop", Location: domain.GeoPoint{Lat: 12.9716, Lng: 77.5946}}
		first   = true
	)
	started := make(chan struct{})
	release := make(chan struct{})

	repo := &mockPOIRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.PointOfInterest, error) {
			mu.Lock()
			row := current
			block := first
			first = false
			mu.Unlock()
			if block {
				close(started)
				<-release
			}
			return &row, nil
		},
		updateFn: func(ctx context.Context, id int64, name, description string, loc domain.GeoPoint) error {
			mu.Lock()
			defer mu.Unlock()
			current = domain.PointOfInterest{ID: id, Name: name, Description: description, Location: loc}
			return nil
		},
	}
	svc := usecases.NewPOIService(repo, usecases.WithCache(newMemCache(), 30))
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// reads the old row, then caches it after the update below commits
		_, _ = svc.Get(ctx, 1)
	}()

	<-started
	require.NoError(t, svc.Update(ctx, 1, domain.POIInput{
		Name: "Cafe 2", Description: "Moved", Lat: ptr(13.0), Lng: ptr(77.6),
	}))
	close(release)
	<-done

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Cafe 2", got.Name)
	assert.Equal(t, domain.GeoPoint{Lat: 13.0, Lng: 77.6}, got.Location)
}
