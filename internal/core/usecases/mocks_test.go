package usecases_test

import (
	"context"
	"strconv"
	"sync"

	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
	"github.com/hanamagouda9611/map-poi-app/internal/core/ports"
)

// --- Mock POIRepository ---

type mockPOIRepo struct {
	listFn    func(ctx context.Context) ([]domain.PointOfInterest, error)
	getByIDFn func(ctx context.Context, id int64) (*domain.PointOfInterest, error)
	createFn  func(ctx context.Context, name, description string, loc domain.GeoPoint) (int64, error)
	updateFn  func(ctx context.Context, id int64, name, description string, loc domain.GeoPoint) error
	deleteFn  func(ctx context.Context, id int64) (bool, error)

	calls int
}

func (m *mockPOIRepo) List(ctx context.Context) ([]domain.PointOfInterest, error) {
	m.calls++
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []domain.PointOfInterest{}, nil
}

func (m *mockPOIRepo) GetByID(ctx context.Context, id int64) (*domain.PointOfInterest, error) {
	m.calls++
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPOIRepo) Create(ctx context.Context, name, description string, loc domain.GeoPoint) (int64, error) {
	m.calls++
	if m.createFn != nil {
		return m.createFn(ctx, name, description, loc)
	}
	return 1, nil
}

func (m *mockPOIRepo) Update(ctx context.Context, id int64, name, description string, loc domain.GeoPoint) error {
	m.calls++
	if m.updateFn != nil {
		return m.updateFn(ctx, id, name, description, loc)
	}
	return nil
}

func (m *mockPOIRepo) Delete(ctx context.Context, id int64) (bool, error) {
	m.calls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return true, nil
}

// --- In-memory CacheService ---

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(string(c.data[key]), 10, 64)
	n++
	c.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// --- Recording EventPublisher ---

type recordingPublisher struct {
	events []*domain.POIEvent
	err    error
}

func (p *recordingPublisher) PublishPOIEvent(ctx context.Context, ev *domain.POIEvent) error {
	p.events = append(p.events, ev)
	return p.err
}
