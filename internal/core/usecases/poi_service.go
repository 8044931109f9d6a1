package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
	"github.com/hanamagouda9611/map-poi-app/internal/core/ports"
	"github.com/hanamagouda9611/map-poi-app/internal/pkg/logging"
	"github.com/hanamagouda9611/map-poi-app/internal/pkg/metrics"
	"github.com/hanamagouda9611/map-poi-app/internal/pkg/telemetry"
)

// Cached reads are keyed by a generation number that every successful
// mutation increments. A read that raced with a mutation writes under the
// old generation, which no later read looks up.
const (
	cacheKeyGen     = "pois:gen"
	defaultCacheTTL = 60
)

func cacheKeyAll(gen int64) string {
	return "pois:" + strconv.FormatInt(gen, 10) + ":all"
}

func cacheKeyID(gen, id int64) string {
	return "pois:" + strconv.FormatInt(gen, 10) + ":id:" + strconv.FormatInt(id, 10)
}

// POIService validates POI requests and delegates to the repository.
// Cache and event publisher are optional; when set, every successful
// mutation invalidates cached reads and emits a change event.
type POIService struct {
	pois     ports.POIRepository
	cache    ports.CacheService
	cacheTTL int
	events   ports.EventPublisher
	clock    clockwork.Clock
}

// Option configures a POIService.
type Option func(*POIService)

// WithCache enables read-through caching of List and Get.
func WithCache(cache ports.CacheService, ttlSeconds int) Option {
	return func(s *POIService) {
		s.cache = cache
		if ttlSeconds > 0 {
			s.cacheTTL = ttlSeconds
		}
	}
}

// WithEvents enables change events.
func WithEvents(events ports.EventPublisher) Option {
	return func(s *POIService) { s.events = events }
}

// WithClock overrides the clock used for event timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(s *POIService) { s.clock = clock }
}

// NewPOIService creates a new POIService.
func NewPOIService(pois ports.POIRepository, opts ...Option) *POIService {
	s := &POIService{
		pois:     pois,
		cacheTTL: defaultCacheTTL,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all POIs ordered by id.
func (s *POIService) List(ctx context.Context) (pois []domain.PointOfInterest, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "POIService.List")
	defer func() { endSpan(span, err) }()

	gen, cacheable := s.generation(ctx)
	if cacheable && s.readCache(ctx, "list", cacheKeyAll(gen), &pois) {
		return pois, nil
	}

	pois, err = s.pois.List(ctx)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.writeCache(ctx, cacheKeyAll(gen), pois)
	}
	return pois, nil
}

// Get returns a single POI or domain.ErrNotFound.
func (s *POIService) Get(ctx context.Context, id int64) (poi *domain.PointOfInterest, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "POIService.Get", trace.WithAttributes(attribute.Int64("poi.id", id)))
	defer func() { endSpan(span, err) }()

	gen, cacheable := s.generation(ctx)
	var cached domain.PointOfInterest
	if cacheable && s.readCache(ctx, "get", cacheKeyID(gen, id), &cached) {
		return &cached, nil
	}

	poi, err = s.pois.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.writeCache(ctx, cacheKeyID(gen, id), poi)
	}
	return poi, nil
}

// Create validates the input, stores a new POI and returns its id.
// Invalid input never reaches the repository.
func (s *POIService) Create(ctx context.Context, in domain.POIInput) (id int64, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "POIService.Create")
	defer func() {
		recordMutation("create", err)
		endSpan(span, err)
	}()

	if err := in.Validate(); err != nil {
		return 0, err
	}

	loc := in.Location()
	id, err = s.pois.Create(ctx, in.Name, in.Description, loc)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int64("poi.id", id))

	s.invalidate(ctx)
	s.publish(ctx, domain.POICreated, id, &domain.PointOfInterest{
		ID: id, Name: in.Name, Description: in.Description, Location: loc,
	})
	return id, nil
}

// Update replaces all mutable fields of an existing POI.
func (s *POIService) Update(ctx context.Context, id int64, in domain.POIInput) (err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "POIService.Update", trace.WithAttributes(attribute.Int64("poi.id", id)))
	defer func() {
		recordMutation("update", err)
		endSpan(span, err)
	}()

	if err := in.Validate(); err != nil {
		return err
	}

	loc := in.Location()
	if err := s.pois.Update(ctx, id, in.Name, in.Description, loc); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.publish(ctx, domain.POIUpdated, id, &domain.PointOfInterest{
		ID: id, Name: in.Name, Description: in.Description, Location: loc,
	})
	return nil
}

// Delete removes a POI. Deleting an unknown id succeeds and emits no event.
func (s *POIService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "POIService.Delete", trace.WithAttributes(attribute.Int64("poi.id", id)))
	defer func() {
		recordMutation("delete", err)
		endSpan(span, err)
	}()

	existed, err := s.pois.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	if existed {
		s.publish(ctx, domain.POIDeleted, id, nil)
	}
	return nil
}

func (s *POIService) readCache(ctx context.Context, op, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			logging.FromContext(ctx).Warn("cache get failed", "key", key, "error", err)
		}
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(op).Inc()
	return true
}

func (s *POIService) writeCache(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		logging.FromContext(ctx).Warn("cache set failed", "key", key, "error", err)
	}
}

// generation returns the current cache generation. A missing counter is
// generation 0. ok is false when the cache is disabled or unreadable, in
// which case the read bypasses the cache entirely.
func (s *POIService) generation(ctx context.Context) (gen int64, ok bool) {
	if s.cache == nil {
		return 0, false
	}
	data, err := s.cache.Get(ctx, cacheKeyGen)
	if errors.Is(err, ports.ErrCacheMiss) {
		return 0, true
	}
	if err != nil {
		logging.FromContext(ctx).Warn("cache generation read failed", "error", err)
		return 0, false
	}
	gen, err = strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		logging.FromContext(ctx).Warn("cache generation corrupt", "value", string(data), "error", err)
		return 0, false
	}
	return gen, true
}

// invalidate moves every reader to a fresh generation.
func (s *POIService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, cacheKeyGen); err != nil {
		logging.FromContext(ctx).Error("cache invalidation failed", "key", cacheKeyGen, "error", err)
	}
}

// publish is fire-and-forget: the mutation is already committed.
func (s *POIService) publish(ctx context.Context, typ domain.POIEventType, id int64, poi *domain.PointOfInterest) {
	if s.events == nil {
		return
	}
	ev := &domain.POIEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		POIID:      id,
		POI:        poi,
		OccurredAt: s.clock.Now().UTC(),
	}
	if err := s.events.PublishPOIEvent(ctx, ev); err != nil {
		metrics.EventsPublished.WithLabelValues(string(typ), "error").Inc()
		logging.FromContext(ctx).Error("publish poi event", "type", typ, "poi_id", id, "error", err)
		return
	}
	metrics.EventsPublished.WithLabelValues(string(typ), "ok").Inc()
}

func recordMutation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = domain.KindOf(err).String()
	}
	metrics.POIMutations.WithLabelValues(op, outcome).Inc()
}

func endSpan(span trace.Span, err error) {
	if err != nil && domain.KindOf(err) == domain.KindInternal {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
