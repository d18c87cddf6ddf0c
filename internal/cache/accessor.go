// Package cache implements cache-aside reads over a pluggable key-value Store
// and routes every invalidation through one entity-to-key mapping.
//
// Cached values are JSON snapshots and are never authoritative: a failing
// store degrades to loader-only reads and never fails a request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "peoplehub/internal/cache"

// Accessor owns the Store handle. Construct one at startup and inject it.
type Accessor struct {
	store   Store
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

type Option func(*Accessor)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Accessor) {
		a.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(a *Accessor) {
		a.metrics = m
	}
}

func New(store Store, opts ...Option) *Accessor {
	a := &Accessor{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.metrics == nil {
		a.metrics = NewMetrics(nil)
	}
	return a
}

// Loader fetches the authoritative value on a miss.
type Loader[T any] func(ctx context.Context) (T, error)

// Read returns the cached value under key, or calls load and caches its
// result for ttl. Loader errors are returned unchanged and nothing is cached.
// When the store itself fails, the loader result is returned uncached.
func Read[T any](ctx context.Context, a *Accessor, key string, ttl time.Duration, load Loader[T]) (T, error) {
	fam := family(key)
	ctx, span := a.tracer.Start(ctx, "cache.Read",
		trace.WithAttributes(attribute.String("cache.family", fam)))
	defer span.End()

	cacheable := true
	raw, err := a.store.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		decodeErr := json.Unmarshal(raw, &v)
		if decodeErr == nil {
			a.metrics.Hits.WithLabelValues(fam).Inc()
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return v, nil
		}
		a.logger.WarnContext(ctx, "discarding undecodable cache entry",
			"family", fam,
			"error", decodeErr,
		)
		a.Invalidate(ctx, key)
	case errors.Is(err, ErrMiss):
	default:
		cacheable = false
		a.metrics.StoreErrors.WithLabelValues("get").Inc()
		a.logger.WarnContext(ctx, "cache get failed, reading through",
			"family", fam,
			"error", err,
		)
	}

	a.metrics.Misses.WithLabelValues(fam).Inc()
	span.SetAttributes(attribute.Bool("cache.hit", false))

	v, err := load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "loader failed")
		var zero T
		return zero, err
	}
	if !cacheable {
		return v, nil
	}

	payload, err := json.Marshal(v)
	if err != nil {
		a.logger.WarnContext(ctx, "cache encode failed", "family", fam, "error", err)
		return v, nil
	}
	if err := a.store.SetWithTTL(ctx, key, payload, ttl); err != nil {
		a.metrics.StoreErrors.WithLabelValues("set").Inc()
		a.logger.WarnContext(ctx, "cache set failed", "family", fam, "error", err)
	}
	return v, nil
}

// Invalidate deletes keys immediately. Failures are logged and swallowed;
// the entry then lives out its TTL.
func (a *Accessor) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := a.store.Delete(ctx, keys...); err != nil {
		a.metrics.StoreErrors.WithLabelValues("delete").Inc()
		a.logger.WarnContext(ctx, "cache invalidation failed",
			"keys", len(keys),
			"error", err,
		)
		return
	}
	a.metrics.Invalidations.Add(float64(len(keys)))
}

// InvalidateEntity deletes every key KeysFor maps the refs to.
func (a *Accessor) InvalidateEntity(ctx context.Context, refs ...EntityRef) {
	a.Invalidate(ctx, KeysFor(refs...)...)
}
