// Package status owns the single source of truth for the current verdict:
// a short-lived cache in front of a serialized fetch path, falling back to
// the last good verdict when acquisition fails.
package status

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/eldadfux/isAWSback/internal/feed"
	"github.com/eldadfux/isAWSback/internal/observability"
	"github.com/eldadfux/isAWSback/internal/verdict"
)

const (
	freshKey    = "verdict"
	lastGoodKey = "verdict:last_good"
)

// Checker serves the current verdict. It is an injectable component rather
// than package state so tests can construct one per case.
type Checker struct {
	mu        sync.Mutex
	cache     *gocache.Cache
	acquirers []feed.Acquirer
	freshness time.Duration

	logger  *observability.Logger
	metrics *observability.Metrics
	tracer  *observability.Tracer
	now     func() time.Time
}

// New builds a checker over the given acquirers. Acquirers are tried in
// order on every fetch cycle; the first success wins.
func New(acquirers []feed.Acquirer, freshness time.Duration, logger *observability.Logger, metrics *observability.Metrics, tracer *observability.Tracer) *Checker {
	return &Checker{
		cache:     gocache.New(gocache.NoExpiration, time.Minute),
		acquirers: acquirers,
		freshness: freshness,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		now:       time.Now,
	}
}

// GetStatus returns the current verdict. A fresh cached verdict is returned
// without network access. Otherwise one fetch cycle runs; concurrent callers
// serialize on the fetch so the upstream feed sees at most one request per
// refresh cycle. On failure the last good verdict is served stale, or an
// Unknown verdict is synthesized (and deliberately not cached, so the next
// call retries).
func (c *Checker) GetStatus(ctx context.Context) verdict.Verdict {
	if v, ok := c.cache.Get(freshKey); ok {
		c.metrics.CacheHits.Inc()
		return v.(verdict.Verdict)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// A caller that held the lock first may have refreshed already.
	if v, ok := c.cache.Get(freshKey); ok {
		c.metrics.CacheHits.Inc()
		return v.(verdict.Verdict)
	}

	return c.refresh(ctx)
}

// refresh runs one fetch cycle. Caller must hold c.mu.
func (c *Checker) refresh(ctx context.Context) verdict.Verdict {
	ctx, span := c.tracer.StartSpan(ctx, "refresh_verdict")
	defer span.End()

	var lastErr error
	for _, acq := range c.acquirers {
		start := c.now()
		events, err := acq.Acquire(ctx)
		c.metrics.RecordFetch(acq.Name(), err, c.now().Sub(start))
		if err != nil {
			lastErr = err
			c.logger.Warn("Feed acquisition failed",
				zap.String("acquirer", acq.Name()),
				zap.Error(err),
			)
			continue
		}

		v := verdict.Evaluate(events, c.now())
		c.cache.Set(freshKey, v, c.freshness)
		c.cache.Set(lastGoodKey, v, gocache.NoExpiration)
		c.metrics.SetVerdictStatus(v.Status.String())
		span.SetAttributes(
			attribute.String("verdict.status", v.Status.String()),
			attribute.Int("feed.events", len(events)),
		)
		c.logger.Info("Verdict refreshed",
			zap.String("acquirer", acq.Name()),
			zap.String("status", v.Status.String()),
			zap.String("details", v.Details),
			zap.Int("events", len(events)),
		)
		return v
	}

	// Every acquirer failed. Staleness beats unavailability: a slightly
	// old "operational" is less harmful than flashing "unknown" during a
	// transient hiccup.
	if v, ok := c.cache.Get(lastGoodKey); ok {
		c.metrics.StaleServed.Inc()
		c.logger.Warn("Serving stale verdict after failed refresh",
			zap.Error(lastErr),
		)
		return v.(verdict.Verdict)
	}

	reason := "feed unavailable"
	if lastErr != nil {
		reason = lastErr.Error()
	}
	c.metrics.SetVerdictStatus(verdict.StatusUnknown.String())
	c.logger.Error("No verdict available", zap.Error(lastErr))
	return verdict.Unavailable(c.now(), reason)
}

// Apply updates the runtime tunables, used by config hot reload. A fresh
// cache entry keeps its original expiry; the new freshness window applies
// from the next successful fetch.
func (c *Checker) Apply(acquirers []feed.Acquirer, freshness time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(acquirers) > 0 {
		c.acquirers = acquirers
	}
	if freshness > 0 {
		c.freshness = freshness
	}
}

// Reset drops all cached verdicts. Test hook.
func (c *Checker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Flush()
}

// SetNow overrides the clock. Test hook.
func (c *Checker) SetNow(now func() time.Time) {
	c.now = now
}
