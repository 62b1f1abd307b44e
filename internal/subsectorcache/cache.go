package subsectorcache

import (
	"context"
	"log/slog"
	"time"

	"astrogen/internal/logging"
	"astrogen/internal/world"
)

// Upstream is the provider pair the cache fronts.
type Upstream interface {
	Subsectors(ctx context.Context, sector string) ([]world.SubsectorMetadata, error)
	Subsector(ctx context.Context, sector string, index int) (string, error)
}

// Cache serves fresh entries from the store and falls through to upstream
// for misses and expired entries.
type Cache struct {
	store    *Store
	upstream Upstream
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// New wraps upstream with store. A non-positive ttl never expires entries.
func New(store *Store, upstream Upstream, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		store:    store,
		upstream: upstream,
		ttl:      ttl,
		logger:   logging.NewComponentLogger(logger, "subsectorcache"),
		now:      time.Now,
	}
}

func (c *Cache) fresh(fetchedAt time.Time) bool {
	if c.ttl <= 0 {
		return true
	}
	return c.now().Sub(fetchedAt) < c.ttl
}

// Subsectors returns cached metadata for sector or fetches and stores it.
func (c *Cache) Subsectors(ctx context.Context, sector string) ([]world.SubsectorMetadata, error) {
	cached, fetchedAt, ok, err := c.store.Metadata(ctx, sector)
	if err != nil {
		c.warn(ctx, "cache read failed; fetching from upstream", "cache_read_failed", err)
	} else if ok && c.fresh(fetchedAt) {
		c.logger.Debug("metadata cache hit", logging.String(logging.FieldSector, sector))
		return cached, nil
	}

	subsectors, err := c.upstream.Subsectors(ctx, sector)
	if err != nil {
		return nil, err
	}
	if err := c.store.PutMetadata(ctx, sector, subsectors, c.now()); err != nil {
		c.warn(ctx, "cache write failed", "cache_write_failed", err)
	}
	return subsectors, nil
}

// Subsector returns the cached listing or fetches and stores it.
func (c *Cache) Subsector(ctx context.Context, sector string, index int) (string, error) {
	body, fetchedAt, ok, err := c.store.Subsector(ctx, sector, index)
	if err != nil {
		c.warn(ctx, "cache read failed; fetching from upstream", "cache_read_failed", err)
	} else if ok && c.fresh(fetchedAt) {
		c.logger.Debug("subsector cache hit",
			logging.String(logging.FieldSector, sector),
			logging.String(logging.FieldSubsector, world.SubsectorLetter(index)),
		)
		return body, nil
	}

	body, err = c.upstream.Subsector(ctx, sector, index)
	if err != nil {
		return "", err
	}
	if err := c.store.PutSubsector(ctx, sector, index, body, c.now()); err != nil {
		c.warn(ctx, "cache write failed", "cache_write_failed", err)
	}
	return body, nil
}

func (c *Cache) warn(ctx context.Context, msg, eventType string, err error) {
	logging.WarnWithContext(logging.WithContext(ctx, c.logger), msg, eventType,
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "delete the cache database if the error persists"),
		logging.String(logging.FieldImpact, "data is fetched from TravellerMap instead"),
	)
}
