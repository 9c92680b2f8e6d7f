package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/cfcoach/internal/domain/model"
	"github.com/okian/cfcoach/pkg/logger"
	"github.com/okian/cfcoach/pkg/metrics"
)

// DefaultCatalogTTL is how long catalog answers are reused.
const DefaultCatalogTTL = time.Hour

const catalogCacheName = "catalog"

// Catalog is the problem catalog contract being memoized.
type Catalog interface {
	Query(ctx context.Context, topic string, minRating, maxRating int) ([]model.CatalogProblem, error)
}

// CachedCatalog memoizes catalog answers per (topic, rating band). Cache
// failures fall through to the wrapped catalog; catalog failures are never
// cached.
type CachedCatalog struct {
	next   Catalog
	store  Store
	ttl    time.Duration
	logger logger.Logger
}

// NewCachedCatalog wraps next with store. A non-positive ttl uses
// DefaultCatalogTTL; a nil log discards output.
func NewCachedCatalog(next Catalog, store Store, ttl time.Duration, log logger.Logger) *CachedCatalog {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedCatalog{next: next, store: store, ttl: ttl, logger: log}
}

// CatalogKey is the cache key for a topic and band.
func CatalogKey(topic string, minRating, maxRating int) string {
	return fmt.Sprintf("catalog:%s:%d:%d", model.NormalizeTopic(topic), minRating, maxRating)
}

// Query implements the catalog contract.
func (c *CachedCatalog) Query(ctx context.Context, topic string, minRating, maxRating int) ([]model.CatalogProblem, error) {
	key := CatalogKey(topic, minRating, maxRating)

	b, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var cached []model.CatalogProblem
		if jerr := json.Unmarshal(b, &cached); jerr == nil {
			metrics.RecordCacheHit(catalogCacheName)
			return cached, nil
		}
		metrics.RecordCacheError(catalogCacheName)
	case errors.Is(err, ErrNotFound):
		metrics.RecordCacheMiss(catalogCacheName)
	default:
		metrics.RecordCacheError(catalogCacheName)
		c.logger.Warn(ctx, "catalog cache read failed", logger.String("key", key), logger.Error(err))
	}

	problems, err := c.next.Query(ctx, topic, minRating, maxRating)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(problems); err == nil {
		if err := c.store.Set(ctx, key, b, c.ttl); err != nil {
			metrics.RecordCacheError(catalogCacheName)
			c.logger.Warn(ctx, "catalog cache write failed", logger.String("key", key), logger.Error(err))
		}
	}
	return problems, nil
}

// Invalidate drops the cached answer for a topic and band.
func (c *CachedCatalog) Invalidate(ctx context.Context, topic string, minRating, maxRating int) error {
	return c.store.Delete(ctx, CatalogKey(topic, minRating, maxRating))
}
