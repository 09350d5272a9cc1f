// Package imagecache downloads the photo behind a person's evidence once and
// keeps the bytes keyed by entity key, outside the graph's data model.
package imagecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ajitpratap0/sixdegrees/internal/metrics"
	"github.com/ajitpratap0/sixdegrees/internal/models"
)

// ErrNoEvidence is returned for entities without photo evidence.
var ErrNoEvidence = errors.New("entity has no photo evidence")

// Fetcher retrieves the raw bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Cache is a fetch-once, in-memory image store. Concurrent requests for the
// same entity share a single download; failed downloads are not cached.
type Cache struct {
	fetcher Fetcher
	logger  *slog.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string][]byte
}

// New creates a Cache backed by fetcher.
func New(fetcher Fetcher, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		fetcher: fetcher,
		logger:  logger,
		entries: make(map[string][]byte),
	}
}

// Get returns the image for entity, downloading it on first use.
func (c *Cache) Get(ctx context.Context, entity *models.Entity) ([]byte, error) {
	if entity == nil || entity.Evidence == nil || entity.Evidence.ImageURL == "" {
		return nil, ErrNoEvidence
	}
	key := entity.Key

	c.mu.RLock()
	img, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	url := entity.Evidence.ImageURL
	// The download is shared by every waiter, so one caller cancelling must
	// not abort it. The fetcher's own client timeout still bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		cached, hit := c.entries[key]
		c.mu.RUnlock()
		if hit {
			return cached, nil
		}
		metrics.Inc(metrics.ImageFetches)
		data, fetchErr := c.fetcher.Fetch(fetchCtx, url)
		if fetchErr != nil {
			return nil, fetchErr
		}
		c.mu.Lock()
		c.entries[key] = data
		c.mu.Unlock()
		c.logger.Debug("cached evidence image", "key", key, "bytes", len(data))
		return data, nil
	})
	if err != nil {
		return nil, fmt.Errorf("imagecache: fetching image for %s: %w", key, err)
	}
	return v.([]byte), nil
}

// Cached reports whether an image for key is already stored.
func (c *Cache) Cached(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
