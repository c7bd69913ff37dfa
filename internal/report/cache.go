package report

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/heart-risk-server/internal/domain"
)

// defaultRenderCacheSize bounds the number of rendered artifacts kept.
const defaultRenderCacheSize = 32

// CachedRenderer wraps a renderer with a bounded LRU of rendered artifacts
// keyed by record ID. Records are immutable, so a cached artifact never goes
// stale for its record.
type CachedRenderer struct {
	inner domain.ReportRenderer
	cache *lru.Cache[string, []byte]
}

// NewCachedRenderer creates a caching wrapper around the given renderer.
func NewCachedRenderer(inner domain.ReportRenderer, size int) (*CachedRenderer, error) {
	if size <= 0 {
		size = defaultRenderCacheSize
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("creating render cache: %w", err)
	}
	return &CachedRenderer{inner: inner, cache: cache}, nil
}

// Render implements domain.ReportRenderer.
func (c *CachedRenderer) Render(record *domain.ReportRecord) ([]byte, error) {
	if artifact, ok := c.cache.Get(record.ID); ok {
		return artifact, nil
	}
	artifact, err := c.inner.Render(record)
	if err != nil {
		return nil, err
	}
	c.cache.Add(record.ID, artifact)
	return artifact, nil
}
