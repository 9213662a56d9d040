package overlay

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/catalog"
)

// Cache lazily parses the corrections document and memoizes the result,
// independently of the catalog cache. A missing or unreadable source degrades
// to an empty overlay.
type Cache struct {
	source catalog.Source
	logger *zap.Logger

	mu      sync.Mutex
	overlay *Overlay
}

// NewCache wraps a Source. A nil source behaves like an empty overlay.
func NewCache(source catalog.Source, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Cache{
		source: source,
		logger: logger,
	}
}

// Overlay returns the parsed corrections, loading them on first call.
func (c *Cache) Overlay(ctx context.Context) *Overlay {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.overlay != nil {
		return c.overlay
	}

	if c.source == nil {
		c.logger.Info("no corrections source configured")
		c.overlay = Parse("")
		return c.overlay
	}

	raw, err := c.source(ctx)
	if err != nil {
		c.logger.Warn("corrections unavailable, continuing without overlay", zap.Error(err))
		c.overlay = Parse("")
		return c.overlay
	}

	c.overlay = Parse(raw)

	return c.overlay
}

// Invalidate drops the memoized overlay so the next access re-parses.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.overlay = nil
}

// Service joins the overlay cache with the catalog so corrections can be
// looked up by document ID.
type Service struct {
	cache   *Cache
	catalog *catalog.Cache
}

func NewService(cache *Cache, cat *catalog.Cache) *Service {
	return &Service{
		cache:   cache,
		catalog: cat,
	}
}

// ForDocument returns the applicable correction text for a document: global
// corrections plus the document's category corrections, global first.
// Returns "", false when nothing applies.
func (s *Service) ForDocument(ctx context.Context, id string) (string, bool) {
	category, _ := s.catalog.Index(ctx).Category(id)
	text := s.cache.Overlay(ctx).ForCategory(category)

	return text, text != ""
}

// Full returns every correction block in catalog order for bulk injection.
func (s *Service) Full(ctx context.Context) (string, bool) {
	text := s.cache.Overlay(ctx).Full(s.catalog.Index(ctx).Categories())

	return text, text != ""
}
