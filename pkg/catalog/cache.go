package catalog

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/convert"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
)

// Source loads the raw catalog text from wherever it lives.
type Source func(ctx context.Context) (string, error)

// FileSource reads the catalog from a local file.
func FileSource(path string) Source {
	return func(_ context.Context) (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// RepositorySource reads the catalog from a backend document, rendered as
// markdown.
func RepositorySource(lazy *repository.Lazy, docID string, conv convert.Converter) Source {
	return func(ctx context.Context) (string, error) {
		driver, err := lazy.Get(ctx)
		if err != nil {
			return "", err
		}

		data, mime, err := driver.Content(ctx, docID)
		if err != nil {
			return "", err
		}

		return conv.Convert(data, mime, convert.FormatMarkdown)
	}
}

// StaticSource serves a fixed string. Intended for tests.
func StaticSource(text string) Source {
	return func(context.Context) (string, error) {
		return text, nil
	}
}

// Cache lazily parses the catalog on first access and memoizes the Index for
// the process lifetime. An unreadable source degrades to an empty index: no
// document has a category, which callers treat as a normal outcome.
type Cache struct {
	source Source
	logger *zap.Logger

	mu    sync.Mutex
	index *Index
}

// NewCache wraps a Source. A nil source behaves like an empty catalog.
func NewCache(source Source, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Cache{
		source: source,
		logger: logger,
	}
}

// Index returns the parsed catalog, loading it on first call.
func (c *Cache) Index(ctx context.Context) *Index {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index != nil {
		return c.index
	}

	if c.source == nil {
		c.logger.Info("no catalog source configured, documents will have no categories")
		c.index = Parse("")
		return c.index
	}

	raw, err := c.source(ctx)
	if err != nil {
		c.logger.Warn("catalog unavailable, documents will have no categories", zap.Error(err))
		c.index = Parse("")
		return c.index
	}

	c.index = Parse(raw)
	c.logger.Debug("catalog loaded",
		zap.Int("documents", c.index.Len()),
		zap.Int("categories", len(c.index.Categories())),
	)

	return c.index
}

// Invalidate drops the memoized index so the next access re-parses the source.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index = nil
}
