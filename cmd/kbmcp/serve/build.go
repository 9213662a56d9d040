package servecmder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alethainc/aletha-knowledge-base-mcp/api/mcp"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/catalog"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/config"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/convert"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/overlay"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/preload"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository/localdir"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/roles"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/workflow"
)

// buildServer is the composition root: it wires the backend handle, caches,
// resolver, preloader, and assembler into an MCP server. The returned cleanup
// closes the backend handle and any file watches.
func buildServer(cfg *config.Config, logger *zap.Logger) (*mcp.Server, func(), error) {
	lazy := repository.NewLazy(func(_ context.Context) (repository.Driver, error) {
		return openBackend(cfg)
	})

	converter := convert.New()

	catalogSource := catalogSource(cfg, lazy, converter)
	catalogCache := catalog.NewCache(catalogSource, logger)

	correctionsSource := correctionsSource(cfg, lazy, converter)
	overlayCache := overlay.NewCache(correctionsSource, logger)

	resolver := roles.NewResolver(catalogCache)
	overlayService := overlay.NewService(overlayCache, catalogCache)

	preloader, err := preload.New(preload.Config{
		Repo:      lazy,
		Converter: converter,
		Roles:     resolver,
		Logger:    logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating preloader: %w", err)
	}

	assembler, err := workflow.New(workflow.Config{
		Preloader: preloader,
		Overlay:   overlayService,
		Roles:     resolver,
		CoreDocs:  cfg.KB.CoreDocs,
		Logger:    logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating workflow assembler: %w", err)
	}

	server, err := mcp.NewServer(mcp.Config{
		Repo:          lazy,
		Preloader:     preloader,
		Roles:         resolver,
		Overlay:       overlayService,
		Assembler:     assembler,
		CatalogSource: catalogSource,
		CoreDocs:      cfg.KB.CoreDocs,
		Logger:        logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating MCP server: %w", err)
	}

	watch, err := watchLocalSources(cfg, catalogCache, overlayCache, logger)
	if err != nil {
		logger.Warn("catalog file watch unavailable", zap.Error(err))
	}

	cleanup := func() {
		if watch != nil {
			watch.Close()
		}
		lazy.Close()
	}

	return server, cleanup, nil
}

// openBackend creates the configured repository driver. Only localdir is
// built in; cloud backends are external collaborators wired in by the
// embedding application.
func openBackend(cfg *config.Config) (repository.Driver, error) {
	switch cfg.Backend.Provider {
	case "localdir":
		if cfg.Backend.Root == "" {
			return nil, fmt.Errorf("backend.root is required for the localdir provider")
		}
		return localdir.NewDriver(cfg.Backend.Root)
	default:
		return nil, fmt.Errorf("unknown backend provider %q", cfg.Backend.Provider)
	}
}

// catalogSource prefers a local file override over the backend document.
func catalogSource(cfg *config.Config, lazy *repository.Lazy, converter convert.Converter) catalog.Source {
	switch {
	case cfg.Catalog.Path != "":
		return catalog.FileSource(cfg.Catalog.Path)
	case cfg.Catalog.DocID != "":
		return catalog.RepositorySource(lazy, cfg.Catalog.DocID, converter)
	default:
		return nil
	}
}

func correctionsSource(cfg *config.Config, lazy *repository.Lazy, converter convert.Converter) catalog.Source {
	switch {
	case cfg.Corrections.Path != "":
		return catalog.FileSource(cfg.Corrections.Path)
	case cfg.Corrections.DocID != "":
		return catalog.RepositorySource(lazy, cfg.Corrections.DocID, converter)
	default:
		return nil
	}
}

// watchLocalSources invalidates the caches when local catalog or corrections
// files change. Backend-hosted documents are not watched; cache invalidation
// for those is manual (restart or the explicit reset surfaces).
func watchLocalSources(cfg *config.Config, catalogCache *catalog.Cache, overlayCache *overlay.Cache, logger *zap.Logger) (*catalog.Watch, error) {
	bindings := make(map[string]catalog.Invalidator)
	if cfg.Catalog.Path != "" {
		bindings[cfg.Catalog.Path] = catalogCache
	}
	if cfg.Corrections.Path != "" {
		bindings[cfg.Corrections.Path] = overlayCache
	}

	if len(bindings) == 0 {
		return nil, nil
	}

	return catalog.NewWatch(bindings, logger)
}
