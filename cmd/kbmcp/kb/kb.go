// Package kbcmder provides operator commands for inspecting the knowledge
// base from the terminal: the document map, individual documents, and search.
package kbcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/catalog"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/config"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/convert"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/overlay"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/preload"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository/localdir"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/roles"
)

const kbLongDesc string = `Inspect the knowledge base from the terminal.

These commands read the same backend, catalog, and corrections sources the
MCP server uses, so what you see here is what connected assistants see.

Use subcommands to view the map, read documents, or search:
  kbmcp kb map                 Show the knowledge base map
  kbmcp kb read <doc-id>       Read a document with its role framing
  kbmcp kb search <query>      Search the repository

Examples:
  kbmcp kb map
  kbmcp kb read brand-guide
  kbmcp kb search "hip flexor"`

const kbShortDesc string = "Inspect the knowledge base"

func NewKBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: kbShortDesc,
		Long:  kbLongDesc,
	}

	cmd.AddCommand(newMapCmd())
	cmd.AddCommand(newReadCmd())
	cmd.AddCommand(newSearchCmd())

	return cmd
}

// kit bundles the collaborators the kb subcommands share. Each subcommand
// wires its own kit from config rather than going through a running server.
type kit struct {
	lazy      *repository.Lazy
	converter convert.Converter
	source    catalog.Source
	catalog   *catalog.Cache
	roles     *roles.Resolver
	overlay   *overlay.Service
	preloader *preload.Preloader
}

func buildKit(configDir string, logger *zap.Logger) (*kit, error) {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	lazy := repository.NewLazy(func(_ context.Context) (repository.Driver, error) {
		return openBackend(cfg)
	})

	converter := convert.New()

	catalogSource := kitSource(cfg.Catalog.Path, cfg.Catalog.DocID, lazy, converter)
	catalogCache := catalog.NewCache(catalogSource, logger)
	overlayCache := overlay.NewCache(kitSource(cfg.Corrections.Path, cfg.Corrections.DocID, lazy, converter), logger)

	resolver := roles.NewResolver(catalogCache)

	preloader, err := preload.New(preload.Config{
		Repo:      lazy,
		Converter: converter,
		Roles:     resolver,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating preloader: %w", err)
	}

	return &kit{
		lazy:      lazy,
		converter: converter,
		source:    catalogSource,
		catalog:   catalogCache,
		roles:     resolver,
		overlay:   overlay.NewService(overlayCache, catalogCache),
		preloader: preloader,
	}, nil
}

func (k *kit) close() {
	_ = k.lazy.Close()
}

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

func kitSource(path, docID string, lazy *repository.Lazy, converter convert.Converter) catalog.Source {
	switch {
	case path != "":
		return catalog.FileSource(path)
	case docID != "":
		return catalog.RepositorySource(lazy, docID, converter)
	default:
		return nil
	}
}
