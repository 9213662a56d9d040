// Package mcp provides the MCP (Model Context Protocol) server exposing the
// Aletha knowledge base to assistant runtimes: search/browse/read tools,
// kb:// resources, and workflow prompts.
package mcp

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/catalog"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/overlay"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/preload"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/roles"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/utils"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/workflow"
)

// Scheme is the resource URI prefix for knowledge-base documents.
const (
	resourcePrefix = "kb://knowledge-base/"
	mapResourceURI = resourcePrefix + "map"
)

type Config struct {
	// Repo is the lazily-dialed document backend handle.
	Repo *repository.Lazy

	// Preloader fetches and formats documents.
	Preloader *preload.Preloader

	// Roles resolves role annotations.
	Roles *roles.Resolver

	// Overlay supplies correction text.
	Overlay *overlay.Service

	// Assembler builds the workflow prompts.
	Assembler *workflow.Assembler

	// CatalogSource serves the raw catalog text for get_kb_map.
	// Optional: without it the map tool reports the catalog as unavailable.
	CatalogSource catalog.Source

	// CoreDocs is the operator-curated core document ID list.
	CoreDocs []string

	// Logger is the configured zap logger.
	Logger *zap.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates the MCP server and registers all tools, resources, and
// prompts.
func NewServer(c Config) (*Server, error) {
	if c.Repo == nil {
		return nil, errors.New("repository handle is required")
	}
	if c.Preloader == nil {
		return nil, errors.New("preloader is required")
	}
	if c.Roles == nil {
		return nil, errors.New("role resolver is required")
	}
	if c.Overlay == nil {
		return nil, errors.New("overlay service is required")
	}
	if c.Assembler == nil {
		return nil, errors.New("workflow assembler is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{config: c}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "aletha-knowledge-base",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	// Tools
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        searchToolName,
		Description: searchDescription,
	}, s.handleSearch)
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        listFolderToolName,
		Description: listFolderDescription,
	}, s.handleListFolder)
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        readDocToolName,
		Description: readDocDescription,
	}, s.handleReadDoc)
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        readDocsToolName,
		Description: readDocsDescription,
	}, s.handleReadDocs)
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        listCoreDocsToolName,
		Description: listCoreDocsDescription,
	}, s.handleListCoreDocs)
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        kbMapToolName,
		Description: kbMapDescription,
	}, s.handleKBMap)

	s.registerResources(mcpServer)
	s.registerPrompts(mcpServer)

	s.mcpServer = mcpServer

	// Streamable HTTP handler for stateless serving behind the API server.
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves the MCP protocol over the given transport until the context is
// canceled (stdio serving).
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// toolError wraps a failure as a marked error result so the assistant can
// reason about it conversationally instead of hitting a transport error.
func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}
