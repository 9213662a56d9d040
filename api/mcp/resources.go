package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/convert"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/render"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
)

// registerResources exposes the catalog map and each core document at a
// kb://knowledge-base/ URI. Resolving a document resource performs the same
// role-annotated read as read_doc.
func (s *Server) registerResources(srv *mcp.Server) {
	srv.AddResource(&mcp.Resource{
		URI:         mapResourceURI,
		Name:        "knowledge-base-map",
		Description: "The catalog of all categorized knowledge-base documents.",
		MIMEType:    "text/markdown",
	}, s.handleMapResource)

	for _, id := range s.config.CoreDocs {
		srv.AddResource(&mcp.Resource{
			URI:         resourcePrefix + id,
			Name:        id,
			Description: "Core knowledge-base document, annotated with its usage role.",
			MIMEType:    "text/markdown",
		}, s.handleDocResource)
	}
}

func (s *Server) handleMapResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if s.config.CatalogSource == nil {
		return nil, repository.ErrNotFound{ID: "map"}
	}

	raw, err := s.config.CatalogSource(ctx)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     raw,
			},
		},
	}, nil
}

func (s *Server) handleDocResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	id := strings.TrimPrefix(req.Params.URI, resourcePrefix)
	if id == "" || id == req.Params.URI {
		return nil, repository.ErrNotFound{ID: req.Params.URI}
	}

	block, err := s.config.Preloader.Fetch(ctx, id, convert.FormatMarkdown)
	if err != nil {
		return nil, err
	}

	text := block.Text
	if corrections, ok := s.config.Overlay.ForDocument(ctx, id); ok {
		text = render.AppendCorrections(text, corrections)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     text,
			},
		},
	}, nil
}
