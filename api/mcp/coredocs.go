package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

var (
	listCoreDocsToolName    = "list_core_docs"
	listCoreDocsDescription = "List the operator-curated core knowledge-base documents, grouped by category with their role annotations. These are the documents every task should consider loading first."

	kbMapToolName    = "get_kb_map"
	kbMapDescription = "Get the raw knowledge-base map: the catalog of all categorized documents. Use it to orient yourself before searching."
)

// EmptyInput is the input schema for tools that take no arguments.
type EmptyInput struct{}

// CoreDoc is one entry of the core document list.
type CoreDoc struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Category string `json:"category,omitempty"`
	Role     string `json:"role,omitempty"`
}

// CoreDocsOutput represents the output of the list_core_docs tool.
type CoreDocsOutput struct {
	Docs  []CoreDoc `json:"docs"`
	Count int       `json:"count"`
}

// handleListCoreDocs groups the curated core set by catalog category. Order
// follows the curated list, so grouping is presentation only: uncataloged
// core docs still appear, just without a category.
func (s *Server) handleListCoreDocs(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, CoreDocsOutput, error) {
	logger := s.config.Logger

	index := s.config.Roles.Catalog().Index(ctx)

	titles := make(map[string]string)
	for _, category := range index.Categories() {
		for _, entry := range index.Entries(category) {
			titles[entry.ID] = entry.Title
		}
	}

	docs := make([]CoreDoc, 0, len(s.config.CoreDocs))
	for _, id := range s.config.CoreDocs {
		doc := CoreDoc{ID: id, Title: titles[id]}
		if category, ok := index.Category(id); ok {
			doc.Category = category
			if descriptor, ok := s.config.Roles.Resolve(ctx, id); ok {
				doc.Role = descriptor.Label
			}
		}
		docs = append(docs, doc)
	}

	output := CoreDocsOutput{Docs: docs, Count: len(docs)}

	return jsonResult(logger, output), output, nil
}

// KBMapOutput represents the output of the get_kb_map tool.
type KBMapOutput struct {
	Map string `json:"map"`
}

// handleKBMap returns the raw catalog content for assistant self-orientation.
func (s *Server) handleKBMap(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, KBMapOutput, error) {
	logger := s.config.Logger

	if s.config.CatalogSource == nil {
		return toolError("No knowledge-base map is configured."), KBMapOutput{}, nil
	}

	raw, err := s.config.CatalogSource(ctx)
	if err != nil {
		logger.Error("failed to load knowledge-base map", zap.Error(err))
		return toolError(fmt.Sprintf("Failed to load knowledge-base map: %v", err)), KBMapOutput{}, nil
	}

	output := KBMapOutput{Map: raw}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: raw},
		},
	}, output, nil
}
