package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
)

var (
	searchToolName    = "search_docs"
	searchDescription = "Search the Aletha Health knowledge base for documents. Returns a ranked list of matching documents with their IDs, which can be read with read_doc."
)

const maxSearchResults = 50

// SearchInput represents the input arguments for the search_docs tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the search query text"`
	FileType   string `json:"file_type,omitempty" jsonschema:"restrict results to one kind: document, spreadsheet, pdf, presentation, or all (default all)"`
	FolderID   string `json:"folder_id,omitempty" jsonschema:"restrict the search to one folder subtree"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of results, up to 50 (default 20)"`
}

// SearchHit is a single search result.
type SearchHit struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Path     string `json:"path,omitempty"`
	Modified string `json:"modified,omitempty"`
	Link     string `json:"link,omitempty"`
}

// SearchOutput represents the output of the search_docs tool.
type SearchOutput struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
	Count   int         `json:"count"`
}

// handleSearch processes a search_docs request.
func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	logger := s.config.Logger

	if input.Query == "" {
		return toolError("query is required"), SearchOutput{}, nil
	}

	maxResults := input.MaxResults
	switch {
	case maxResults <= 0:
		maxResults = 20
	case maxResults > maxSearchResults:
		maxResults = maxSearchResults
	}

	fileType := repository.FileType(input.FileType)
	switch fileType {
	case "", repository.FileTypeAll, repository.FileTypeDocument,
		repository.FileTypeSpreadsheet, repository.FileTypePDF, repository.FileTypePresentation:
	default:
		return toolError(fmt.Sprintf("unsupported file_type %q", input.FileType)), SearchOutput{}, nil
	}

	logger.Debug("MCP search request",
		zap.String("query", input.Query),
		zap.Int("max_results", maxResults),
	)

	driver, err := s.config.Repo.Get(ctx)
	if err != nil {
		logger.Error("failed to connect to document backend", zap.Error(err))
		return toolError(fmt.Sprintf("Failed to connect to document backend: %v", err)), SearchOutput{}, nil
	}

	summaries, err := driver.Search(ctx, repository.Query{
		Text:       input.Query,
		FileType:   fileType,
		FolderID:   input.FolderID,
		MaxResults: maxResults,
	})
	if err != nil {
		logger.Error("search failed", zap.Error(err))
		return toolError(fmt.Sprintf("Search failed: %v", err)), SearchOutput{}, nil
	}

	hits := make([]SearchHit, 0, len(summaries))
	for _, summary := range summaries {
		hits = append(hits, SearchHit{
			ID:       summary.ID,
			Name:     summary.Name,
			Type:     summary.MimeType,
			Path:     summary.Path,
			Modified: formatTime(summary.Modified),
			Link:     summary.Link,
		})
	}

	output := SearchOutput{
		Query:   input.Query,
		Results: hits,
		Count:   len(hits),
	}

	return jsonResult(logger, output), output, nil
}

// jsonResult serializes a structured output as JSON for the text field.
// Per MCP spec: tools returning structured content should also return
// serialized JSON in a TextContent block for backwards compatibility.
func jsonResult[T any](logger *zap.Logger, output T) *mcp.CallToolResult {
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal tool output", zap.Error(err))
		return toolError(fmt.Sprintf("Failed to serialize results: %v", err))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}
