package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/convert"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/preload"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/render"
)

var (
	readDocToolName    = "read_doc"
	readDocDescription = "Read one knowledge-base document. The result is annotated with the document's role (how its content may be used) and any applicable corrections. Honor the role annotation."

	readDocsToolName    = "read_docs"
	readDocsDescription = "Read up to 10 knowledge-base documents at once. Returns the concatenated annotated documents plus a report of any that failed to load."
)

// blockSeparator joins formatted document blocks in read_docs output.
const blockSeparator = "\n\n════════\n\n"

// ReadDocInput represents the input arguments for the read_doc tool.
type ReadDocInput struct {
	DocID  string `json:"doc_id" jsonschema:"the document ID to read"`
	Format string `json:"format,omitempty" jsonschema:"output format: text, markdown, or html (default markdown)"`
}

// ReadDocOutput represents the output of the read_doc tool.
type ReadDocOutput struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// handleReadDoc processes a read_doc request.
func (s *Server) handleReadDoc(ctx context.Context, _ *mcp.CallToolRequest, input ReadDocInput) (*mcp.CallToolResult, ReadDocOutput, error) {
	logger := s.config.Logger

	if input.DocID == "" {
		return toolError("doc_id is required"), ReadDocOutput{}, nil
	}

	format, err := convert.ParseFormat(input.Format)
	if err != nil {
		return toolError(err.Error()), ReadDocOutput{}, nil
	}

	block, err := s.config.Preloader.Fetch(ctx, input.DocID, format)
	if err != nil {
		logger.Error("read_doc failed",
			zap.String("doc_id", input.DocID),
			zap.Error(err),
		)
		return toolError(fmt.Sprintf("Failed to read document: %v", err)), ReadDocOutput{}, nil
	}

	text := block.Text
	if corrections, ok := s.config.Overlay.ForDocument(ctx, input.DocID); ok {
		text = render.AppendCorrections(text, corrections)
	}

	output := ReadDocOutput{ID: input.DocID, Text: text}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, output, nil
}

// ReadDocsInput represents the input arguments for the read_docs tool.
type ReadDocsInput struct {
	DocIDs []string `json:"doc_ids" jsonschema:"the document IDs to read, at most 10"`
	Format string   `json:"format,omitempty" jsonschema:"output format: text, markdown, or html (default markdown)"`
}

// ReadDocsOutput represents the output of the read_docs tool.
type ReadDocsOutput struct {
	Requested int      `json:"requested"`
	Succeeded int      `json:"succeeded"`
	FailedIDs []string `json:"failed_ids"`
}

// handleReadDocs processes a read_docs request. Per-document failures are
// reported, never propagated as a batch failure; only an empty or over-cap
// ID list is rejected outright.
func (s *Server) handleReadDocs(ctx context.Context, _ *mcp.CallToolRequest, input ReadDocsInput) (*mcp.CallToolResult, ReadDocsOutput, error) {
	logger := s.config.Logger

	format, err := convert.ParseFormat(input.Format)
	if err != nil {
		return toolError(err.Error()), ReadDocsOutput{}, nil
	}

	result, err := s.config.Preloader.Preload(ctx, input.DocIDs, format)
	if err != nil {
		return toolError(err.Error()), ReadDocsOutput{}, nil
	}

	parts := make([]string, 0, len(result.Blocks)+1)
	for _, block := range result.Blocks {
		parts = append(parts, block.Text)
	}

	if len(result.Failed) > 0 {
		report := make([]string, 0, len(result.Failed)+1)
		report = append(report, "Failed to load:")
		for _, failure := range result.Failed {
			report = append(report, fmt.Sprintf("- %s: %s", failure.ID, failure.Reason))
		}
		parts = append(parts, strings.Join(report, "\n"))
	}

	output := ReadDocsOutput{
		Requested: len(input.DocIDs),
		Succeeded: len(result.Blocks),
		FailedIDs: failedIDs(result),
	}

	logger.Debug("read_docs complete",
		zap.Int("requested", output.Requested),
		zap.Int("succeeded", output.Succeeded),
		zap.Strings("failed_ids", output.FailedIDs),
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: strings.Join(parts, blockSeparator)},
		},
	}, output, nil
}

func failedIDs(result preload.Result) []string {
	ids := result.FailedIDs()
	if ids == nil {
		ids = []string{}
	}

	return ids
}
