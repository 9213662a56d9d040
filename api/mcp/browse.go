package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
)

var (
	listFolderToolName    = "list_folder"
	listFolderDescription = "List the contents of a knowledge-base folder. With no folder_id, lists the root folder. Folders can be descended into by calling list_folder again with a child's ID."
)

// ListFolderInput represents the input arguments for the list_folder tool.
type ListFolderInput struct {
	FolderID          string `json:"folder_id,omitempty" jsonschema:"the folder to list; empty for the root folder"`
	IncludeSubfolders bool   `json:"include_subfolders,omitempty" jsonschema:"when true, recurse one level into subfolders"`
}

// FolderInfo identifies the listed folder.
type FolderInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// FolderEntry is one item in a folder listing.
type FolderEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	FileType string `json:"fileType,omitempty"`
	Modified string `json:"modified,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// ListFolderOutput represents the output of the list_folder tool.
type ListFolderOutput struct {
	Folder   FolderInfo    `json:"folder"`
	Contents []FolderEntry `json:"contents"`
}

// handleListFolder processes a list_folder request.
func (s *Server) handleListFolder(ctx context.Context, _ *mcp.CallToolRequest, input ListFolderInput) (*mcp.CallToolResult, ListFolderOutput, error) {
	logger := s.config.Logger

	driver, err := s.config.Repo.Get(ctx)
	if err != nil {
		logger.Error("failed to connect to document backend", zap.Error(err))
		return toolError(fmt.Sprintf("Failed to connect to document backend: %v", err)), ListFolderOutput{}, nil
	}

	folder, children, err := driver.Children(ctx, input.FolderID)
	if err != nil {
		logger.Error("folder listing failed",
			zap.String("folder_id", input.FolderID),
			zap.Error(err),
		)
		return toolError(fmt.Sprintf("Failed to list folder: %v", err)), ListFolderOutput{}, nil
	}

	output := ListFolderOutput{
		Folder: FolderInfo{
			ID:   folder.ID,
			Name: folder.Name,
			Path: folder.Path,
		},
		Contents: make([]FolderEntry, 0, len(children)),
	}

	for _, child := range children {
		output.Contents = append(output.Contents, toEntry(child))

		if input.IncludeSubfolders && child.IsFolder {
			_, grandchildren, err := driver.Children(ctx, child.ID)
			if err != nil {
				logger.Warn("failed to list subfolder",
					zap.String("folder_id", child.ID),
					zap.Error(err),
				)
				continue
			}
			for _, grandchild := range grandchildren {
				output.Contents = append(output.Contents, toEntry(grandchild))
			}
		}
	}

	return jsonResult(logger, output), output, nil
}

func toEntry(summary repository.Summary) FolderEntry {
	entry := FolderEntry{
		ID:       summary.ID,
		Name:     summary.Name,
		Type:     "file",
		FileType: summary.MimeType,
		Modified: formatTime(summary.Modified),
		Size:     summary.Size,
	}
	if summary.IsFolder {
		entry.Type = "folder"
		entry.FileType = ""
		entry.Size = 0
	}

	return entry
}
