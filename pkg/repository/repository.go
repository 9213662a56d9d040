// Package repository defines the capability interface to the document
// repository backend (cloud file storage). The server never persists or
// indexes documents itself - search, listing, and retrieval are delegated
// entirely to a Driver implementation.
package repository

import (
	"context"
	"time"
)

// FileType filters search results by coarse document kind.
type FileType string

const (
	FileTypeAll          FileType = "all"
	FileTypeDocument     FileType = "document"
	FileTypeSpreadsheet  FileType = "spreadsheet"
	FileTypePDF          FileType = "pdf"
	FileTypePresentation FileType = "presentation"
)

// Query describes a backend search request.
type Query struct {
	// Text is the full-text query string, interpreted by the backend.
	Text string

	// FileType restricts results to one document kind. Zero value means all.
	FileType FileType

	// FolderID scopes the search to one folder subtree when set.
	FolderID string

	// MaxResults bounds the result count. Zero means the backend default.
	MaxResults int
}

// Summary is one search or listing result row.
type Summary struct {
	ID       string
	Name     string
	MimeType string
	Path     string
	Modified time.Time
	Link     string
	IsFolder bool
	Size     int64
}

// Document is the full metadata for a single document.
type Document struct {
	ID         string
	Name       string
	MimeType   string
	Created    time.Time
	Modified   time.Time
	Size       int64
	LastEditor string
	Link       string
}

// Folder identifies a browsable folder.
type Folder struct {
	ID   string
	Name string
	Path string
}

// Driver is the interface a document-repository backend must implement.
// All methods are suspension points; timeouts belong to the implementation.
type Driver interface {
	// Search returns ranked summaries matching the query.
	Search(ctx context.Context, q Query) ([]Summary, error)

	// Metadata retrieves full metadata for one document.
	// Returns ErrNotFound if the ID does not resolve.
	Metadata(ctx context.Context, id string) (Document, error)

	// Content retrieves the raw bytes of one document along with its MIME type.
	Content(ctx context.Context, id string) ([]byte, string, error)

	// Children lists the direct entries of a folder. An empty folderID
	// addresses the backend's root folder.
	Children(ctx context.Context, folderID string) (Folder, []Summary, error)

	// Close releases any resources held by the driver.
	Close() error
}
