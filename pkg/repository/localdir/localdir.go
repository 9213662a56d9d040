// Package localdir implements repository.Driver over a local directory tree.
// Files are documents, subdirectories are folders, and a document's ID is its
// slash-separated path relative to the root. It exists for demos, operator
// inspection commands, and tests; the production cloud backend lives behind
// the same repository.Driver interface as an external collaborator.
package localdir

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
)

var mimeByExt = map[string]string{
	".md":   "text/markdown",
	".html": "text/html",
	".htm":  "text/html",
	".txt":  "text/plain",
	".pdf":  "application/pdf",
	".csv":  "text/csv",
}

// Driver serves documents from a directory rooted at Root.
type Driver struct {
	root string
}

// NewDriver validates that root exists and is a directory.
func NewDriver(root string) (*Driver, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening document root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document root %s is not a directory", root)
	}

	return &Driver{root: root}, nil
}

func (d *Driver) Search(_ context.Context, q repository.Query) ([]repository.Summary, error) {
	needle := strings.ToLower(q.Text)
	scope := filepath.Join(d.root, filepath.FromSlash(q.FolderID))

	var out []repository.Summary
	err := filepath.WalkDir(scope, func(p string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}

		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		id := filepath.ToSlash(rel)

		if !matchesFileType(q.FileType, mimeFor(p)) {
			return nil
		}

		if needle != "" && !strings.Contains(strings.ToLower(entry.Name()), needle) {
			content, readErr := os.ReadFile(p)
			if readErr != nil || !strings.Contains(strings.ToLower(string(content)), needle) {
				return nil
			}
		}

		summary, err := d.summarize(id)
		if err != nil {
			return nil
		}
		out = append(out, summary)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("searching document root: %w", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	if q.MaxResults > 0 && len(out) > q.MaxResults {
		out = out[:q.MaxResults]
	}

	return out, nil
}

func (d *Driver) Metadata(_ context.Context, id string) (repository.Document, error) {
	p, err := d.resolve(id)
	if err != nil {
		return repository.Document{}, err
	}

	info, err := os.Stat(p)
	if err != nil {
		return repository.Document{}, repository.ErrNotFound{ID: id}
	}
	if info.IsDir() {
		return repository.Document{}, repository.ErrNotFound{ID: id}
	}

	return repository.Document{
		ID:       id,
		Name:     info.Name(),
		MimeType: mimeFor(p),
		Modified: info.ModTime().UTC(),
		Size:     info.Size(),
		Link:     "file://" + p,
	}, nil
}

func (d *Driver) Content(_ context.Context, id string) ([]byte, string, error) {
	p, err := d.resolve(id)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", repository.ErrNotFound{ID: id}
		}
		if os.IsPermission(err) {
			return nil, "", repository.ErrPermission{ID: id}
		}
		return nil, "", fmt.Errorf("reading document %s: %w", id, err)
	}

	return data, mimeFor(p), nil
}

func (d *Driver) Children(_ context.Context, folderID string) (repository.Folder, []repository.Summary, error) {
	p, err := d.resolve(folderID)
	if err != nil {
		return repository.Folder{}, nil, err
	}

	entries, err := os.ReadDir(p)
	if err != nil {
		return repository.Folder{}, nil, repository.ErrNotFound{ID: folderID}
	}

	name := path.Base(folderID)
	if folderID == "" {
		name = "root"
	}
	folder := repository.Folder{
		ID:   folderID,
		Name: name,
		Path: "/" + folderID,
	}

	out := make([]repository.Summary, 0, len(entries))
	for _, entry := range entries {
		id := path.Join(folderID, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}

		summary := repository.Summary{
			ID:       id,
			Name:     entry.Name(),
			Modified: info.ModTime().UTC(),
			IsFolder: entry.IsDir(),
		}
		if !entry.IsDir() {
			summary.MimeType = mimeFor(entry.Name())
			summary.Size = info.Size()
		}

		out = append(out, summary)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return folder, out, nil
}

func (d *Driver) Close() error {
	return nil
}

// summarize builds a search Summary from a document's metadata.
func (d *Driver) summarize(id string) (repository.Summary, error) {
	doc, err := d.Metadata(context.Background(), id)
	if err != nil {
		return repository.Summary{}, err
	}

	return repository.Summary{
		ID:       doc.ID,
		Name:     doc.Name,
		MimeType: doc.MimeType,
		Modified: doc.Modified,
		Link:     doc.Link,
		Size:     doc.Size,
	}, nil
}

// resolve maps an ID to an absolute path, rejecting escapes from the root.
func (d *Driver) resolve(id string) (string, error) {
	clean := path.Clean("/" + id)
	if clean == "/" {
		return d.root, nil
	}

	p := filepath.Join(d.root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	if !strings.HasPrefix(p, d.root) {
		return "", repository.ErrNotFound{ID: id}
	}

	return p, nil
}

func mimeFor(p string) string {
	if m, ok := mimeByExt[strings.ToLower(filepath.Ext(p))]; ok {
		return m
	}

	return "application/octet-stream"
}

func matchesFileType(ft repository.FileType, mime string) bool {
	switch ft {
	case "", repository.FileTypeAll:
		return true
	case repository.FileTypeDocument:
		return strings.HasPrefix(mime, "text/") && mime != "text/csv"
	case repository.FileTypeSpreadsheet:
		return mime == "text/csv"
	case repository.FileTypePDF:
		return mime == "application/pdf"
	case repository.FileTypePresentation:
		return false
	default:
		return true
	}
}
