// Package inmemory implements repository.Driver using in-memory maps.
// It backs tests and the workflow degradation scenarios.
package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
)

// Doc is a seeded document: metadata plus raw content bytes.
type Doc struct {
	Meta     repository.Document
	Content  []byte
	FolderID string
}

// Driver implements repository.Driver over maps guarded by a RWMutex.
type Driver struct {
	mu sync.RWMutex

	docs    map[string]Doc
	folders map[string]repository.Folder

	// failures maps document IDs to errors returned for any access,
	// used to simulate per-document backend failures.
	failures map[string]error
}

// NewDriver creates an empty in-memory driver with a root folder.
func NewDriver() *Driver {
	return &Driver{
		docs: make(map[string]Doc),
		folders: map[string]repository.Folder{
			"": {ID: "", Name: "root", Path: "/"},
		},
		failures: make(map[string]error),
	}
}

// Put seeds or replaces a document.
func (d *Driver) Put(doc Doc) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.docs[doc.Meta.ID] = doc
}

// PutFolder seeds a folder.
func (d *Driver) PutFolder(f repository.Folder) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.folders[f.ID] = f
}

// Fail makes every access to the given document ID return err.
func (d *Driver) Fail(id string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.failures[id] = err
}

func (d *Driver) Search(_ context.Context, q repository.Query) ([]repository.Summary, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	needle := strings.ToLower(q.Text)

	var out []repository.Summary
	for _, doc := range d.docs {
		if q.FolderID != "" && doc.FolderID != q.FolderID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(doc.Meta.Name), needle) &&
			!strings.Contains(strings.ToLower(string(doc.Content)), needle) {
			continue
		}

		out = append(out, summarize(doc))
	}

	// Stable order: name ascending. The real backend ranks by relevance.
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	if q.MaxResults > 0 && len(out) > q.MaxResults {
		out = out[:q.MaxResults]
	}

	return out, nil
}

func (d *Driver) Metadata(_ context.Context, id string) (repository.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err, ok := d.failures[id]; ok {
		return repository.Document{}, err
	}

	doc, ok := d.docs[id]
	if !ok {
		return repository.Document{}, repository.ErrNotFound{ID: id}
	}

	return doc.Meta, nil
}

func (d *Driver) Content(_ context.Context, id string) ([]byte, string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err, ok := d.failures[id]; ok {
		return nil, "", err
	}

	doc, ok := d.docs[id]
	if !ok {
		return nil, "", repository.ErrNotFound{ID: id}
	}

	return doc.Content, doc.Meta.MimeType, nil
}

func (d *Driver) Children(_ context.Context, folderID string) (repository.Folder, []repository.Summary, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	folder, ok := d.folders[folderID]
	if !ok {
		return repository.Folder{}, nil, repository.ErrNotFound{ID: folderID}
	}

	var out []repository.Summary
	for _, doc := range d.docs {
		if doc.FolderID != folderID {
			continue
		}
		out = append(out, summarize(doc))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return folder, out, nil
}

func (d *Driver) Close() error {
	return nil
}

func summarize(doc Doc) repository.Summary {
	return repository.Summary{
		ID:       doc.Meta.ID,
		Name:     doc.Meta.Name,
		MimeType: doc.Meta.MimeType,
		Modified: doc.Meta.Modified,
		Link:     doc.Meta.Link,
		Size:     doc.Meta.Size,
	}
}
