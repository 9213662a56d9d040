// Package catalog parses the human-maintained knowledge-base map: a markdown
// document whose "## Category" sections list the documents belonging to each
// category, with document IDs embedded as inline code spans.
package catalog

import (
	"regexp"
	"strings"
)

// Entry is one cataloged document.
type Entry struct {
	// ID is the opaque backend document identifier.
	ID string

	// Title is the human-readable remainder of the entry line, if any.
	Title string
}

var (
	headerRe     = regexp.MustCompile(`^##\s+(.+?)\s*$`)
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
)

// Index is the parsed catalog: an immutable mapping from document IDs to
// category names, preserving catalog section order.
type Index struct {
	byID       map[string]string
	byCategory map[string][]Entry
	categories []string
}

// Parse scans the catalog source line by line. Section headers set the
// current category; each subsequent line's first inline-code span binds that
// ID to the category. Re-declared IDs overwrite (last write wins), lines with
// no ID and IDs seen before any header are skipped. Parsing never fails;
// malformed input just produces a smaller index.
func Parse(source string) *Index {
	idx := &Index{
		byID:       make(map[string]string),
		byCategory: make(map[string][]Entry),
	}

	current := ""
	for _, line := range strings.Split(source, "\n") {
		if m := headerRe.FindStringSubmatch(line); m != nil {
			current = m[1]
			if _, seen := idx.byCategory[current]; !seen {
				idx.byCategory[current] = nil
				idx.categories = append(idx.categories, current)
			}
			continue
		}

		if current == "" {
			continue
		}

		m := inlineCodeRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id := strings.TrimSpace(m[1])
		if id == "" {
			continue
		}

		idx.byID[id] = current
		idx.byCategory[current] = append(idx.byCategory[current], Entry{
			ID:    id,
			Title: entryTitle(line),
		})
	}

	return idx
}

// Category returns the category for a document ID.
func (i *Index) Category(id string) (string, bool) {
	category, ok := i.byID[id]
	return category, ok
}

// Categories returns category names in catalog order.
func (i *Index) Categories() []string {
	return i.categories
}

// Entries returns the cataloged documents of one category, in catalog order.
func (i *Index) Entries(category string) []Entry {
	return i.byCategory[category]
}

// Len returns the number of cataloged documents.
func (i *Index) Len() int {
	return len(i.byID)
}

// entryTitle strips the ID code span and list markers from an entry line,
// leaving the human-readable title.
func entryTitle(line string) string {
	title := inlineCodeRe.ReplaceAllString(line, "")
	title = strings.TrimLeft(title, " \t-*")
	title = strings.Trim(title, " \t:—–-")

	return title
}
