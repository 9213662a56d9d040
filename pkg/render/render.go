// Package render formats a fetched document into the assistant-facing text
// block. Formatting is a pure function of its inputs: all content and
// metadata must already be resident, and the rendered content is included
// verbatim with no truncation.
package render

import (
	"strings"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/convert"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/roles"
)

// timeLayout renders modification times for human reading. UTC keeps output
// deterministic across hosts.
const timeLayout = "January 2, 2006 15:04 MST"

// Fetched is a document ready for formatting: backend metadata plus content
// already converted to the caller's requested format.
type Fetched struct {
	repository.Document

	// Rendered is the converted document content.
	Rendered string

	// Format is the output format Rendered was converted to.
	Format convert.Format
}

// Format renders one document block. A non-nil role prepends the role label
// to the heading and a block-quoted instruction line; otherwise the heading
// is just the document name.
func Format(doc Fetched, role *roles.Descriptor) string {
	var b strings.Builder

	if role != nil {
		b.WriteString("## [" + role.Label + "] " + doc.Name + "\n")
		b.WriteString("> " + role.Instruction + "\n")
	} else {
		b.WriteString("## " + doc.Name + "\n")
	}
	b.WriteString("\n")

	b.WriteString("- Type: " + doc.MimeType + "\n")
	if !doc.Modified.IsZero() {
		b.WriteString("- Modified: " + doc.Modified.UTC().Format(timeLayout) + "\n")
	}
	if doc.LastEditor != "" {
		b.WriteString("- Last edited by: " + doc.LastEditor + "\n")
	}
	if doc.Link != "" {
		b.WriteString("- Link: " + doc.Link + "\n")
	}

	b.WriteString("\n---\n\n")
	b.WriteString(doc.Rendered)

	return b.String()
}

// AppendCorrections attaches overlay text to a formatted block. A no-op when
// the overlay text is empty.
func AppendCorrections(block, corrections string) string {
	if corrections == "" {
		return block
	}

	return block + "\n\n---\n\nCorrections & Clarifications:\n\n" + corrections
}

// Label recovers the role label from a formatted block's heading, or "" if
// the block was formatted without a role.
func Label(block string) string {
	line, _, _ := strings.Cut(block, "\n")
	if !strings.HasPrefix(line, "## [") {
		return ""
	}

	label, _, ok := strings.Cut(strings.TrimPrefix(line, "## ["), "] ")
	if !ok {
		return ""
	}

	return label
}
