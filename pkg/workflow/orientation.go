package workflow

import (
	"context"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/roles"
)

// Orientation produces the knowledge-base orientation payload: how the
// catalog is organized, what each role annotation means, and how to navigate
// the document set before starting any task.
func (a *Assembler) Orientation(ctx context.Context, params Params) string {
	p := newPayload("Aletha Health Knowledge Base Orientation")

	preface := "You are working with Aletha Health's controlled knowledge base. " +
		"Company documents, not general knowledge, are the source of every claim, " +
		"product detail, and rule you rely on. Each document you read carries a role " +
		"annotation that tells you how its content may be used."
	if params.Task != "" {
		preface += "\n\nCurrent task: " + params.Task
	}
	p.add("Your Role", preface)

	roleLines := make([]string, 0, 6)
	for _, d := range roles.All() {
		roleLines = append(roleLines, "["+d.Label+"] ("+d.Category+"): "+d.Instruction)
	}
	roleLines = append(roleLines, "Documents without an annotation are uncategorized; use judgment and prefer annotated sources.")
	p.addList("Role Annotations", roleLines...)

	a.corrections(ctx, p)
	a.loadedContext(ctx, p)

	p.addSteps("How To Navigate",
		"Call get_kb_map to see the full catalog of categories and documents.",
		"Call list_core_docs for the always-available core set, grouped by category.",
		"Use search_docs to find documents by topic; scope with folder_id when you know the area.",
		"Read documents with read_doc (or read_docs for up to 10 at once) and honor each block's role annotation.",
		"When a document contradicts your general knowledge, the document wins.",
	)

	p.addList("Confirm Before Answering",
		"I have identified which knowledge-base documents are relevant to this task.",
		"I have read every relevant MANDATORY CONSTRAINTS document in full.",
		"Every product name and claim I use comes from a knowledge-base document.",
		"I have noted each document's role annotation and applied it.",
	)

	p.addList("Reminders",
		"Documents are the source of truth; general knowledge is only a fallback.",
		"MANDATORY CONSTRAINTS documents are binding, not advisory.",
		"Never fabricate citations from Clinical & Research material.",
		"When unsure which document applies, check the map before guessing.",
	)

	return p.String()
}
