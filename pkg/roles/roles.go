// Package roles maps document categories to behavioral role descriptors: the
// label and one-sentence directive that tell the assistant how to treat a
// document's content. The descriptor table is fixed configuration; categories
// without a descriptor resolve to no role and pass through unannotated.
package roles

import (
	"context"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/catalog"
)

// Descriptor is the role attached to one document category.
type Descriptor struct {
	Category    string
	Label       string
	Instruction string
}

// The five canonical roles. Order matters only for documentation surfaces
// (list_core_docs and the workflow scope sections render in this order).
var canonical = []Descriptor{
	{
		Category:    "Brand & Marketing",
		Label:       "MANDATORY CONSTRAINTS",
		Instruction: "Follow every rule in this document exactly; do not deviate from approved claims, tone, or terminology.",
	},
	{
		Category:    "Personas & Journeys",
		Label:       "CONTEXT",
		Instruction: "Use this to inform tone and framing; it is background, not wording to enforce verbatim.",
	},
	{
		Category:    "Clinical & Research",
		Label:       "REFERENCE — CITE ACCURATELY",
		Instruction: "Cite this material accurately; never fabricate, extrapolate, or paraphrase findings.",
	},
	{
		Category:    "Blog & Topic Content",
		Label:       "REFERENCE ONLY — DO NOT COPY",
		Instruction: "Treat this as inspiration only; do not copy phrasing or structure.",
	},
	{
		Category:    "Product Documentation",
		Label:       "SOURCE OF TRUTH",
		Instruction: "Use exact product names, specifications, and instructions from this document only.",
	},
}

var byCategory = func() map[string]Descriptor {
	m := make(map[string]Descriptor, len(canonical))
	for _, d := range canonical {
		m[d.Category] = d
	}
	return m
}()

// ForCategory looks up the descriptor for a category name.
func ForCategory(category string) (Descriptor, bool) {
	d, ok := byCategory[category]
	return d, ok
}

// All returns the canonical descriptors in documentation order.
func All() []Descriptor {
	out := make([]Descriptor, len(canonical))
	copy(out, canonical)

	return out
}

// Resolver resolves a document's role through the category index.
type Resolver struct {
	catalog *catalog.Cache
}

func NewResolver(c *catalog.Cache) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve returns the role for a document ID. The second return is false when
// the document is not cataloged or its category has no configured descriptor;
// both are common, non-error outcomes.
func (r *Resolver) Resolve(ctx context.Context, id string) (Descriptor, bool) {
	category, ok := r.catalog.Index(ctx).Category(id)
	if !ok {
		return Descriptor{}, false
	}

	return ForCategory(category)
}

// Category exposes the underlying category lookup for callers that need the
// raw category (the correction overlay, list_core_docs grouping).
func (r *Resolver) Category(ctx context.Context, id string) (string, bool) {
	return r.catalog.Index(ctx).Category(id)
}

// Catalog returns the shared catalog cache.
func (r *Resolver) Catalog() *catalog.Cache {
	return r.catalog
}
