// Package workflow composes role-specific instructional payloads for the
// assistant: a preface, preloaded document context, process steps, scope
// boundaries, a self-verification checklist, and a terminal reminders block.
// Each invocation is independent and idempotent given identical backend
// content.
package workflow

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/convert"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/overlay"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/preload"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/roles"
)

// Workflow names exposed on the prompt surface.
const (
	NameOrientation       = "orientation"
	NameMarketingCreation = "marketing-creation"
	NameGuideCreation     = "guide-creation"
)

// Params are the optional free-text workflow parameters.
type Params struct {
	// Task describes what the user is currently working on.
	Task string

	// Topic is the subject of the content being created.
	Topic string

	// Subtype narrows the content kind (e.g. "how-to", "educational").
	Subtype string
}

// Config is the configuration options for the Assembler.
type Config struct {
	// Preloader fetches the critical document set.
	Preloader *preload.Preloader

	// Overlay supplies correction text for full-context injection.
	Overlay *overlay.Service

	// Roles supplies the category vocabulary for scope sections.
	Roles *roles.Resolver

	// CoreDocs is the operator-curated critical document ID list.
	CoreDocs []string

	// Logger is the configured zap logger.
	Logger *zap.Logger
}

// Assembler builds workflow payloads.
type Assembler struct {
	config Config
}

// New validates the configuration and creates an Assembler.
func New(c Config) (*Assembler, error) {
	if c.Preloader == nil {
		return nil, errors.New("preloader is required")
	}
	if c.Overlay == nil {
		return nil, errors.New("overlay service is required")
	}
	if c.Roles == nil {
		return nil, errors.New("role resolver is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	return &Assembler{config: c}, nil
}

// Build dispatches a workflow by name.
func (a *Assembler) Build(ctx context.Context, name string, params Params) (string, error) {
	switch name {
	case NameOrientation:
		return a.Orientation(ctx, params), nil
	case NameMarketingCreation:
		return a.MarketingCreation(ctx, params), nil
	case NameGuideCreation:
		return a.GuideCreation(ctx, params), nil
	default:
		return "", errors.New("unknown workflow: " + name)
	}
}

// loadedContext preloads the critical document set and appends the result to
// the payload. When every document fails, a fetch-on-demand fallback section
// is emitted instead so the workflow still produces a usable payload.
func (a *Assembler) loadedContext(ctx context.Context, p *payload) {
	if len(a.config.CoreDocs) == 0 {
		return
	}

	result := a.config.Preloader.Critical(ctx, a.config.CoreDocs, convert.FormatMarkdown)

	if len(result.Blocks) == 0 {
		a.config.Logger.Warn("critical document preload failed entirely, degrading to on-demand loading",
			zap.Strings("doc_ids", a.config.CoreDocs),
		)
		p.add("Load These Documents Before Starting",
			"The core documents could not be preloaded. Before doing any work, load each of the following with the read_doc tool and treat its role annotation as binding:",
			"- `"+strings.Join(a.config.CoreDocs, "`\n- `")+"`",
		)
		return
	}

	blocks := make([]string, len(result.Blocks))
	for i, block := range result.Blocks {
		blocks[i] = block.Text
	}
	p.add("Preloaded Context", blocks...)

	if len(result.Failed) > 0 {
		failures := make([]string, len(result.Failed))
		for i, f := range result.Failed {
			failures[i] = "`" + f.ID + "`: " + f.Reason
		}
		p.addList("Documents That Failed To Preload (load these with read_doc)", failures...)
	}
}

// corrections appends the full correction overlay when one is configured.
func (a *Assembler) corrections(ctx context.Context, p *payload) {
	if text, ok := a.config.Overlay.Full(ctx); ok {
		p.add("Corrections & Clarifications", text)
	}
}

// roleScope renders the in-scope/excluded category lists with their role
// labels so the assistant knows how each category must be treated.
func roleScope(p *payload, inScope, excluded []string) {
	describe := func(categories []string) []string {
		out := make([]string, 0, len(categories))
		for _, category := range categories {
			if d, ok := roles.ForCategory(category); ok {
				out = append(out, category+" ["+d.Label+"]: "+d.Instruction)
				continue
			}
			out = append(out, category)
		}
		return out
	}

	p.addList("In Scope", describe(inScope)...)
	if len(excluded) > 0 {
		p.addList("Excluded Unless Explicitly Requested", describe(excluded)...)
	}
}
