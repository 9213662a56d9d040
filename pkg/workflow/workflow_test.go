package workflow_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/catalog"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/convert"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/logger"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/overlay"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/preload"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository/inmemory"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/roles"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/workflow"
)

const testCatalog = "## Brand & Marketing\n- `brand-guide` Brand Guidelines\n\n## Product Documentation\n- `hip-hook-101` Hip Hook Manual\n"

const testCorrections = "## Global\nThe Hip Hook is now also sold as \"Mark\".\n"

type fixture struct {
	driver    *inmemory.Driver
	assembler *workflow.Assembler
}

// newFixture builds an assembler over an in-memory backend seeded with the
// two core documents. dial may be swapped for a failing one to simulate an
// unreachable backend.
func newFixture(dial repository.Dialer, coreDocs []string, corrections string) *fixture {
	driver := inmemory.NewDriver()
	driver.Put(inmemory.Doc{
		Meta:    repository.Document{ID: "brand-guide", Name: "Brand Guidelines", MimeType: "text/markdown"},
		Content: []byte("No unapproved superlatives."),
	})
	driver.Put(inmemory.Doc{
		Meta:    repository.Document{ID: "hip-hook-101", Name: "Hip Hook Manual", MimeType: "text/markdown"},
		Content: []byte("Lie on the floor."),
	})

	if dial == nil {
		dial = func(context.Context) (repository.Driver, error) { return driver, nil }
	}
	lazy := repository.NewLazy(dial)

	catalogCache := catalog.NewCache(catalog.StaticSource(testCatalog), logger.Nop())
	resolver := roles.NewResolver(catalogCache)

	var correctionsSource catalog.Source
	if corrections != "" {
		correctionsSource = catalog.StaticSource(corrections)
	}
	overlayService := overlay.NewService(overlay.NewCache(correctionsSource, logger.Nop()), catalogCache)

	preloader, err := preload.New(preload.Config{
		Repo:      lazy,
		Converter: convert.New(),
		Roles:     resolver,
		Logger:    logger.Nop(),
	})
	Expect(err).NotTo(HaveOccurred())

	assembler, err := workflow.New(workflow.Config{
		Preloader: preloader,
		Overlay:   overlayService,
		Roles:     resolver,
		CoreDocs:  coreDocs,
		Logger:    logger.Nop(),
	})
	Expect(err).NotTo(HaveOccurred())

	return &fixture{driver: driver, assembler: assembler}
}

var _ = Describe("New", func() {
	It("rejects a nil preloader", func() {
		_, err := workflow.New(workflow.Config{Logger: logger.Nop()})
		Expect(err).To(MatchError(ContainSubstring("preloader is required")))
	})
})

var _ = Describe("Build", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("dispatches each named workflow", func() {
		f := newFixture(nil, []string{"brand-guide"}, testCorrections)

		for _, name := range []string{
			workflow.NameOrientation,
			workflow.NameMarketingCreation,
			workflow.NameGuideCreation,
		} {
			text, err := f.assembler.Build(ctx, name, workflow.Params{})
			Expect(err).NotTo(HaveOccurred(), name)
			Expect(text).To(HavePrefix("# Aletha Health"), name)
		}
	})

	It("rejects unknown workflow names", func() {
		f := newFixture(nil, nil, "")

		_, err := f.assembler.Build(ctx, "launch-rocket", workflow.Params{})
		Expect(err).To(MatchError(ContainSubstring("unknown workflow")))
	})

	It("produces byte-identical output across invocations", func() {
		f := newFixture(nil, []string{"brand-guide", "hip-hook-101"}, testCorrections)

		params := workflow.Params{Topic: "hip pain", Task: "landing page"}
		first, err := f.assembler.Build(ctx, workflow.NameMarketingCreation, params)
		Expect(err).NotTo(HaveOccurred())
		second, err := f.assembler.Build(ctx, workflow.NameMarketingCreation, params)
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
	})
})

var _ = Describe("Orientation", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("lists every role annotation with its instruction", func() {
		f := newFixture(nil, nil, "")

		text := f.assembler.Orientation(ctx, workflow.Params{})

		for _, d := range roles.All() {
			Expect(text).To(ContainSubstring("[" + d.Label + "]"))
			Expect(text).To(ContainSubstring(d.Instruction))
		}
	})

	It("embeds the current task in the preface", func() {
		f := newFixture(nil, nil, "")

		text := f.assembler.Orientation(ctx, workflow.Params{Task: "draft launch email"})
		Expect(text).To(ContainSubstring("Current task: draft launch email"))
	})

	It("ends with the reminders section", func() {
		f := newFixture(nil, []string{"brand-guide"}, testCorrections)

		text := f.assembler.Orientation(ctx, workflow.Params{})
		Expect(strings.LastIndex(text, "## Reminders")).To(BeNumerically(">",
			strings.LastIndex(text, "## Preloaded Context")))
		Expect(strings.TrimSpace(text)).NotTo(HaveSuffix("## Reminders"))
	})
})

var _ = Describe("Preloaded context", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("embeds the formatted core documents", func() {
		f := newFixture(nil, []string{"brand-guide", "hip-hook-101"}, "")

		text := f.assembler.Orientation(ctx, workflow.Params{})

		Expect(text).To(ContainSubstring("## Preloaded Context"))
		Expect(text).To(ContainSubstring("[MANDATORY CONSTRAINTS] Brand Guidelines"))
		Expect(text).To(ContainSubstring("[SOURCE OF TRUTH] Hip Hook Manual"))
		Expect(text).To(ContainSubstring("No unapproved superlatives."))
	})

	It("reports partially failed documents with read_doc guidance", func() {
		f := newFixture(nil, []string{"brand-guide", "missing-doc"}, "")
		f.driver.Fail("missing-doc", errors.New("permission denied"))

		text := f.assembler.Orientation(ctx, workflow.Params{})

		Expect(text).To(ContainSubstring("## Preloaded Context"))
		Expect(text).To(ContainSubstring("Documents That Failed To Preload"))
		Expect(text).To(ContainSubstring("`missing-doc`"))
	})

	It("degrades to load-on-demand instructions when the backend is unreachable", func() {
		dial := func(context.Context) (repository.Driver, error) {
			return nil, errors.New("credentials rejected")
		}
		f := newFixture(dial, []string{"brand-guide", "hip-hook-101"}, "")

		text := f.assembler.Orientation(ctx, workflow.Params{})

		Expect(text).NotTo(ContainSubstring("## Preloaded Context"))
		Expect(text).To(ContainSubstring("## Load These Documents Before Starting"))
		Expect(text).To(ContainSubstring("read_doc"))
		Expect(text).To(ContainSubstring("`brand-guide`"))
		Expect(text).To(ContainSubstring("`hip-hook-101`"))
		Expect(text).To(ContainSubstring("## Reminders"))
	})

	It("omits the section entirely when no core docs are configured", func() {
		f := newFixture(nil, nil, "")

		text := f.assembler.Orientation(ctx, workflow.Params{})
		Expect(text).NotTo(ContainSubstring("## Preloaded Context"))
		Expect(text).NotTo(ContainSubstring("## Load These Documents Before Starting"))
	})
})

var _ = Describe("Corrections", func() {
	It("injects the full overlay when configured", func() {
		f := newFixture(nil, nil, testCorrections)

		text := f.assembler.Orientation(context.Background(), workflow.Params{})
		Expect(text).To(ContainSubstring("## Corrections & Clarifications"))
		Expect(text).To(ContainSubstring(`also sold as "Mark"`))
	})

	It("omits the section when no corrections exist", func() {
		f := newFixture(nil, nil, "")

		text := f.assembler.Orientation(context.Background(), workflow.Params{})
		Expect(text).NotTo(ContainSubstring("## Corrections & Clarifications"))
	})
})

var _ = Describe("MarketingCreation", func() {
	var (
		ctx  context.Context
		text string
	)

	BeforeEach(func() {
		ctx = context.Background()
		f := newFixture(nil, []string{"brand-guide"}, "")
		text = f.assembler.MarketingCreation(ctx, workflow.Params{Topic: "hip pain relief"})
	})

	It("embeds the content topic", func() {
		Expect(text).To(ContainSubstring("Content topic: hip pain relief"))
	})

	It("excludes clinical material from scope", func() {
		excludedAt := strings.Index(text, "## Excluded Unless Explicitly Requested")
		Expect(excludedAt).To(BeNumerically(">", 0))
		Expect(text[excludedAt:]).To(ContainSubstring("Clinical & Research"))

		inScope := text[strings.Index(text, "## In Scope"):excludedAt]
		Expect(inScope).NotTo(ContainSubstring("Clinical & Research"))
	})

	It("pins the approved product spellings in the checklist", func() {
		Expect(text).To(ContainSubstring(`"Hip Hook", "Range", "Nuckle", "Mark"`))
	})

	It("repeats the binding rules in the terminal reminders", func() {
		remindersAt := strings.LastIndex(text, "## Reminders")
		Expect(remindersAt).To(BeNumerically(">", 0))

		reminders := text[remindersAt:]
		Expect(reminders).To(ContainSubstring("No unapproved superlative claims."))
		Expect(reminders).To(ContainSubstring("medical disclaimer"))
	})
})

var _ = Describe("GuideCreation", func() {
	It("keeps clinical material in scope with citation accuracy binding", func() {
		f := newFixture(nil, nil, "")

		text := f.assembler.GuideCreation(context.Background(), workflow.Params{
			Topic:   "psoas release",
			Subtype: "how-to",
		})

		Expect(text).To(ContainSubstring("Guide topic: psoas release"))
		Expect(text).To(ContainSubstring("Guide type: how-to"))
		Expect(text).NotTo(ContainSubstring("## Excluded Unless Explicitly Requested"))

		inScopeAt := strings.Index(text, "## In Scope")
		Expect(inScopeAt).To(BeNumerically(">", 0))
		Expect(text[inScopeAt:]).To(ContainSubstring("Clinical & Research [REFERENCE — CITE ACCURATELY]"))
	})
})
