package overlay_test

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/catalog"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/logger"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/overlay"
)

const corrections = `## Global
The Hip Hook is now sold under the name "Mark".

## Clinical & Research
The 2021 pilot study has been superseded by the 2023 trial.

## Discontinued
`

var _ = Describe("Parse", func() {
	It("routes the Global section to the global slot regardless of case", func() {
		for _, header := range []string{"Global", "GLOBAL", "global"} {
			o := overlay.Parse("## " + header + "\nname change\n")
			Expect(o.Global()).To(Equal("name change"))
		}
	})

	It("keeps other sections as category keys", func() {
		o := overlay.Parse(corrections)

		text, ok := o.Section("Clinical & Research")
		Expect(ok).To(BeTrue())
		Expect(text).To(ContainSubstring("2023 trial"))
	})

	It("drops empty sections", func() {
		o := overlay.Parse(corrections)

		_, ok := o.Section("Discontinued")
		Expect(ok).To(BeFalse())
	})

	It("ignores text before the first header", func() {
		o := overlay.Parse("stale preamble\n\n## Global\nkept\n")
		Expect(o.Global()).To(Equal("kept"))
	})

	It("reports empty input as empty", func() {
		Expect(overlay.Parse("").Empty()).To(BeTrue())
		Expect(overlay.Parse(corrections).Empty()).To(BeFalse())
	})
})

var _ = Describe("ForCategory", func() {
	It("labels global corrections first, then the category block", func() {
		o := overlay.Parse(corrections)

		text := o.ForCategory("Clinical & Research")
		Expect(text).To(HavePrefix("General corrections:\n"))
		Expect(text).To(ContainSubstring("Corrections for Clinical & Research:\n"))
		Expect(strings.Index(text, "General corrections:")).To(BeNumerically("<",
			strings.Index(text, "Corrections for Clinical & Research:")))
	})

	It("returns only the global block for an unlisted category", func() {
		o := overlay.Parse(corrections)

		text := o.ForCategory("Brand & Marketing")
		Expect(text).To(HavePrefix("General corrections:\n"))
		Expect(text).NotTo(ContainSubstring("Corrections for"))
	})

	It("still applies global corrections to uncataloged documents", func() {
		o := overlay.Parse(corrections)

		Expect(o.ForCategory("")).To(HavePrefix("General corrections:\n"))
	})

	It("returns empty when nothing applies", func() {
		o := overlay.Parse("## Clinical & Research\nsomething\n")
		Expect(o.ForCategory("Brand & Marketing")).To(BeEmpty())
	})
})

var _ = Describe("Full", func() {
	It("emits global first, known categories in order, then unknown sections", func() {
		source := "## Clinical & Research\nclinical note\n\n## Global\nglobal note\n\n## Retired Topics\nretired note\n"
		o := overlay.Parse(source)

		text := o.Full([]string{"Brand & Marketing", "Clinical & Research"})
		Expect(text).To(HavePrefix("General corrections:\nglobal note"))

		clinicalAt := strings.Index(text, "Corrections for Clinical & Research:")
		retiredAt := strings.Index(text, "Corrections for Retired Topics:")
		Expect(clinicalAt).To(BeNumerically(">", 0))
		Expect(retiredAt).To(BeNumerically(">", clinicalAt))
	})
})

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		service *overlay.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		catalogCache := catalog.NewCache(catalog.StaticSource(
			"## Clinical & Research\n- `pilot-study`\n",
		), logger.Nop())
		overlayCache := overlay.NewCache(catalog.StaticSource(corrections), logger.Nop())
		service = overlay.NewService(overlayCache, catalogCache)
	})

	It("joins document corrections through the catalog", func() {
		text, ok := service.ForDocument(ctx, "pilot-study")
		Expect(ok).To(BeTrue())
		Expect(text).To(ContainSubstring("Corrections for Clinical & Research"))
	})

	It("gives uncataloged documents the global block only", func() {
		text, ok := service.ForDocument(ctx, "unlisted-doc")
		Expect(ok).To(BeTrue())
		Expect(text).To(HavePrefix("General corrections:"))
		Expect(text).NotTo(ContainSubstring("Corrections for"))
	})

	It("reports nothing applicable when the overlay source is absent", func() {
		empty := overlay.NewService(
			overlay.NewCache(nil, logger.Nop()),
			catalog.NewCache(nil, logger.Nop()),
		)

		_, ok := empty.ForDocument(ctx, "pilot-study")
		Expect(ok).To(BeFalse())
		_, ok = empty.Full(ctx)
		Expect(ok).To(BeFalse())
	})
})
