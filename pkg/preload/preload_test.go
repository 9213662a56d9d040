package preload_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/catalog"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/convert"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/logger"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/preload"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository/inmemory"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/roles"
)

func seedDoc(driver *inmemory.Driver, id, name, content string) {
	driver.Put(inmemory.Doc{
		Meta: repository.Document{
			ID:       id,
			Name:     name,
			MimeType: "text/markdown",
		},
		Content: []byte(content),
	})
}

// newTestPreloader wires a preloader over an in-memory driver with a static
// catalog binding brand-guide to Brand & Marketing.
func newTestPreloader(driver *inmemory.Driver) (*preload.Preloader, *atomic.Int64) {
	var dials atomic.Int64

	lazy := repository.NewLazy(func(context.Context) (repository.Driver, error) {
		dials.Add(1)
		return driver, nil
	})

	cache := catalog.NewCache(catalog.StaticSource(
		"## Brand & Marketing\n- `brand-guide`\n",
	), logger.Nop())

	p, err := preload.New(preload.Config{
		Repo:      lazy,
		Converter: convert.New(),
		Roles:     roles.NewResolver(cache),
		Logger:    logger.Nop(),
	})
	Expect(err).NotTo(HaveOccurred())

	return p, &dials
}

var _ = Describe("New", func() {
	It("rejects a nil repository handle", func() {
		_, err := preload.New(preload.Config{
			Converter: convert.New(),
			Roles:     roles.NewResolver(catalog.NewCache(nil, logger.Nop())),
			Logger:    logger.Nop(),
		})
		Expect(err).To(MatchError(ContainSubstring("repository handle is required")))
	})

	It("rejects a nil logger", func() {
		_, err := preload.New(preload.Config{
			Repo:      repository.NewLazy(func(context.Context) (repository.Driver, error) { return nil, nil }),
			Converter: convert.New(),
			Roles:     roles.NewResolver(catalog.NewCache(nil, logger.Nop())),
		})
		Expect(err).To(MatchError(ContainSubstring("logger is required")))
	})
})

var _ = Describe("Fetch", func() {
	var (
		ctx    context.Context
		driver *inmemory.Driver
		p      *preload.Preloader
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = inmemory.NewDriver()
		p, _ = newTestPreloader(driver)
	})

	It("formats a cataloged document with its role annotation", func() {
		seedDoc(driver, "brand-guide", "Brand Guidelines", "Voice rules.")

		block, err := p.Fetch(ctx, "brand-guide", convert.FormatMarkdown)
		Expect(err).NotTo(HaveOccurred())
		Expect(block.ID).To(Equal("brand-guide"))
		Expect(block.Text).To(HavePrefix("## [MANDATORY CONSTRAINTS] Brand Guidelines"))
		Expect(block.Text).To(ContainSubstring("Voice rules."))
	})

	It("formats an uncataloged document without a role", func() {
		seedDoc(driver, "scratch-notes", "Scratch Notes", "misc")

		block, err := p.Fetch(ctx, "scratch-notes", convert.FormatMarkdown)
		Expect(err).NotTo(HaveOccurred())
		Expect(block.Text).To(HavePrefix("## Scratch Notes"))
	})

	It("propagates not-found errors", func() {
		_, err := p.Fetch(ctx, "absent", convert.FormatMarkdown)
		Expect(err).To(HaveOccurred())

		var notFound repository.ErrNotFound
		Expect(errors.As(err, &notFound)).To(BeTrue())
		Expect(notFound.ID).To(Equal("absent"))
	})
})

var _ = Describe("Preload", func() {
	var (
		ctx    context.Context
		driver *inmemory.Driver
		p      *preload.Preloader
		dials  *atomic.Int64
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = inmemory.NewDriver()
		p, dials = newTestPreloader(driver)
	})

	It("partitions every requested ID into succeeded or failed", func() {
		seedDoc(driver, "a", "Doc A", "alpha")
		seedDoc(driver, "c", "Doc C", "gamma")

		result, err := p.Preload(ctx, []string{"a", "b", "c"}, convert.FormatMarkdown)
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Blocks).To(HaveLen(2))
		Expect(result.Failed).To(HaveLen(1))
		Expect(result.FailedIDs()).To(Equal([]string{"b"}))
		Expect(len(result.Blocks) + len(result.Failed)).To(Equal(3))
	})

	It("keeps succeeded blocks in request order", func() {
		for _, id := range []string{"e", "d", "c", "b", "a"} {
			seedDoc(driver, id, "Doc "+id, "content "+id)
		}

		result, err := p.Preload(ctx, []string{"e", "d", "c", "b", "a"}, convert.FormatMarkdown)
		Expect(err).NotTo(HaveOccurred())

		ids := make([]string, len(result.Blocks))
		for i, block := range result.Blocks {
			ids[i] = block.ID
		}
		Expect(ids).To(Equal([]string{"e", "d", "c", "b", "a"}))
	})

	It("records per-document failure reasons", func() {
		seedDoc(driver, "a", "Doc A", "alpha")
		seedDoc(driver, "b", "Doc B", "beta")
		driver.Fail("b", errors.New("backend timeout"))
		seedDoc(driver, "c", "Doc C", "gamma")

		result, err := p.Preload(ctx, []string{"a", "b", "c"}, convert.FormatMarkdown)
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Blocks).To(HaveLen(2))
		Expect(result.Failed).To(HaveLen(1))
		Expect(result.Failed[0].ID).To(Equal("b"))
		Expect(result.Failed[0].Reason).To(ContainSubstring("backend timeout"))
	})

	It("rejects an empty batch without dialing the backend", func() {
		_, err := p.Preload(ctx, nil, convert.FormatMarkdown)
		Expect(err).To(MatchError(preload.ErrEmptyBatch))
		Expect(dials.Load()).To(BeZero())
	})

	It("rejects an over-cap batch without dialing the backend", func() {
		ids := make([]string, preload.MaxBatch+1)
		for i := range ids {
			ids[i] = fmt.Sprintf("doc-%d", i)
		}

		_, err := p.Preload(ctx, ids, convert.FormatMarkdown)

		var tooLarge preload.ErrBatchTooLarge
		Expect(errors.As(err, &tooLarge)).To(BeTrue())
		Expect(tooLarge.Requested).To(Equal(preload.MaxBatch + 1))
		Expect(dials.Load()).To(BeZero())
	})

	It("accepts a batch of exactly MaxBatch", func() {
		ids := make([]string, preload.MaxBatch)
		for i := range ids {
			ids[i] = fmt.Sprintf("doc-%d", i)
			seedDoc(driver, ids[i], "Doc", "content")
		}

		result, err := p.Preload(ctx, ids, convert.FormatMarkdown)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Blocks).To(HaveLen(preload.MaxBatch))
	})
})

var _ = Describe("Critical", func() {
	var (
		ctx    context.Context
		driver *inmemory.Driver
		p      *preload.Preloader
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = inmemory.NewDriver()
		p, _ = newTestPreloader(driver)
	})

	It("is exempt from the batch cap", func() {
		ids := make([]string, preload.MaxBatch+5)
		for i := range ids {
			ids[i] = fmt.Sprintf("core-%d", i)
			seedDoc(driver, ids[i], "Core Doc", "content")
		}

		result := p.Critical(ctx, ids, convert.FormatMarkdown)
		Expect(result.Blocks).To(HaveLen(len(ids)))
		Expect(result.Failed).To(BeEmpty())
	})

	It("yields an all-failed result when the backend is unreachable", func() {
		unreachable := repository.NewLazy(func(context.Context) (repository.Driver, error) {
			return nil, errors.New("no credentials")
		})

		cache := catalog.NewCache(nil, logger.Nop())
		p, err := preload.New(preload.Config{
			Repo:      unreachable,
			Converter: convert.New(),
			Roles:     roles.NewResolver(cache),
			Logger:    logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())

		result := p.Critical(ctx, []string{"a", "b"}, convert.FormatMarkdown)
		Expect(result.Blocks).To(BeEmpty())
		Expect(result.FailedIDs()).To(Equal([]string{"a", "b"}))
	})

	It("returns an empty result for an empty ID list", func() {
		result := p.Critical(ctx, nil, convert.FormatMarkdown)
		Expect(result.Blocks).To(BeEmpty())
		Expect(result.Failed).To(BeEmpty())
	})
})
