package mcp

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/catalog"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/convert"
	kblogger "github.com/alethainc/aletha-knowledge-base-mcp/pkg/logger"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/overlay"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/preload"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository/inmemory"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/roles"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/workflow"
)

const toolsCatalog = "## Brand & Marketing\n- `brand-guide` Brand Guidelines\n\n## Clinical & Research\n- `pilot-study` Pilot Study\n"

const toolsCorrections = "## Global\nThe Hip Hook is now also sold as \"Mark\".\n"

// newToolsServer builds a fully wired server over an in-memory backend for
// exercising tool handlers directly.
func newToolsServer(coreDocs []string) (*Server, *inmemory.Driver) {
	logger := kblogger.Nop()

	driver := inmemory.NewDriver()
	driver.Put(inmemory.Doc{
		Meta:    repository.Document{ID: "brand-guide", Name: "Brand Guidelines", MimeType: "text/markdown"},
		Content: []byte("No unapproved superlatives."),
	})
	driver.Put(inmemory.Doc{
		Meta:     repository.Document{ID: "pilot-study", Name: "Pilot Study", MimeType: "text/html"},
		Content:  []byte("<p>clinical findings</p>"),
		FolderID: "research",
	})
	driver.PutFolder(repository.Folder{ID: "research", Name: "Research", Path: "/research"})

	lazy := repository.NewLazy(func(context.Context) (repository.Driver, error) {
		return driver, nil
	})

	catalogSource := catalog.StaticSource(toolsCatalog)
	catalogCache := catalog.NewCache(catalogSource, logger)
	resolver := roles.NewResolver(catalogCache)
	overlayService := overlay.NewService(
		overlay.NewCache(catalog.StaticSource(toolsCorrections), logger),
		catalogCache,
	)

	preloader, err := preload.New(preload.Config{
		Repo:      lazy,
		Converter: convert.New(),
		Roles:     resolver,
		Logger:    logger,
	})
	Expect(err).NotTo(HaveOccurred())

	assembler, err := workflow.New(workflow.Config{
		Preloader: preloader,
		Overlay:   overlayService,
		Roles:     resolver,
		CoreDocs:  coreDocs,
		Logger:    logger,
	})
	Expect(err).NotTo(HaveOccurred())

	server, err := NewServer(Config{
		Repo:          lazy,
		Preloader:     preloader,
		Roles:         resolver,
		Overlay:       overlayService,
		Assembler:     assembler,
		CatalogSource: catalogSource,
		CoreDocs:      coreDocs,
		Logger:        logger,
	})
	Expect(err).NotTo(HaveOccurred())

	return server, driver
}

var _ = Describe("search_docs", func() {
	var (
		ctx    context.Context
		server *Server
	)

	BeforeEach(func() {
		ctx = context.Background()
		server, _ = newToolsServer(nil)
	})

	It("returns matching documents", func() {
		result, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "brand"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeFalse())
		Expect(output.Count).To(Equal(1))
		Expect(output.Results[0].ID).To(Equal("brand-guide"))
	})

	It("rejects an empty query as a tool error", func() {
		result, _, err := server.handleSearch(ctx, nil, SearchInput{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeTrue())
	})

	It("rejects an unknown file_type as a tool error", func() {
		result, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "brand", FileType: "docx"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeTrue())
	})

	It("reports backend connection failures conversationally", func() {
		broken := repository.NewLazy(func(context.Context) (repository.Driver, error) {
			return nil, errors.New("credentials rejected")
		})
		server.config.Repo = broken

		result, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "brand"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeTrue())
	})
})

var _ = Describe("list_folder", func() {
	var (
		ctx    context.Context
		server *Server
	)

	BeforeEach(func() {
		ctx = context.Background()
		server, _ = newToolsServer(nil)
	})

	It("lists the root folder by default", func() {
		_, output, err := server.handleListFolder(ctx, nil, ListFolderInput{})
		Expect(err).NotTo(HaveOccurred())
		Expect(output.Folder.Name).To(Equal("root"))
		Expect(output.Contents).To(HaveLen(1))
		Expect(output.Contents[0].ID).To(Equal("brand-guide"))
		Expect(output.Contents[0].Type).To(Equal("file"))
	})

	It("lists a named folder", func() {
		_, output, err := server.handleListFolder(ctx, nil, ListFolderInput{FolderID: "research"})
		Expect(err).NotTo(HaveOccurred())
		Expect(output.Contents).To(HaveLen(1))
		Expect(output.Contents[0].ID).To(Equal("pilot-study"))
	})

	It("reports unknown folders as a tool error", func() {
		result, _, err := server.handleListFolder(ctx, nil, ListFolderInput{FolderID: "void"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeTrue())
	})
})

var _ = Describe("read_doc", func() {
	var (
		ctx    context.Context
		server *Server
	)

	BeforeEach(func() {
		ctx = context.Background()
		server, _ = newToolsServer(nil)
	})

	It("returns the annotated document with corrections appended", func() {
		result, output, err := server.handleReadDoc(ctx, nil, ReadDocInput{DocID: "brand-guide"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeFalse())
		Expect(output.Text).To(HavePrefix("## [MANDATORY CONSTRAINTS] Brand Guidelines"))
		Expect(output.Text).To(ContainSubstring("No unapproved superlatives."))
		Expect(output.Text).To(ContainSubstring("Corrections & Clarifications:"))
	})

	It("converts html documents to markdown by default", func() {
		_, output, err := server.handleReadDoc(ctx, nil, ReadDocInput{DocID: "pilot-study"})
		Expect(err).NotTo(HaveOccurred())
		Expect(output.Text).To(ContainSubstring("clinical findings"))
		Expect(output.Text).NotTo(ContainSubstring("<p>"))
	})

	It("requires a doc_id", func() {
		result, _, err := server.handleReadDoc(ctx, nil, ReadDocInput{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeTrue())
	})

	It("rejects an invalid format", func() {
		result, _, err := server.handleReadDoc(ctx, nil, ReadDocInput{DocID: "brand-guide", Format: "docx"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeTrue())
	})

	It("reports a missing document as a tool error", func() {
		result, _, err := server.handleReadDoc(ctx, nil, ReadDocInput{DocID: "ghost"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeTrue())
	})
})

var _ = Describe("read_docs", func() {
	var (
		ctx    context.Context
		server *Server
		driver *inmemory.Driver
	)

	BeforeEach(func() {
		ctx = context.Background()
		server, driver = newToolsServer(nil)
	})

	It("folds per-document failures into the report", func() {
		driver.Fail("pilot-study", errors.New("quota exceeded"))

		result, output, err := server.handleReadDocs(ctx, nil, ReadDocsInput{
			DocIDs: []string{"brand-guide", "pilot-study"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeFalse())
		Expect(output.Requested).To(Equal(2))
		Expect(output.Succeeded).To(Equal(1))
		Expect(output.FailedIDs).To(Equal([]string{"pilot-study"}))
	})

	It("rejects an empty batch as a tool error", func() {
		result, _, err := server.handleReadDocs(ctx, nil, ReadDocsInput{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeTrue())
	})

	It("rejects more than ten documents as a tool error", func() {
		ids := make([]string, 11)
		for i := range ids {
			ids[i] = "doc"
		}

		result, _, err := server.handleReadDocs(ctx, nil, ReadDocsInput{DocIDs: ids})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeTrue())
	})
})

var _ = Describe("list_core_docs", func() {
	It("groups the curated set with categories and roles", func() {
		ctx := context.Background()
		server, _ := newToolsServer([]string{"brand-guide", "uncataloged-doc"})

		_, output, err := server.handleListCoreDocs(ctx, nil, EmptyInput{})
		Expect(err).NotTo(HaveOccurred())
		Expect(output.Count).To(Equal(2))

		Expect(output.Docs[0].ID).To(Equal("brand-guide"))
		Expect(output.Docs[0].Category).To(Equal("Brand & Marketing"))
		Expect(output.Docs[0].Role).To(Equal("MANDATORY CONSTRAINTS"))
		Expect(output.Docs[0].Title).To(Equal("Brand Guidelines"))

		Expect(output.Docs[1].ID).To(Equal("uncataloged-doc"))
		Expect(output.Docs[1].Category).To(BeEmpty())
		Expect(output.Docs[1].Role).To(BeEmpty())
	})
})

var _ = Describe("get_kb_map", func() {
	It("returns the raw catalog text", func() {
		ctx := context.Background()
		server, _ := newToolsServer(nil)

		result, output, err := server.handleKBMap(ctx, nil, EmptyInput{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeFalse())
		Expect(output.Map).To(Equal(toolsCatalog))
	})

	It("reports a missing catalog source as a tool error", func() {
		ctx := context.Background()
		server, _ := newToolsServer(nil)
		server.config.CatalogSource = nil

		result, _, err := server.handleKBMap(ctx, nil, EmptyInput{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsError).To(BeTrue())
	})
})
