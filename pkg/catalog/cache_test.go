package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/catalog"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/logger"
)

var _ = Describe("Cache", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("memoizes the parsed index across calls", func() {
		calls := 0
		source := func(context.Context) (string, error) {
			calls++
			return "## Brand & Marketing\n- `brand-guide`\n", nil
		}

		cache := catalog.NewCache(source, logger.Nop())
		Expect(cache.Index(ctx).Len()).To(Equal(1))
		Expect(cache.Index(ctx).Len()).To(Equal(1))
		Expect(calls).To(Equal(1))
	})

	It("degrades to an empty index when the source fails", func() {
		source := func(context.Context) (string, error) {
			return "", errors.New("backend unreachable")
		}

		cache := catalog.NewCache(source, logger.Nop())
		Expect(cache.Index(ctx).Len()).To(BeZero())
	})

	It("treats a nil source as an empty catalog", func() {
		cache := catalog.NewCache(nil, logger.Nop())
		Expect(cache.Index(ctx).Len()).To(BeZero())
	})

	It("re-reads the source after Invalidate", func() {
		text := "## Brand & Marketing\n- `brand-guide`\n"
		source := func(context.Context) (string, error) {
			return text, nil
		}

		cache := catalog.NewCache(source, logger.Nop())
		Expect(cache.Index(ctx).Len()).To(Equal(1))

		text = "## Brand & Marketing\n- `brand-guide`\n- `voice-tone`\n"
		Expect(cache.Index(ctx).Len()).To(Equal(1))

		cache.Invalidate()
		Expect(cache.Index(ctx).Len()).To(Equal(2))
	})
})

var _ = Describe("FileSource", func() {
	It("reads catalog text from disk", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "map.md")
		Expect(os.WriteFile(path, []byte("## Brand & Marketing\n- `brand-guide`\n"), 0o644)).To(Succeed())

		text, err := catalog.FileSource(path)(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(ContainSubstring("brand-guide"))
	})

	It("returns an error for a missing file", func() {
		_, err := catalog.FileSource(filepath.Join(GinkgoT().TempDir(), "absent.md"))(context.Background())
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("StaticSource", func() {
	It("serves the fixed string", func() {
		text, err := catalog.StaticSource("## X\n")(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("## X\n"))
	})
})
