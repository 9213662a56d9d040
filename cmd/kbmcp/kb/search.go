package kbcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/cliui"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/logger"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
)

const searchLongDesc string = `Search the document repository.

Runs the same search connected assistants use through the search_docs tool,
against the configured backend.

Use --quiet to output only document IDs, one per line. This is useful for
piping into other commands like kbmcp kb read.

Examples:
  kbmcp kb search "hip flexor"
  kbmcp kb search "brand voice" --type document
  kbmcp kb search "release" --max 5
  kbmcp kb read $(kbmcp kb search "brand voice" --quiet --max 1)`

const searchShortDesc string = "Search the document repository"

type searchCommander struct {
	fileType   string
	maxResults int
	quiet      bool
}

func newSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			debug, _ := cmd.Flags().GetBool("debug")
			return cmder.run(args[0], configDir, debug)
		},
	}

	cmd.Flags().StringVarP(&cmder.fileType, "type", "t", "", "Restrict results to a file type (document, spreadsheet, pdf, presentation)")
	cmd.Flags().IntVarP(&cmder.maxResults, "max", "m", 20, "Maximum number of results")
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only document IDs, one per line (for piping)")

	return cmd
}

func (c *searchCommander) run(query, configDir string, debug bool) error {
	log := logger.NewLogger(debug)
	defer func() { _ = log.Sync() }()

	fileType := repository.FileType(c.fileType)
	switch fileType {
	case "", repository.FileTypeAll, repository.FileTypeDocument,
		repository.FileTypeSpreadsheet, repository.FileTypePDF, repository.FileTypePresentation:
	default:
		return fmt.Errorf("unsupported file type %q", c.fileType)
	}

	k, err := buildKit(configDir, log)
	if err != nil {
		return err
	}
	defer k.close()

	ctx := context.Background()

	driver, err := k.lazy.Get(ctx)
	if err != nil {
		return fmt.Errorf("connecting to backend: %w", err)
	}

	results, err := driver.Search(ctx, repository.Query{
		Text:       query,
		FileType:   fileType,
		MaxResults: c.maxResults,
	})
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if c.quiet {
		for _, r := range results {
			fmt.Println(r.ID)
		}
		return nil
	}

	if len(results) == 0 {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No results."))
		return nil
	}

	fmt.Println()
	for _, r := range results {
		fmt.Printf("  %s  %s", cliui.KeyStyle.Render(r.ID), cliui.ValueStyle.Render(r.Name))
		if category, ok := k.catalog.Index(ctx).Category(r.ID); ok {
			fmt.Printf("  %s", cliui.DimStyle.Render(category))
		}
		fmt.Println()
	}
	fmt.Println()

	return nil
}
