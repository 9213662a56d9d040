package kbcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/cliui"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/convert"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/logger"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/render"
)

const readLongDesc string = `Read a document with its role framing.

Fetches the document from the configured backend, converts it to the
requested format, and prints it with the same role header and corrections
a connected assistant would receive. Output is rendered for the terminal
unless --plain is given.

Examples:
  kbmcp kb read brand-guide
  kbmcp kb read hip-hook-101 --format text
  kbmcp kb read brand-guide --plain`

const readShortDesc string = "Read a document with its role framing"

type readCommander struct {
	format string
	plain  bool
}

func newReadCmd() *cobra.Command {
	cmder := &readCommander{}

	cmd := &cobra.Command{
		Use:   "read <doc-id>",
		Short: readShortDesc,
		Long:  readLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			debug, _ := cmd.Flags().GetBool("debug")
			return cmder.run(args[0], configDir, debug)
		},
	}

	cmd.Flags().StringVarP(&cmder.format, "format", "f", "markdown", "Output format (text, markdown, html)")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Print raw markdown without terminal rendering")

	return cmd
}

func (c *readCommander) run(id, configDir string, debug bool) error {
	log := logger.NewLogger(debug)
	defer func() { _ = log.Sync() }()

	format, err := convert.ParseFormat(c.format)
	if err != nil {
		return err
	}

	k, err := buildKit(configDir, log)
	if err != nil {
		return err
	}
	defer k.close()

	ctx := context.Background()

	block, err := k.preloader.Fetch(ctx, id, format)
	if err != nil {
		return fmt.Errorf("reading %q: %w", id, err)
	}

	text := block.Text
	if corrections, ok := k.overlay.ForDocument(ctx, id); ok {
		text = render.AppendCorrections(text, corrections)
	}

	if c.plain || format != convert.FormatMarkdown {
		fmt.Println(text)
		return nil
	}

	rendered, err := cliui.RenderMarkdown(text)
	if err != nil {
		fmt.Println(text)
		return nil
	}
	fmt.Print(rendered)

	return nil
}
