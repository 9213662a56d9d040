package kbcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/cliui"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/logger"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/roles"
)

const mapLongDesc string = `Show the knowledge base map.

Parses the configured catalog source and displays core documents grouped by
category, with the role each category carries. Pass --raw to print the
catalog markdown unparsed.

Examples:
  kbmcp kb map
  kbmcp kb map --raw`

const mapShortDesc string = "Show the knowledge base map"

type mapCommander struct {
	raw bool
}

func newMapCmd() *cobra.Command {
	cmder := &mapCommander{}

	cmd := &cobra.Command{
		Use:   "map",
		Short: mapShortDesc,
		Long:  mapLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			debug, _ := cmd.Flags().GetBool("debug")
			return cmder.run(configDir, debug)
		},
	}

	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print the catalog markdown unparsed")

	return cmd
}

func (c *mapCommander) run(configDir string, debug bool) error {
	log := logger.NewLogger(debug)
	defer func() { _ = log.Sync() }()

	k, err := buildKit(configDir, log)
	if err != nil {
		return err
	}
	defer k.close()

	ctx := context.Background()

	if c.raw {
		if k.source == nil {
			fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No catalog source configured."))
			return nil
		}
		text, err := k.source(ctx)
		if err != nil {
			return fmt.Errorf("reading catalog: %w", err)
		}
		fmt.Println(text)
		return nil
	}

	index := k.catalog.Index(ctx)
	if index.Len() == 0 {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No catalog configured or catalog is empty."))
		return nil
	}

	fmt.Println()
	for _, category := range index.Categories() {
		fmt.Printf("  %s", cliui.HeaderStyle.Render(category))
		if d, ok := roles.ForCategory(category); ok {
			fmt.Printf("  %s", cliui.RoleStyle.Render("["+d.Label+"]"))
		}
		fmt.Println()

		for _, entry := range index.Entries(category) {
			if entry.Title != "" {
				fmt.Printf("    %s  %s\n", cliui.KeyStyle.Render(entry.ID), cliui.ValueStyle.Render(entry.Title))
			} else {
				fmt.Printf("    %s\n", cliui.KeyStyle.Render(entry.ID))
			}
		}
		fmt.Println()
	}

	return nil
}
