// Package configcmder provides the config command for managing persistent
// kbmcp configuration stored in the .kbmcp/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent kbmcp configuration.

Configuration is stored as config.toml in the .kbmcp/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  backend.provider, backend.root,
  catalog.doc_id, catalog.path,
  corrections.doc_id, corrections.path,
  kb.core_docs,
  api.listen

Use subcommands to get, set, or list configuration values:
  kbmcp config set <key> <value>    Set a configuration value
  kbmcp config get <key>            Get a configuration value
  kbmcp config list                 List all configuration values

Examples:
  kbmcp config set backend.provider localdir
  kbmcp config set backend.root ./docs
  kbmcp config get catalog.doc_id
  kbmcp config list`

const configShortDesc string = "Manage persistent kbmcp configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
