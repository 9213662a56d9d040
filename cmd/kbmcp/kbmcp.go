// Package kbmcpcmder
package kbmcpcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/alethainc/aletha-knowledge-base-mcp/cmd/kbmcp/config"
	kbcmder "github.com/alethainc/aletha-knowledge-base-mcp/cmd/kbmcp/kb"
	servecmder "github.com/alethainc/aletha-knowledge-base-mcp/cmd/kbmcp/serve"
	versioncmder "github.com/alethainc/aletha-knowledge-base-mcp/cmd/version"
)

const kbmcpLongDesc string = `kbmcp serves the Aletha Health knowledge base to AI assistants over MCP.

Run the server using:
  kbmcp serve          Serve MCP over stdio (for assistant runtimes)
  kbmcp serve http     Serve MCP over streamable HTTP

Inspect the knowledge base using:
  kbmcp kb map         Show the knowledge-base map
  kbmcp kb read <id>   Read one document with its role annotation`

const kbmcpShortDesc string = "kbmcp - Aletha Knowledge Base MCP server"

func NewKbmcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kbmcp",
		Short: kbmcpShortDesc,
		Long:  kbmcpLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .kbmcp/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(kbcmder.NewKBCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
