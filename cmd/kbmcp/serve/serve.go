// Package servecmder provides the serve command for running the MCP server
// over stdio (the default) or streamable HTTP.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alethainc/aletha-knowledge-base-mcp/api"
	"github.com/alethainc/aletha-knowledge-base-mcp/api/mcp"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/config"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/logger"
)

type ServeCommander struct {
	listen    string
	debug     bool
	configDir string
	logger    *zap.Logger
}

const serveLongDesc string = `Run the Aletha knowledge-base MCP server.

The default transport is stdio, which is what assistant runtimes expect:
  kbmcp serve

Use the http subcommand to serve MCP over streamable HTTP instead:
  kbmcp serve http --listen :8080

Configuration is read from config.toml in the .kbmcp/ directory, overridable
with KBMCP_* environment variables and CLI flags.`

const serveShortDesc string = "Run the MCP server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.fromFlags(cmd)
			return cmder.runStdio()
		},
	}

	httpCmd := &cobra.Command{
		Use:   "http",
		Short: "Serve MCP over streamable HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.fromFlags(cmd)
			return cmder.runHTTP()
		},
	}
	httpCmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on (default from config, :8080)")

	cmd.AddCommand(httpCmd)

	return cmd
}

func (c *ServeCommander) fromFlags(cmd *cobra.Command) {
	c.debug, _ = cmd.Flags().GetBool("debug")
	c.configDir, _ = cmd.Flags().GetString("config-dir")
}

// runStdio serves the MCP protocol on stdin/stdout until the runtime closes
// the stream.
func (c *ServeCommander) runStdio() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	server, cleanup, err := c.buildServer()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c.logger.Info("serving MCP over stdio")

	return server.Run(ctx, &sdkmcp.StdioTransport{})
}

// runHTTP serves the MCP protocol behind the fiber API server.
func (c *ServeCommander) runHTTP() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	server, cleanup, err := c.buildServer()
	if err != nil {
		return err
	}
	defer cleanup()

	listen := c.listen
	if listen == "" {
		listen = cfg.API.Listen
	}

	apiServer := api.NewServer(api.Config{ListenAddr: listen}, server, c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("api server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("shutting down", zap.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}

func (c *ServeCommander) loadConfig() (*config.Config, error) {
	v, err := config.InitViper(c.configDir)
	if err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}

	return config.FromViper(v), nil
}

func (c *ServeCommander) buildServer() (*mcp.Server, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	return buildServer(cfg, c.logger)
}
