// Package api provides the HTTP serving mode: a fiber app exposing the MCP
// streamable endpoint plus a health check.
package api

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	kbmcp "github.com/alethainc/aletha-knowledge-base-mcp/api/mcp"
)

// Config holds the API server settings.
type Config struct {
	// ListenAddr is the address the server listens on, e.g. ":8080".
	ListenAddr string
}

// Server wraps the MCP server in an HTTP listener.
type Server struct {
	config Config
	logger *zap.Logger
	app    *fiber.App
}

// NewServer mounts the MCP handler at /mcp and a health check at /ping.
func NewServer(config Config, mcpServer *kbmcp.Server, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)
	app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))

	return s
}

// Run starts the server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting knowledge-base API server",
		zap.String("listen", s.config.ListenAddr),
	)

	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
