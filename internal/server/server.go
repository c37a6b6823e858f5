package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nahidhasan98/status-report-assistant/internal/config"
	"github.com/nahidhasan98/status-report-assistant/internal/handlers"
	"github.com/nahidhasan98/status-report-assistant/internal/logger"
	"github.com/nahidhasan98/status-report-assistant/internal/middleware"
)

// MCPPath is where the streamable HTTP transport is mounted
const MCPPath = "/mcp"

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	listener   net.Listener
	handler    *handlers.Handler
	mcpServer  *mcp.Server
	middleware *middleware.Middleware
	log        *logger.Logger
}

// New creates a new HTTP server exposing mcpServer
func New(cfg *config.Config, handler *handlers.Handler, mcpServer *mcp.Server, log *logger.Logger) *Server {
	mw := middleware.New(log, cfg.Security.RateLimitPerMinute)
	mw.SetAPIKeys(cfg.Security.APIKeys)
	mw.SetTrustProxy(cfg.Security.TrustProxy)

	return &Server{
		cfg:        cfg,
		handler:    handler,
		mcpServer:  mcpServer,
		middleware: mw,
		log:        log,
	}
}

// Handler returns the routed handler with the middleware chain applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("/health", s.handler.HealthCheck)
	mux.Handle(MCPPath, mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil))

	// Apply middleware chain
	handler := s.middleware.Recovery(mux)
	handler = s.middleware.Logging(handler)
	handler = s.middleware.Security(handler)
	handler = s.middleware.CORS(handler)
	handler = s.middleware.RateLimit(handler)
	handler = s.middleware.APIKeyAuth(handler)

	return handler
}

// Start binds the listen address and serves in the background.
// Serve errors other than a clean shutdown are sent to errChan.
func (s *Server) Start(errChan chan<- error) error {
	listener, err := net.Listen("tcp", s.cfg.Server.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.Address(), err)
	}
	s.listener = listener

	// WriteTimeout bounds the longest tool call, including an interactive
	// Gmail authorization
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.log.Infof("HTTP server listening on %s", listener.Addr())

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	return nil
}

// Addr returns the bound address once Start succeeded
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.log.Info("HTTP server shutdown complete")
	return nil
}
