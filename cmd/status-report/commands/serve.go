package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/nahidhasan98/status-report-assistant/internal/config"
	"github.com/nahidhasan98/status-report-assistant/internal/handlers"
	"github.com/nahidhasan98/status-report-assistant/internal/server"
	"github.com/nahidhasan98/status-report-assistant/internal/tools"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over MCP",
		Long:  "Serves the status report tools to an MCP host over stdio (default) or streamable HTTP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			transport, _ := cmd.Flags().GetString("transport")

			var override func(*config.Config)
			if transport != "" {
				override = func(cfg *config.Config) { cfg.Server.Transport = transport }
			}

			a, err := newApp(override)
			if err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().String("transport", "", "Override MCP_TRANSPORT: stdio or http")

	return cmd
}

// serve runs the MCP server until the session ends, a service fails or a
// shutdown signal arrives
func (a *app) serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.log.With("transport", a.cfg.Server.Transport).Info("Starting status report assistant")

	mcpServer := tools.NewServer(a.toolset, version())
	errChan := make(chan error, 2)
	var wg sync.WaitGroup

	switch a.cfg.Server.Transport {
	case config.TransportHTTP:
		if err := a.startHTTP(ctx, &wg, mcpServer, errChan); err != nil {
			return err
		}
	default:
		a.startStdio(ctx, &wg, mcpServer, errChan)
	}

	return a.waitForShutdown(cancel, &wg, errChan)
}

// startStdio serves a single session on stdin/stdout. The session ends when
// the host closes stdin, which is reported on errChan as a nil error.
func (a *app) startStdio(ctx context.Context, wg *sync.WaitGroup, mcpServer *mcp.Server, errChan chan<- error) {
	wg.Go(func() {
		err := mcpServer.Run(ctx, &mcp.StdioTransport{})
		if err != nil && ctx.Err() == nil {
			errChan <- fmt.Errorf("stdio session failed: %w", err)
			return
		}
		errChan <- nil
	})
}

func (a *app) startHTTP(ctx context.Context, wg *sync.WaitGroup, mcpServer *mcp.Server, errChan chan<- error) error {
	httpHandler := handlers.New(a.cfg.Server.Transport, len(tools.Names()), a.log)
	httpServer := server.New(a.cfg, httpHandler, mcpServer, a.log)
	if err := httpServer.Start(errChan); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	wg.Go(func() {
		<-ctx.Done()
		a.log.Info("HTTP server shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.log.Error("Error during HTTP server shutdown", err)
		}
	})

	return nil
}

func (a *app) waitForShutdown(cancel context.CancelFunc, wg *sync.WaitGroup, errChan <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil {
			a.log.Error("Service failed", err)
			runErr = err
		} else {
			a.log.Info("MCP session closed by host")
		}
	case <-sigChan:
		a.log.Info("Received shutdown signal")
	}

	// Cancel context to signal goroutines to shutdown
	cancel()
	wg.Wait()

	a.log.Info("Status report assistant stopped")
	return runErr
}
