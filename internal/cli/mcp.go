package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/vialsort/internal/logging"
	"github.com/aretw0/vialsort/pkg/adapters/mcp"
	"github.com/prometheus/client_golang/prometheus"
)

// Supported MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// MCPOptions contains all the configuration for the mcp command.
type MCPOptions struct {
	StoreOptions
	Transport string
	Port      int // SSE only
	LogLevel  slog.Level

	// Input and Output carry JSON-RPC on the stdio transport.
	Input  io.Reader
	Output io.Writer
}

// NewMCPServer wires the game manager behind the MCP tools.
// The returned close function releases the store connection.
func NewMCPServer(opts StoreOptions, logger *slog.Logger) (*mcp.Server, func() error) {
	// Counters still drive the lifecycle hooks; there is no /metrics to scrape.
	mgr, closeFn := newGameManager(opts, logger, prometheus.NewRegistry())
	return mcp.NewServer(mgr, mcp.WithLogger(logger)), closeFn
}

// RunMCP serves games as MCP tools until ctx is cancelled or, on stdio, the
// input ends. Logs and system messages go to w, never to the JSON-RPC stream.
func RunMCP(ctx context.Context, opts MCPOptions, w io.Writer) error {
	if opts.Transport != TransportStdio && opts.Transport != TransportSSE {
		return fmt.Errorf("unknown transport %q (supported: %s, %s)", opts.Transport, TransportStdio, TransportSSE)
	}

	logger := logging.New(opts.LogLevel)
	srv, closeStore := NewMCPServer(opts.StoreOptions, logger)
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close game store", "err", err)
		}
	}()

	switch opts.Transport {
	case TransportSSE:
		printSystemMessage(w, "Starting vialsort MCP server (SSE) on port %d", opts.Port)
		if err := srv.ServeSSE(ctx, opts.Port); err != nil {
			return fmt.Errorf("mcp server error: %w", err)
		}
	default:
		printSystemMessage(w, "Starting vialsort MCP server (stdio)")
		if err := srv.ServeStdio(ctx, opts.Input, opts.Output); err != nil {
			return fmt.Errorf("mcp server error: %w", err)
		}
	}
	printSystemMessage(w, "MCP server stopped")
	return nil
}
