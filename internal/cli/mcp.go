package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	devclub "github.com/senacirak/DEU-DevClubGames"
	"github.com/senacirak/DEU-DevClubGames/pkg/adapters/mcp"
)

// Supported MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// MCPOptions configures the mcp command.
type MCPOptions struct {
	Dir       string
	Transport string
	Port      int
}

// ServeMCP exposes the catalog as MCP tools over the chosen transport.
func ServeMCP(ctx context.Context, opts MCPOptions, logger *slog.Logger) error {
	eng, err := createEngine(ctx, opts.Dir, logger)
	if err != nil {
		return err
	}
	srv := mcp.NewServer(eng.Catalog, mcp.WithLogger(logger), mcp.WithVersion(devclub.Version))

	switch opts.Transport {
	case TransportStdio:
		// Logs already go to stderr, so JSON-RPC on stdout stays clean.
		logger.Info("Starting DevClub MCP Server (Stdio)", "stories", eng.Catalog.Len())
		if err := srv.ServeStdio(); err != nil {
			return fmt.Errorf("MCP server execution failed: %w", err)
		}
		return nil
	case TransportSSE:
		logger.Info("Starting DevClub MCP Server (SSE)", "port", opts.Port, "stories", eng.Catalog.Len())
		if err := srv.ServeSSE(ctx, opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("MCP server execution failed: %w", err)
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	}
	return fmt.Errorf("unknown transport: %s (supported: %s, %s)", opts.Transport, TransportStdio, TransportSSE)
}
