package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	clarifyserver "github.com/HendryAvila/clarify/internal/server"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the clarify MCP server (stdio transport)",
		Long: `Start the clarify MCP server on stdio. Add it to your AI tool's MCP config:

  {
    "mcpServers": {
      "clarify": {
        "command": "clarify",
        "args": ["mcp"]
      }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := clarifyserver.New(a.cfg, a.logger.Named("mcp"))
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.NewStdioServer(s).Listen(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
