package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	todomcp "github.com/valter-silva-au/pocket-todo/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the pocket-todo MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pocket-todo MCP server on stdio",
	Long: `Start the pocket-todo MCP server on stdio transport.

The server exposes the lists as MCP tools that AI assistants can call:
list_tasks, add_task, toggle_task, edit_task, delete_task and get_stats.
Changes the rich list would ask about need confirm=true.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Stores == nil {
			return fmt.Errorf("task stores not initialized")
		}
		variant, err := resolveVariant()
		if err != nil {
			return err
		}

		srv := todomcp.NewServer(Stores, variant, StatsCalc, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
