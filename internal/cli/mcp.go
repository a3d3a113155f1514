package cli

import (
	"context"
	"fmt"

	"github.com/phrazzld/traffic-tasker/internal/app"
	"github.com/phrazzld/traffic-tasker/internal/mcp"
	"github.com/phrazzld/traffic-tasker/internal/output"
	"github.com/spf13/cobra"
)

func (c *cli) mcpCommand() *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the tasker MCP (Model Context Protocol) server.",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list as MCP tools on stdio",
		Long: `Serve the task list on the stdio transport. AI assistants can call
list_tasks, add_task, toggle_task, set_priority, delete_task and
get_advisory. Logs go to stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, true, func(ctx context.Context, a *app.App, _ *output.Printer) error {
				a.Start(ctx)
				srv := mcp.NewServer(a.Tracker, c.opts.Version, a.Logger)
				if err := srv.Run(ctx); err != nil {
					return fmt.Errorf("running MCP server: %w", err)
				}
				return nil
			})
		},
	}

	mcpCmd.AddCommand(serveCmd)
	return mcpCmd
}
