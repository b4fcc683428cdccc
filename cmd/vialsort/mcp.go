package main

import (
	"context"

	"github.com/aretw0/vialsort/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Serves games as MCP tools so AI agents can play them.

Tools: new_game, get_game, pour, add_vial, undo.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logLevel(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		redisAddr, _ := cmd.Flags().GetString("redis-addr")
		redisPassword, _ := cmd.Flags().GetString("redis-password")
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("game-ttl")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		// stdout belongs to JSON-RPC on stdio.
		return cli.RunMCP(ctx, cli.MCPOptions{
			StoreOptions: cli.StoreOptions{
				RedisAddr:     redisAddr,
				RedisPassword: redisPassword,
				RedisDB:       redisDB,
				GameTTL:       ttl,
			},
			Transport: transport,
			Port:      port,
			LogLevel:  level,
			Input:     cmd.InOrStdin(),
			Output:    cmd.OutOrStdout(),
		}, cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", cli.TransportStdio, "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("redis-addr", "", "Redis address for game storage (default: in memory)")
	mcpCmd.Flags().String("redis-password", "", "Redis password")
	mcpCmd.Flags().Int("redis-db", 0, "Redis database number")
	mcpCmd.Flags().Duration("game-ttl", 0, "Expire idle games after this long (Redis only, 0 keeps them)")
}
