package main

import (
	"context"

	"github.com/aretw0/vialsort/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP game server",
	Long:  `Serves games over a JSON API. Games live in memory, or in Redis when --redis-addr is set.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logLevel(cmd)
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis-addr")
		redisPassword, _ := cmd.Flags().GetString("redis-password")
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("game-ttl")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.RunServe(ctx, cli.ServeOptions{
			StoreOptions: cli.StoreOptions{
				RedisAddr:     redisAddr,
				RedisPassword: redisPassword,
				RedisDB:       redisDB,
				GameTTL:       ttl,
			},
			Addr:     ":" + port,
			LogLevel: level,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis-addr", "", "Redis address for game storage (default: in memory)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database number")
	serveCmd.Flags().Duration("game-ttl", 0, "Expire idle games after this long (Redis only, 0 keeps them)")
}
