package cmd

import (
	"context"
	"fmt"
	"time"

	"voice-of-kalki/internal/redisclient"
	"voice-of-kalki/internal/remotestore"

	"github.com/spf13/cobra"
)

// pingCmd checks connectivity to the configured backends.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping Redis and Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		fmt.Fprintf(out, "redis: %s\n", res)

		if cfg.Postgres.URL == "" {
			fmt.Fprintln(out, "postgres: not configured")
			return nil
		}
		db, err := remotestore.Connect(cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer db.Close()
		fmt.Fprintln(out, "postgres: ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
