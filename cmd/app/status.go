package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/osse101/ssbwatch/internal/channel"
)

func statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <handle> [handle...]",
		Short: "Poll channels once and print their normalized status as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := setup()
			if err != nil {
				return err
			}
			defer closeLog()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			poller := channel.NewService(
				channel.NewClient(cfg.KickAPIBaseURL, cfg.KickHTTPTimeout),
				channel.Config{MaxAttempts: cfg.KickMaxAttempts, InitialBackoff: cfg.KickInitialBackoff},
			)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(poller.Statuses(ctx, args...))
		},
	}
}
