// Command punchclock is the operator CLI for the punch clock backend.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "punchclock",
	Short:         "Operate the punch clock backend: recalculate time cards, mint access tokens.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine; the environment may already be set.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.AddCommand(newRecalculateCmd())
	rootCmd.AddCommand(newTokenCmd())
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
