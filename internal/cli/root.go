package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := serveCmd()

	cmd := &cobra.Command{
		Use:          "unic-leads",
		Short:        "Courier application service: lead capture, relay and back-office worker",
		SilenceUsage: true,
		// no subcommand means serve
		RunE: serve.RunE,
	}
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(workerCmd())
	cmd.AddCommand(checkEnvCmd())
	return cmd
}
