package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the demo graph over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		application, err := newApplication()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return application.Run(ctx)
	},
}
