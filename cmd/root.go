package cmd

import (
	"github.com/spf13/cobra"

	"github.com/km-arc/go-inject/framework/app"
	"github.com/km-arc/go-inject/internal/demo"
)

var (
	version  = "dev"
	envFiles []string
)

var rootCmd = &cobra.Command{
	Use:           "inject-demo",
	Short:         "Resolve a demo object graph with the injection container",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&envFiles, "env-file", "e", nil,
		"env files to load (default: .env)")

	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(serveCmd)
}

// SetVersion sets the version string shown by --version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newApplication builds the application with the demo provider registered.
func newApplication() (*app.Application, error) {
	application, err := app.New(envFiles)
	if err != nil {
		return nil, err
	}
	if err := application.Register(&demo.Provider{}); err != nil {
		return nil, err
	}
	return application, nil
}
