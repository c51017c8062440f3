package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/internal/demo"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Resolve the demo graph and print it",
	RunE:  runGraph,
}

func runGraph(cmd *cobra.Command, _ []string) error {
	application, err := newApplication()
	if err != nil {
		return err
	}
	if err := application.Boot(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	root, err := container.Resolve[*demo.Root](application.Container)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	fmt.Fprintln(out, root)

	first, err := container.Resolve[*demo.Leaf](application.Container)
	if err != nil {
		return fmt.Errorf("resolving leaf: %w", err)
	}
	second, err := container.Resolve[*demo.Leaf](application.Container)
	if err != nil {
		return fmt.Errorf("resolving leaf: %w", err)
	}
	fmt.Fprintf(out, "transient leaves: %s %s\n", first, second)

	_, err = container.Resolve[*demo.Ia](application.Container)
	switch {
	case errors.Is(err, container.ErrCircularDependency):
		fmt.Fprintf(out, "constructor cycle rejected: %v\n", err)
	case err != nil:
		return err
	default:
		return errors.New("constructor cycle Ia -> Ib -> Ia resolved unexpectedly")
	}
	return nil
}
