package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inherent-design/empack/internal/dispatch"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [target]...",
		Short: "Remove staged build directories and artifacts (default: all targets)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := newLiveSession(cmd)
			result, err := dispatch.Execute(context.Background(), dispatch.Command{Kind: dispatch.KindClean, Targets: args}, sess, ".")
			for _, path := range result.Removed {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
			}
			return err
		},
	}
}
