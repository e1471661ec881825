package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inherent-design/empack/internal/dispatch"
)

func newRemoveCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "remove <slug>...",
		Short: "Remove one or more mods from the pack",
		Args:  cobra.MinimumNArgs(1),
	}
	dir := addWorkdirFlag(c)
	c.RunE = func(cmd *cobra.Command, args []string) error {
		sess := newLiveSession(cmd)
		result, err := dispatch.Execute(context.Background(), dispatch.Command{Kind: dispatch.KindRemove, Slugs: args}, sess, *dir)
		for _, slug := range result.Removed {
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", slug)
		}
		return err
	}
	return c
}
