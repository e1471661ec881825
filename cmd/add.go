package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inherent-design/empack/internal/dispatch"
)

func newAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add <query>...",
		Short: "Resolve and add one or more mods to the pack",
		Args:  cobra.MinimumNArgs(1),
	}
	dir := addWorkdirFlag(c)
	addCurseForgeFlag(c)
	c.RunE = func(cmd *cobra.Command, args []string) error {
		sess := newLiveSession(cmd)
		result, err := dispatch.Execute(context.Background(), dispatch.Command{Kind: dispatch.KindAdd, Queries: args}, sess, *dir)

		for _, r := range result.Resolutions {
			if r.Err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: not resolved (%v)\n", r.Query, r.Err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: added %s (%s, %s, confidence %.2f)\n",
				r.Query, r.Resolved.Slug, r.Resolved.Source, r.Resolved.SelectedVersion.VersionNumber, r.Resolved.Confidence)
		}
		return err
	}
	return c
}
