package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inherent-design/empack/internal/dispatch"
)

func newSyncCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile empack.yml against the installed pack and apply the difference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := newLiveSession(cmd)
			result, err := dispatch.Execute(context.Background(), dispatch.Command{Kind: dispatch.KindSync}, sess, ".")

			plan := result.Plan
			if plan.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "already in sync")
				return err
			}
			for _, a := range plan.Additions {
				fmt.Fprintf(cmd.OutOrStdout(), "+ %s\n", a.Name)
			}
			for _, r := range plan.Removals {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", r)
			}
			for _, u := range plan.Updates {
				fmt.Fprintf(cmd.OutOrStdout(), "~ %s (%s)\n", u.Name, u.Version)
			}
			return err
		},
	}
	addCurseForgeFlag(c)
	return c
}
