package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inherent-design/empack/internal/dispatch"
)

func newBuildCmd() *cobra.Command {
	var noFailFast bool

	c := &cobra.Command{
		Use:   "build [target]...",
		Short: "Build one or more distribution targets (mrpack, client, server, client-full, server-full)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdSpec := dispatch.Command{Kind: dispatch.KindBuild, Targets: args}
			if noFailFast {
				v := false
				cmdSpec.FailFast = &v
			}

			sess := newLiveSession(cmd)
			result, err := dispatch.Execute(context.Background(), cmdSpec, sess, ".")

			for _, r := range result.BuildResults {
				if r.Err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: FAILED (%v)\n", r.Target, r.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: built %s\n", r.Target, r.ArtifactPath)
			}
			return err
		},
	}

	c.Flags().BoolVar(&noFailFast, "no-fail-fast", false, "keep building remaining targets after one fails")
	return c
}
