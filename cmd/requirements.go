package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/inherent-design/empack/internal/cli"
	"github.com/inherent-design/empack/internal/dispatch"
	pstrings "github.com/inherent-design/empack/pkg/strings"
)

func newRequirementsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "requirements",
		Short: "Check for packwiz, mrpack-install, and java on PATH",
	}
	dir := addWorkdirFlag(c)
	c.RunE = func(cmd *cobra.Command, args []string) error {
		sess := newLiveSession(cmd)
		result, err := dispatch.Execute(context.Background(), dispatch.Command{Kind: dispatch.KindRequirements}, sess, *dir)

		table := cli.NewPlainTableWriter(cmd.OutOrStdout())
		table.SetHeaders([]string{"tool", "available", "detail"})
		for _, r := range result.Requirements {
			available := "yes"
			if !r.Available {
				available = "no"
			}
			detail := pstrings.TruncateDescription(r.Detail, pstrings.DefaultDescriptionMaxLen)
			table.AppendRow([]string{r.Tool, available, detail})
		}
		table.Render()

		return err
	}
	return c
}
