package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// commit and buildDate are injected at build time via -ldflags, mirroring
// version. They default to "unknown" in a plain `go build`.
var (
	commit    = "unknown"
	buildDate = "unknown"
)

// newVersionCmd prints build metadata from compile-time constants. Per
// spec.md §4.8, Version consults no provider besides display: it is pure
// output, no filesystem/network/process access.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the empack version, commit, and build date",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "empack version %s\n", rootCmd.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "commit:     %s\n", commit)
			fmt.Fprintf(cmd.OutOrStdout(), "build date: %s\n", buildDate)
			return nil
		},
	}
}

// vcsRevision reads the commit empack was built from out of the embedded
// module build info, used as a fallback when -ldflags didn't set commit.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}
	return "unknown"
}

func init() {
	if commit == "unknown" {
		commit = vcsRevision()
	}
}
