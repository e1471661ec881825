package cmd

import (
	"os"

	"github.com/inherent-design/empack/internal/command"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the empack application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "empack",
	Short: "Author, resolve, and build Minecraft modpacks",
	Long: `empack manages a Minecraft modpack project end to end: reconciling
empack.yml against the packwiz-managed pack.toml, resolving mod references
against Modrinth and CurseForge, rendering distribution templates, and
driving packwiz/mrpack-install/java to produce build artifacts.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles subcommands and flags.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "empack version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(command.ExitCode(err))
	}
}

// init is a special Go function that is executed when the package is initialized.
// It is used here to add subcommands to the root command.
func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRequirementsCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newCleanCmd())
}
