package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inherent-design/empack/internal/providers/live"
	"github.com/inherent-design/empack/internal/session"
)

// addWorkdirFlag registers the --dir flag used by add, remove and
// requirements; it names the project root to operate on, defaulting to the
// current directory. build, clean, sync and init do not register it.
func addWorkdirFlag(c *cobra.Command) *string {
	return c.Flags().String("dir", ".", "project directory to operate on")
}

// newLiveSession builds a fully-live session from the environment/flag
// cascade. CLI flags layer on top of ConfigProvider's own env cascade here,
// since the only flag that currently overrides an AppConfig field is the
// CurseForge API key.
func newLiveSession(cmd *cobra.Command) *session.Live {
	cfg := live.NewConfigProvider().AppConfig()
	if key, err := cmd.Flags().GetString("curseforge-api-key"); err == nil && key != "" {
		cfg.CurseForgeAPIKey = key
	}
	return session.NewLive(cfg)
}

func addCurseForgeFlag(c *cobra.Command) {
	c.Flags().String("curseforge-api-key", "", "CurseForge API key (overrides EMPACK_CURSEFORGE_API_KEY)")
}
