package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inherent-design/empack/internal/dispatch"
	"github.com/inherent-design/empack/internal/modloader"
)

func newInitCmd() *cobra.Command {
	var (
		name          string
		author        string
		version       string
		loaderName    string
		mcVersion     string
		loaderVersion string
		nonInteractive bool
	)

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a new packwiz-managed modpack project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}

			fields := dispatch.InitFields{
				Name: name, Author: author, Version: version,
				MCVersion: mcVersion, LoaderVersion: loaderVersion,
				Interactive: !nonInteractive, Dir: dir,
			}
			if loaderName != "" {
				loader, err := modloader.Parse(loaderName)
				if err != nil {
					return err
				}
				fields.ModLoader = &loader
			}

			sess := newLiveSession(cmd)
			_, err := dispatch.Execute(context.Background(), dispatch.Command{Kind: dispatch.KindInit, Init: fields}, sess, ".")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "initialized modpack project")
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "pack name (default: directory name)")
	c.Flags().StringVar(&author, "author", "", "pack author (default: git config user.name)")
	c.Flags().StringVar(&version, "version", "", "pack version (default: 0.1.0)")
	c.Flags().StringVar(&loaderName, "modloader", "", "mod loader: neoforge, fabric, forge, quilt, vanilla")
	c.Flags().StringVar(&mcVersion, "mc-version", "", "target Minecraft version")
	c.Flags().StringVar(&loaderVersion, "loader-version", "", "mod loader version")
	c.Flags().BoolVarP(&nonInteractive, "non-interactive", "y", false, "never prompt; missing values take their defaults")

	return c
}
