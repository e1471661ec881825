package dispatch

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/inherent-design/empack/internal/command"
	"github.com/inherent-design/empack/internal/configbridge"
	"github.com/inherent-design/empack/internal/modloader"
	"github.com/inherent-design/empack/internal/session"
	"github.com/inherent-design/empack/internal/state"
	"github.com/inherent-design/empack/internal/template"
)

const defaultInitVersion = "0.1.0"

// handleInit implements spec.md §4.8's Init variant. Neither this handler
// nor the cmd/ layer prompts the user, whatever cmd.Init.Interactive says:
// every field not supplied by a flag is filled with its default below.
func handleInit(ctx context.Context, cmd Command, acc session.Accessor, workdir string) (Result, error) {
	targetDir := workdir
	if cmd.Init.Dir != "" {
		targetDir = cmd.Init.Dir
		if !acc.FileSystem().Exists(targetDir) {
			if err := acc.FileSystem().CreateDirAll(targetDir); err != nil {
				return Result{}, &command.EnvironmentError{Message: "failed to create " + targetDir, Cause: err}
			}
		}
	}

	if err := requireState(acc, targetDir, state.Uninitialized); err != nil {
		return Result{}, err
	}

	name := cmd.Init.Name
	if name == "" {
		name = filepath.Base(targetDir)
		if name == "." || name == "/" {
			if cwd, err := acc.FileSystem().CurrentDir(); err == nil {
				name = filepath.Base(cwd)
			}
		}
	}

	author := cmd.Init.Author
	if author == "" {
		author = gitConfigValue(ctx, acc, targetDir, "user.name")
	}
	if author == "" {
		author = "unknown"
	}

	version := cmd.Init.Version
	if version == "" {
		version = defaultInitVersion
	}

	loader := modloader.DefaultPriority()[0]
	if cmd.Init.ModLoader != nil {
		loader = *cmd.Init.ModLoader
	}

	mcVersion := cmd.Init.MCVersion
	loaderVersion := cmd.Init.LoaderVersion

	mgr := state.NewManager(acc.FileSystem(), targetDir)
	transition := state.StateTransition{
		Kind: state.TransitionInitialize,
		Initialize: state.InitializeParams{
			Name: name, Author: author, Version: version,
			ModLoader: loader, MinecraftVersion: mcVersion, LoaderVersion: loaderVersion,
		},
	}
	if err := mgr.Begin(ctx, transition); err != nil {
		return Result{}, err
	}

	reg, err := template.NewRegistry()
	if err != nil {
		mgr.Rollback(ctx, err)
		return Result{}, &command.InternalError{Message: "failed to load dev templates", Cause: err}
	}

	tmplCtx := map[string]interface{}{
		"PACK_NAME":         name,
		"PACK_AUTHOR":       author,
		"PACK_VERSION":      version,
		"MINECRAFT_VERSION": mcVersion,
		"LOADER":            loader.String(),
		"LOADER_VERSION":    loaderVersion,
	}
	for _, tname := range reg.Names(template.CategoryDev) {
		rendered, err := reg.Render(template.CategoryDev, tname, tmplCtx)
		if err != nil {
			mgr.Rollback(ctx, err)
			return Result{}, err
		}
		dest := filepath.Join(targetDir, template.OutputName(tname))
		if err := acc.FileSystem().WriteFile(ctx, dest, []byte(rendered)); err != nil {
			mgr.Rollback(ctx, err)
			return Result{}, &command.EnvironmentError{Message: "failed to write " + dest, Cause: err}
		}
		mgr.RecordWrite(ctx, dest)
	}

	args := []string{"init", "-y", "--name", name, "--author", author, "--version", version}
	if mcVersion != "" {
		args = append(args, "--mc-version", mcVersion)
	}
	if loader != modloader.Vanilla {
		args = append(args, "--modloader", loader.String())
		if loaderVersion != "" {
			args = append(args, "--"+loader.PackwizFlag(), loaderVersion)
		}
	}
	result, err := acc.Process().Execute(ctx, "packwiz", args, targetDir, nil)
	if err != nil {
		mgr.Rollback(ctx, err)
		return Result{}, &command.EnvironmentError{Message: "failed to launch packwiz init", Cause: err}
	}
	if result.ExitCode != 0 {
		mgr.Rollback(ctx, err)
		return Result{}, &command.BuildFailureError{Target: "init", Message: "packwiz init exited " + result.Stderr}
	}

	bridge := configbridge.New(acc.FileSystem(), targetDir)
	cfg := configbridge.NewEmpackConfig(name, author, version, mcVersion, loader.String(), loaderVersion)
	if err := bridge.SaveEmpackConfig(ctx, cfg, nil); err != nil {
		mgr.Rollback(ctx, err)
		_ = acc.FileSystem().RemoveDirAll(filepath.Join(targetDir, state.PackDir))
		return Result{}, err
	}
	mgr.RecordWrite(ctx, filepath.Join(targetDir, state.IntentFile))

	if err := mgr.Complete(ctx); err != nil {
		return Result{}, err
	}
	return Result{}, nil
}

// gitConfigValue reads a single git config key via ProcessProvider, since
// the core never reads the OS environment or files outside the providers.
// An unset or failing git config yields an empty string, which the caller
// treats as "fall through to the next default."
func gitConfigValue(ctx context.Context, acc session.Accessor, cwd, key string) string {
	result, err := acc.Process().Execute(ctx, "git", []string{"config", key}, cwd, nil)
	if err != nil || result.ExitCode != 0 {
		return ""
	}
	return strings.TrimSpace(result.Stdout)
}
