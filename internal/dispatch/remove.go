package dispatch

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/inherent-design/empack/internal/command"
	"github.com/inherent-design/empack/internal/configbridge"
	"github.com/inherent-design/empack/internal/session"
	"github.com/inherent-design/empack/internal/state"
)

// handleRemove implements spec.md §4.8's Remove variant.
func handleRemove(ctx context.Context, cmd Command, acc session.Accessor, workdir string) (Result, error) {
	if err := requireState(acc, workdir, state.Configured, state.Built); err != nil {
		return Result{}, err
	}

	bridge := configbridge.New(acc.FileSystem(), workdir)
	cfg, doc, err := bridge.LoadEmpackConfig(ctx)
	if err != nil {
		return Result{}, err
	}

	mgr := state.NewManager(acc.FileSystem(), workdir)
	if err := mgr.Begin(ctx, state.StateTransition{Kind: state.TransitionSynchronize}); err != nil {
		return Result{}, err
	}

	var removed []string
	for _, slug := range cmd.Slugs {
		result, err := acc.Process().Execute(ctx, "packwiz", []string{"remove", slug}, filepath.Join(workdir, state.PackDir), nil)
		if err != nil {
			mgr.Rollback(ctx, err)
			return Result{}, &command.EnvironmentError{Message: "failed to launch packwiz", Cause: err}
		}
		if result.ExitCode != 0 {
			mgr.Rollback(ctx, nil)
			return Result{}, &command.BuildFailureError{Target: "remove", Message: "packwiz remove exited: " + result.Stderr}
		}

		cfg.Dependencies = filterOutSlug(cfg.Dependencies, slug)
		removed = append(removed, slug)
	}

	if err := bridge.SaveEmpackConfig(ctx, cfg, doc); err != nil {
		mgr.Rollback(ctx, err)
		return Result{}, err
	}
	mgr.RecordWrite(ctx, filepath.Join(workdir, state.IntentFile))
	if err := mgr.Complete(ctx); err != nil {
		return Result{}, err
	}

	return Result{Removed: removed}, nil
}

func filterOutSlug(deps []configbridge.ProjectSpec, slug string) []configbridge.ProjectSpec {
	target := strings.ToLower(slug)
	out := deps[:0]
	for _, d := range deps {
		if strings.ToLower(d.Name) == target || strings.ToLower(d.ProjectID) == target {
			continue
		}
		out = append(out, d)
	}
	return out
}
