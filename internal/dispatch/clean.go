package dispatch

import (
	"context"
	"path/filepath"

	buildpkg "github.com/inherent-design/empack/internal/build"
	"github.com/inherent-design/empack/internal/configbridge"
	"github.com/inherent-design/empack/internal/session"
	"github.com/inherent-design/empack/internal/state"
)

// handleClean implements spec.md §4.8's Clean variant: begin a Cleaning
// transition, remove each target's staging directory and terminal
// artifact, and commit.
func handleClean(ctx context.Context, cmd Command, acc session.Accessor, workdir string) (Result, error) {
	targets, err := buildpkg.ExpandCleanTargets(cmd.Targets)
	if err != nil {
		return Result{}, err
	}
	targetNames := make([]string, len(targets))
	for i, t := range targets {
		targetNames[i] = t.String()
	}

	mgr := state.NewManager(acc.FileSystem(), workdir)
	if err := mgr.Begin(ctx, state.StateTransition{Kind: state.TransitionCleaning, Targets: targetNames}); err != nil {
		return Result{}, err
	}

	current := state.DiscoverState(acc.FileSystem(), workdir)
	if current == state.Uninitialized {
		// Nothing on disk to clean; Cleaning{*} is a legal no-op here.
		if err := mgr.Complete(ctx); err != nil {
			return Result{}, err
		}
		return Result{}, nil
	}

	bridge := configbridge.New(acc.FileSystem(), workdir)
	pack, err := bridge.LoadPackConfig(ctx)
	if err != nil {
		mgr.Rollback(ctx, err)
		return Result{}, err
	}

	var removed []string
	for _, t := range targets {
		stageDir := filepath.Join(workdir, t.StageDir())
		if acc.FileSystem().Exists(stageDir) {
			if err := acc.FileSystem().RemoveDirAll(stageDir); err != nil {
				mgr.Rollback(ctx, err)
				return Result{}, err
			}
			removed = append(removed, stageDir)
		}

		artifact := filepath.Join(workdir, t.ArtifactPath(pack.Name))
		if acc.FileSystem().Exists(artifact) {
			if err := acc.FileSystem().RemoveFile(artifact); err != nil {
				mgr.Rollback(ctx, err)
				return Result{}, err
			}
			removed = append(removed, artifact)
		}
	}

	if err := mgr.Complete(ctx); err != nil {
		return Result{}, err
	}
	return Result{Removed: removed}, nil
}
