package dispatch

import (
	"context"
	"path/filepath"

	"github.com/inherent-design/empack/internal/command"
	"github.com/inherent-design/empack/internal/configbridge"
	"github.com/inherent-design/empack/internal/session"
	"github.com/inherent-design/empack/internal/state"
)

// handleSync implements spec.md §4.8's Sync variant: compute a
// ProjectPlan, then apply additions, removals, and updates in that order.
func handleSync(ctx context.Context, acc session.Accessor, workdir string) (Result, error) {
	if err := requireState(acc, workdir, state.Configured, state.Built); err != nil {
		return Result{}, err
	}

	bridge := configbridge.New(acc.FileSystem(), workdir)
	cfg, _, err := bridge.LoadEmpackConfig(ctx)
	if err != nil {
		return Result{}, err
	}
	installedSlugs, err := bridge.InstalledSlugs(ctx)
	if err != nil {
		return Result{}, err
	}

	plan := configbridge.Reconcile(cfg, installedSlugs)
	if plan.IsEmpty() {
		return Result{Plan: plan}, nil
	}

	mgr := state.NewManager(acc.FileSystem(), workdir)
	if err := mgr.Begin(ctx, state.StateTransition{Kind: state.TransitionSynchronize}); err != nil {
		return Result{}, err
	}

	packDir := filepath.Join(workdir, state.PackDir)
	for _, spec := range plan.Additions {
		if err := applyProjectSpec(ctx, acc, packDir, spec); err != nil {
			mgr.Rollback(ctx, err)
			return Result{Plan: plan}, err
		}
	}
	for _, slug := range plan.Removals {
		result, err := acc.Process().Execute(ctx, "packwiz", []string{"remove", slug}, packDir, nil)
		if err != nil {
			mgr.Rollback(ctx, err)
			return Result{Plan: plan}, &command.EnvironmentError{Message: "failed to launch packwiz", Cause: err}
		}
		if result.ExitCode != 0 {
			mgr.Rollback(ctx, nil)
			return Result{Plan: plan}, &command.BuildFailureError{Target: "sync", Message: "packwiz remove exited: " + result.Stderr}
		}
	}
	for _, spec := range plan.Updates {
		if err := applyProjectSpec(ctx, acc, packDir, spec); err != nil {
			mgr.Rollback(ctx, err)
			return Result{Plan: plan}, err
		}
	}

	if err := mgr.Complete(ctx); err != nil {
		return Result{Plan: plan}, err
	}
	return Result{Plan: plan}, nil
}

// applyProjectSpec runs the packwiz add invocation that installs or updates
// one dependency. Registry defaults to "mr" when the empack.yml entry
// doesn't pin a source, since most dependencies are declared by name only.
func applyProjectSpec(ctx context.Context, acc session.Accessor, packDir string, spec configbridge.ProjectSpec) error {
	registryArg := "mr"
	if spec.Source == "curseforge" {
		registryArg = "cf"
	}
	id := spec.ProjectID
	if id == "" {
		id = spec.Name
	}
	args := []string{registryArg, "add", id}
	if spec.Version != "" {
		args = append(args, "--version", spec.Version)
	}
	result, err := acc.Process().Execute(ctx, "packwiz", args, packDir, nil)
	if err != nil {
		return &command.EnvironmentError{Message: "failed to launch packwiz", Cause: err}
	}
	if result.ExitCode != 0 {
		return &command.BuildFailureError{Target: "sync", Message: "packwiz " + registryArg + " add exited: " + result.Stderr}
	}
	return nil
}
