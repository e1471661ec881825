package dispatch

import (
	"context"

	buildpkg "github.com/inherent-design/empack/internal/build"
	"github.com/inherent-design/empack/internal/session"
)

// handleBuild implements spec.md §4.8's Build variant by delegating to the
// Build Orchestrator (§4.7).
func handleBuild(ctx context.Context, cmd Command, acc session.Accessor, workdir string) (Result, error) {
	targets, err := buildpkg.ExpandTargets(cmd.Targets)
	if err != nil {
		return Result{}, err
	}

	failFast := true
	if cmd.FailFast != nil {
		failFast = *cmd.FailFast
	}

	results, err := buildpkg.Run(ctx, acc, workdir, targets, buildpkg.Options{FailFast: failFast})
	return Result{BuildResults: results}, err
}
