package dispatch

import (
	"context"
	"fmt"

	"github.com/inherent-design/empack/internal/build"
	"github.com/inherent-design/empack/internal/command"
	"github.com/inherent-design/empack/internal/configbridge"
	"github.com/inherent-design/empack/internal/providers"
	"github.com/inherent-design/empack/internal/session"
	"github.com/inherent-design/empack/internal/state"
)

// RequirementStatus is one line of Requirements' tool diagnostic table.
type RequirementStatus struct {
	Tool      string
	Available bool
	Detail    string
}

// ResolutionResult is one Add query's outcome, surfaced to the caller so
// the CLI can print confidence/source per spec.md's supplemented feature.
type ResolutionResult struct {
	Query    string
	Resolved *providers.ResolvedProject
	Err      error
}

// Result carries whichever of its fields is relevant to the Command that
// was executed; the rest are left zero.
type Result struct {
	Requirements []RequirementStatus
	Resolutions  []ResolutionResult
	Plan         configbridge.ProjectPlan
	BuildResults []build.Result
	Removed      []string
}

// Execute is the single seam between the CLI surface and empack's core
// (spec.md §4.2): every command's RunE except version's constructs a
// Command and a Session and calls Execute. workdir is the project root being
// operated on.
func Execute(ctx context.Context, cmd Command, acc session.Accessor, workdir string) (Result, error) {
	mgr := state.NewManager(acc.FileSystem(), workdir)
	if err := mgr.RecoverIncomplete(ctx); err != nil {
		return Result{}, err
	}

	switch cmd.Kind {
	case KindRequirements:
		return handleRequirements(ctx, acc)
	case KindInit:
		return handleInit(ctx, cmd, acc, workdir)
	case KindAdd:
		return handleAdd(ctx, cmd, acc, workdir)
	case KindRemove:
		return handleRemove(ctx, cmd, acc, workdir)
	case KindSync:
		return handleSync(ctx, acc, workdir)
	case KindBuild:
		return handleBuild(ctx, cmd, acc, workdir)
	case KindClean:
		return handleClean(ctx, cmd, acc, workdir)
	default:
		return Result{}, &command.InternalError{Message: fmt.Sprintf("unhandled command kind %d", cmd.Kind)}
	}
}

// requireState errors with a StateError unless the project's discovered
// state is one of allowed.
func requireState(acc session.Accessor, workdir string, allowed ...state.ProjectState) error {
	current := state.DiscoverState(acc.FileSystem(), workdir)
	for _, s := range allowed {
		if current == s {
			return nil
		}
	}
	return &command.StateError{Message: fmt.Sprintf("this command requires state %v, found %s", allowed, current)}
}
