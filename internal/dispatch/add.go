package dispatch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/inherent-design/empack/internal/command"
	"github.com/inherent-design/empack/internal/configbridge"
	"github.com/inherent-design/empack/internal/modloader"
	"github.com/inherent-design/empack/internal/providers"
	"github.com/inherent-design/empack/internal/resolver"
	"github.com/inherent-design/empack/internal/session"
	"github.com/inherent-design/empack/internal/state"
)

// handleAdd implements spec.md §4.8's Add variant.
func handleAdd(ctx context.Context, cmd Command, acc session.Accessor, workdir string) (Result, error) {
	if err := requireState(acc, workdir, state.Configured, state.Built); err != nil {
		return Result{}, err
	}

	bridge := configbridge.New(acc.FileSystem(), workdir)
	cfg, doc, err := bridge.LoadEmpackConfig(ctx)
	if err != nil {
		return Result{}, err
	}
	pack, err := bridge.LoadPackConfig(ctx)
	if err != nil {
		return Result{}, err
	}

	loader, _ := modloader.Parse(pack.Loader)
	families := compatibleFamilyNames(loader, pack.MinecraftVersion)
	resolver := acc.Network().ProjectResolver()

	var resolutions []ResolutionResult
	var unresolved []string

	mgr := state.NewManager(acc.FileSystem(), workdir)
	var transitionOpen bool
	openTransition := func() error {
		if transitionOpen {
			return nil
		}
		if err := mgr.Begin(ctx, state.StateTransition{Kind: state.TransitionSynchronize}); err != nil {
			return err
		}
		transitionOpen = true
		return nil
	}

	for _, query := range cmd.Queries {
		intent := parseQueryIntent(query)
		results, errs := resolver.Resolve(ctx, intent, pack.MinecraftVersion, families)
		if len(results) == 0 {
			var queryErr error = errors.New("no match found")
			if len(errs) > 0 {
				// Preserve the underlying error chain (which may carry a
				// *providers.NetError) rather than flattening it to a
				// string, so the aggregate error below can tell a genuine
				// no-match apart from a registry/network failure.
				queryErr = fmt.Errorf("%s: %w", "no match found", errs[0])
			}
			resolutions = append(resolutions, ResolutionResult{Query: query, Err: queryErr})
			unresolved = append(unresolved, query)
			continue
		}

		if len(errs) > 0 {
			status := acc.Display().Status()
			for _, e := range errs {
				status.Warn(e.Error())
			}
		}

		best := results[0]
		if err := openTransition(); err != nil {
			return Result{Resolutions: resolutions}, err
		}

		registryArg := "modrinth"
		if best.Source == providers.SourceCurseForge {
			registryArg = "curseforge"
		}
		args := []string{registryArg, "add", best.ProjectID}
		if best.SelectedVersion.VersionNumber != "" {
			args = append(args, "--version", best.SelectedVersion.VersionNumber)
		}
		result, err := acc.Process().Execute(ctx, "packwiz", args, filepath.Join(workdir, state.PackDir), nil)
		if err != nil {
			mgr.Rollback(ctx, err)
			return Result{Resolutions: resolutions}, &command.EnvironmentError{Message: "failed to launch packwiz", Cause: err}
		}
		if result.ExitCode != 0 {
			mgr.Rollback(ctx, nil)
			return Result{Resolutions: resolutions}, &command.BuildFailureError{Target: "add", Message: "packwiz " + registryArg + " add exited: " + result.Stderr}
		}

		cfg.Dependencies = append(cfg.Dependencies, configbridge.ProjectSpec{
			Name:      best.Slug,
			Version:   best.SelectedVersion.VersionNumber,
			ProjectID: best.ProjectID,
			Source:    best.Source.String(),
		})
		resolutions = append(resolutions, ResolutionResult{Query: query, Resolved: &best})
	}

	if transitionOpen {
		if err := bridge.SaveEmpackConfig(ctx, cfg, doc); err != nil {
			mgr.Rollback(ctx, err)
			return Result{Resolutions: resolutions}, err
		}
		mgr.RecordWrite(ctx, filepath.Join(workdir, state.IntentFile))
		if err := mgr.Complete(ctx); err != nil {
			return Result{Resolutions: resolutions}, err
		}
	}

	if len(unresolved) > 0 {
		if cause := environmentCause(resolutions); cause != nil {
			return Result{Resolutions: resolutions}, &command.EnvironmentError{Message: "could not resolve: " + strings.Join(unresolved, ", "), Cause: cause}
		}
		return Result{Resolutions: resolutions}, &command.UserInputError{Message: "could not resolve: " + strings.Join(unresolved, ", ")}
	}
	return Result{Resolutions: resolutions}, nil
}

// environmentCause reports the first unresolved query's error that stems
// from a registry/network failure (per spec.md §7's Environment category)
// rather than a genuine no-match, so handleAdd can surface the correct
// exit code instead of always treating "nothing resolved" as user error.
func environmentCause(resolutions []ResolutionResult) error {
	for _, r := range resolutions {
		if r.Err == nil {
			continue
		}
		var netErr *providers.NetError
		if errors.As(r.Err, &netErr) {
			return r.Err
		}
		if errors.Is(r.Err, resolver.ErrAllRegistriesUnavailable) {
			return r.Err
		}
	}
	return nil
}

// parseQueryIntent recognizes a "modrinth:<id>" or "cf:<id>" prefix as an
// exact registry id lookup; anything else is a fuzzy search, per spec.md
// §4.8's "fuzzy unless a registry id prefix is used."
func parseQueryIntent(query string) providers.SearchIntent {
	if rest, ok := strings.CutPrefix(query, "modrinth:"); ok {
		return providers.ExactIDIntent(rest, providers.SourceModrinth)
	}
	if rest, ok := strings.CutPrefix(query, "mr:"); ok {
		return providers.ExactIDIntent(rest, providers.SourceModrinth)
	}
	if rest, ok := strings.CutPrefix(query, "curseforge:"); ok {
		return providers.ExactIDIntent(rest, providers.SourceCurseForge)
	}
	if rest, ok := strings.CutPrefix(query, "cf:"); ok {
		return providers.ExactIDIntent(rest, providers.SourceCurseForge)
	}
	return providers.FuzzyIntent(query)
}

func compatibleFamilyNames(loader modloader.ModLoader, mcVersion string) []string {
	families := modloader.CompatibleFamilies(loader, mcVersion)
	names := make([]string, len(families))
	for i, f := range families {
		names[i] = f.String()
	}
	return names
}
