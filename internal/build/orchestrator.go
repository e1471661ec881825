package build

import (
	"context"
	"path/filepath"

	"github.com/inherent-design/empack/internal/command"
	"github.com/inherent-design/empack/internal/configbridge"
	"github.com/inherent-design/empack/internal/session"
	"github.com/inherent-design/empack/internal/state"
	"github.com/inherent-design/empack/internal/template"
	"github.com/inherent-design/empack/pkg/logging"
)

// Options configures one Build invocation.
type Options struct {
	// FailFast stops at the first failing target instead of continuing
	// through the rest, per spec.md §4.7. Default true.
	FailFast bool
}

// Result is the outcome of building one target.
type Result struct {
	Target       Target
	ArtifactPath string
	Err          error
}

// Run executes targets in execution order against workdir, per spec.md
// §4.7. Pre-condition: discover_state(workdir) is Configured or Built.
func Run(ctx context.Context, acc session.Accessor, workdir string, targets []Target, opts Options) ([]Result, error) {
	current := state.DiscoverState(acc.FileSystem(), workdir)
	if current != state.Configured && current != state.Built {
		return nil, &command.StateError{Message: "build requires a configured or built project, found " + current.String()}
	}

	reg, err := template.NewRegistry()
	if err != nil {
		return nil, &command.InternalError{Message: "failed to load build templates", Cause: err}
	}

	bridge := configbridge.New(acc.FileSystem(), workdir)
	pack, err := bridge.LoadPackConfig(ctx)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, t := range targets {
		if err := cleanTarget(acc, workdir, pack.Name, t); err != nil {
			return results, &command.BuildFailureError{Target: t.String(), Message: "failed to clean prior target output", Cause: err}
		}

		artifact := filepath.Join(workdir, t.ArtifactPath(pack.Name))
		runErr := runTarget(ctx, acc, reg, workdir, pack, t)
		if runErr != nil {
			logging.Error("Build", runErr, "target %s failed", t)
			// A failed target leaves no partial output behind.
			_ = cleanTarget(acc, workdir, pack.Name, t)
			results = append(results, Result{Target: t, Err: runErr})
			if opts.FailFast {
				return results, runErr
			}
			continue
		}
		results = append(results, Result{Target: t, ArtifactPath: artifact})
	}
	return results, nil
}

// cleanTarget removes a target's staging directory and terminal artifact,
// per spec.md §4.7's "before step 2 each target runs clean_target(t)".
func cleanTarget(acc session.Accessor, workdir, packName string, t Target) error {
	stageDir := filepath.Join(workdir, t.StageDir())
	if isUnderDist(t.StageDir()) {
		if err := acc.FileSystem().RemoveDirAll(stageDir); err != nil {
			return err
		}
	}
	artifact := filepath.Join(workdir, t.ArtifactPath(packName))
	if acc.FileSystem().Exists(artifact) {
		return acc.FileSystem().RemoveFile(artifact)
	}
	return nil
}

func runTarget(ctx context.Context, acc session.Accessor, reg *template.Registry, workdir string, pack configbridge.PackConfig, t Target) error {
	packDir := filepath.Join(workdir, "pack")
	stageDir := filepath.Join(workdir, t.StageDir())
	artifact := filepath.Join(workdir, t.ArtifactPath(pack.Name))

	switch t {
	case Mrpack:
		return buildMrpack(ctx, acc, t, packDir, artifact)
	case Client:
		return buildClient(ctx, acc, reg, t, packDir, stageDir, artifact, pack)
	case Server:
		return buildServer(ctx, acc, reg, t, workdir, packDir, stageDir, artifact, pack)
	case ClientFull:
		return buildClientFull(ctx, acc, t, packDir, stageDir, artifact)
	case ServerFull:
		return buildServerFull(ctx, acc, reg, t, packDir, stageDir, artifact, pack)
	default:
		return &command.InternalError{Message: "unhandled build target"}
	}
}

func buildMrpack(ctx context.Context, acc session.Accessor, t Target, packDir, artifact string) error {
	if err := refresh(ctx, acc, t, packDir); err != nil {
		return err
	}
	return runProcess(ctx, acc, t, "packwiz", []string{"mr", "export", "-o", artifact}, packDir)
}

func buildClient(ctx context.Context, acc session.Accessor, reg *template.Registry, t Target, packDir, stageDir, artifact string, pack configbridge.PackConfig) error {
	if err := refresh(ctx, acc, t, packDir); err != nil {
		return err
	}
	if err := stage(acc, stageDir); err != nil {
		return &command.BuildFailureError{Target: t.String(), Message: "failed to create staging directory", Cause: err}
	}
	if err := renderClientTemplates(ctx, acc, reg, pack, stageDir); err != nil {
		return err
	}
	if err := copyPackInto(ctx, acc, packDir, stageDir); err != nil {
		return &command.BuildFailureError{Target: t.String(), Message: "failed to copy pack/ into stage", Cause: err}
	}
	bootstrapJarPath, err := acquireBootstrapJar(ctx, acc)
	if err != nil {
		return err
	}
	if err := copyBootstrapJar(acc, bootstrapJarPath, stageDir); err != nil {
		return &command.BuildFailureError{Target: t.String(), Message: "failed to copy bootstrap jar into stage", Cause: err}
	}
	return zipStage(ctx, acc.FileSystem(), stageDir, artifact)
}

func buildServer(ctx context.Context, acc session.Accessor, reg *template.Registry, t Target, workdir, packDir, stageDir, artifact string, pack configbridge.PackConfig) error {
	if err := refresh(ctx, acc, t, packDir); err != nil {
		return err
	}
	if err := stage(acc, stageDir); err != nil {
		return &command.BuildFailureError{Target: t.String(), Message: "failed to create staging directory", Cause: err}
	}
	if err := renderServerTemplates(ctx, acc, reg, pack, stageDir); err != nil {
		return err
	}
	if err := copyPackInto(ctx, acc, packDir, stageDir); err != nil {
		return &command.BuildFailureError{Target: t.String(), Message: "failed to copy pack/ into stage", Cause: err}
	}
	bootstrapJarPath, err := acquireBootstrapJar(ctx, acc)
	if err != nil {
		return err
	}
	if err := copyBootstrapJar(acc, bootstrapJarPath, stageDir); err != nil {
		return &command.BuildFailureError{Target: t.String(), Message: "failed to copy bootstrap jar into stage", Cause: err}
	}
	if err := fetchServerJar(ctx, acc, t, stageDir); err != nil {
		return err
	}

	mrpackPath := filepath.Join(workdir, Mrpack.ArtifactPath(pack.Name))
	if !acc.FileSystem().Exists(mrpackPath) {
		if err := buildMrpack(ctx, acc, Mrpack, packDir, mrpackPath); err != nil {
			return err
		}
	}
	if err := extractOverrides(ctx, acc, mrpackPath, stageDir); err != nil {
		return err
	}

	return zipStage(ctx, acc.FileSystem(), stageDir, artifact)
}

func buildClientFull(ctx context.Context, acc session.Accessor, t Target, packDir, stageDir, artifact string) error {
	if err := refresh(ctx, acc, t, packDir); err != nil {
		return err
	}
	if err := stage(acc, stageDir); err != nil {
		return &command.BuildFailureError{Target: t.String(), Message: "failed to create staging directory", Cause: err}
	}
	bootstrapJarPath, err := acquireBootstrapJar(ctx, acc)
	if err != nil {
		return err
	}
	if err := runBootstrapJava(ctx, acc, t, bootstrapJarPath, stageDir, "both"); err != nil {
		return err
	}
	return zipStage(ctx, acc.FileSystem(), stageDir, artifact)
}

func buildServerFull(ctx context.Context, acc session.Accessor, reg *template.Registry, t Target, packDir, stageDir, artifact string, pack configbridge.PackConfig) error {
	if err := refresh(ctx, acc, t, packDir); err != nil {
		return err
	}
	if err := stage(acc, stageDir); err != nil {
		return &command.BuildFailureError{Target: t.String(), Message: "failed to create staging directory", Cause: err}
	}
	if err := renderServerTemplates(ctx, acc, reg, pack, stageDir); err != nil {
		return err
	}
	if err := fetchServerJar(ctx, acc, t, stageDir); err != nil {
		return err
	}
	bootstrapJarPath, err := acquireBootstrapJar(ctx, acc)
	if err != nil {
		return err
	}
	if err := runBootstrapJava(ctx, acc, t, bootstrapJarPath, stageDir, "server"); err != nil {
		return err
	}
	return zipStage(ctx, acc.FileSystem(), stageDir, artifact)
}
