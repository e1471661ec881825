package live

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/inherent-design/empack/internal/providers"
)

// ProcessProvider is the live implementation of providers.ProcessProvider,
// shelling out to packwiz, mrpack-install, and java via os/exec.
type ProcessProvider struct {
	// lookPath resolves a program name to an executable path. It defaults to
	// exec.LookPath but can be overridden for hermetic tests, mirroring the
	// spec's requirement that the executable-lookup path be overridable.
	lookPath func(program string) (string, error)
}

// NewProcessProvider builds a live process provider using the real PATH.
func NewProcessProvider() *ProcessProvider {
	return &ProcessProvider{lookPath: exec.LookPath}
}

// NewProcessProviderWithLookup builds a live process provider whose
// executable resolution is overridden, for hermetic testing against a
// directory of fake scripts instead of the real PATH.
func NewProcessProviderWithLookup(lookPath func(program string) (string, error)) *ProcessProvider {
	return &ProcessProvider{lookPath: lookPath}
}

var _ providers.ProcessProvider = (*ProcessProvider)(nil)

func (p *ProcessProvider) Execute(ctx context.Context, program string, args []string, cwd string, envOverrides map[string]string) (providers.ProcessResult, error) {
	path, err := p.lookPath(program)
	if err != nil {
		return providers.ProcessResult{}, &providers.ProcError{Program: program, Args: args, Err: fmt.Errorf("executable not found: %w", err)}
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = cwd

	if len(envOverrides) > 0 {
		env := cmd.Environ()
		for k, v := range envOverrides {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := providers.ProcessResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if isExitError(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, &providers.ProcError{Program: program, Args: args, Err: runErr}
	}

	result.ExitCode = 0
	return result, nil
}

func isExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}
	return ok
}

func (p *ProcessProvider) CheckPackwiz(ctx context.Context) (bool, string) {
	path, err := p.lookPath("packwiz")
	if err != nil {
		return false, "packwiz not found on PATH"
	}
	version, ok := p.GetPackwizVersion(ctx)
	if !ok {
		return true, fmt.Sprintf("packwiz found at %s (version unknown)", path)
	}
	return true, fmt.Sprintf("packwiz %s at %s", version, path)
}

func (p *ProcessProvider) GetPackwizVersion(ctx context.Context) (string, bool) {
	result, err := p.Execute(ctx, "packwiz", []string{"version"}, "", nil)
	if err != nil || result.ExitCode != 0 {
		return "", false
	}
	version := strings.TrimSpace(result.Stdout)
	if version == "" {
		version = strings.TrimSpace(result.Stderr)
	}
	if version == "" {
		return "", false
	}
	return version, true
}
