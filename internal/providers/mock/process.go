package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/inherent-design/empack/internal/providers"
)

// ScriptedResult is one canned response for a ProcessProvider.Execute call,
// matched by program and, optionally, an exact argument list.
type ScriptedResult struct {
	Program string
	Args    []string // nil/empty matches any args for this program
	Result  providers.ProcessResult
	Err     error
}

// ProcessProvider is a scripted providers.ProcessProvider. Unmatched calls
// default to a successful, empty result, so tests only need to script the
// invocations whose outcome they care about.
type ProcessProvider struct {
	mu      sync.Mutex
	scripts []ScriptedResult
	log     *providers.CapabilityCallLog

	packwizAvailable bool
	packwizVersion   string
}

// NewProcessProvider builds a mock process provider that reports packwiz as
// available by default.
func NewProcessProvider(log *providers.CapabilityCallLog) *ProcessProvider {
	return &ProcessProvider{log: log, packwizAvailable: true, packwizVersion: "v0.0.0-mock"}
}

var _ providers.ProcessProvider = (*ProcessProvider)(nil)

// Script registers a canned result for future Execute calls matching
// program (and, if non-empty, args exactly).
func (p *ProcessProvider) Script(s ScriptedResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scripts = append(p.scripts, s)
}

// SetPackwizAvailable overrides the canned CheckPackwiz response.
func (p *ProcessProvider) SetPackwizAvailable(available bool, version string) {
	p.packwizAvailable = available
	p.packwizVersion = version
}

func (p *ProcessProvider) Execute(_ context.Context, program string, args []string, cwd string, envOverrides map[string]string) (providers.ProcessResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.log != nil {
		p.log.Record("ProcessProvider", "Execute", program, args, cwd)
	}

	for _, s := range p.scripts {
		if s.Program != program {
			continue
		}
		if len(s.Args) > 0 && !argsEqual(s.Args, args) {
			continue
		}
		return s.Result, s.Err
	}

	return providers.ProcessResult{ExitCode: 0}, nil
}

func argsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (p *ProcessProvider) CheckPackwiz(context.Context) (bool, string) {
	if p.log != nil {
		p.log.Record("ProcessProvider", "CheckPackwiz")
	}
	if !p.packwizAvailable {
		return false, "packwiz not found"
	}
	return true, "packwiz " + p.packwizVersion
}

func (p *ProcessProvider) GetPackwizVersion(context.Context) (string, bool) {
	if p.log != nil {
		p.log.Record("ProcessProvider", "GetPackwizVersion")
	}
	if !p.packwizAvailable {
		return "", false
	}
	return p.packwizVersion, true
}

// ExecuteCalls returns every (program, args) pair recorded for Execute, in
// order, for asserting exact process-invocation sequences (Testable
// Property 4: build determinism of orchestration).
func ExecuteCalls(log *providers.CapabilityCallLog) []string {
	var out []string
	for _, c := range log.CallsFor("ProcessProvider") {
		if c.Method != "Execute" {
			continue
		}
		program, _ := c.Args[0].(string)
		args, _ := c.Args[1].([]string)
		out = append(out, strings.TrimSpace(program+" "+strings.Join(args, " ")))
	}
	return out
}
