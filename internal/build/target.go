// Package build implements the Build Orchestrator (spec.md §4.7): a
// deterministic pipeline over five build targets, mediated entirely through
// ProcessProvider and FileSystemProvider so no direct OS call appears here.
package build

import "fmt"

// Target is the tagged variant of an empack build target.
type Target int

const (
	Mrpack Target = iota
	Client
	Server
	ClientFull
	ServerFull
)

// allTargets is the execution_order() ascending sequence, per spec.md §4.7
// "stable sort by BuildTarget.execution_order() ascending."
var allTargets = []Target{Mrpack, Client, Server, ClientFull, ServerFull}

// allLiteralTargets is what the "all" literal (and an empty target list)
// expands to, per spec.md §3: "The literal all expands to {Mrpack, Client,
// Server} preserving order." It excludes ClientFull/ServerFull, which must
// be requested explicitly.
var allLiteralTargets = []Target{Mrpack, Client, Server}

// String renders the target the way CLI flags and dist/ directory names
// spell it.
func (t Target) String() string {
	switch t {
	case Mrpack:
		return "mrpack"
	case Client:
		return "client"
	case Server:
		return "server"
	case ClientFull:
		return "client-full"
	case ServerFull:
		return "server-full"
	default:
		return "unknown"
	}
}

// executionOrder is this target's position in the deterministic execution
// sequence, ascending.
func (t Target) executionOrder() int {
	for i, candidate := range allTargets {
		if candidate == t {
			return i
		}
	}
	return len(allTargets)
}

// ParseTarget resolves a CLI target token to a Target. "all" is not a
// Target itself; callers must expand it via ExpandTargets first.
func ParseTarget(name string) (Target, error) {
	switch name {
	case "mrpack":
		return Mrpack, nil
	case "client":
		return Client, nil
	case "server":
		return Server, nil
	case "client-full":
		return ClientFull, nil
	case "server-full":
		return ServerFull, nil
	default:
		return 0, fmt.Errorf("unknown build target %q", name)
	}
}

// ExpandTargets implements spec.md §3/§4.7's Build-target vocabulary: the
// "all" literal (and an empty target list, for a bare "build" with no
// arguments) expands to exactly {Mrpack, Client, Server} preserving order,
// never ClientFull/ServerFull, which must be named explicitly. Duplicates
// are collapsed and the result is stable-sorted by execution_order.
func ExpandTargets(names []string) ([]Target, error) {
	if len(names) == 0 {
		return append([]Target(nil), allLiteralTargets...), nil
	}

	seen := make(map[Target]bool, len(names))
	var out []Target
	for _, name := range names {
		if name == "all" {
			return append([]Target(nil), allLiteralTargets...), nil
		}
		t, err := ParseTarget(name)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}

	sortTargetsByExecutionOrder(out)
	return out, nil
}

// ExpandCleanTargets implements the Cleaning transition's own target
// vocabulary (spec.md §4.3's Cleaning{all} vs Cleaning{targets⊂all} rows):
// unlike Build's "all", a bare "clean" with no arguments (or an explicit
// "all") reverts the whole project by clearing every target's staging
// directory and artifact, Mrpack through ServerFull.
func ExpandCleanTargets(names []string) ([]Target, error) {
	if len(names) == 0 {
		return append([]Target(nil), allTargets...), nil
	}

	seen := make(map[Target]bool, len(names))
	var out []Target
	for _, name := range names {
		if name == "all" {
			return append([]Target(nil), allTargets...), nil
		}
		t, err := ParseTarget(name)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}

	sortTargetsByExecutionOrder(out)
	return out, nil
}

func sortTargetsByExecutionOrder(targets []Target) {
	for i := 1; i < len(targets); i++ {
		for j := i; j > 0 && targets[j-1].executionOrder() > targets[j].executionOrder(); j-- {
			targets[j-1], targets[j] = targets[j], targets[j-1]
		}
	}
}

// StageDir is the dist/<target-slug>/ staging directory, relative to the
// working directory. Every target has one, Mrpack included ("dist/mrpack"),
// even though packwiz writes the Mrpack artifact directly.
func (t Target) StageDir() string {
	return "dist/" + t.String()
}

// ArtifactPath is the final archive produced for this target, relative to
// the working directory, given the pack's name.
func (t Target) ArtifactPath(packName string) string {
	if t == Mrpack {
		return "dist/" + packName + ".mrpack"
	}
	return fmt.Sprintf("dist/%s-%s.zip", packName, t.String())
}
