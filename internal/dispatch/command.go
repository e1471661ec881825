// Package dispatch implements the Command Dispatcher (spec.md §4.8): a thin
// function table from command variant to handler. Each handler's body is
// an orchestration over session providers, never direct I/O.
package dispatch

import "github.com/inherent-design/empack/internal/modloader"

// Kind tags which Command variant is populated.
type Kind int

const (
	KindRequirements Kind = iota
	KindInit
	KindAdd
	KindRemove
	KindSync
	KindBuild
	KindClean
)

// InitFields carries Init's optional inputs; a nil pointer field means
// "unset, resolve a default."
type InitFields struct {
	Name          string
	Author        string
	Version       string
	ModLoader     *modloader.ModLoader
	MCVersion     string
	LoaderVersion string
	Interactive   bool
	Dir           string
}

// Command is the tagged variant spec.md §4.8 dispatches on. Exactly the
// field(s) matching Kind are meaningful.
type Command struct {
	Kind Kind

	Init InitFields

	// Queries is Add's search terms.
	Queries []string

	// Slugs is Remove's target list.
	Slugs []string

	// Targets is Build's or Clean's target token list; empty means "all".
	Targets []string

	// FailFast overrides Build's default fail_fast=true when explicitly set
	// false by the caller (e.g. `build --no-fail-fast`).
	FailFast *bool
}
