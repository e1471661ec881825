// Package state implements the Filesystem State Machine (spec.md §4.3): the
// modpack directory is the state, discovered fresh from disk on every
// command invocation and never cached across command boundaries.
package state

import (
	"context"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/inherent-design/empack/internal/providers"
)

// Layout paths, relative to the working directory, per spec.md §4.3.
const (
	IntentFile      = "empack.yml"
	PackDir         = "pack"
	RealityFile     = "pack/pack.toml"
	ModsDir         = "pack/mods"
	DistDir         = "dist"
	TransactionDir  = ".empack"
	TransactionFile = ".empack/transaction"
	RollbackDir     = ".empack/rollback"
	ManifestFile    = ".empack/manifest"
)

// ProjectState is the tagged variant of where a modpack project stands,
// derived fresh from disk on every invocation.
type ProjectState int

const (
	Uninitialized ProjectState = iota
	Configured
	Built
)

func (s ProjectState) String() string {
	switch s {
	case Configured:
		return "configured"
	case Built:
		return "built"
	default:
		return "uninitialized"
	}
}

// DiscoverState implements spec.md §4.3's discovery rule. It is total: for
// any filesystem layout, it returns exactly one ProjectState and no error.
func DiscoverState(fs providers.FileSystemProvider, workdir string) ProjectState {
	realityPath := filepath.Join(workdir, RealityFile)
	if !fs.Exists(realityPath) {
		return Uninitialized
	}

	raw, err := fs.ReadToString(context.Background(), realityPath)
	if err != nil {
		return Uninitialized
	}
	var discard map[string]interface{}
	if _, err := toml.Decode(raw, &discard); err != nil {
		return Uninitialized
	}

	realityModTime, err := fs.ModTime(realityPath)
	if err != nil {
		return Uninitialized
	}

	distPath := filepath.Join(workdir, DistDir)
	if !fs.Exists(distPath) {
		return Configured
	}

	files, err := fs.ListDirRecursive(distPath)
	if err != nil {
		return Configured
	}

	for _, f := range files {
		mt, err := fs.ModTime(f)
		if err != nil {
			continue
		}
		if mt.After(realityModTime) {
			return Built
		}
	}
	return Configured
}
