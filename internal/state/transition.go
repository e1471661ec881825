package state

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/inherent-design/empack/internal/command"
	"github.com/inherent-design/empack/internal/modloader"
	"github.com/inherent-design/empack/internal/providers"
	"github.com/inherent-design/empack/pkg/logging"
)

// TransitionKind is the tag of a StateTransition.
type TransitionKind int

const (
	TransitionInitialize TransitionKind = iota
	TransitionSynchronize
	TransitionCleaning
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionInitialize:
		return "Initialize"
	case TransitionSynchronize:
		return "Synchronize"
	case TransitionCleaning:
		return "Cleaning"
	default:
		return "Unknown"
	}
}

// InitializeParams carries the fields spec.md §3 assigns to the Initialize
// transition variant.
type InitializeParams struct {
	Name            string
	Author          string
	Version         string
	ModLoader       modloader.ModLoader
	MinecraftVersion string
	LoaderVersion   string
}

// StateTransition is the tagged variant describing an intended filesystem
// change, per spec.md §3.
type StateTransition struct {
	Kind       TransitionKind
	Initialize InitializeParams // valid iff Kind == TransitionInitialize
	Targets    []string         // valid iff Kind == TransitionCleaning; empty means "all"
}

// manifest is the on-disk record of a transition in progress, persisted to
// ManifestFile so a crash mid-transition can be detected and rolled back on
// the next invocation.
type manifest struct {
	ID         string         `json:"id"`
	Kind       TransitionKind `json:"kind"`
	StartedAt  time.Time      `json:"startedAt"`
	Writes     []string       `json:"writes"`
	Backups    []backupEntry  `json:"backups"`
}

type backupEntry struct {
	Original string `json:"original"`
	Backup   string `json:"backup"`
}

// Manager drives one StateTransition's lifecycle: Begin checks legality and
// opens the transaction marker, RecordWrite/BackupBeforeModify track what
// must be undone on failure, and Complete or Rollback close it out.
type Manager struct {
	fs      providers.FileSystemProvider
	workdir string
	m       manifest
	active  bool
}

// NewManager builds a transition manager rooted at workdir. Callers must
// call RecoverIncomplete before Begin, per spec.md §4.3's "a transition left
// incomplete on a prior crash is detected on the next command and rolled
// back before any new transition begins."
func NewManager(fs providers.FileSystemProvider, workdir string) *Manager {
	return &Manager{fs: fs, workdir: workdir}
}

func (mgr *Manager) path(rel string) string {
	return filepath.Join(mgr.workdir, rel)
}

// RecoverIncomplete rolls back a transaction left by a crashed prior
// invocation, if one is present. It is a no-op if no marker exists.
func (mgr *Manager) RecoverIncomplete(ctx context.Context) error {
	markerPath := mgr.path(TransactionFile)
	if !mgr.fs.Exists(markerPath) {
		return nil
	}

	raw, err := mgr.fs.ReadToString(ctx, mgr.path(ManifestFile))
	if err != nil {
		// The marker exists but the manifest is unreadable: the safest
		// recovery is to remove the marker directory outright, since there
		// is nothing left to roll back precisely.
		return mgr.fs.RemoveDirAll(mgr.path(TransactionDir))
	}
	var m manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return mgr.fs.RemoveDirAll(mgr.path(TransactionDir))
	}

	mgr.m = m
	logging.Warn("State", "recovering incomplete transaction %s (%s) from a prior crash", m.ID, m.Kind)
	return mgr.rollback(ctx)
}

// legalTransitions encodes spec.md §4.3's legal-transitions table. A state
// missing from the inner map means the transition is illegal from that
// state.
var legalTransitions = map[ProjectState]map[TransitionKind]bool{
	Uninitialized: {
		TransitionInitialize: true,
		TransitionCleaning:   true, // no-op
	},
	Configured: {
		TransitionSynchronize: true,
		TransitionCleaning:    true,
	},
	Built: {
		TransitionSynchronize: true,
		TransitionCleaning:    true,
	},
}

// Begin verifies t is legal for the current discovered state and opens the
// transaction marker. Callers must follow with RecordWrite for every file
// the transition writes, then Complete or Rollback.
func (mgr *Manager) Begin(ctx context.Context, t StateTransition) error {
	current := DiscoverState(mgr.fs, mgr.workdir)
	allowed := legalTransitions[current]
	if !allowed[t.Kind] {
		return &command.StateError{Message: fmt.Sprintf("%s is not a legal transition from state %s", t.Kind, current)}
	}

	if mgr.fs.Exists(mgr.path(TransactionFile)) {
		return &command.InternalError{Message: "a transition is already in progress in this working directory"}
	}

	mgr.m = manifest{ID: uuid.NewString(), Kind: t.Kind, StartedAt: mgr.now()}
	mgr.active = true

	if err := mgr.fs.CreateDirAll(mgr.path(TransactionDir)); err != nil {
		mgr.active = false
		return &command.InternalError{Message: "failed to create transaction directory", Cause: err}
	}
	if err := mgr.persistManifest(ctx); err != nil {
		mgr.active = false
		return err
	}
	if err := mgr.fs.WriteFile(ctx, mgr.path(TransactionFile), []byte(mgr.m.ID)); err != nil {
		mgr.active = false
		return &command.InternalError{Message: "failed to write transaction marker", Cause: err}
	}

	logging.Audit(logging.AuditEvent{Action: "transition_begin", Outcome: "success", Target: t.Kind.String()})
	return nil
}

// now is a seam for deterministic tests; it is time.Now in production.
func (mgr *Manager) now() time.Time { return time.Now() }

// RecordWrite marks path as created/overwritten by the in-flight
// transition, so Rollback knows to delete it on failure.
func (mgr *Manager) RecordWrite(ctx context.Context, path string) error {
	if !mgr.active {
		return &command.InternalError{Message: "RecordWrite called without an active transition"}
	}
	mgr.m.Writes = append(mgr.m.Writes, path)
	return mgr.persistManifest(ctx)
}

// BackupBeforeModify backs up path into the rollback directory before the
// transition modifies it in place, so Rollback can restore it.
func (mgr *Manager) BackupBeforeModify(ctx context.Context, path string) error {
	if !mgr.active {
		return &command.InternalError{Message: "BackupBeforeModify called without an active transition"}
	}
	if !mgr.fs.Exists(path) {
		// Nothing to back up; treat like a fresh write for rollback purposes.
		return mgr.RecordWrite(ctx, path)
	}
	backupPath := filepath.Join(mgr.path(RollbackDir), uuid.NewString())
	if err := mgr.fs.CopyFile(path, backupPath); err != nil {
		return &command.InternalError{Message: "failed to back up " + path, Cause: err}
	}
	mgr.m.Backups = append(mgr.m.Backups, backupEntry{Original: path, Backup: backupPath})
	return mgr.persistManifest(ctx)
}

// Complete closes out a successful transition, removing the transaction
// marker. Side effects written during the transition are now final.
func (mgr *Manager) Complete(ctx context.Context) error {
	if !mgr.active {
		return &command.InternalError{Message: "Complete called without an active transition"}
	}
	if err := mgr.fs.RemoveDirAll(mgr.path(TransactionDir)); err != nil {
		return &command.InternalError{Message: "failed to remove transaction directory", Cause: err}
	}
	mgr.active = false
	logging.Audit(logging.AuditEvent{Action: "transition_commit", Outcome: "success", Target: mgr.m.Kind.String()})
	return nil
}

// Rollback undoes every recorded write and restores every backup, then
// removes the transaction marker. The caller's original error (if any) is
// not masked by a rollback failure; Rollback returns its own error if
// cleanup itself fails, which callers should report alongside, not instead
// of, the triggering error.
func (mgr *Manager) Rollback(ctx context.Context, cause error) error {
	err := mgr.rollback(ctx)
	outcome := "success"
	details := ""
	if err != nil {
		outcome = "failure"
		details = err.Error()
	}
	logging.Audit(logging.AuditEvent{Action: "transition_rollback", Outcome: outcome, Target: mgr.m.Kind.String(), Details: details})
	if cause != nil {
		logging.Error("State", cause, "rolled back %s transition", mgr.m.Kind)
	}
	return err
}

func (mgr *Manager) rollback(ctx context.Context) error {
	for _, w := range mgr.m.Writes {
		if err := mgr.fs.RemoveFile(w); err != nil {
			return &command.StateError{Message: "rollback failed to remove " + w, Cause: err}
		}
	}
	for _, b := range mgr.m.Backups {
		if err := mgr.fs.CopyFile(b.Backup, b.Original); err != nil {
			return &command.StateError{Message: "rollback failed to restore " + b.Original, Cause: err}
		}
	}
	if err := mgr.fs.RemoveDirAll(mgr.path(TransactionDir)); err != nil {
		return &command.StateError{Message: "rollback failed to clear transaction directory", Cause: err}
	}
	mgr.active = false
	return nil
}

func (mgr *Manager) persistManifest(ctx context.Context) error {
	data, err := json.Marshal(mgr.m)
	if err != nil {
		return &command.InternalError{Message: "failed to marshal transition manifest", Cause: err}
	}
	if err := mgr.fs.WriteFile(ctx, mgr.path(ManifestFile), data); err != nil {
		return &command.InternalError{Message: "failed to persist transition manifest", Cause: err}
	}
	return nil
}

// sortTargetsStable returns a sorted copy of targets, leaving the input
// unchanged. Nothing in this package calls it.
func sortTargetsStable(targets []string) []string {
	out := make([]string, len(targets))
	copy(out, targets)
	sort.Strings(out)
	return out
}
