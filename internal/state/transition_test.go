package state

import (
	"context"
	"testing"

	"github.com/inherent-design/empack/internal/command"
	"github.com/inherent-design/empack/internal/modloader"
	"github.com/inherent-design/empack/internal/providers/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Begin_IllegalFromUninitialized(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	mgr := NewManager(fs, "/work")

	err := mgr.Begin(context.Background(), StateTransition{Kind: TransitionSynchronize})
	require.Error(t, err)
	var stateErr *command.StateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestManager_Begin_LegalInitializeFromUninitialized(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	mgr := NewManager(fs, "/work")

	err := mgr.Begin(context.Background(), StateTransition{
		Kind: TransitionInitialize,
		Initialize: InitializeParams{
			Name: "Demo", Author: "Alice", Version: "0.1.0",
			ModLoader: modloader.Fabric, MinecraftVersion: "1.20.1", LoaderVersion: "0.15.7",
		},
	})
	require.NoError(t, err)
	assert.True(t, fs.Exists("/work/.empack/transaction"))
}

// TestManager_RollbackRestoresOriginalFilesystem exercises Testable
// Property 5: if any step of an in-flight transition fails, the filesystem
// observable after rollback equals the filesystem observable before Begin.
func TestManager_RollbackRestoresOriginalFilesystem(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	fs.SetFile("/work/empack.yml", "pack:\n  name: Demo\n")
	fs.SetFile("/work/pack/pack.toml", "name = \"Demo\"\n")
	before := fs.Files()

	mgr := NewManager(fs, "/work")
	require.NoError(t, mgr.Begin(context.Background(), StateTransition{Kind: TransitionSynchronize}))

	// Simulate the transition body: back up empack.yml before modifying it
	// in place, write a new mod file, then hit a simulated failure.
	require.NoError(t, mgr.BackupBeforeModify(context.Background(), "/work/empack.yml"))
	fs.SetFile("/work/empack.yml", "pack:\n  name: Demo\n  extra: true\n")
	require.NoError(t, mgr.RecordWrite(context.Background(), "/work/pack/mods/new-mod.pw.toml"))
	fs.SetFile("/work/pack/mods/new-mod.pw.toml", "name = \"new-mod\"\n")

	require.NoError(t, mgr.Rollback(context.Background(), assertSimulatedFailure))

	assert.False(t, fs.Exists("/work/.empack"))
	assert.False(t, fs.Exists("/work/pack/mods/new-mod.pw.toml"))
	after := fs.Files()
	delete(after, "/work/.empack/manifest")
	assert.Equal(t, before["/work/empack.yml"], after["/work/empack.yml"])
}

var assertSimulatedFailure = &command.InternalError{Message: "simulated failure"}

func TestManager_CompleteWithoutBeginIsInternalError(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	mgr := NewManager(fs, "/work")
	err := mgr.Complete(context.Background())
	require.Error(t, err)
	var internalErr *command.InternalError
	assert.ErrorAs(t, err, &internalErr)
}

func TestManager_RecoverIncomplete_NoMarkerIsNoop(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	mgr := NewManager(fs, "/work")
	assert.NoError(t, mgr.RecoverIncomplete(context.Background()))
}

func TestManager_RecoverIncomplete_RollsBackCrashedTransaction(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	fs.SetFile("/work/pack/pack.toml", "name = \"Demo\"\n")
	first := NewManager(fs, "/work")
	require.NoError(t, first.Begin(context.Background(), StateTransition{Kind: TransitionSynchronize}))
	require.NoError(t, first.RecordWrite(context.Background(), "/work/pack/mods/crashed.pw.toml"))
	fs.SetFile("/work/pack/mods/crashed.pw.toml", "name = \"crashed\"\n")
	// Simulate a crash: the marker and manifest are left on disk, Complete
	// is never called.

	second := NewManager(fs, "/work")
	require.NoError(t, second.RecoverIncomplete(context.Background()))
	assert.False(t, fs.Exists("/work/.empack"))
	assert.False(t, fs.Exists("/work/pack/mods/crashed.pw.toml"))
}

func TestManager_SecondBeginWhileActiveIsInternalError(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	fs.SetFile("/work/pack/pack.toml", "name = \"Demo\"\n")
	mgr := NewManager(fs, "/work")
	require.NoError(t, mgr.Begin(context.Background(), StateTransition{Kind: TransitionSynchronize}))

	other := NewManager(fs, "/work")
	err := other.Begin(context.Background(), StateTransition{Kind: TransitionSynchronize})
	require.Error(t, err)
	var internalErr *command.InternalError
	assert.ErrorAs(t, err, &internalErr)
}

func TestLegalTransitions_Table(t *testing.T) {
	cases := []struct {
		from  ProjectState
		kind  TransitionKind
		legal bool
	}{
		{Uninitialized, TransitionInitialize, true},
		{Uninitialized, TransitionSynchronize, false},
		{Uninitialized, TransitionCleaning, true},
		{Configured, TransitionInitialize, false},
		{Configured, TransitionSynchronize, true},
		{Configured, TransitionCleaning, true},
		{Built, TransitionInitialize, false},
		{Built, TransitionSynchronize, true},
		{Built, TransitionCleaning, true},
	}
	for _, c := range cases {
		allowed := legalTransitions[c.from][c.kind]
		assert.Equal(t, c.legal, allowed, "from=%s kind=%s", c.from, c.kind)
	}
}
