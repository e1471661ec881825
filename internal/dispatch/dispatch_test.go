package dispatch

import (
	"context"
	"testing"

	"github.com/inherent-design/empack/internal/modloader"
	"github.com/inherent-design/empack/internal/providers"
	"github.com/inherent-design/empack/internal/providers/mock"
	"github.com/inherent-design/empack/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newHybridSession assembles a session.Accessor backed entirely by mocks,
// sharing one CapabilityCallLog across every provider so tests can assert
// exact orchestration order (spec.md §4.1/§4.2's hybrid-session testing
// contract).
func newHybridSession(log *providers.CapabilityCallLog, resolver providers.ProjectResolver) (*mock.FileSystemProvider, session.Accessor) {
	fs := mock.NewFileSystemProvider("/work", log)
	proc := mock.NewProcessProvider(log)
	if resolver == nil {
		resolver = &mock.StaticResolver{}
	}
	net := mock.NewNetworkProvider(resolver, mock.NoopHttpClient{}, log)
	cfg := mock.NewConfigProvider(providers.DefaultAppConfig())
	acc := session.New[*mock.FileSystemProvider, *mock.NetworkProvider, *mock.ProcessProvider, *mock.ConfigProvider](
		fs, net, proc, cfg, mock.NewDisplayProvider(),
	)
	return fs, acc
}

// TestHandleInit_S1_FreshNonInteractive exercises scenario S1: a
// non-interactive init on an empty directory.
func TestHandleInit_S1_FreshNonInteractive(t *testing.T) {
	log := providers.NewCapabilityCallLog()
	fs, acc := newHybridSession(log, nil)
	proc := acc.Process().(*mock.ProcessProvider)
	proc.Script(mock.ScriptedResult{Program: "packwiz", Result: providers.ProcessResult{ExitCode: 0}})

	loader := modloader.Fabric
	cmd := Command{Kind: KindInit, Init: InitFields{
		Name: "Demo", Author: "Alice", Version: "0.1.0",
		ModLoader: &loader, MCVersion: "1.20.1", LoaderVersion: "0.15.7",
	}}

	_, err := Execute(context.Background(), cmd, acc, "/work")
	require.NoError(t, err)

	assert.True(t, fs.Exists("/work/empack.yml"))
	empackYaml := fs.Files()["/work/empack.yml"]
	assert.Contains(t, empackYaml, "name: Demo")
	assert.Contains(t, empackYaml, "dependencies: []")

	execCalls := mock.ExecuteCalls(log)
	require.Len(t, execCalls, 1)
	assert.Contains(t, execCalls[0], "packwiz init")
	assert.Contains(t, execCalls[0], "--name Demo")
	assert.Contains(t, execCalls[0], "--author Alice")
	assert.Contains(t, execCalls[0], "--modloader fabric")
	assert.Contains(t, execCalls[0], "--fabric-version 0.15.7")
}

func TestHandleBuild_S4_IllegalBeforeInit(t *testing.T) {
	log := providers.NewCapabilityCallLog()
	_, acc := newHybridSession(log, nil)

	cmd := Command{Kind: KindBuild, Targets: []string{"mrpack"}}
	_, err := Execute(context.Background(), cmd, acc, "/work")
	require.Error(t, err)
	assert.Empty(t, mock.ExecuteCalls(log), "no processes should be spawned for a build attempted before init")
}

// seedConfiguredProject writes a minimal empack.yml/pack.toml/index.toml
// triad representing S1's post-state, used as the precondition for S2/S3/
// S5/S6.
func seedConfiguredProject(fs *mock.FileSystemProvider) {
	fs.SetFile("/work/empack.yml", "pack:\n  name: Demo\n  author: Alice\n  version: 0.1.0\n  minecraft_version: \"1.20.1\"\n  loader: fabric\n  loader_version: 0.15.7\ndependencies: []\n")
	fs.SetFile("/work/pack/pack.toml", "name = \"Demo\"\nauthor = \"Alice\"\nversion = \"0.1.0\"\n\n[versions]\nminecraft = \"1.20.1\"\nfabric = \"0.15.7\"\n\n[index]\nfile = \"index.toml\"\nhash = \"abc\"\n")
	fs.SetFile("/work/pack/index.toml", "hash-format = \"sha256\"\n")
}

// TestHandleAdd_S2_FuzzyResolveSingleMod exercises scenario S2.
func TestHandleAdd_S2_FuzzyResolveSingleMod(t *testing.T) {
	log := providers.NewCapabilityCallLog()
	resolved := providers.ResolvedProject{
		ProjectID: "AANobbMI", Slug: "sodium", DisplayName: "Sodium",
		Source: providers.SourceModrinth, Confidence: 1.0,
		SelectedVersion: providers.ResolvedVersion{VersionNumber: "mc1.20.1-0.5.3"},
	}
	resolver := &mock.StaticResolver{Results: []providers.ResolvedProject{resolved}}

	fs, acc := newHybridSession(log, resolver)
	seedConfiguredProject(fs)
	proc := acc.Process().(*mock.ProcessProvider)
	proc.Script(mock.ScriptedResult{Program: "packwiz", Result: providers.ProcessResult{ExitCode: 0}})

	cmd := Command{Kind: KindAdd, Queries: []string{"sodium"}}
	_, err := Execute(context.Background(), cmd, acc, "/work")
	require.NoError(t, err)

	empackYaml := fs.Files()["/work/empack.yml"]
	assert.Contains(t, empackYaml, "sodium")
	assert.Contains(t, empackYaml, "AANobbMI")
	assert.Contains(t, empackYaml, "modrinth")

	execCalls := mock.ExecuteCalls(log)
	require.Len(t, execCalls, 1)
	assert.Equal(t, "packwiz modrinth add AANobbMI --version mc1.20.1-0.5.3", execCalls[0])
}

// TestHandleAdd_S5_OneRegistryFailing exercises scenario S5: the resolver
// returns a partial result alongside one registry error, Add uses that result
// and reports the error as a warning via DisplayProvider.Status.
func TestHandleAdd_S5_OneRegistryFailing(t *testing.T) {
	log := providers.NewCapabilityCallLog()
	resolved := providers.ResolvedProject{
		ProjectID: "394468", Slug: "jei", DisplayName: "JEI",
		Source: providers.SourceCurseForge, Confidence: 1.0,
	}
	resolver := &mock.StaticResolver{
		Results: []providers.ResolvedProject{resolved},
		Errs:    []error{assertErr("modrinth search failed: 500")},
	}

	fs, acc := newHybridSession(log, resolver)
	seedConfiguredProject(fs)
	proc := acc.Process().(*mock.ProcessProvider)
	proc.Script(mock.ScriptedResult{Program: "packwiz", Result: providers.ProcessResult{ExitCode: 0}})

	cmd := Command{Kind: KindAdd, Queries: []string{"jei"}}
	result, err := Execute(context.Background(), cmd, acc, "/work")
	require.NoError(t, err)
	require.Len(t, result.Resolutions, 1)
	require.NotNil(t, result.Resolutions[0].Resolved)
	assert.Equal(t, providers.SourceCurseForge, result.Resolutions[0].Resolved.Source)
}

type simpleError string

func (e simpleError) Error() string { return string(e) }

func assertErr(msg string) error { return simpleError(msg) }

// TestHandleRemove_S6_RollbackOnMidBatchFailure exercises scenario S6.
func TestHandleRemove_S6_RollbackOnMidBatchFailure(t *testing.T) {
	log := providers.NewCapabilityCallLog()
	fs, acc := newHybridSession(log, nil)
	fs.SetFile("/work/empack.yml", "pack:\n  name: Demo\ndependencies:\n  - name: mod-a\n  - name: mod-b\n")
	fs.SetFile("/work/pack/pack.toml", "name = \"Demo\"\n\n[versions]\nminecraft = \"1.20.1\"\nfabric = \"0.15.7\"\n")
	before := fs.Files()["/work/empack.yml"]

	proc := acc.Process().(*mock.ProcessProvider)
	proc.Script(mock.ScriptedResult{Program: "packwiz", Args: []string{"remove", "mod-a"}, Result: providers.ProcessResult{ExitCode: 0}})
	proc.Script(mock.ScriptedResult{Program: "packwiz", Args: []string{"remove", "mod-b"}, Result: providers.ProcessResult{ExitCode: 1, Stderr: "not found"}})

	cmd := Command{Kind: KindRemove, Slugs: []string{"mod-a", "mod-b"}}
	_, err := Execute(context.Background(), cmd, acc, "/work")
	require.Error(t, err)

	assert.Equal(t, before, fs.Files()["/work/empack.yml"])
	assert.False(t, fs.Exists("/work/.empack"))
}

// TestHandleBuild_S3_Mrpack exercises scenario S3: the process call
// sequence is packwiz refresh then packwiz mr export, in cwd=pack/.
func TestHandleBuild_S3_Mrpack(t *testing.T) {
	log := providers.NewCapabilityCallLog()
	fs, acc := newHybridSession(log, nil)
	seedConfiguredProject(fs)
	proc := acc.Process().(*mock.ProcessProvider)
	proc.Script(mock.ScriptedResult{Program: "packwiz", Result: providers.ProcessResult{ExitCode: 0}})

	cmd := Command{Kind: KindBuild, Targets: []string{"mrpack"}}
	_, err := Execute(context.Background(), cmd, acc, "/work")
	require.NoError(t, err)

	execCalls := mock.ExecuteCalls(log)
	require.Len(t, execCalls, 2)
	assert.Equal(t, "packwiz refresh", execCalls[0])
	assert.Equal(t, "packwiz mr export -o /work/dist/Demo.mrpack", execCalls[1])
}
