package build

import (
	"context"
	"testing"

	"github.com/inherent-design/empack/internal/providers"
	"github.com/inherent-design/empack/internal/providers/mock"
	"github.com/inherent-design/empack/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDownloadClient simulates a successful bootstrap-jar download by
// seeding the shared mock filesystem directly, since NoopHttpClient always
// fails and a real net.http roundtrip has no place in a unit test.
type fakeDownloadClient struct {
	fs        *mock.FileSystemProvider
	downloads int
}

func (c *fakeDownloadClient) Get(context.Context, string, map[string]string) (int, []byte, error) {
	return 0, nil, assertSimulatedNetError
}

func (c *fakeDownloadClient) Download(_ context.Context, _ string, destPath string) error {
	c.downloads++
	c.fs.SetFile(destPath, "fake-bootstrap-jar-bytes")
	return nil
}

var assertSimulatedNetError = &providers.NetError{Op: "get", URL: "unused", Err: errUnsupported}

type unsupportedErr struct{}

func (unsupportedErr) Error() string { return "not supported in this test" }

var errUnsupported = unsupportedErr{}

func newTestSession(log *providers.CapabilityCallLog) (*mock.FileSystemProvider, *mock.ProcessProvider, *mock.NetworkProvider, session.Accessor) {
	fs := mock.NewFileSystemProvider("/work", log)
	proc := mock.NewProcessProvider(log)
	resolver := &mock.StaticResolver{}
	net := mock.NewNetworkProvider(resolver, &fakeDownloadClient{fs: fs}, log)
	cfg := mock.NewConfigProvider(providers.DefaultAppConfig())
	acc := session.New[*mock.FileSystemProvider, *mock.NetworkProvider, *mock.ProcessProvider, *mock.ConfigProvider](
		fs, net, proc, cfg, mock.NewDisplayProvider(),
	)
	return fs, proc, net, acc
}

func seedPack(fs *mock.FileSystemProvider) {
	fs.SetFile("/work/pack/pack.toml", "name = \"Demo\"\nauthor = \"Alice\"\nversion = \"0.1.0\"\n\n[versions]\nminecraft = \"1.20.1\"\nfabric = \"0.15.7\"\n\n[index]\nfile = \"index.toml\"\nhash = \"abc\"\n")
	fs.SetFile("/work/pack/mods/sodium.pw.toml", "name = \"sodium\"\n")
}

func TestRun_WrongStateRejected(t *testing.T) {
	log := providers.NewCapabilityCallLog()
	_, _, _, acc := newTestSession(log)

	_, err := Run(context.Background(), acc, "/work", []Target{Mrpack}, Options{FailFast: true})
	require.Error(t, err)
}

func TestRun_Mrpack_RefreshThenExport(t *testing.T) {
	log := providers.NewCapabilityCallLog()
	fs, proc, _, acc := newTestSession(log)
	seedPack(fs)
	proc.Script(mock.ScriptedResult{Program: "packwiz", Result: providers.ProcessResult{ExitCode: 0}})

	results, err := Run(context.Background(), acc, "/work", []Target{Mrpack}, Options{FailFast: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "/work/dist/Demo.mrpack", results[0].ArtifactPath)

	calls := mock.ExecuteCalls(log)
	assert.Equal(t, []string{"packwiz refresh", "packwiz mr export -o /work/dist/Demo.mrpack"}, calls)
}

// TestRun_Client_StagesAndZips exercises the Client recipe's full chain:
// refresh, stage, render templates, copy pack/, acquire + copy the
// bootstrap jar, zip.
func TestRun_Client_StagesAndZips(t *testing.T) {
	log := providers.NewCapabilityCallLog()
	fs, proc, _, acc := newTestSession(log)
	seedPack(fs)
	proc.Script(mock.ScriptedResult{Program: "packwiz", Result: providers.ProcessResult{ExitCode: 0}})

	results, err := Run(context.Background(), acc, "/work", []Target{Client}, Options{FailFast: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	assert.True(t, fs.Exists("/work/dist/Demo-client.zip"))

	files := fs.Files()
	assert.Contains(t, files, "/work/.cache/empack/packwiz-installer-bootstrap.jar")
}

// TestRun_BootstrapCacheIdempotence exercises Testable Property 8: two
// consecutive Client builds with an empty cache perform exactly one
// download.
func TestRun_BootstrapCacheIdempotence(t *testing.T) {
	log := providers.NewCapabilityCallLog()
	fs := mock.NewFileSystemProvider("/work", log)
	proc := mock.NewProcessProvider(log)
	client := &fakeDownloadClient{fs: fs}
	net := mock.NewNetworkProvider(&mock.StaticResolver{}, client, log)
	cfg := mock.NewConfigProvider(providers.DefaultAppConfig())
	acc := session.New[*mock.FileSystemProvider, *mock.NetworkProvider, *mock.ProcessProvider, *mock.ConfigProvider](
		fs, net, proc, cfg, mock.NewDisplayProvider(),
	)
	seedPack(fs)
	proc.Script(mock.ScriptedResult{Program: "packwiz", Result: providers.ProcessResult{ExitCode: 0}})

	_, err := Run(context.Background(), acc, "/work", []Target{Client}, Options{FailFast: true})
	require.NoError(t, err)
	_, err = Run(context.Background(), acc, "/work", []Target{Client}, Options{FailFast: true})
	require.NoError(t, err)

	// acquireBootstrapJar short-circuits on FileSystemProvider.Exists once
	// the first build has populated the cache, so a second build must not
	// call Download again.
	assert.Equal(t, 1, client.downloads)
}

// TestRun_FailFastStopsAtFirstFailingTarget exercises the fail_fast option.
func TestRun_FailFastStopsAtFirstFailingTarget(t *testing.T) {
	log := providers.NewCapabilityCallLog()
	fs, proc, _, acc := newTestSession(log)
	seedPack(fs)
	proc.Script(mock.ScriptedResult{Program: "packwiz", Args: []string{"refresh"}, Result: providers.ProcessResult{ExitCode: 1, Stderr: "boom"}})

	results, err := Run(context.Background(), acc, "/work", []Target{Mrpack, Client}, Options{FailFast: true})
	require.Error(t, err)
	assert.Len(t, results, 1)
}

func TestRun_NoFailFastAccumulatesAcrossTargets(t *testing.T) {
	log := providers.NewCapabilityCallLog()
	fs, proc, _, acc := newTestSession(log)
	seedPack(fs)
	proc.Script(mock.ScriptedResult{Program: "packwiz", Args: []string{"refresh"}, Result: providers.ProcessResult{ExitCode: 1, Stderr: "boom"}})

	results, err := Run(context.Background(), acc, "/work", []Target{Mrpack, Client}, Options{FailFast: false})
	assert.NoError(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.Error(t, results[1].Err)
}
