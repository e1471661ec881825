package session

import (
	"testing"

	"github.com/inherent-design/empack/internal/providers"
	"github.com/inherent-design/empack/internal/providers/mock"
	"github.com/stretchr/testify/assert"
)

func TestNew_AccessorsReturnTheSameProviderInstances(t *testing.T) {
	log := providers.NewCapabilityCallLog()
	fs := mock.NewFileSystemProvider("/work", log)
	proc := mock.NewProcessProvider(log)
	net := mock.NewNetworkProvider(&mock.StaticResolver{}, mock.NoopHttpClient{}, log)
	cfg := mock.NewConfigProvider(providers.DefaultAppConfig())
	display := mock.NewDisplayProvider()

	var acc Accessor = New[*mock.FileSystemProvider, *mock.NetworkProvider, *mock.ProcessProvider, *mock.ConfigProvider](
		fs, net, proc, cfg, display,
	)

	assert.Same(t, fs, acc.FileSystem())
	assert.Same(t, net, acc.Network())
	assert.Same(t, proc, acc.Process())
	assert.Same(t, cfg, acc.Config())
	assert.Same(t, display, acc.Display())
}

func TestNewLive_AssemblesNonNilProviders(t *testing.T) {
	s := NewLive(providers.DefaultAppConfig())

	var acc Accessor = s
	assert.NotNil(t, acc.FileSystem())
	assert.NotNil(t, acc.Network())
	assert.NotNil(t, acc.Process())
	assert.NotNil(t, acc.Config())
	assert.NotNil(t, acc.Display())
}
