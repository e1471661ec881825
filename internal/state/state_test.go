package state

import (
	"testing"

	"github.com/inherent-design/empack/internal/providers/mock"
	"github.com/stretchr/testify/assert"
)

// TestDiscoverState_Total exercises Testable Property 1: for any filesystem
// layout, DiscoverState returns exactly one of Uninitialized|Configured|Built
// without error (it has no error return at all, so "no error" is structural).
func TestDiscoverState_Total(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	assert.Equal(t, Uninitialized, DiscoverState(fs, "/work"))
}

func TestDiscoverState_MissingRealityFile(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	assert.Equal(t, Uninitialized, DiscoverState(fs, "/work"))
}

func TestDiscoverState_UnparseableRealityFile(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	fs.SetFile("/work/pack/pack.toml", "not [ valid toml")
	assert.Equal(t, Uninitialized, DiscoverState(fs, "/work"))
}

func TestDiscoverState_ConfiguredWhenNoArtifactNewerThanReality(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	fs.SetFile("/work/pack/pack.toml", "name = \"Demo\"\n")
	assert.Equal(t, Configured, DiscoverState(fs, "/work"))
}

func TestDiscoverState_BuiltWhenDistArtifactNewerThanReality(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	fs.SetFile("/work/pack/pack.toml", "name = \"Demo\"\n")
	fs.SetFile("/work/dist/Demo.mrpack", "zip-bytes")
	assert.Equal(t, Built, DiscoverState(fs, "/work"))
}

func TestDiscoverState_ConfiguredWhenDistArtifactOlderThanReality(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	// Write dist artifact first, then overwrite pack.toml so its mod time
	// is strictly newer (the mock's logical clock advances per write).
	fs.SetFile("/work/dist/Demo.mrpack", "stale")
	fs.SetFile("/work/pack/pack.toml", "name = \"Demo\"\n")
	assert.Equal(t, Configured, DiscoverState(fs, "/work"))
}

func TestDiscoverState_EmptyDistDirectoryIsConfigured(t *testing.T) {
	fs := mock.NewFileSystemProvider("/work", nil)
	fs.SetFile("/work/pack/pack.toml", "name = \"Demo\"\n")
	if err := fs.CreateDirAll("/work/dist"); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, Configured, DiscoverState(fs, "/work"))
}
