// Package mock implements in-memory, deterministic mock providers for each
// of empack's capability interfaces. Every call is recorded into a shared
// providers.CapabilityCallLog so tests can assert on orchestration order
// without inspecting real filesystem/network/process side effects.
package mock

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/inherent-design/empack/internal/providers"
)

// FileSystemProvider is an in-memory providers.FileSystemProvider. Paths are
// stored exactly as passed (not resolved against the cwd, which only
// CurrentDir and the bootstrap jar cache path use); directories are tracked
// explicitly so Exists/IsDirectory behave correctly for empty dirs.
type FileSystemProvider struct {
	mu      sync.Mutex
	files   map[string][]byte
	dirs    map[string]bool
	modTime map[string]time.Time
	cwd     string
	log     *providers.CapabilityCallLog

	// clock is a logical counter advanced on every write, converted to a
	// synthetic timestamp. Using a logical clock instead of time.Now makes
	// ordering deterministic regardless of how fast a test executes, which
	// matters for the dist/-newer-than-pack.toml comparison state discovery
	// relies on.
	clock int64

	bootstrapJarCachePath string
}

// NewFileSystemProvider builds an empty in-memory filesystem rooted at cwd.
func NewFileSystemProvider(cwd string, log *providers.CapabilityCallLog) *FileSystemProvider {
	return &FileSystemProvider{
		files:                 make(map[string][]byte),
		dirs:                  map[string]bool{".": true},
		modTime:               make(map[string]time.Time),
		cwd:                   cwd,
		log:                   log,
		bootstrapJarCachePath: filepath.Join(cwd, ".cache", "empack", "packwiz-installer-bootstrap.jar"),
	}
}

func (f *FileSystemProvider) tick() time.Time {
	f.clock++
	return time.Unix(f.clock, 0)
}

var _ providers.FileSystemProvider = (*FileSystemProvider)(nil)

func (f *FileSystemProvider) record(method string, args ...any) {
	if f.log != nil {
		f.log.Record("FileSystemProvider", method, args...)
	}
}

func (f *FileSystemProvider) CurrentDir() (string, error) {
	f.record("CurrentDir")
	return f.cwd, nil
}

func (f *FileSystemProvider) ReadToString(_ context.Context, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ReadToString", path)
	data, ok := f.files[path]
	if !ok {
		return "", &providers.FsError{Op: "read", Path: path, Err: errNotExist(path)}
	}
	return string(data), nil
}

func (f *FileSystemProvider) WriteFile(_ context.Context, path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("WriteFile", path)
	f.markParentDirs(path)
	cp := make([]byte, len(data))
	copy(cp, data)
	f.files[path] = cp
	f.modTime[path] = f.tick()
	return nil
}

func (f *FileSystemProvider) markParentDirs(path string) {
	dir := filepath.Dir(path)
	for dir != "." && dir != "/" && dir != "" {
		f.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
}

func (f *FileSystemProvider) Exists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Exists", path)
	if _, ok := f.files[path]; ok {
		return true
	}
	return f.dirs[path]
}

func (f *FileSystemProvider) IsDirectory(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("IsDirectory", path)
	return f.dirs[path]
}

func (f *FileSystemProvider) CreateDirAll(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateDirAll", path)
	f.dirs[path] = true
	f.markParentDirs(path + "/x")
	return nil
}

func (f *FileSystemProvider) RemoveDirAll(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RemoveDirAll", path)
	prefix := path + "/"
	for p := range f.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(f.files, p)
		}
	}
	for d := range f.dirs {
		if d == path || strings.HasPrefix(d, prefix) {
			delete(f.dirs, d)
		}
	}
	return nil
}

func (f *FileSystemProvider) CopyDirContents(_ context.Context, src, dst string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CopyDirContents", src, dst)
	f.dirs[dst] = true
	prefix := src + "/"
	for p, data := range f.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rel := strings.TrimPrefix(p, prefix)
		target := filepath.Join(dst, rel)
		cp := make([]byte, len(data))
		copy(cp, data)
		f.files[target] = cp
		f.modTime[target] = f.tick()
		f.markParentDirs(target)
	}
	return nil
}

func (f *FileSystemProvider) GetBootstrapJarCachePath() (string, error) {
	f.record("GetBootstrapJarCachePath")
	return f.bootstrapJarCachePath, nil
}

func (f *FileSystemProvider) ModTime(path string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ModTime", path)
	t, ok := f.modTime[path]
	if !ok {
		return time.Time{}, &providers.FsError{Op: "stat", Path: path, Err: errNotExist(path)}
	}
	return t, nil
}

func (f *FileSystemProvider) ListDirRecursive(dir string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListDirRecursive", dir)
	prefix := dir + "/"
	var out []string
	for p := range f.files {
		if p == dir || strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *FileSystemProvider) RemoveFile(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RemoveFile", path)
	delete(f.files, path)
	delete(f.modTime, path)
	return nil
}

func (f *FileSystemProvider) CopyFile(src, dst string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CopyFile", src, dst)
	data, ok := f.files[src]
	if !ok {
		return &providers.FsError{Op: "copy", Path: src, Err: errNotExist(src)}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.files[dst] = cp
	f.modTime[dst] = f.tick()
	f.markParentDirs(dst)
	return nil
}

// SetFile seeds the mock filesystem directly, for test setup (bypassing the
// call log, since it's fixture arrangement rather than code under test).
func (f *FileSystemProvider) SetFile(path, contents string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = []byte(contents)
	f.modTime[path] = f.tick()
	f.markParentDirs(path)
}

// Files returns a copy of every stored file's contents keyed by path, for
// assertions like "empack.yml is byte-identical to before the command".
func (f *FileSystemProvider) Files() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.files))
	for p, data := range f.files {
		out[p] = string(data)
	}
	return out
}

// FilePaths returns every stored file path, sorted.
func (f *FileSystemProvider) FilePaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.files))
	for p := range f.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

type notExistError struct{ path string }

func (e *notExistError) Error() string { return e.path + ": no such file" }

func errNotExist(path string) error { return &notExistError{path: path} }
