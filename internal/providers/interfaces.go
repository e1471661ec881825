package providers

import (
	"context"
	"time"
)

// FileSystemProvider is the narrow interface for all filesystem access. It
// must not hold business logic: callers decide what to read or write, the
// provider only performs the operation.
type FileSystemProvider interface {
	CurrentDir() (string, error)
	ReadToString(ctx context.Context, path string) (string, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	Exists(path string) bool
	IsDirectory(path string) bool
	CreateDirAll(path string) error
	RemoveDirAll(path string) error
	CopyDirContents(ctx context.Context, src, dst string) error
	// GetBootstrapJarCachePath is pure: it performs no I/O and only computes
	// the canonical per-user cache location for the bootstrap jar.
	GetBootstrapJarCachePath() (string, error)
	// ModTime returns path's last-modified time, used by state discovery to
	// compare dist/ artifacts against pack/pack.toml.
	ModTime(path string) (time.Time, error)
	// ListDirRecursive returns every regular file path under dir, relative
	// to dir's parent (i.e. prefixed with dir), used by state discovery to
	// walk dist/ and by the build orchestrator to find staged files.
	ListDirRecursive(dir string) ([]string, error)
	// RemoveFile removes a single file (not a directory), used by the
	// transition manager's rollback to delete individual recorded writes.
	RemoveFile(path string) error
	// CopyFile copies a single file, used by the transition manager to back
	// up a file before it is modified in place.
	CopyFile(src, dst string) error
}

// NetworkProvider is the narrow interface for all network access.
type NetworkProvider interface {
	HttpClient() (HttpClient, error)
	ProjectResolver() ProjectResolver
}

// ProcessProvider is the narrow interface for invoking external tools.
type ProcessProvider interface {
	Execute(ctx context.Context, program string, args []string, cwd string, envOverrides map[string]string) (ProcessResult, error)
	CheckPackwiz(ctx context.Context) (available bool, diagnostic string)
	GetPackwizVersion(ctx context.Context) (string, bool)
}

// ConfigProvider hands out the read-only configuration snapshot for the
// current invocation.
type ConfigProvider interface {
	AppConfig() AppConfig
}

// StatusHandle is a single updatable status line.
type StatusHandle interface {
	Update(message string)
	Warn(message string)
	Done(message string)
}

// ProgressHandle is a single updatable progress bar, borrowed from the
// session's display provider and never meant to outlive it.
type ProgressHandle interface {
	SetTotal(total int64)
	Add(delta int64)
	Finish()
}

// DisplayProvider is pure output: it never carries input back from the
// user. No command handler prompts for input, through this provider or
// otherwise.
type DisplayProvider interface {
	Status() StatusHandle
	Progress() ProgressHandle
}
