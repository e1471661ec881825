// Package live provides the real, I/O-performing implementations of
// empack's capability provider interfaces.
package live

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/inherent-design/empack/internal/providers"
)

// FileSystemProvider is the live, real-disk implementation of
// providers.FileSystemProvider.
type FileSystemProvider struct{}

// NewFileSystemProvider constructs a live filesystem provider.
func NewFileSystemProvider() *FileSystemProvider {
	return &FileSystemProvider{}
}

var _ providers.FileSystemProvider = (*FileSystemProvider)(nil)

func (p *FileSystemProvider) CurrentDir() (string, error) {
	return os.Getwd()
}

func (p *FileSystemProvider) ReadToString(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &providers.FsError{Op: "read", Path: path, Err: err}
	}
	return string(data), nil
}

func (p *FileSystemProvider) WriteFile(_ context.Context, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &providers.FsError{Op: "write", Path: path, Err: err}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &providers.FsError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func (p *FileSystemProvider) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (p *FileSystemProvider) IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (p *FileSystemProvider) CreateDirAll(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return &providers.FsError{Op: "mkdir", Path: path, Err: err}
	}
	return nil
}

func (p *FileSystemProvider) RemoveDirAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return &providers.FsError{Op: "rmdir", Path: path, Err: err}
	}
	return nil
}

func (p *FileSystemProvider) CopyDirContents(_ context.Context, src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return &providers.FsError{Op: "copy", Path: dst, Err: err}
	}
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target, info.Mode())
	})
	if err != nil {
		return &providers.FsError{Op: "copy", Path: src, Err: err}
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func (p *FileSystemProvider) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, &providers.FsError{Op: "stat", Path: path, Err: err}
	}
	return info.ModTime(), nil
}

func (p *FileSystemProvider) ListDirRecursive(dir string) ([]string, error) {
	var out []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, &providers.FsError{Op: "walk", Path: dir, Err: err}
	}
	return out, nil
}

func (p *FileSystemProvider) RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &providers.FsError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

func (p *FileSystemProvider) CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return &providers.FsError{Op: "stat", Path: src, Err: err}
	}
	if err := copyFile(src, dst, info.Mode()); err != nil {
		return &providers.FsError{Op: "copy", Path: src, Err: err}
	}
	return nil
}

func (p *FileSystemProvider) GetBootstrapJarCachePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", &providers.FsError{Op: "cache-dir", Path: "", Err: err}
	}
	return filepath.Join(cacheDir, "empack", "packwiz-installer-bootstrap.jar"), nil
}
