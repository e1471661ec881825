package build

import (
	"archive/zip"
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/inherent-design/empack/internal/command"
	"github.com/inherent-design/empack/internal/providers"
)

// zipStage archives every file under stageDir into a single zip at
// artifactPath, with entry names relative to stageDir. It is the only
// place archive/zip is imported: no third-party archiver appears anywhere
// in the retrieval pack for this concern.
func zipStage(ctx context.Context, fs providers.FileSystemProvider, stageDir, artifactPath string) error {
	files, err := fs.ListDirRecursive(stageDir)
	if err != nil {
		return &command.BuildFailureError{Message: "failed to list staged files", Cause: err}
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, path := range files {
		rel, err := filepath.Rel(stageDir, path)
		if err != nil {
			return &command.BuildFailureError{Message: "failed to compute archive entry name for " + path, Cause: err}
		}
		rel = filepath.ToSlash(rel)

		contents, err := fs.ReadToString(ctx, path)
		if err != nil {
			return &command.BuildFailureError{Message: "failed to read staged file " + path, Cause: err}
		}

		entry, err := w.Create(rel)
		if err != nil {
			return &command.BuildFailureError{Message: "failed to create archive entry " + rel, Cause: err}
		}
		if _, err := entry.Write([]byte(contents)); err != nil {
			return &command.BuildFailureError{Message: "failed to write archive entry " + rel, Cause: err}
		}
	}
	if err := w.Close(); err != nil {
		return &command.BuildFailureError{Message: "failed to finalize archive " + artifactPath, Cause: err}
	}

	if err := fs.WriteFile(ctx, artifactPath, buf.Bytes()); err != nil {
		return &command.BuildFailureError{Message: "failed to write archive " + artifactPath, Cause: err}
	}
	return nil
}

// isUnderDist reports whether path lies within the dist/ tree, used to
// sanity-check clean_target never removes anything outside its own staging
// area or terminal artifact.
func isUnderDist(path string) bool {
	return strings.HasPrefix(filepath.ToSlash(path), "dist/")
}
