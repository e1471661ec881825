package build

import (
	"context"
	"path/filepath"

	"github.com/inherent-design/empack/internal/command"
	"github.com/inherent-design/empack/internal/session"
)

// bootstrapJarURL is the upstream release artifact empack downloads and
// caches. Per spec.md §4.7 "the tool's upstream URL is a constant": there
// is no versioning, no per-pack variant.
const bootstrapJarURL = "https://github.com/packwiz/packwiz-installer-bootstrap/releases/latest/download/packwiz-installer-bootstrap.jar"

// acquireBootstrapJar implements spec.md §4.7's bootstrap jar acquisition,
// a pure function of the session: return the cached path if present,
// otherwise download it, creating parent directories first.
func acquireBootstrapJar(ctx context.Context, acc session.Accessor) (string, error) {
	path, err := acc.FileSystem().GetBootstrapJarCachePath()
	if err != nil {
		return "", &command.EnvironmentError{Message: "failed to resolve bootstrap jar cache path", Cause: err}
	}
	if acc.FileSystem().Exists(path) {
		return path, nil
	}

	if err := acc.FileSystem().CreateDirAll(filepath.Dir(path)); err != nil {
		return "", &command.EnvironmentError{Message: "failed to create bootstrap jar cache directory", Cause: err}
	}

	status := acc.Display().Status()
	status.Update("downloading packwiz-installer-bootstrap.jar")

	client, err := acc.Network().HttpClient()
	if err != nil {
		status.Warn("bootstrap jar download unavailable")
		return "", &command.EnvironmentError{Message: "failed to acquire an HTTP client", Cause: err}
	}

	if err := client.Download(ctx, bootstrapJarURL, path); err != nil {
		status.Warn("bootstrap jar download failed")
		return "", &command.EnvironmentError{Message: "failed to download bootstrap jar", Cause: err}
	}

	status.Done("bootstrap jar cached at " + path)
	return path, nil
}
