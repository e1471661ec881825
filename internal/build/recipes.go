package build

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/inherent-design/empack/internal/command"
	"github.com/inherent-design/empack/internal/configbridge"
	"github.com/inherent-design/empack/internal/session"
	"github.com/inherent-design/empack/internal/template"
)

const (
	bootstrapJarName = "packwiz-installer-bootstrap.jar"
	serverJarName    = "server.jar"
	defaultMinMemory = "2G"
	defaultMaxMemory = "4G"
)

// runProcess invokes a build-step subprocess and turns a non-zero exit or a
// launch failure into the appropriate typed error, per spec.md §7.
func runProcess(ctx context.Context, acc session.Accessor, t Target, program string, args []string, cwd string) error {
	result, err := acc.Process().Execute(ctx, program, args, cwd, nil)
	if err != nil {
		return &command.EnvironmentError{Message: fmt.Sprintf("failed to launch %s", program), Cause: err}
	}
	if result.ExitCode != 0 {
		return &command.BuildFailureError{
			Target:  t.String(),
			Message: fmt.Sprintf("%s exited %d: %s", program, result.ExitCode, result.Stderr),
		}
	}
	return nil
}

// refresh runs `packwiz refresh` against pack/, the first step of every
// recipe in spec.md §4.7's table.
func refresh(ctx context.Context, acc session.Accessor, t Target, packDir string) error {
	return runProcess(ctx, acc, t, "packwiz", []string{"refresh"}, packDir)
}

func stage(acc session.Accessor, stageDir string) error {
	return acc.FileSystem().CreateDirAll(stageDir)
}

func copyPackInto(ctx context.Context, acc session.Accessor, packDir, stageDir string) error {
	return acc.FileSystem().CopyDirContents(ctx, packDir, filepath.Join(stageDir, "pack"))
}

func copyBootstrapJar(acc session.Accessor, bootstrapJarPath, stageDir string) error {
	return acc.FileSystem().CopyFile(bootstrapJarPath, filepath.Join(stageDir, bootstrapJarName))
}

func renderClientTemplates(ctx context.Context, acc session.Accessor, reg *template.Registry, pack configbridge.PackConfig, stageDir string) error {
	tmplCtx := map[string]interface{}{
		"PACK_NAME":         pack.Name,
		"PACK_VERSION":      pack.Version,
		"MINECRAFT_VERSION": pack.MinecraftVersion,
		"LOADER_VERSION":    pack.LoaderVersion,
		"BOOTSTRAP_JAR":     bootstrapJarName,
	}
	return renderInto(ctx, acc, reg, template.CategoryClient, "instance.cfg.tmpl", tmplCtx, stageDir)
}

func renderServerTemplates(ctx context.Context, acc session.Accessor, reg *template.Registry, pack configbridge.PackConfig, stageDir string) error {
	shCtx := map[string]interface{}{
		"PACK_NAME":    pack.Name,
		"PACK_VERSION": pack.Version,
		"SERVER_JAR":   serverJarName,
		"MIN_MEMORY":   defaultMinMemory,
		"MAX_MEMORY":   defaultMaxMemory,
	}
	if err := renderInto(ctx, acc, reg, template.CategoryServer, "start.sh.tmpl", shCtx, stageDir); err != nil {
		return err
	}
	eulaCtx := map[string]interface{}{"PACK_NAME": pack.Name}
	return renderInto(ctx, acc, reg, template.CategoryServer, "eula.txt.tmpl", eulaCtx, stageDir)
}

func renderInto(ctx context.Context, acc session.Accessor, reg *template.Registry, category template.Category, name string, tmplCtx map[string]interface{}, stageDir string) error {
	rendered, err := reg.Render(category, name, tmplCtx)
	if err != nil {
		return err
	}
	dest := filepath.Join(stageDir, template.OutputName(name))
	return acc.FileSystem().WriteFile(ctx, dest, []byte(rendered))
}

func fetchServerJar(ctx context.Context, acc session.Accessor, t Target, stageDir string) error {
	serverFile := filepath.Join(stageDir, serverJarName)
	return runProcess(ctx, acc, t, "mrpack-install", []string{"server", "--server-file", serverFile}, stageDir)
}

func runBootstrapJava(ctx context.Context, acc session.Accessor, t Target, bootstrapJarPath, stageDir, side string) error {
	return runProcess(ctx, acc, t, "java", []string{"-jar", bootstrapJarPath, "-g", "-s", side}, stageDir)
}

// extractOverrides unzips the `overrides/` entries of an .mrpack archive
// into destDir, per spec.md §4.7's Server recipe step 7.
func extractOverrides(ctx context.Context, acc session.Accessor, mrpackPath, destDir string) error {
	raw, err := acc.FileSystem().ReadToString(ctx, mrpackPath)
	if err != nil {
		return &command.BuildFailureError{Message: "failed to read " + mrpackPath, Cause: err}
	}

	r, err := zip.NewReader(bytes.NewReader([]byte(raw)), int64(len(raw)))
	if err != nil {
		return &command.BuildFailureError{Message: "failed to open " + mrpackPath + " as a zip archive", Cause: err}
	}

	const prefix = "overrides/"
	for _, f := range r.File {
		if len(f.Name) <= len(prefix) || f.Name[:len(prefix)] != prefix {
			continue
		}
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return &command.BuildFailureError{Message: "failed to open archive entry " + f.Name, Cause: err}
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return &command.BuildFailureError{Message: "failed to read archive entry " + f.Name, Cause: err}
		}
		rel := f.Name[len(prefix):]
		if err := acc.FileSystem().WriteFile(ctx, filepath.Join(destDir, rel), data); err != nil {
			return &command.BuildFailureError{Message: "failed to write extracted file " + rel, Cause: err}
		}
	}
	return nil
}
