package template

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/inherent-design/empack/internal/command"
)

//go:embed templates
var embeddedTemplates embed.FS

// Category names the (BuildTarget, template_name) key's target dimension
// without this package depending on internal/build: build.BuildTarget.
// TemplateCategory() maps each target to one of these strings.
type Category string

const (
	CategoryDev    Category = "dev"
	CategoryClient Category = "client"
	CategoryServer Category = "server"
)

// Registry is the (Category, name) -> template source mapping named in
// spec.md §4.6. Adding a template is a registry operation: embed the file
// under templates/<category>/ and it is discovered automatically.
type Registry struct {
	engine  *Engine
	sources map[Category]map[string]string
}

// NewRegistry builds a Registry from the embedded template sources.
func NewRegistry() (*Registry, error) {
	r := &Registry{engine: New(), sources: make(map[Category]map[string]string)}
	err := fs.WalkDir(embeddedTemplates, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		parts := strings.SplitN(strings.TrimPrefix(path, "templates/"), "/", 2)
		if len(parts) != 2 {
			return nil
		}
		category := Category(parts[0])
		data, err := embeddedTemplates.ReadFile(path)
		if err != nil {
			return err
		}
		if r.sources[category] == nil {
			r.sources[category] = make(map[string]string)
		}
		r.sources[category][parts[1]] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load embedded templates: %w", err)
	}
	return r, nil
}

// Names returns every template name registered under category, sorted.
func (r *Registry) Names(category Category) []string {
	names := make([]string, 0, len(r.sources[category]))
	for name := range r.sources[category] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render looks up (category, name) and substitutes ctx's variables into it,
// per spec.md §4.6: any `{{VARIABLE}}` in the template not present in ctx
// fails the render with TemplateError.
func (r *Registry) Render(category Category, name string, ctx map[string]interface{}) (string, error) {
	byName, ok := r.sources[category]
	if !ok {
		return "", &command.TemplateError{Message: fmt.Sprintf("no templates registered for category %q", category)}
	}
	src, ok := byName[name]
	if !ok {
		return "", &command.TemplateError{Message: fmt.Sprintf("template %q not found in category %q", name, category)}
	}

	rendered, err := r.engine.Replace(src, ctx)
	if err != nil {
		return "", &command.TemplateError{Message: fmt.Sprintf("render %s/%s", category, name), Cause: err}
	}
	return rendered.(string), nil
}

// OutputName strips the `.tmpl` suffix empack's embedded template files use
// so the rendered file lands at the right name on disk (e.g.
// "README.md.tmpl" -> "README.md").
func OutputName(templateName string) string {
	return strings.TrimSuffix(templateName, ".tmpl")
}
