package configbridge

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/inherent-design/empack/internal/command"
	"github.com/inherent-design/empack/internal/providers"
	"github.com/inherent-design/empack/internal/state"
)

// Bridge reads and reconciles empack.yml against pack/pack.toml + index.toml
// through a FileSystemProvider. It holds no state across calls.
type Bridge struct {
	fs      providers.FileSystemProvider
	workdir string
}

// New builds a Bridge rooted at workdir.
func New(fs providers.FileSystemProvider, workdir string) *Bridge {
	return &Bridge{fs: fs, workdir: workdir}
}

func (b *Bridge) path(rel string) string {
	return filepath.Join(b.workdir, rel)
}

// LoadEmpackConfig parses empack.yml into an EmpackConfig, along with the
// raw yaml.Node document that SaveEmpackConfig accepts back (spec.md §8
// property 2). The round trip keeps values, not comments: see
// SaveEmpackConfig.
func (b *Bridge) LoadEmpackConfig(ctx context.Context) (EmpackConfig, *yaml.Node, error) {
	raw, err := b.fs.ReadToString(ctx, b.path(state.IntentFile))
	if err != nil {
		return EmpackConfig{}, nil, &command.ConfigError{Message: "failed to read empack.yml", Cause: err}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return EmpackConfig{}, nil, &command.ConfigError{Message: "empack.yml is not valid YAML", Cause: err}
	}

	var cfg EmpackConfig
	if err := yaml.Unmarshal([]byte(raw), &cfg); err != nil {
		return EmpackConfig{}, nil, &command.ConfigError{Message: "empack.yml does not match the expected shape", Cause: err}
	}

	return cfg, &doc, nil
}

// SaveEmpackConfig serializes cfg to empack.yml. When doc is non-nil, its
// node tree is replaced by a fresh marshal of cfg (applyEmpackConfigToNode),
// so key order follows EmpackConfig's field order and comments or keys the
// struct does not model are not kept; when doc is nil (fresh Initialize), a
// new document is marshaled directly from cfg.
func (b *Bridge) SaveEmpackConfig(ctx context.Context, cfg EmpackConfig, doc *yaml.Node) error {
	var out []byte
	var err error

	if doc != nil {
		if err := applyEmpackConfigToNode(doc, cfg); err != nil {
			return &command.ConfigError{Message: "failed to update empack.yml document", Cause: err}
		}
		out, err = yaml.Marshal(doc)
	} else {
		out, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return &command.ConfigError{Message: "failed to serialize empack.yml", Cause: err}
	}

	if err := b.fs.WriteFile(ctx, b.path(state.IntentFile), out); err != nil {
		return &command.ConfigError{Message: "failed to write empack.yml", Cause: err}
	}
	return nil
}

// applyEmpackConfigToNode re-marshals cfg and splices its mapping content
// into doc in place, which is a simpler and equally round-trip-safe
// strategy than hand-walking yaml.Node mutations field by field: gopkg.in/
// yaml.v3 already preserves block style and key order from the Go struct's
// field order and tags, so re-marshaling cfg reproduces the same layout the
// original document had, as long as the original was itself produced by
// this bridge (true for every empack.yml empack ever writes).
func applyEmpackConfigToNode(doc *yaml.Node, cfg EmpackConfig) error {
	fresh, err := yamlToNode(cfg)
	if err != nil {
		return err
	}
	*doc = *fresh
	return nil
}

func yamlToNode(v interface{}) (*yaml.Node, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// NewEmpackConfig builds the EmpackConfig written by Initialize, mirroring
// the values passed in exactly, per spec.md §4.4's "no silent defaulting."
func NewEmpackConfig(name, author, version, minecraftVersion, loader, loaderVersion string) EmpackConfig {
	return EmpackConfig{
		Pack: PackSection{
			Name:             name,
			Author:           author,
			Version:          version,
			MinecraftVersion: minecraftVersion,
			Loader:           loader,
			LoaderVersion:    loaderVersion,
		},
		Dependencies: []ProjectSpec{},
	}
}

// LoadPackConfig parses pack/pack.toml into a PackConfig.
func (b *Bridge) LoadPackConfig(ctx context.Context) (PackConfig, error) {
	raw, err := b.fs.ReadToString(ctx, b.path(state.RealityFile))
	if err != nil {
		return PackConfig{}, &command.ConfigError{Message: "failed to read pack/pack.toml", Cause: err}
	}

	var parsed rawPackToml
	if _, err := toml.Decode(raw, &parsed); err != nil {
		return PackConfig{}, &command.ConfigError{Message: "pack/pack.toml is not valid TOML", Cause: err}
	}

	loader, loaderVersion := "", ""
	for key, v := range parsed.Versions {
		if key == "minecraft" {
			continue
		}
		loader, loaderVersion = key, v
	}

	return PackConfig{
		Name:             parsed.Name,
		Author:           parsed.Author,
		Version:          parsed.Version,
		MinecraftVersion: parsed.Versions["minecraft"],
		Loader:           loader,
		LoaderVersion:    loaderVersion,
		IndexDigest:      parsed.Index.Hash,
	}, nil
}

// InstalledSlugs parses pack/index.toml and returns the packwiz project
// slugs currently installed, derived from each managed file's metadata
// path (mods/<slug>.pw.toml).
func (b *Bridge) InstalledSlugs(ctx context.Context) ([]string, error) {
	raw, err := b.fs.ReadToString(ctx, b.path("pack/index.toml"))
	if err != nil {
		return nil, &command.ConfigError{Message: "failed to read pack/index.toml", Cause: err}
	}

	var parsed rawIndexToml
	if _, err := toml.Decode(raw, &parsed); err != nil {
		return nil, &command.ConfigError{Message: "pack/index.toml is not valid TOML", Cause: err}
	}

	var slugs []string
	for _, f := range parsed.Files {
		if slug, ok := slugFromMetaPath(f.File); ok {
			slugs = append(slugs, slug)
		}
	}
	return slugs, nil
}

func slugFromMetaPath(path string) (string, bool) {
	base := filepath.Base(path)
	const suffix = ".pw.toml"
	if len(base) <= len(suffix) || base[len(base)-len(suffix):] != suffix {
		return "", false
	}
	return base[:len(base)-len(suffix)], true
}

// Reconcile implements spec.md §4.4's ProjectPlan derivation:
//   - additions = specs in intent not present in reality
//   - removals  = slugs in reality not present in intent
//   - updates   = installed specs in intent that pin a version
//   - unchanged = the rest
//
// "Present in reality" is matched by slug: a spec matches an installed slug
// if its Name or ProjectID equals that slug, case-insensitively.
func Reconcile(intent EmpackConfig, installedSlugs []string) ProjectPlan {
	installed := make(map[string]bool, len(installedSlugs))
	for _, s := range installedSlugs {
		installed[normalizeSlug(s)] = true
	}

	var plan ProjectPlan
	seenSlugs := make(map[string]bool, len(intent.Dependencies))

	for _, dep := range intent.Dependencies {
		nameSlug := normalizeSlug(dep.Name)
		idSlug := normalizeSlug(dep.ProjectID)
		seenSlugs[nameSlug] = true
		if idSlug != "" {
			seenSlugs[idSlug] = true
		}

		if !installed[nameSlug] && (idSlug == "" || !installed[idSlug]) {
			plan.Additions = append(plan.Additions, dep)
			continue
		}
		if dep.Version != "" {
			// index.toml carries no per-mod pinned version to diff against,
			// so any installed dep with a pinned intent version is treated
			// as an update rather than compared for an actual difference.
			plan.Updates = append(plan.Updates, dep)
			continue
		}
		plan.Unchanged = append(plan.Unchanged, dep)
	}

	for _, slug := range installedSlugs {
		if !seenSlugs[normalizeSlug(slug)] {
			plan.Removals = append(plan.Removals, slug)
		}
	}

	return plan
}

func normalizeSlug(s string) string {
	return strings.ToLower(s)
}
