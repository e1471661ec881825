// Package configbridge reconciles the user-intent file (empack.yml) with
// the packwiz-reality file (pack/pack.toml), per spec.md §4.4. It holds no
// state beyond the parsed documents for the duration of a single call.
package configbridge

// ProjectSpec is one entry in EmpackConfig.Dependencies: what the user
// wants installed, by name and (optionally) a pinned version/registry id.
type ProjectSpec struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version,omitempty"`
	ProjectID string `yaml:"id,omitempty"`
	Source    string `yaml:"source,omitempty"`
}

// PackSection mirrors empack.yml's top-level `pack:` mapping.
type PackSection struct {
	Name             string `yaml:"name"`
	Author           string `yaml:"author"`
	Version          string `yaml:"version"`
	MinecraftVersion string `yaml:"minecraft_version"`
	Loader           string `yaml:"loader"`
	LoaderVersion    string `yaml:"loader_version"`
}

// EmpackConfig is the parsed intent document (empack.yml), per spec.md §3.
// Dependencies preserves declaration order and duplicates; duplicates are
// reported by DuplicateDependencies, not silently collapsed.
type EmpackConfig struct {
	Pack         PackSection   `yaml:"pack"`
	Dependencies []ProjectSpec `yaml:"dependencies"`
}

// DuplicateDependencies returns the names that appear more than once in
// Dependencies, in first-seen order.
func (c EmpackConfig) DuplicateDependencies() []string {
	seen := make(map[string]int, len(c.Dependencies))
	var dups []string
	for _, d := range c.Dependencies {
		seen[d.Name]++
		if seen[d.Name] == 2 {
			dups = append(dups, d.Name)
		}
	}
	return dups
}

// PackConfig is the parsed reality document (pack/pack.toml), per spec.md
// §3. The core reads these specific keys and never edits the file
// directly; packwiz owns every mutation.
type PackConfig struct {
	Name             string
	Author           string
	Version          string
	MinecraftVersion string
	Loader           string
	LoaderVersion    string
	IndexDigest      string
}

// ProjectPlan is a reconciliation between intent and reality, per spec.md
// §3. It is derived and never stored.
type ProjectPlan struct {
	Additions []ProjectSpec
	Removals  []string // installed slugs absent from intent
	Updates   []ProjectSpec
	Unchanged []ProjectSpec
}

// IsEmpty reports whether applying this plan would be a no-op.
func (p ProjectPlan) IsEmpty() bool {
	return len(p.Additions) == 0 && len(p.Removals) == 0 && len(p.Updates) == 0
}

// rawPackToml mirrors packwiz's pack.toml shape for the keys empack reads.
type rawPackToml struct {
	Name     string `toml:"name"`
	Author   string `toml:"author"`
	Version  string `toml:"version"`
	Versions map[string]string `toml:"versions"`
	Index    struct {
		File string `toml:"file"`
		Hash string `toml:"hash"`
	} `toml:"index"`
}

// rawIndexToml mirrors packwiz's index.toml shape: a list of managed files,
// one per installed mod, each naming the metadata-file path it came from.
type rawIndexToml struct {
	HashFormat string `toml:"hash-format"`
	Files      []struct {
		File string `toml:"file"`
		Hash string `toml:"hash"`
	} `toml:"files"`
}
