// Package modloader defines the mod-loading runtimes empack understands and
// the priority and compatibility rules used to pick one by default.
package modloader

import "fmt"

// ModLoader identifies a Minecraft mod-loading runtime.
type ModLoader int

const (
	Vanilla ModLoader = iota
	NeoForge
	Fabric
	Forge
	Quilt
)

// String renders the loader the way packwiz/CLI flags spell it.
func (m ModLoader) String() string {
	switch m {
	case NeoForge:
		return "neoforge"
	case Fabric:
		return "fabric"
	case Forge:
		return "forge"
	case Quilt:
		return "quilt"
	case Vanilla:
		return "vanilla"
	default:
		return "unknown"
	}
}

// Parse resolves a loader name (case-sensitive lowercase, as accepted on the
// CLI and stored in pack.toml) to a ModLoader.
func Parse(name string) (ModLoader, error) {
	switch name {
	case "neoforge":
		return NeoForge, nil
	case "fabric":
		return Fabric, nil
	case "forge":
		return Forge, nil
	case "quilt":
		return Quilt, nil
	case "vanilla":
		return Vanilla, nil
	default:
		return Vanilla, fmt.Errorf("unknown modloader %q", name)
	}
}

// priorityOrder is NeoForge > Fabric > Forge > Quilt, per the default
// selection rule.
var priorityOrder = []ModLoader{NeoForge, Fabric, Forge, Quilt}

// DefaultPriority returns the loader priority list used when Init must pick
// a default loader without user input.
func DefaultPriority() []ModLoader {
	out := make([]ModLoader, len(priorityOrder))
	copy(out, priorityOrder)
	return out
}

// CompatibleFamilies returns the set of loaders a version tagged `loader`
// is considered compatible with for the given Minecraft version. Every
// loader is always compatible with itself; the sole cross-loader exception
// is that Minecraft 1.20.1 NeoForge packs additionally accept Forge-tagged
// versions, since NeoForge forked from Forge at that release and many mods
// had not yet published NeoForge-tagged builds.
func CompatibleFamilies(loader ModLoader, minecraftVersion string) []ModLoader {
	families := []ModLoader{loader}
	if loader == NeoForge && minecraftVersion == "1.20.1" {
		families = append(families, Forge)
	}
	return families
}

// IsCompatible reports whether a version tagged `tag` satisfies a pack
// targeting `loader` on `minecraftVersion`.
func IsCompatible(loader ModLoader, minecraftVersion string, tag ModLoader) bool {
	for _, f := range CompatibleFamilies(loader, minecraftVersion) {
		if f == tag {
			return true
		}
	}
	return false
}

// PackwizFlag returns the --<loader>-version flag name packwiz init expects
// for this loader (e.g. "fabric-version", "neoforge-version").
func (m ModLoader) PackwizFlag() string {
	return m.String() + "-version"
}
