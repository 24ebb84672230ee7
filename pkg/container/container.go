// Package container maps profile ids, library paths and asset hashes to
// locations inside a game directory.
package container

import (
	"path/filepath"

	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
)

// Resolver returns absolute local paths for game files.
type Resolver interface {
	GameDir() string
	Profile(id string) string
	Client(id string) string
	Natives(id string) string
	Library(path string) string
	AssetRoot() string
	AssetRootLegacy() string
	AssetRootMapToResources() string
	Asset(hash string) string
	AssetLegacy(name string) string
	AssetMapToResources(name string) string
	AssetIndex(id string) string
	LogConfig(id string) string
}

// Vanilla lays files out the way the official launcher does.
type Vanilla struct {
	root string
}

var _ Resolver = (*Vanilla)(nil)

// NewVanilla creates a resolver rooted at root, made absolute.
func NewVanilla(root string) (*Vanilla, error) {
	if root == "" {
		return nil, errors.Wrap(errors.ErrInvalidPath, "empty container root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidPath, "%s: %v", root, err)
	}
	return &Vanilla{root: abs}, nil
}

// resolve joins parts under the root. A part cannot climb out of the
// directory formed by the parts before it.
func (v *Vanilla) resolve(parts ...string) string {
	elems := make([]string, 0, len(parts)+1)
	elems = append(elems, v.root)
	for _, p := range parts {
		elems = append(elems, filepath.Clean(string(filepath.Separator)+p))
	}
	return filepath.Join(elems...)
}

func (v *Vanilla) GameDir() string                        { return v.root }
func (v *Vanilla) Profile(id string) string               { return v.resolve("versions", id, id+".json") }
func (v *Vanilla) Client(id string) string                { return v.resolve("versions", id, id+".jar") }
func (v *Vanilla) Natives(id string) string               { return v.resolve("versions", id, "natives") }
func (v *Vanilla) Library(path string) string             { return v.resolve("libraries", path) }
func (v *Vanilla) AssetRoot() string                      { return v.resolve("assets") }
func (v *Vanilla) AssetRootLegacy() string                { return v.resolve("assets", "virtual", "legacy") }
func (v *Vanilla) AssetRootMapToResources() string        { return v.resolve("resources") }
func (v *Vanilla) AssetLegacy(name string) string         { return v.resolve("assets", "virtual", "legacy", name) }
func (v *Vanilla) AssetMapToResources(name string) string { return v.resolve("resources", name) }
func (v *Vanilla) AssetIndex(id string) string            { return v.resolve("assets", "indexes", id+".json") }
func (v *Vanilla) LogConfig(id string) string             { return v.resolve(id) }

// Asset returns the content-addressed location of an asset object.
func (v *Vanilla) Asset(hash string) string {
	prefix := hash
	if len(hash) > 2 {
		prefix = hash[:2]
	}
	return v.resolve("assets", "objects", prefix, hash)
}
