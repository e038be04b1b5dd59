package cache

import (
	"path/filepath"
)

// Layout maps cache entries to paths below Root.
type Layout struct {
	Root string
}

func NewLayout(root string) Layout {
	return Layout{Root: root}
}

func (l Layout) ManifestFile() string {
	return filepath.Join(l.Root, "versions.json")
}

func (l Layout) VersionFile(id string) string {
	return filepath.Join(l.Root, "versions", id+".json")
}

func (l Layout) LibrariesDir() string {
	return filepath.Join(l.Root, "libraries")
}

func (l Layout) LibraryFile(path string) string {
	return filepath.Join(l.LibrariesDir(), filepath.FromSlash(path))
}

func (l Layout) ClientsDir() string {
	return filepath.Join(l.Root, "clients")
}

func (l Layout) ClientFile(id string) string {
	return filepath.Join(l.ClientsDir(), id+".jar")
}

func (l Layout) NativesDir() string {
	return filepath.Join(l.Root, "natives")
}

func (l Layout) InstanceDir() string {
	return filepath.Join(l.Root, "instance")
}

func (l Layout) AssetsDir() string {
	return filepath.Join(l.Root, "assets")
}

func (l Layout) ObjectsDir() string {
	return filepath.Join(l.AssetsDir(), "objects")
}

func (l Layout) IndexesDir() string {
	return filepath.Join(l.AssetsDir(), "indexes")
}

func (l Layout) LegacyDir() string {
	return filepath.Join(l.AssetsDir(), "virtual", "legacy")
}

func (l Layout) AssetIndexFile(id string) string {
	return filepath.Join(l.IndexesDir(), id+".json")
}

// ObjectFile is the canonical content-addressed location of an asset.
func (l Layout) ObjectFile(shardedPath string) string {
	return filepath.Join(l.ObjectsDir(), filepath.FromSlash(shardedPath))
}

// LegacyFile is an asset's mirror under its virtual path.
func (l Layout) LegacyFile(virtualPath string) string {
	return filepath.Join(l.LegacyDir(), filepath.FromSlash(virtualPath))
}

// StandardDirs are created before assets are staged.
func (l Layout) StandardDirs() []string {
	return []string{
		l.NativesDir(),
		l.InstanceDir(),
		l.ObjectsDir(),
		l.IndexesDir(),
		l.LegacyDir(),
	}
}
