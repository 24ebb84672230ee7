// Package artifact describes downloadable files: where they come from, where
// they go and how to tell whether a local copy is intact.
package artifact

import "fmt"

// Artifact is an immutable download descriptor.
//
// Size 0 means the expected size is unknown. An empty Checksum means no
// digest is available; otherwise it reads "algorithm=hex".
type Artifact struct {
	URL      string `json:"url"`
	Path     string `json:"path"`
	Size     uint64 `json:"size"`
	Checksum string `json:"checksum"`
}

// New builds an Artifact.
func New(url, path string, size uint64, checksum string) Artifact {
	return Artifact{URL: url, Path: path, Size: size, Checksum: checksum}
}

// Key identifies the artifact for de-duplication. URL and path are enough.
func (a Artifact) Key() string {
	return a.URL + "\x00" + a.Path
}

// WithPath returns a copy of a stored at path.
func (a Artifact) WithPath(path string) Artifact {
	a.Path = path
	return a
}

// Unverified reports whether nothing about a downloaded copy can be checked:
// there is neither a checksum nor an expected size.
func (a Artifact) Unverified() bool {
	return a.Checksum == "" && a.Size == 0
}

func (a Artifact) String() string {
	return fmt.Sprintf("%s -> %s", a.URL, a.Path)
}
