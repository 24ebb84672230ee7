// Package catalog reads the remote version manifest and serves version
// manifests to the profile loader.
package catalog

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"slices"
	"sync"

	"github.com/hashicorp/go-version"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/artifact"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
)

// DefaultManifestURL lists every published game version.
const DefaultManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

// Getter downloads a document into memory.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Version is one entry of the version manifest.
type Version struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	SHA1        string `json:"sha1"`
	ReleaseTime string `json:"releaseTime"`
}

// Manifest is the decoded version manifest.
type Manifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []Version `json:"versions"`
}

// Find returns the entry for id.
func (m *Manifest) Find(id string) (Version, bool) {
	for _, v := range m.Versions {
		if v.ID == id {
			return v, true
		}
	}
	return Version{}, false
}

// Client looks versions up in the remote manifest. The manifest is downloaded
// once per Client.
type Client struct {
	getter Getter
	url    string

	mu       sync.Mutex
	manifest *Manifest
}

// Option configures a Client.
type Option func(*Client)

// WithManifestURL overrides DefaultManifestURL.
func WithManifestURL(url string) Option {
	return func(c *Client) { c.url = url }
}

// NewClient creates a catalog client downloading through getter.
func NewClient(getter Getter, opts ...Option) *Client {
	c := &Client{getter: getter, url: DefaultManifestURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Manifest returns the version manifest, downloading it on first use.
func (c *Client) Manifest(ctx context.Context) (*Manifest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.manifest != nil {
		return c.manifest, nil
	}

	data, err := c.getter.Get(ctx, c.url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download version manifest")
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrProfileParse, "version manifest: "+err.Error())
	}
	logger.Debug("Version manifest loaded", logger.Fields{"versions": len(m.Versions)})
	c.manifest = &m
	return c.manifest, nil
}

// Fetch downloads the manifest of version id. The document is checked against
// the catalog's sha1 when one is listed.
func (c *Client) Fetch(ctx context.Context, id string) ([]byte, error) {
	m, err := c.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	v, ok := m.Find(id)
	if !ok {
		return nil, errors.Wrapf(errors.ErrVersionNotFound, "%s", id)
	}

	data, err := c.getter.Get(ctx, v.URL)
	if err != nil {
		return nil, err
	}
	if v.SHA1 != "" {
		h, _ := artifact.NewHash("sha1")
		_, _ = h.Write(data)
		got := artifact.FormatChecksum("sha1", hex.EncodeToString(h.Sum(nil)))
		if want := artifact.FormatChecksum("sha1", v.SHA1); got != want {
			return nil, errors.Wrapf(errors.ErrValidation, "manifest %s: expected %s, got %s", id, want, got)
		}
	}
	return data, nil
}

// List returns the versions whose type is in types (all types when empty)
// and whose id satisfies constraint (no filtering when empty). Ids that are
// not version numbers never satisfy a constraint.
func (c *Client) List(ctx context.Context, types []string, constraint string) ([]Version, error) {
	var cs version.Constraints
	if constraint != "" {
		var err error
		if cs, err = version.NewConstraint(constraint); err != nil {
			return nil, errors.Wrapf(err, "invalid version constraint %q", constraint)
		}
	}

	m, err := c.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Version, 0, len(m.Versions))
	for _, v := range m.Versions {
		if len(types) > 0 && !slices.Contains(types, v.Type) {
			continue
		}
		if cs != nil {
			parsed, err := version.NewVersion(v.ID)
			if err != nil || !cs.Check(parsed) {
				continue
			}
		}
		out = append(out, v)
	}
	return out, nil
}
