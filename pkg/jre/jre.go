// Package jre installs the Java runtimes published alongside the game and
// finds installed ones.
package jre

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-version"
	"golang.org/x/sync/errgroup"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/archive"
	"github.com/skjsjhb/hyaci-launcher/pkg/artifact"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/pkg/fsutil"
	"github.com/skjsjhb/hyaci-launcher/pkg/platform"
	"github.com/skjsjhb/hyaci-launcher/pkg/store"
)

// DefaultIndexURL lists every runtime component per platform.
const DefaultIndexURL = "https://piston-meta.mojang.com/v1/products/java-runtime/2ec0cc96c44e5a76b9c8b7c39df7210883d12871/all.json"

const lzmaSuffix = ".lzma"

// Getter downloads a document into memory.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Downloader fetches a set of artifacts as one group.
type Downloader interface {
	FetchAll(ctx context.Context, artifacts []artifact.Artifact) error
}

// Registry records installed runtimes.
type Registry interface {
	SaveRuntime(r *store.Runtime) error
	GetRuntime(component string) (*store.Runtime, error)
}

type indexEntry struct {
	Manifest struct {
		URL  string `json:"url"`
		SHA1 string `json:"sha1"`
		Size uint64 `json:"size"`
	} `json:"manifest"`
	Version struct {
		Name string `json:"name"`
	} `json:"version"`
}

type fileDownload struct {
	URL  string `json:"url"`
	SHA1 string `json:"sha1"`
	Size uint64 `json:"size"`
}

type fileEntry struct {
	Type       string `json:"type"`
	Executable bool   `json:"executable"`
	Downloads  struct {
		Raw  *fileDownload `json:"raw"`
		LZMA *fileDownload `json:"lzma"`
	} `json:"downloads"`
}

type runtimeFile struct {
	path       string
	executable bool
	lzma       bool
	artifact   artifact.Artifact
}

// OSPair returns the platform key of the runtime index.
func OSPair(p platform.Platform) (string, error) {
	switch p.OS {
	case platform.OSLinux:
		return "linux", nil
	case platform.OSMac:
		if p.IsArm() {
			return "mac-os-arm64", nil
		}
		return "mac-os", nil
	case platform.OSWindows:
		return "windows-x64", nil
	}
	return "", errors.Wrapf(errors.ErrUnsupportedPlatform, "no runtimes for %s", p.OS)
}

// Executable returns the java binary inside a runtime root.
func Executable(root, osName string) string {
	switch osName {
	case platform.OSMac:
		return filepath.Join(root, "jre.bundle", "Contents", "Home", "bin", "java")
	case platform.OSWindows:
		return filepath.Join(root, "bin", "java.exe")
	default:
		return filepath.Join(root, "bin", "java")
	}
}

// Installer downloads runtime components into Root/<component>.
type Installer struct {
	Getter   Getter
	DL       Downloader
	Registry Registry
	Root     string
	// LZMA downloads compressed files where offered and inflates them locally.
	LZMA     bool
	Platform *platform.Platform
	IndexURL string
}

// Install downloads component and records it in the registry.
func (in *Installer) Install(ctx context.Context, component string) (*store.Runtime, error) {
	plat := platform.CurrentPlatform()
	if in.Platform != nil {
		plat = *in.Platform
	}
	pair, err := OSPair(plat)
	if err != nil {
		return nil, err
	}
	logger.Info("Installing runtime", logger.Fields{"component": component, "platform": pair})

	entry, err := in.lookup(ctx, pair, component)
	if err != nil {
		return nil, err
	}
	root := filepath.Join(in.Root, filepath.Clean(string(filepath.Separator)+component))
	files, err := in.files(ctx, entry, root)
	if err != nil {
		return nil, err
	}

	as := make([]artifact.Artifact, 0, len(files))
	for _, f := range files {
		as = append(as, f.artifact)
	}
	logger.Debug("Downloading runtime files", logger.Fields{"component": component, "files": len(as)})
	if err := in.DL.FetchAll(ctx, as); err != nil {
		return nil, err
	}
	if err := inflate(ctx, files); err != nil {
		return nil, err
	}
	for _, f := range files {
		if !f.executable {
			continue
		}
		if err := os.Chmod(f.path, fsutil.FileModeExec); err != nil {
			return nil, errors.Wrapf(err, "failed to mark %s executable", f.path)
		}
	}

	rt := &store.Runtime{
		Component:  component,
		Version:    entry.Version.Name,
		Root:       root,
		Executable: Executable(root, plat.OS),
	}
	if err := in.Registry.SaveRuntime(rt); err != nil {
		return nil, err
	}
	logger.Success("Runtime installed", logger.Fields{"component": component, "version": rt.Version})
	return rt, nil
}

func (in *Installer) lookup(ctx context.Context, pair, component string) (*indexEntry, error) {
	url := in.IndexURL
	if url == "" {
		url = DefaultIndexURL
	}
	data, err := in.Getter.Get(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download runtime index")
	}
	var index map[string]map[string][]indexEntry
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, errors.Wrap(errors.ErrProfileParse, "runtime index: "+err.Error())
	}
	entries := index[pair][component]
	if len(entries) == 0 || entries[0].Manifest.URL == "" {
		return nil, errors.Wrapf(errors.ErrRuntimeNotFound, "no manifest for %s.%s", pair, component)
	}
	return &entries[0], nil
}

// files lists the regular files of a runtime, leaving out license texts.
func (in *Installer) files(ctx context.Context, entry *indexEntry, root string) ([]runtimeFile, error) {
	data, err := in.Getter.Get(ctx, entry.Manifest.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download runtime manifest")
	}
	var manifest struct {
		Files map[string]fileEntry `json:"files"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(errors.ErrProfileParse, "runtime manifest: "+err.Error())
	}

	var out []runtimeFile
	for name, f := range manifest.Files {
		if f.Type != "file" || strings.HasPrefix(name, "legal/") || strings.HasPrefix(name, "jre.bundle/Contents/Home/legal/") {
			continue
		}
		d, lzma := f.Downloads.Raw, false
		if in.LZMA && f.Downloads.LZMA != nil && f.Downloads.LZMA.URL != "" {
			d, lzma = f.Downloads.LZMA, true
		}
		if d == nil || d.URL == "" {
			return nil, errors.Wrapf(errors.ErrProfileParse, "runtime file %s has no download", name)
		}
		path := filepath.Join(root, filepath.Clean(string(filepath.Separator)+filepath.FromSlash(name)))
		target := path
		if lzma {
			target += lzmaSuffix
		}
		out = append(out, runtimeFile{
			path:       path,
			executable: f.Executable,
			lzma:       lzma,
			artifact:   artifact.New(d.URL, target, d.Size, artifact.FormatChecksum("sha1", d.SHA1)),
		})
	}
	return out, nil
}

// inflate decompresses the downloaded LZMA files in parallel and removes the
// compressed copies.
func inflate(ctx context.Context, files []runtimeFile) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, f := range files {
		if !f.lzma {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := archive.InflateLZMA(f.artifact.Path, f.path); err != nil {
				return err
			}
			return os.Remove(f.artifact.Path)
		})
	}
	return g.Wait()
}

// Locate returns the java executable of an installed component. A positive
// major rejects runtimes older than that Java major version.
func Locate(reg Registry, component string, major int) (string, error) {
	rt, err := reg.GetRuntime(component)
	if stderrors.Is(err, store.ErrNotFound) {
		return "", errors.Wrapf(errors.ErrRuntimeNotFound, "%s is not installed", component)
	}
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(rt.Executable); err != nil {
		return "", errors.Wrapf(errors.ErrRuntimeNotFound, "%s: %v", component, err)
	}
	if major > 0 {
		got, err := MajorVersion(rt.Version)
		if err != nil {
			return "", err
		}
		if got < major {
			return "", errors.Wrapf(errors.ErrRuntimeNotFound, "%s provides Java %d, need %d", component, got, major)
		}
	}
	return rt.Executable, nil
}

// MajorVersion extracts the Java major version from a version name such as
// 17.0.8 or 1.8.0_51.
func MajorVersion(name string) (int, error) {
	clean, _, _ := strings.Cut(name, "_")
	v, err := version.NewVersion(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid runtime version %q: %w", name, err)
	}
	seg := v.Segments()
	if seg[0] == 1 && len(seg) > 1 {
		return seg[1], nil
	}
	return seg[0], nil
}
