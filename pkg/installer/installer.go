// Package installer installs a game version into a container: it resolves
// the profile chain, downloads every file the version needs and unpacks the
// native libraries.
package installer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/artifact"
	"github.com/skjsjhb/hyaci-launcher/pkg/catalog"
	"github.com/skjsjhb/hyaci-launcher/pkg/container"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/pkg/fsutil"
	"github.com/skjsjhb/hyaci-launcher/pkg/hooks"
	"github.com/skjsjhb/hyaci-launcher/pkg/platform"
	"github.com/skjsjhb/hyaci-launcher/pkg/profile"
)

// Installer ties the profile source, the downloader and the extractor
// together.
type Installer struct {
	Profiles  profile.Fetcher
	DL        Downloader
	Extractor Extractor
	Scripts   HookRunner // optional
	Hooks     Hooks

	// Platform selects libraries and natives. Defaults to the current one.
	Platform *platform.Platform
	// StrictInheritance fails installs of profiles with cyclic inheritance.
	StrictInheritance bool
	AssetBaseURL      string
}

// New constructs an Installer for the current platform.
func New(profiles profile.Fetcher, dl Downloader, ex Extractor, scripts HookRunner, h Hooks) *Installer {
	return &Installer{
		Profiles:     profiles,
		DL:           dl,
		Extractor:    ex,
		Scripts:      scripts,
		Hooks:        h,
		AssetBaseURL: DefaultAssetBaseURL,
	}
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Install makes profile id runnable from r and returns the linked profile.
// Natives are only unpacked once every download succeeded.
func (in *Installer) Install(ctx context.Context, id string, r container.Resolver) (profile.Profile, error) {
	p, err := in.install(ctx, id, r)
	if err != nil {
		emit(in.Hooks, Event{Phase: PhaseError, ID: id, Msg: err.Error()})
		return nil, err
	}
	emit(in.Hooks, Event{Phase: PhaseDone, ID: id})
	logger.Success("Profile installed", logger.Fields{"profile": id, "gameDir": r.GameDir()})
	return p, nil
}

func (in *Installer) install(ctx context.Context, id string, r container.Resolver) (profile.Profile, error) {
	if in.Profiles == nil || in.DL == nil || in.Extractor == nil {
		return nil, fmt.Errorf("installer is not configured")
	}
	plat := in.platform()

	emit(in.Hooks, Event{Phase: PhaseResolving, ID: id})
	logger.Info("Resolving profile", logger.Fields{"profile": id})
	p, err := profile.Load(ctx, id, catalog.NewSavingFetcher(r, in.Profiles), profile.WithStrictCycles(in.StrictInheritance))
	if err != nil {
		return nil, err
	}

	hctx := hooks.HookContext{ProfileID: p.ID(), Version: p.Version(), GameDir: r.GameDir(), NativesDir: r.Natives(p.ID())}
	if err := in.runHook(ctx, hooks.PreInstall, hctx); err != nil {
		return nil, err
	}

	emit(in.Hooks, Event{Phase: PhasePlanning, ID: id})
	libs := profile.FilterLibraries(p.Libraries(), plat.RuleContext())
	var set artifact.Set
	if err := in.addAssets(ctx, &set, p, r); err != nil {
		return nil, err
	}
	addLibraries(&set, libs, plat.OS, r)
	if c := p.Client(); c != nil {
		set.Add(c.WithPath(r.Client(p.ID())))
	}
	if l := p.LoggingConfig(); l != nil {
		set.Add(l.WithPath(r.LogConfig(l.Path)))
	}

	emit(in.Hooks, Event{Phase: PhaseDownloading, ID: id, Msg: fmt.Sprintf("%d files", set.Len())})
	logger.Info("Downloading files", logger.Fields{"profile": id, "files": set.Len()})
	if err := in.DL.FetchAll(ctx, set.Slice()); err != nil {
		return nil, err
	}

	emit(in.Hooks, Event{Phase: PhaseExtracting, ID: id})
	if err := in.extractNatives(ctx, libs, plat.OS, r, p.ID()); err != nil {
		return nil, err
	}

	if err := in.runHook(ctx, hooks.PostInstall, hctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (in *Installer) platform() platform.Platform {
	if in.Platform != nil {
		return *in.Platform
	}
	return platform.CurrentPlatform()
}

func (in *Installer) runHook(ctx context.Context, t hooks.HookType, hctx hooks.HookContext) error {
	if in.Scripts == nil {
		return nil
	}
	return in.Scripts.Execute(ctx, t, hctx)
}

// addAssets downloads the asset index on its own, since its content decides
// the remaining asset downloads, then adds the index and every object to set.
func (in *Installer) addAssets(ctx context.Context, set *artifact.Set, p profile.Profile, r container.Resolver) error {
	idxArtifact := p.AssetIndex()
	if idxArtifact == nil {
		logger.Warn("Profile has no asset index", logger.Fields{"profile": p.ID()})
		return nil
	}
	assetID := p.AssetID()
	local := idxArtifact.WithPath(r.AssetIndex(assetID))
	if err := in.DL.FetchAll(ctx, []artifact.Artifact{local}); err != nil {
		return errors.Wrap(err, "failed to download asset index")
	}
	data, err := os.ReadFile(local.Path)
	if err != nil {
		return errors.Wrap(err, "failed to read asset index")
	}
	idx, err := profile.ParseAssetIndex(data)
	if err != nil {
		return err
	}
	if idx.MapToResources {
		if err := fsutil.WriteFile(r.AssetMapToResources(assetID+".json"), data); err != nil {
			return errors.Wrap(err, "failed to copy asset index")
		}
	}

	set.Add(local)
	base := strings.TrimSuffix(in.AssetBaseURL, "/") + "/"
	for name, obj := range idx.Objects {
		if len(obj.Hash) < 2 {
			return errors.Wrapf(errors.ErrProfileParse, "asset %s has an invalid hash", name)
		}
		var path string
		switch {
		case idx.MapToResources:
			path = r.AssetMapToResources(name)
		case profile.IsLegacyAssetID(assetID):
			path = r.AssetLegacy(name)
		default:
			path = r.Asset(obj.Hash)
		}
		set.Add(artifact.New(base+obj.Hash[:2]+"/"+obj.Hash, path, obj.Size, artifact.FormatChecksum("sha1", obj.Hash)))
	}
	logger.Debug("Assets planned", logger.Fields{"index": assetID, "objects": len(idx.Objects)})
	return nil
}

func addLibraries(set *artifact.Set, libs []profile.Library, osName string, r container.Resolver) {
	for _, l := range libs {
		if l.Artifact != nil {
			set.Add(l.Artifact.WithPath(r.Library(l.Artifact.Path)))
		}
		if n := l.NativeArtifact(osName); n != nil {
			set.Add(n.WithPath(r.Library(n.Path)))
		}
	}
}

func (in *Installer) extractNatives(ctx context.Context, libs []profile.Library, osName string, r container.Resolver, id string) error {
	dest := r.Natives(id)
	for _, l := range libs {
		n := l.NativeArtifact(osName)
		if n == nil {
			continue
		}
		logger.Debug("Extracting natives", logger.Fields{"library": l.Name, "dest": dest})
		if err := in.Extractor.ExtractAll(ctx, r.Library(n.Path), dest, l.ExtractExclude...); err != nil {
			return errors.Wrapf(err, "failed to extract natives of %s", l.Name)
		}
	}
	return nil
}
