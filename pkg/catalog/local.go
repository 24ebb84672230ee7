package catalog

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/pkg/fsutil"
	"github.com/skjsjhb/hyaci-launcher/pkg/profile"
)

// ProfilePaths maps a profile id to its manifest location.
type ProfilePaths interface {
	Profile(id string) string
}

// LocalFetcher reads manifests saved in a container and asks fallback for
// the ones that are missing. A nil fallback makes missing manifests an
// ErrProfileNotFound.
type LocalFetcher struct {
	paths    ProfilePaths
	fallback profile.Fetcher
}

// NewLocalFetcher creates a LocalFetcher.
func NewLocalFetcher(paths ProfilePaths, fallback profile.Fetcher) *LocalFetcher {
	return &LocalFetcher{paths: paths, fallback: fallback}
}

func (f *LocalFetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	path := f.paths.Profile(id)
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	if f.fallback == nil {
		return nil, errors.Wrapf(errors.ErrProfileNotFound, "%s is not installed", id)
	}
	logger.Debug("Manifest not saved locally", logger.Fields{"profile": id})
	return f.fallback.Fetch(ctx, id)
}

// SavingFetcher writes every manifest it fetches to the container before
// handing it on.
type SavingFetcher struct {
	paths    ProfilePaths
	upstream profile.Fetcher
}

// NewSavingFetcher creates a SavingFetcher.
func NewSavingFetcher(paths ProfilePaths, upstream profile.Fetcher) *SavingFetcher {
	return &SavingFetcher{paths: paths, upstream: upstream}
}

func (f *SavingFetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	data, err := f.upstream.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	path := f.paths.Profile(id)
	if err := fsutil.WriteFile(path, data); err != nil {
		return nil, errors.Wrapf(err, "failed to save manifest %s", id)
	}
	logger.Debug("Manifest saved", logger.Fields{"profile": id, "path": path})
	return data, nil
}
