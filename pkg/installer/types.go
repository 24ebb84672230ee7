//go:generate mockgen -destination=./mocks/installer.go . Downloader,Extractor,HookRunner

package installer

import (
	"context"

	"github.com/skjsjhb/hyaci-launcher/pkg/artifact"
	"github.com/skjsjhb/hyaci-launcher/pkg/hooks"
)

// Downloader fetches a set of artifacts as one group.
type Downloader interface {
	FetchAll(ctx context.Context, artifacts []artifact.Artifact) error
}

// Extractor unpacks native archives.
type Extractor interface {
	ExtractAll(ctx context.Context, archivePath, destDir string, exclude ...string) error
}

// HookRunner runs user scripts around an installation.
type HookRunner interface {
	Execute(ctx context.Context, hookType hooks.HookType, hctx hooks.HookContext) error
}

// Phases reported through Hooks.
const (
	PhaseResolving   = "resolving"
	PhasePlanning    = "planning"
	PhaseDownloading = "downloading"
	PhaseExtracting  = "extracting"
	PhaseDone        = "done"
	PhaseError       = "error"
)

// Event represents a simple progress notification.
type Event struct {
	Phase string
	ID    string // profile id
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// DefaultAssetBaseURL serves asset objects by hash.
const DefaultAssetBaseURL = "https://resources.download.minecraft.net/"
