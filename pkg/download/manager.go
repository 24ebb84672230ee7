package download

import (
	"context"
	"net/http"
	"time"

	"github.com/skjsjhb/hyaci-launcher/pkg/artifact"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "hyaci/1.0"

// Manager builds tasks and groups sharing one HTTP client and settings.
type Manager struct {
	client    *http.Client
	userAgent string
	settings  Settings
	progress  ProgressFunc
}

// NewManager creates a download manager. A zero timeout means no timeout.
func NewManager(timeout time.Duration, userAgent string, settings Settings, progress ProgressFunc) *Manager {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Manager{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		settings:  settings.normalized(),
		progress:  progress,
	}
}

// Settings returns the settings tasks are created with.
func (m *Manager) Settings() Settings { return m.settings }

func (m *Manager) taskOptions() []TaskOption {
	return []TaskOption{WithHTTPClient(m.client), WithUserAgent(m.userAgent)}
}

// NewTask creates a task for a.
func (m *Manager) NewTask(a artifact.Artifact) *Task {
	return NewTask(a, m.settings, m.taskOptions()...)
}

// NewGroup creates a group for artifacts.
func (m *Manager) NewGroup(artifacts []artifact.Artifact) *Group {
	opts := []GroupOption{WithTaskOptions(m.taskOptions()...)}
	if m.progress != nil {
		opts = append(opts, WithProgress(m.progress))
	}
	return NewGroup(artifacts, m.settings, opts...)
}

// Fetch downloads a single artifact.
func (m *Manager) Fetch(ctx context.Context, a artifact.Artifact) error {
	return m.NewTask(a).ResolveOrThrow(ctx)
}

// FetchAll downloads artifacts as one group and returns the first failure.
// Canceling ctx cancels the group.
func (m *Manager) FetchAll(ctx context.Context, artifacts []artifact.Artifact) error {
	g := m.NewGroup(artifacts)
	stop := context.AfterFunc(ctx, g.Cancel)
	defer stop()
	return g.ResolveOrThrow(ctx)
}
