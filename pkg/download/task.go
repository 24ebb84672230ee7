package download

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/artifact"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/pkg/fsutil"
)

const partSuffix = ".part"

// Task downloads one artifact to its path. A Task is safe for concurrent use
// by one resolver plus any number of observers and cancelers.
type Task struct {
	artifact  artifact.Artifact
	settings  Settings
	client    *http.Client
	userAgent string

	mu       sync.Mutex
	state    State
	err      error
	canceled bool
	cancel   context.CancelFunc

	total atomic.Uint64
	meter meter
}

// TaskOption configures a Task.
type TaskOption func(*Task)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) TaskOption {
	return func(t *Task) { t.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) TaskOption {
	return func(t *Task) { t.userAgent = ua }
}

// NewTask creates a READY task for a.
func NewTask(a artifact.Artifact, s Settings, opts ...TaskOption) *Task {
	t := &Task{
		artifact:  a,
		settings:  s.normalized(),
		client:    http.DefaultClient,
		userAgent: DefaultUserAgent,
		state:     StateReady,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.total.Store(a.Size)
	return t
}

// Artifact returns the artifact this task downloads.
func (t *Task) Artifact() artifact.Artifact { return t.artifact }

// State returns the current state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err returns the failure of the last resolution, nil when it succeeded.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Completed is the number of bytes in place for the current attempt.
func (t *Task) Completed() uint64 { return t.meter.Completed() }

// Total is the expected size, 0 while unknown.
func (t *Task) Total() uint64 { return t.total.Load() }

// Speed is the sampled throughput in bytes per second.
func (t *Task) Speed() uint64 { return t.meter.Speed() }

// Cancel stops the task. A running transfer is interrupted and the task ends
// CANCELED. Canceling a READY task makes a later Resolve end immediately.
func (t *Task) Cancel() {
	t.mu.Lock()
	t.canceled = true
	cancel := t.cancel
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Resolve runs the task and reports whether the file is in place.
func (t *Task) Resolve(ctx context.Context) bool {
	return t.ResolveOrThrow(ctx) == nil
}

// ResolveOrThrow runs the task and returns its failure. The error wraps
// ErrDownloadCanceled, or ErrDownloadFailed together with the last cause.
func (t *Task) ResolveOrThrow(ctx context.Context) error {
	ctx, err := t.begin(ctx)
	if err != nil {
		return err
	}

	a := t.artifact
	logger.Debug("Resolving artifact", logger.Fields{"url": a.URL, "path": a.Path})

	if t.existing() {
		logger.Debug("Existing file is valid", logger.Fields{"path": a.Path})
		return t.finish(StateSkipped, nil)
	}

	var last error
	tries := 0
	for tries < t.settings.Tries {
		if t.isCanceled(ctx) {
			break
		}
		tries++
		last = t.attempt(ctx)
		if last == nil {
			return t.finish(StateDone, nil)
		}
		if t.isCanceled(ctx) {
			break
		}
		if stderrors.Is(last, errors.ErrRemoteNotFound) {
			logger.Warn("Resource does not exist, not retrying", logger.Fields{"url": a.URL})
			break
		}
		logger.Debug("Download attempt failed", logger.Fields{
			"url":       a.URL,
			"error":     last.Error(),
			"remaining": t.settings.Tries - tries,
		})
	}
	_ = os.Remove(a.Path + partSuffix)

	if t.isCanceled(ctx) {
		logger.Debug("Download canceled", logger.Fields{"url": a.URL})
		return t.finish(StateCanceled, errors.Wrap(errors.ErrDownloadCanceled, a.URL))
	}
	logger.Warn("Download abandoned", logger.Fields{"url": a.URL, "tries": tries})
	return t.finish(StateFailed, fmt.Errorf("%w: %s after %d tries: %w", errors.ErrDownloadFailed, a.URL, tries, last))
}

func (t *Task) begin(ctx context.Context) (context.Context, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateCanceled {
		return nil, t.err
	}
	if t.canceled || ctx.Err() != nil {
		err := errors.Wrap(errors.ErrDownloadCanceled, t.artifact.URL)
		if t.state == StateReady {
			t.state = StateCanceled
			t.err = err
		}
		return nil, err
	}
	if err := transition(&t.state, StateActive); err != nil {
		return nil, err
	}
	t.err = nil
	ctx, t.cancel = context.WithCancel(ctx)
	return ctx, nil
}

func (t *Task) finish(to State, err error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.meter.speed.Store(0)
	t.err = err
	if terr := transition(&t.state, to); terr != nil {
		return terr
	}
	return err
}

func (t *Task) isCanceled(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canceled || ctx.Err() != nil
}

// existing validates a file already at the target path. The file length
// stands in for the written byte count.
func (t *Task) existing() bool {
	st, err := os.Stat(t.artifact.Path)
	if err != nil || !st.Mode().IsRegular() {
		return false
	}
	size := uint64(st.Size())
	if err := validate(t.artifact.Path, t.artifact, t.settings.Validation, size, t.artifact.Size); err != nil {
		logger.Debug("Existing file rejected", logger.Fields{"path": t.artifact.Path, "reason": err.Error()})
		return false
	}
	t.meter.completed.Store(size)
	if t.total.Load() == 0 {
		t.total.Store(size)
	}
	return true
}

// attempt performs one transfer into the part file, validates it and moves it
// into place.
func (t *Task) attempt(ctx context.Context) error {
	a := t.artifact
	t.meter.reset()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, http.NoBody)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", t.userAgent)
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return errors.Wrapf(errors.ErrRemoteNotFound, "%s (status %d)", a.URL, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	expected := a.Size
	if expected == 0 && resp.ContentLength > 0 {
		expected = uint64(resp.ContentLength)
	}
	t.total.Store(expected)

	part := a.Path + partSuffix
	if err := fsutil.EnsureFileDir(part); err != nil {
		return errors.Wrap(err, "could not create download dir")
	}
	f, err := fsutil.CreateFilePerm(part, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(err, "could not create file")
	}
	_, err = io.Copy(meteredWriter{w: f, m: &t.meter}, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(err, "transfer interrupted")
	}

	if err := validate(part, a, t.settings.Validation, t.meter.Completed(), expected); err != nil {
		return err
	}
	if err := fsutil.Move(part, a.Path); err != nil {
		return errors.Wrap(err, "could not finalize file")
	}
	return nil
}
