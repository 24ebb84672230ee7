package download

import (
	"context"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/artifact"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
)

const progressInterval = 250 * time.Millisecond

// ProgressFunc receives a human-readable status and a completion fraction in
// [0, 1], or a negative fraction when the total size is unknown.
type ProgressFunc func(status string, fraction float64)

// Group resolves a set of tasks on a bounded worker pool. Artifacts sharing
// a key are downloaded once.
type Group struct {
	tasks      []*Task
	unverified []artifact.Artifact
	poolSize   int
	progress   ProgressFunc

	mu        sync.Mutex
	started   bool
	resolved  bool
	canceled  bool
	cancel    context.CancelFunc
	// workers is closed once every task is terminal, done once the final
	// progress report has been delivered as well.
	workers   chan struct{}
	done      chan struct{}
	firstErr  error
	resultErr error
}

// GroupOption configures a Group.
type GroupOption func(*groupConfig)

type groupConfig struct {
	progress ProgressFunc
	taskOpts []TaskOption
}

// WithProgress attaches a progress callback, invoked periodically while the
// group resolves and once more when it ends.
func WithProgress(fn ProgressFunc) GroupOption {
	return func(c *groupConfig) { c.progress = fn }
}

// WithTaskOptions applies opts to every task of the group.
func WithTaskOptions(opts ...TaskOption) GroupOption {
	return func(c *groupConfig) { c.taskOpts = append(c.taskOpts, opts...) }
}

// NewGroup creates a group downloading artifacts with settings s.
func NewGroup(artifacts []artifact.Artifact, s Settings, opts ...GroupOption) *Group {
	var cfg groupConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	s = s.normalized()

	var set artifact.Set
	set.AddAll(artifacts...)

	g := &Group{poolSize: s.PoolSize, progress: cfg.progress}
	for _, a := range set.Slice() {
		g.tasks = append(g.tasks, NewTask(a, s, cfg.taskOpts...))
		if a.Unverified() {
			g.unverified = append(g.unverified, a)
		}
	}
	if n := len(g.unverified); n > 0 {
		logger.Warn("Some artifacts carry neither checksum nor size and cannot be verified",
			logger.Fields{"count": n, "total": len(g.tasks)})
	}
	return g
}

// Tasks returns the group's tasks.
func (g *Group) Tasks() []*Task {
	out := make([]*Task, len(g.tasks))
	copy(out, g.tasks)
	return out
}

// Unverified returns the artifacts whose integrity cannot be checked.
func (g *Group) Unverified() []artifact.Artifact {
	out := make([]artifact.Artifact, len(g.unverified))
	copy(out, g.unverified)
	return out
}

// Speed is the sum of the tasks' throughput in bytes per second.
func (g *Group) Speed() uint64 {
	var s uint64
	for _, t := range g.tasks {
		s += t.Speed()
	}
	return s
}

// ProgressByCount returns the number of finished tasks and the task count.
func (g *Group) ProgressByCount() (finished, total int) {
	for _, t := range g.tasks {
		if t.State().Terminal() {
			finished++
		}
	}
	return finished, len(g.tasks)
}

// ProgressBySize returns completed and expected bytes. The total grows as
// tasks learn sizes from their responses.
func (g *Group) ProgressBySize() (completed, total uint64) {
	for _, t := range g.tasks {
		completed += t.Completed()
		total += t.Total()
	}
	return completed, total
}

// Resolve blocks until every task is finished and reports whether all of
// them succeeded.
func (g *Group) Resolve(ctx context.Context) bool {
	return g.run(ctx) == nil
}

// ResolveOrThrow blocks until every task is finished and returns the first
// task failure in the order failures occurred.
func (g *Group) ResolveOrThrow(ctx context.Context) error {
	return g.run(ctx)
}

// Cancel cancels every task and blocks until running workers return.
// It does nothing once the group has resolved. Cancel may be called from the
// progress callback.
func (g *Group) Cancel() {
	g.mu.Lock()
	if g.resolved {
		g.mu.Unlock()
		return
	}
	g.canceled = true
	cancel, workers := g.cancel, g.workers
	g.mu.Unlock()

	for _, t := range g.tasks {
		t.Cancel()
	}
	if cancel != nil {
		cancel()
	}
	if workers != nil {
		<-workers
	}
}

func (g *Group) run(ctx context.Context) error {
	g.mu.Lock()
	if g.started {
		done := g.done
		g.mu.Unlock()
		<-done
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.resultErr
	}
	g.started = true
	ctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.workers = make(chan struct{})
	g.done = make(chan struct{})
	g.mu.Unlock()
	defer cancel()

	stop := g.startProgress()

	var eg errgroup.Group
	eg.SetLimit(g.poolSize)
	for _, t := range g.tasks {
		eg.Go(func() error {
			if err := t.ResolveOrThrow(ctx); err != nil {
				g.recordFailure(err)
			}
			return nil
		})
	}
	_ = eg.Wait()

	g.mu.Lock()
	g.resolved = true
	g.resultErr = g.firstErr
	if g.resultErr == nil && g.canceled {
		g.resultErr = errors.Wrap(errors.ErrDownloadCanceled, "download group")
	}
	err := g.resultErr
	close(g.workers)
	g.mu.Unlock()

	stop()
	close(g.done)
	return err
}

func (g *Group) recordFailure(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.firstErr == nil {
		g.firstErr = err
	}
}

func (g *Group) startProgress() (stop func()) {
	if g.progress == nil {
		return func() {}
	}
	quit := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				g.report()
			}
		}
	}()
	return func() {
		close(quit)
		<-exited
		g.report()
	}
}

func (g *Group) report() {
	completed, total := g.ProgressBySize()
	status := humanize.IBytes(completed) + " / " + humanize.IBytes(total)
	fraction := -1.0
	if total > 0 {
		fraction = float64(completed) / float64(total)
		if fraction > 1 {
			fraction = 1
		}
	}
	g.progress(status, fraction)
}
