package launch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
)

// DefaultBacklog is the number of output lines a Game keeps.
const DefaultBacklog = 10000

// waitDelay bounds how long Wait keeps draining output once the process has
// exited. Descendants may still hold the output pipe.
const waitDelay = 2 * time.Second

// Game is a running game process. Its combined output is kept in a bounded
// backlog and optionally copied to a writer.
type Game struct {
	cmd     *exec.Cmd
	backlog int
	tee     io.Writer

	mu   sync.Mutex
	logs []string

	done    chan struct{} // output drained
	exited  chan struct{}
	waitErr error
}

// GameOption configures a Game.
type GameOption func(*Game)

// WithBacklog sets how many output lines are kept.
func WithBacklog(n int) GameOption {
	return func(g *Game) {
		if n > 0 {
			g.backlog = n
		}
	}
}

// WithOutput copies every output line to w.
func WithOutput(w io.Writer) GameOption {
	return func(g *Game) { g.tee = w }
}

// Start runs c and returns once the process exists.
func Start(ctx context.Context, c *Command, opts ...GameOption) (*Game, error) {
	g := &Game{backlog: DefaultBacklog, done: make(chan struct{}), exited: make(chan struct{})}
	for _, opt := range opts {
		opt(g)
	}

	g.cmd = exec.CommandContext(ctx, c.Path, c.Args...)
	g.cmd.Dir = c.Dir
	g.cmd.Cancel = func() error { return kill(g.cmd.Process) }
	g.cmd.WaitDelay = waitDelay
	isolate(g.cmd)
	pr, pw := io.Pipe()
	g.cmd.Stdout = pw
	g.cmd.Stderr = pw

	if err := g.cmd.Start(); err != nil {
		_ = pw.Close()
		return nil, fmt.Errorf("failed to start %s: %w", c.Path, err)
	}
	logger.Info("Game process created", logger.Fields{"pid": g.cmd.Process.Pid})

	go g.collect(pr)
	go func() {
		g.waitErr = g.cmd.Wait()
		_ = pw.Close()
		close(g.exited)
	}()
	return g, nil
}

func (g *Game) collect(r io.Reader) {
	defer close(g.done)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		g.mu.Lock()
		if len(g.logs) >= g.backlog {
			g.logs = g.logs[1:]
		}
		g.logs = append(g.logs, line)
		g.mu.Unlock()
		if g.tee != nil {
			_, _ = fmt.Fprintln(g.tee, line)
		}
	}
	logger.Debug("Output pipe closed", logger.Fields{"pid": g.cmd.Process.Pid})
}

// Wait blocks until the process exits and its output is drained, and
// returns the exit code.
// A non-zero exit is not an error.
func (g *Game) Wait() (int, error) {
	<-g.exited
	<-g.done
	var exitErr *exec.ExitError
	if g.waitErr != nil && !errors.As(g.waitErr, &exitErr) {
		return -1, g.waitErr
	}
	return g.cmd.ProcessState.ExitCode(), nil
}

// Stop kills the process together with any process it started.
func (g *Game) Stop() error {
	logger.Warn("Killing game process", logger.Fields{"pid": g.cmd.Process.Pid})
	return kill(g.cmd.Process)
}

// Logs returns a copy of the kept output lines.
func (g *Game) Logs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.logs...)
}
