//go:build !windows

package launch

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameCollectsOutput(t *testing.T) {
	var tee bytes.Buffer
	cmd := &Command{Path: "/bin/sh", Args: []string{"-c", "echo one; echo two >&2; echo three; exit 3"}, Dir: t.TempDir()}
	g, err := Start(context.Background(), cmd, WithBacklog(2), WithOutput(&tee))
	require.NoError(t, err)

	code, err := g.Wait()
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Len(t, g.Logs(), 2)
	assert.Equal(t, "three", g.Logs()[1])
	assert.Contains(t, tee.String(), "two")
}

func TestGameStop(t *testing.T) {
	cmd := &Command{Path: "/bin/sh", Args: []string{"-c", "sleep 30"}, Dir: t.TempDir()}
	g, err := Start(context.Background(), cmd)
	require.NoError(t, err)
	require.NoError(t, g.Stop())

	done := make(chan int, 1)
	go func() {
		code, _ := g.Wait()
		done <- code
	}()
	select {
	case code := <-done:
		assert.NotEqual(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("process did not stop")
	}
}

func TestGameStopKillsDescendants(t *testing.T) {
	// The background sleep inherits the output pipe.
	cmd := &Command{Path: "/bin/sh", Args: []string{"-c", "sleep 30 & sleep 30; wait"}, Dir: t.TempDir()}
	g, err := Start(context.Background(), cmd)
	require.NoError(t, err)
	require.NoError(t, g.Stop())

	done := make(chan struct{})
	go func() {
		_, _ = g.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("wait blocked on a descendant holding the output pipe")
	}
}

func TestGameContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cmd := &Command{Path: "/bin/sh", Args: []string{"-c", "sleep 30"}, Dir: t.TempDir()}
	g, err := Start(ctx, cmd)
	require.NoError(t, err)
	cancel()

	done := make(chan int, 1)
	go func() {
		code, _ := g.Wait()
		done <- code
	}()
	select {
	case code := <-done:
		assert.NotEqual(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("process did not stop after cancel")
	}
}

func TestGameStartFailure(t *testing.T) {
	_, err := Start(context.Background(), &Command{Path: "/nonexistent/java"})
	assert.Error(t, err)
}
