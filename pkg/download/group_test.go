package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/skjsjhb/hyaci-launcher/pkg/artifact"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupAggregation(t *testing.T) {
	files := map[string][]byte{}
	for i := 0; i < 3; i++ {
		files[fmt.Sprintf("ok%d", i)] = []byte(fmt.Sprintf("content %d", i))
	}
	srv := testutil.NewFileServer(t, files)
	dir := t.TempDir()

	var as []artifact.Artifact
	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("ok%d", i)
		as = append(as, artifact.New(srv.FileURL(name), filepath.Join(dir, name), 0, sha1Of(files[name])))
	}
	for i := 0; i < 2; i++ {
		name := fmt.Sprintf("gone%d", i)
		as = append(as, artifact.New(srv.FileURL(name), filepath.Join(dir, name), 0, ""))
	}

	g := NewGroup(as, Settings{Tries: 3, PoolSize: 2})
	assert.False(t, g.Resolve(context.Background()))

	finished, total := g.ProgressByCount()
	assert.Equal(t, 5, finished)
	assert.Equal(t, 5, total)

	for i := 0; i < 3; i++ {
		_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("ok%d", i)))
		assert.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("gone%d", i)))
		assert.True(t, os.IsNotExist(err))
		assert.Equal(t, 1, srv.Hits(fmt.Sprintf("gone%d", i)))
	}

	completed, size := g.ProgressBySize()
	assert.Equal(t, size, completed)
	assert.Zero(t, g.Speed())
}

func TestGroupResolveOrThrow(t *testing.T) {
	srv := testutil.NewFileServer(t, map[string][]byte{"a": payload})
	dir := t.TempDir()

	ok := NewGroup([]artifact.Artifact{artifact.New(srv.FileURL("a"), filepath.Join(dir, "a"), 0, sha1Of(payload))}, DefaultSettings())
	require.NoError(t, ok.ResolveOrThrow(context.Background()))

	bad := NewGroup([]artifact.Artifact{
		artifact.New(srv.FileURL("a"), filepath.Join(dir, "b"), 0, sha1Of(payload)),
		artifact.New(srv.FileURL("missing"), filepath.Join(dir, "missing"), 0, ""),
	}, DefaultSettings())
	err := bad.ResolveOrThrow(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRemoteNotFound)
	assert.Contains(t, err.Error(), srv.FileURL("missing"))

	// A resolved group reports the same result again without downloading.
	hits := srv.TotalHits()
	assert.Equal(t, err, bad.ResolveOrThrow(context.Background()))
	assert.Equal(t, hits, srv.TotalHits())
}

func TestGroupDeduplicates(t *testing.T) {
	srv := testutil.NewFileServer(t, map[string][]byte{"a": payload})
	dst := filepath.Join(t.TempDir(), "a")
	a := artifact.New(srv.FileURL("a"), dst, 0, sha1Of(payload))

	g := NewGroup([]artifact.Artifact{a, a, a}, DefaultSettings())
	assert.Len(t, g.Tasks(), 1)
	require.True(t, g.Resolve(context.Background()))
	assert.Equal(t, 1, srv.Hits("a"))
}

func TestGroupUnverified(t *testing.T) {
	as := []artifact.Artifact{
		artifact.New("https://maven.example.com/a.jar", "a.jar", 0, ""),
		artifact.New("https://example.com/b.jar", "b.jar", 10, ""),
		artifact.New("https://example.com/c.jar", "c.jar", 0, "sha1=00"),
	}
	g := NewGroup(as, DefaultSettings())
	require.Len(t, g.Unverified(), 1)
	assert.Equal(t, "a.jar", g.Unverified()[0].Path)
}

func TestGroupCancel(t *testing.T) {
	files := map[string][]byte{"slow0": payload, "slow1": payload, "slow2": payload}
	srv := testutil.NewFileServer(t, files)
	dir := t.TempDir()
	var as []artifact.Artifact
	for name := range files {
		srv.Block(name)
		as = append(as, artifact.New(srv.FileURL(name), filepath.Join(dir, name), 0, ""))
	}

	g := NewGroup(as, Settings{Tries: 3, PoolSize: 1})
	done := make(chan bool, 1)
	go func() { done <- g.Resolve(context.Background()) }()

	require.Eventually(t, func() bool {
		c, _ := g.ProgressBySize()
		return c > 0
	}, 5*time.Second, 10*time.Millisecond)
	g.Cancel()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("resolve did not return after cancel")
	}

	canceled := 0
	for _, task := range g.Tasks() {
		if task.State() == StateCanceled {
			canceled++
		}
		assert.True(t, task.State().Terminal())
	}
	assert.GreaterOrEqual(t, canceled, 1)
	assert.ErrorIs(t, g.ResolveOrThrow(context.Background()), errors.ErrDownloadCanceled)
}

func TestGroupCancelFromProgressCallback(t *testing.T) {
	srv := testutil.NewFileServer(t, map[string][]byte{"slow": payload})
	srv.Block("slow")
	a := artifact.New(srv.FileURL("slow"), filepath.Join(t.TempDir(), "slow"), 0, "")

	var g *Group
	var once sync.Once
	g = NewGroup([]artifact.Artifact{a}, DefaultSettings(), WithProgress(func(_ string, fraction float64) {
		if fraction > 0 {
			once.Do(g.Cancel)
		}
	}))

	done := make(chan error, 1)
	go func() { done <- g.ResolveOrThrow(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, errors.ErrDownloadCanceled)
	case <-time.After(5 * time.Second):
		t.Fatal("cancel from the progress callback did not return")
	}
	assert.Equal(t, StateCanceled, g.Tasks()[0].State())
}

func TestGroupCancelAfterResolveIsNoop(t *testing.T) {
	srv := testutil.NewFileServer(t, map[string][]byte{"a": payload})
	g := NewGroup([]artifact.Artifact{artifact.New(srv.FileURL("a"), filepath.Join(t.TempDir(), "a"), 0, "")}, DefaultSettings())
	require.True(t, g.Resolve(context.Background()))
	g.Cancel()
	assert.Equal(t, StateDone, g.Tasks()[0].State())
	assert.True(t, g.Resolve(context.Background()))
}

func TestGroupCancelBeforeStart(t *testing.T) {
	srv := testutil.NewFileServer(t, map[string][]byte{"a": payload})
	g := NewGroup([]artifact.Artifact{artifact.New(srv.FileURL("a"), filepath.Join(t.TempDir(), "a"), 0, "")}, DefaultSettings())
	g.Cancel()
	assert.False(t, g.Resolve(context.Background()))
	assert.Equal(t, StateCanceled, g.Tasks()[0].State())
	assert.Zero(t, srv.TotalHits())
}

func TestGroupProgressCallback(t *testing.T) {
	srv := testutil.NewFileServer(t, map[string][]byte{"a": payload})
	a := artifact.New(srv.FileURL("a"), filepath.Join(t.TempDir(), "a"), uint64(len(payload)), "")

	var mu sync.Mutex
	var statuses []string
	var fractions []float64
	g := NewGroup([]artifact.Artifact{a}, DefaultSettings(), WithProgress(func(status string, fraction float64) {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, status)
		fractions = append(fractions, fraction)
	}))
	require.True(t, g.Resolve(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, statuses)
	assert.Equal(t, "43 B / 43 B", statuses[len(statuses)-1])
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
}

func TestGroupProgressUnknownTotal(t *testing.T) {
	var got float64
	g := NewGroup(nil, DefaultSettings(), WithProgress(func(_ string, fraction float64) { got = fraction }))
	require.True(t, g.Resolve(context.Background()))
	assert.Equal(t, -1.0, got)
}
