package download

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skjsjhb/hyaci-launcher/pkg/artifact"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var payload = []byte("the quick brown fox jumps over the lazy dog")

func sha1Of(data []byte) string {
	return artifact.FormatChecksum("sha1", testutil.SHA1(data))
}

func TestTaskDownloadsAndValidates(t *testing.T) {
	srv := testutil.NewFileServer(t, map[string][]byte{"lib.jar": payload})
	dst := filepath.Join(t.TempDir(), "libraries", "lib.jar")
	a := artifact.New(srv.FileURL("lib.jar"), dst, uint64(len(payload)), sha1Of(payload))

	task := NewTask(a, DefaultSettings())
	assert.Equal(t, StateReady, task.State())
	require.NoError(t, task.ResolveOrThrow(context.Background()))

	assert.Equal(t, StateDone, task.State())
	assert.Equal(t, uint64(len(payload)), task.Completed())
	assert.Equal(t, uint64(len(payload)), task.Total())
	assert.Zero(t, task.Speed())

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	_, err = os.Stat(dst + partSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestTaskSkipsValidExistingFile(t *testing.T) {
	srv := testutil.NewFileServer(t, map[string][]byte{"lib.jar": payload})
	dst := filepath.Join(t.TempDir(), "lib.jar")
	a := artifact.New(srv.FileURL("lib.jar"), dst, uint64(len(payload)), sha1Of(payload))

	require.True(t, NewTask(a, DefaultSettings()).Resolve(context.Background()))
	require.Equal(t, 1, srv.Hits("lib.jar"))

	second := NewTask(a, DefaultSettings())
	require.True(t, second.Resolve(context.Background()))
	assert.Equal(t, StateSkipped, second.State())
	assert.Equal(t, uint64(len(payload)), second.Completed())
	assert.Equal(t, 1, srv.Hits("lib.jar"), "skip must not touch the network")
}

func TestTaskCanResolveAgain(t *testing.T) {
	srv := testutil.NewFileServer(t, map[string][]byte{"a": payload})
	a := artifact.New(srv.FileURL("a"), filepath.Join(t.TempDir(), "a"), 0, sha1Of(payload))
	task := NewTask(a, DefaultSettings())

	require.True(t, task.Resolve(context.Background()))
	assert.Equal(t, StateDone, task.State())
	require.True(t, task.Resolve(context.Background()))
	assert.Equal(t, StateSkipped, task.State())
	assert.Equal(t, 1, srv.Hits("a"))
}

func TestTaskReplacesCorruptExistingFile(t *testing.T) {
	srv := testutil.NewFileServer(t, map[string][]byte{"lib.jar": payload})
	dst := filepath.Join(t.TempDir(), "lib.jar")
	require.NoError(t, os.WriteFile(dst, []byte("garbage"), 0o644))

	a := artifact.New(srv.FileURL("lib.jar"), dst, uint64(len(payload)), sha1Of(payload))
	task := NewTask(a, DefaultSettings())
	require.NoError(t, task.ResolveOrThrow(context.Background()))
	assert.Equal(t, StateDone, task.State())

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestTaskChecksumMismatchRetriesThenFails(t *testing.T) {
	corrupt := append([]byte{}, payload...)
	corrupt[0] ^= 0xff
	srv := testutil.NewFileServer(t, map[string][]byte{"lib.jar": corrupt})
	dst := filepath.Join(t.TempDir(), "lib.jar")
	a := artifact.New(srv.FileURL("lib.jar"), dst, uint64(len(payload)), sha1Of(payload))

	task := NewTask(a, Settings{Tries: 3})
	err := task.ResolveOrThrow(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateFailed, task.State())
	assert.ErrorIs(t, err, errors.ErrDownloadFailed)
	assert.ErrorIs(t, err, errors.ErrValidation)
	assert.Contains(t, err.Error(), "after 3 tries")
	assert.Equal(t, 3, srv.Hits("lib.jar"))
	assert.Equal(t, err, task.Err())

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(dst + partSuffix)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTaskNotFoundAbortsRetries(t *testing.T) {
	srv := testutil.NewFileServer(t, nil)
	a := artifact.New(srv.FileURL("missing.jar"), filepath.Join(t.TempDir(), "missing.jar"), 0, "")

	task := NewTask(a, Settings{Tries: 5})
	err := task.ResolveOrThrow(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRemoteNotFound)
	assert.Equal(t, StateFailed, task.State())
	assert.Equal(t, 1, srv.Hits("missing.jar"))
}

func TestTaskTriesFloor(t *testing.T) {
	srv := testutil.NewFileServer(t, map[string][]byte{"a": []byte("x")})
	a := artifact.New(srv.FileURL("a"), filepath.Join(t.TempDir(), "a"), 0, "sha1=0000")

	task := NewTask(a, Settings{Tries: -4})
	assert.False(t, task.Resolve(context.Background()))
	assert.Equal(t, 1, srv.Hits("a"))
}

func TestTaskValidationModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     ValidationMode
		size     uint64
		checksum string
		ok       bool
	}{
		{"checksum match", ValidateChecksum, 0, sha1Of(payload), true},
		{"checksum mismatch", ValidateChecksum, 0, "sha1=deadbeef", false},
		{"checksum is case insensitive", ValidateChecksum, 0, "SHA1=" + upper(testutil.SHA1(payload)), true},
		{"no checksum falls back to size", ValidateChecksum, uint64(len(payload)) + 1, "", false},
		{"unsupported algorithm falls back to size", ValidateChecksum, uint64(len(payload)), "crc32=abcd", true},
		{"size match ignores checksum", ValidateSize, uint64(len(payload)), "sha1=deadbeef", true},
		{"size mismatch", ValidateSize, 3, "", false},
		{"unknown size passes", ValidateSize, 0, "", true},
		{"none accepts anything", ValidateNone, 3, "sha1=deadbeef", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewFileServer(t, map[string][]byte{"f": payload})
			a := artifact.New(srv.FileURL("f"), filepath.Join(t.TempDir(), "f"), tt.size, tt.checksum)
			task := NewTask(a, Settings{Tries: 1, Validation: tt.mode})
			assert.Equal(t, tt.ok, task.Resolve(context.Background()))
		})
	}
}

func upper(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'a' && c <= 'f' {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}

func TestTaskCancel(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		srv := testutil.NewFileServer(t, map[string][]byte{"a": payload})
		task := NewTask(artifact.New(srv.FileURL("a"), filepath.Join(t.TempDir(), "a"), 0, ""), DefaultSettings())
		task.Cancel()
		err := task.ResolveOrThrow(context.Background())
		assert.ErrorIs(t, err, errors.ErrDownloadCanceled)
		assert.Equal(t, StateCanceled, task.State())
		assert.Zero(t, srv.TotalHits())
	})

	t.Run("mid transfer", func(t *testing.T) {
		srv := testutil.NewFileServer(t, map[string][]byte{"slow": payload})
		srv.Block("slow")
		task := NewTask(artifact.New(srv.FileURL("slow"), filepath.Join(t.TempDir(), "slow"), 0, ""), Settings{Tries: 5})

		done := make(chan error, 1)
		go func() { done <- task.ResolveOrThrow(context.Background()) }()

		require.Eventually(t, func() bool { return task.Completed() > 0 }, 5*time.Second, 10*time.Millisecond)
		task.Cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, errors.ErrDownloadCanceled)
			assert.NotErrorIs(t, err, errors.ErrDownloadFailed)
		case <-time.After(5 * time.Second):
			t.Fatal("resolve did not return after cancel")
		}
		assert.Equal(t, StateCanceled, task.State())
		assert.Equal(t, 1, srv.Hits("slow"), "a canceled task must not retry")
	})

	t.Run("context", func(t *testing.T) {
		srv := testutil.NewFileServer(t, map[string][]byte{"slow": payload})
		srv.Block("slow")
		task := NewTask(artifact.New(srv.FileURL("slow"), filepath.Join(t.TempDir(), "slow"), 0, ""), DefaultSettings())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan bool, 1)
		go func() { done <- task.Resolve(ctx) }()
		require.Eventually(t, func() bool { return task.Completed() > 0 }, 5*time.Second, 10*time.Millisecond)
		cancel()

		assert.False(t, <-done)
		assert.Equal(t, StateCanceled, task.State())
	})

	t.Run("canceled task stays canceled", func(t *testing.T) {
		task := NewTask(artifact.New("http://127.0.0.1:1/x", filepath.Join(t.TempDir(), "x"), 0, ""), DefaultSettings())
		task.Cancel()
		assert.False(t, task.Resolve(context.Background()))
		assert.False(t, task.Resolve(context.Background()))
		assert.Equal(t, StateCanceled, task.State())
	})
}

func TestStateTransitions(t *testing.T) {
	s := StateReady
	require.NoError(t, transition(&s, StateActive))
	require.Error(t, transition(&s, StateActive))
	require.NoError(t, transition(&s, StateDone))
	require.NoError(t, transition(&s, StateActive))
	require.NoError(t, transition(&s, StateCanceled))
	assert.Error(t, transition(&s, StateActive), "CANCELED is final")

	assert.True(t, StateSkipped.Succeeded())
	assert.False(t, StateCanceled.Succeeded())
	assert.False(t, StateActive.Terminal())
}
