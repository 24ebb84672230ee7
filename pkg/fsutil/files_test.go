package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove_File(t *testing.T) {
	tempDir := t.TempDir()

	srcFile := filepath.Join(tempDir, "client.jar.part")
	dstFile := filepath.Join(tempDir, "versions", "1.20.4", "1.20.4.jar")

	require.NoError(t, os.WriteFile(srcFile, []byte("jar bytes"), FileModeDefault))
	require.NoError(t, Move(srcFile, dstFile))

	moved, err := os.ReadFile(dstFile)
	require.NoError(t, err)
	assert.Equal(t, "jar bytes", string(moved))

	_, err = os.Stat(srcFile)
	assert.True(t, os.IsNotExist(err))
}

func TestMove_ReplacesExisting(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "new")
	dst := filepath.Join(tempDir, "old")
	require.NoError(t, os.WriteFile(src, []byte("new"), FileModeDefault))
	require.NoError(t, os.WriteFile(dst, []byte("old"), FileModeDefault))

	require.NoError(t, Move(src, dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestMove_Errors(t *testing.T) {
	tempDir := t.TempDir()

	err := Move(filepath.Join(tempDir, "missing"), filepath.Join(tempDir, "dst"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat source")

	err = Move("", "dst")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	err = Move(tempDir, filepath.Join(tempDir, "elsewhere"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot move directory")
}

func TestIsCrossFilesystemError(t *testing.T) {
	assert.False(t, isCrossFilesystemError(nil))
	assert.False(t, isCrossFilesystemError(errors.New("regular error")))
	assert.True(t, isCrossFilesystemError(errors.New("rename a b: invalid cross-device link")))
}

func TestCopy(t *testing.T) {
	tempDir := t.TempDir()
	srcFile := filepath.Join(tempDir, "index.json")
	dstFile := filepath.Join(tempDir, "resources", "legacy.json")

	require.NoError(t, os.WriteFile(srcFile, []byte(`{"objects":{}}`), FileModeDefault))
	require.NoError(t, Copy(srcFile, dstFile))

	copied, err := os.ReadFile(dstFile)
	require.NoError(t, err)
	assert.Equal(t, `{"objects":{}}`, string(copied))
	assert.True(t, Exists(srcFile))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions", "a", "a.json")
	require.NoError(t, WriteFile(path, []byte(`{"id":"a"}`)))
	require.NoError(t, WriteFile(path, []byte(`{"id":"b"}`)))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"b"}`, string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(dir))
	assert.False(t, Exists(filepath.Join(dir, "nope")))
}

func TestGetDataDirHonoursEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(DataDirEnv, dir)
	got, err := GetDataDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}
