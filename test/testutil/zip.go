package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mholt/archives"
	"github.com/stretchr/testify/require"
)

// Zip packs the files under sourceDir into a zip archive at archivePath,
// which is how native jars are built for tests.
func Zip(t *testing.T, sourceDir, archivePath string) {
	t.Helper()
	ctx := context.Background()
	abs, err := filepath.Abs(sourceDir)
	require.NoError(t, err)

	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		abs + string(os.PathSeparator): "",
	})
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Dir(archivePath), 0o755))
	out, err := os.Create(archivePath)
	require.NoError(t, err)
	defer func() { _ = out.Close() }()

	require.NoError(t, (archives.Zip{}).Archive(ctx, out, files))
}
