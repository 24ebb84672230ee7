// Package archive unpacks native library jars and inflates LZMA-compressed
// runtime files.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	"github.com/ulikunitz/xz/lzma"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/fsutil"
)

// Manager handles archive extraction operations.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// ExtractAll extracts every file of the archive into destDir. Directory
// entries are not materialized; parents are created for the files inside
// them. Entries whose path starts with one of the exclude prefixes are
// skipped.
func (am *Manager) ExtractAll(ctx context.Context, archivePath, destDir string, exclude ...string) error {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return fmt.Errorf("failed to open archive file: %w", err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if err := fsutil.EnsureDir(destDir); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	extracted := 0
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == "." || d.IsDir() || excluded(path, exclude) {
			return nil
		}
		if !filepath.IsLocal(filepath.FromSlash(path)) {
			return fmt.Errorf("archive entry %s escapes the destination", path)
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to get file info for %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		extracted++
		return am.writeRegularFile(fsys, path, filepath.Join(destDir, filepath.FromSlash(path)), info)
	})
	if err != nil {
		return err
	}
	logger.Debug("Archive extracted", logger.Fields{"archive": archivePath, "files": extracted})
	return nil
}

func excluded(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// writeRegularFile copies one archive entry to targetPath, keeping its
// permissions and modification time.
func (am *Manager) writeRegularFile(fsys fs.FS, path, targetPath string, info fs.FileInfo) error {
	srcFile, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", path, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", path, err)
	}

	perm := info.Mode().Perm()
	if perm == 0 {
		perm = fsutil.FileModeDefault
	}
	dstFile, err := fsutil.CreateFilePerm(targetPath, perm)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file %s: %w", path, err)
	}
	if !info.ModTime().IsZero() {
		if err := os.Chtimes(targetPath, info.ModTime(), info.ModTime()); err != nil {
			return fmt.Errorf("failed to set modification time for %s: %w", targetPath, err)
		}
	}
	return nil
}

// InflateLZMA decompresses the LZMA file src into dst.
func InflateLZMA(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	r, err := lzma.NewReader(in)
	if err != nil {
		return fmt.Errorf("failed to read LZMA header of %s: %w", src, err)
	}
	if err := fsutil.EnsureFileDir(dst); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", dst, err)
	}
	out, err := fsutil.CreateFilePerm(dst, fsutil.FileModeDefault)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to inflate %s: %w", src, err)
	}
	return out.Close()
}
