package artifact

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"
)

var hashes = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
	"md5":    md5.New,
	"blake3": func() hash.Hash { return blake3.New() },
}

// NormalizeAlgorithm lowercases an algorithm name and drops dashes, so
// "SHA-1" and "sha1" name the same digest.
func NormalizeAlgorithm(algo string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(algo)), "-", "")
}

// ParseChecksum splits "algorithm=hex". ok is false for an empty or malformed value.
func ParseChecksum(s string) (algo, digest string, ok bool) {
	algo, digest, found := strings.Cut(s, "=")
	if !found || algo == "" || digest == "" {
		return "", "", false
	}
	return NormalizeAlgorithm(algo), strings.ToLower(strings.TrimSpace(digest)), true
}

// FormatChecksum is the inverse of ParseChecksum. An empty digest yields "".
func FormatChecksum(algo, digest string) string {
	if digest == "" {
		return ""
	}
	return NormalizeAlgorithm(algo) + "=" + strings.ToLower(digest)
}

// Supported reports whether algo can be computed.
func Supported(algo string) bool {
	_, ok := hashes[NormalizeAlgorithm(algo)]
	return ok
}

// NewHash returns a fresh hash for algo.
func NewHash(algo string) (hash.Hash, bool) {
	ctor, ok := hashes[NormalizeAlgorithm(algo)]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// FileDigest computes the lowercase hex digest of the file at path.
func FileDigest(path, algo string) (string, error) {
	h, ok := NewHash(algo)
	if !ok {
		return "", &UnsupportedAlgorithmError{Algorithm: algo}
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// UnsupportedAlgorithmError is returned by FileDigest for unknown algorithms.
type UnsupportedAlgorithmError struct {
	Algorithm string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return "unsupported checksum algorithm: " + e.Algorithm
}
