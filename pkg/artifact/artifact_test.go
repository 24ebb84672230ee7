package artifact

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func TestParseChecksum(t *testing.T) {
	tests := []struct {
		in     string
		algo   string
		digest string
		ok     bool
	}{
		{"sha1=ABCDEF", "sha1", "abcdef", true},
		{"SHA-256=00ff", "sha256", "00ff", true},
		{"", "", "", false},
		{"sha1", "", "", false},
		{"sha1=", "", "", false},
		{"=abc", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			algo, digest, ok := ParseChecksum(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.algo, algo)
			assert.Equal(t, tt.digest, digest)
		})
	}
}

func TestFormatChecksum(t *testing.T) {
	assert.Equal(t, "sha1=abc", FormatChecksum("SHA1", "ABC"))
	assert.Equal(t, "", FormatChecksum("sha1", ""))
}

func TestFileDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	tests := map[string]string{
		"sha1":   "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d",
		"sha256": "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		"md5":    "5d41402abc4b2a76b9719d911017c592",
	}
	b3 := blake3.Sum256([]byte("hello"))
	tests["blake3"] = hex.EncodeToString(b3[:])

	for algo, want := range tests {
		got, err := FileDigest(path, algo)
		require.NoError(t, err, algo)
		assert.Equal(t, want, got, algo)
	}

	_, err := FileDigest(path, "crc32")
	var unsupported *UnsupportedAlgorithmError
	assert.ErrorAs(t, err, &unsupported)
	assert.False(t, Supported("crc32"))
	assert.True(t, Supported("SHA-512"))
}

func TestUnverified(t *testing.T) {
	assert.True(t, New("u", "p", 0, "").Unverified())
	assert.False(t, New("u", "p", 10, "").Unverified())
	assert.False(t, New("u", "p", 0, "sha1=ab").Unverified())
}

func TestSetDeduplicatesByURLAndPath(t *testing.T) {
	var s Set
	assert.True(t, s.Add(New("https://a", "/x", 1, "")))
	assert.False(t, s.Add(New("https://a", "/x", 2, "sha1=ff")))
	assert.True(t, s.Add(New("https://a", "/y", 1, "")))
	s.AddAll(New("https://b", "/x", 0, ""), New("https://a", "/y", 0, ""))

	require.Equal(t, 3, s.Len())
	got := s.Slice()
	assert.Equal(t, "/x", got[0].Path)
	assert.Equal(t, uint64(1), got[0].Size, "first insertion wins")
	assert.Equal(t, "https://b", got[2].URL)
}

func TestWithPath(t *testing.T) {
	a := New("https://a", "rel/a.jar", 3, "sha1=00")
	b := a.WithPath("/abs/rel/a.jar")
	assert.Equal(t, "rel/a.jar", a.Path)
	assert.Equal(t, "/abs/rel/a.jar", b.Path)
	assert.Equal(t, a.Checksum, b.Checksum)
}
