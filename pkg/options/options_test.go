package options

import (
	"testing"

	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOptions(t *testing.T) *Options {
	t.Helper()
	db, err := store.InitDB(store.Config{DatabasePath: store.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "HYACI_DOWNLOADS_POOLSIZE", EnvName("downloads.poolSize"))
	assert.Equal(t, "HYACI_INSTALLER_JRE_LZMA", EnvName(JRELZMA))
}

func TestLookupOrder(t *testing.T) {
	o := newTestOptions(t)

	assert.Equal(t, 3, o.GetInt(DownloadsTries, 3))

	require.NoError(t, o.Set(DownloadsTries, "5"))
	assert.Equal(t, 5, o.GetInt(DownloadsTries, 3))

	t.Setenv("HYACI_DOWNLOADS_TRIES", "9")
	assert.Equal(t, 9, o.GetInt(DownloadsTries, 3))
}

func TestTypedGetters(t *testing.T) {
	o := newTestOptions(t)
	require.NoError(t, o.Set("custom.flag", "yes-ish"))

	assert.True(t, o.GetBool("missing", true))
	assert.False(t, o.GetBool("custom.flag", false), "malformed falls back to default")
	assert.Equal(t, 4, o.GetInt("custom.flag", 4))
	assert.Equal(t, "yes-ish", o.GetString("custom.flag", ""))

	require.NoError(t, o.Set(JRELZMA, "true"))
	assert.True(t, o.GetBool(JRELZMA, false))
}

func TestSetValidatesKnownKeys(t *testing.T) {
	o := newTestOptions(t)
	assert.ErrorIs(t, o.Set(DownloadsValidation, "md5"), errors.ErrInvalidOption)
	assert.ErrorIs(t, o.Set(DownloadsPoolSize, "many"), errors.ErrInvalidOption)
	assert.NoError(t, o.Set(DownloadsValidation, "none"))

	assert.ErrorIs(t, New(nil).Set(DownloadsTries, "1"), errors.ErrInvalidOption)
}

func TestUnset(t *testing.T) {
	o := newTestOptions(t)
	require.NoError(t, o.Set(DownloadsTries, "5"))
	require.NoError(t, o.Unset(DownloadsTries))
	assert.Equal(t, 3, o.GetInt(DownloadsTries, 3))
}

func TestList(t *testing.T) {
	o := newTestOptions(t)
	require.NoError(t, o.Set(DownloadsPoolSize, "8"))
	require.NoError(t, o.Set("zz.custom", "1"))
	t.Setenv("HYACI_DOWNLOADS_VALIDATION", "size")

	entries, err := o.List()
	require.NoError(t, err)

	byKey := map[string]Entry{}
	for _, e := range entries {
		byKey[e.Key] = e
	}
	assert.Equal(t, Entry{Key: DownloadsPoolSize, Value: "8", Source: "store"}, byKey[DownloadsPoolSize])
	assert.Equal(t, Entry{Key: DownloadsValidation, Value: "size", Source: "env"}, byKey[DownloadsValidation])
	assert.Equal(t, Entry{Key: DownloadsTries, Value: "3", Source: "default"}, byKey[DownloadsTries])
	assert.Equal(t, "zz.custom", entries[len(entries)-1].Key)
}

func TestDefault(t *testing.T) {
	v, ok := Default(DownloadsPoolSize)
	assert.True(t, ok)
	assert.Equal(t, "32", v)
	_, ok = Default("nope")
	assert.False(t, ok)
	assert.Len(t, Keys(), 5)
}
