package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skjsjhb/hyaci-launcher/pkg/download"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/pkg/profile"
	"github.com/skjsjhb/hyaci-launcher/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const releaseManifest = `{"id":"1.20.1","type":"release","mainClass":"net.minecraft.client.main.Main"}`

func newCatalog(t *testing.T) (*Client, *testutil.FileServer) {
	t.Helper()
	srv := testutil.NewFileServer(t, nil)
	srv.Put("/v1/1.20.1.json", []byte(releaseManifest))
	srv.Put("/v1/bad.json", []byte(`{"id":"bad"}`))
	srv.Put("/manifest.json", []byte(`{
		"latest": {"release": "1.20.1", "snapshot": "23w31a"},
		"versions": [
			{"id": "23w31a", "type": "snapshot", "url": "`+srv.FileURL("v1/23w31a.json")+`"},
			{"id": "1.20.1", "type": "release", "url": "`+srv.FileURL("v1/1.20.1.json")+`", "sha1": "`+testutil.SHA1([]byte(releaseManifest))+`"},
			{"id": "1.12.2", "type": "release", "url": "`+srv.FileURL("v1/1.12.2.json")+`"},
			{"id": "bad", "type": "release", "url": "`+srv.FileURL("v1/bad.json")+`", "sha1": "0000000000000000000000000000000000000000"},
			{"id": "b1.7.3", "type": "old_beta", "url": "`+srv.FileURL("v1/b1.7.3.json")+`"}
		]
	}`))
	m := download.NewManager(time.Second, "", download.DefaultSettings(), nil)
	return NewClient(m, WithManifestURL(srv.FileURL("manifest.json"))), srv
}

func TestClientFetch(t *testing.T) {
	c, srv := newCatalog(t)
	ctx := context.Background()

	data, err := c.Fetch(ctx, "1.20.1")
	require.NoError(t, err)
	assert.JSONEq(t, releaseManifest, string(data))

	_, err = c.Fetch(ctx, "9.9.9")
	assert.ErrorIs(t, err, errors.ErrVersionNotFound)

	_, err = c.Fetch(ctx, "bad")
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = c.Fetch(ctx, "23w31a")
	assert.ErrorIs(t, err, errors.ErrRemoteNotFound)

	assert.Equal(t, 1, srv.Hits("/manifest.json"), "manifest is downloaded once")
}

func TestClientList(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		types      []string
		constraint string
		want       []string
	}{
		{name: "everything", want: []string{"23w31a", "1.20.1", "1.12.2", "bad", "b1.7.3"}},
		{name: "releases", types: []string{"release"}, want: []string{"1.20.1", "1.12.2", "bad"}},
		{name: "constraint", types: []string{"release"}, constraint: ">= 1.13", want: []string{"1.20.1"}},
		{name: "several types", types: []string{"snapshot", "old_beta"}, want: []string{"23w31a", "b1.7.3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs, err := c.List(ctx, tt.types, tt.constraint)
			require.NoError(t, err)
			ids := make([]string, 0, len(vs))
			for _, v := range vs {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	_, err := c.List(ctx, nil, "not a constraint")
	assert.Error(t, err)

	m, err := c.Manifest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.20.1", m.Latest.Release)
}

type dirPaths string

func (d dirPaths) Profile(id string) string {
	return filepath.Join(string(d), id, id+".json")
}

func TestSavingAndLocalFetcher(t *testing.T) {
	c, _ := newCatalog(t)
	paths := dirPaths(t.TempDir())
	ctx := context.Background()

	saving := NewSavingFetcher(paths, c)
	p, err := profile.Load(ctx, "1.20.1", saving)
	require.NoError(t, err)
	assert.Equal(t, "1.20.1", p.ID())

	saved, err := os.ReadFile(paths.Profile("1.20.1"))
	require.NoError(t, err)
	assert.JSONEq(t, releaseManifest, string(saved))

	local := NewLocalFetcher(paths, nil)
	data, err := local.Fetch(ctx, "1.20.1")
	require.NoError(t, err)
	assert.Equal(t, saved, data)

	_, err = local.Fetch(ctx, "1.12.2")
	assert.ErrorIs(t, err, errors.ErrProfileNotFound)

	var asked []string
	withFallback := NewLocalFetcher(paths, profile.FetcherFunc(func(_ context.Context, id string) ([]byte, error) {
		asked = append(asked, id)
		return []byte(`{"id":"` + id + `"}`), nil
	}))
	_, err = withFallback.Fetch(ctx, "1.20.1")
	require.NoError(t, err)
	_, err = withFallback.Fetch(ctx, "1.12.2")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.12.2"}, asked)
}
