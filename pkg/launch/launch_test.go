package launch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/skjsjhb/hyaci-launcher/pkg/container"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/pkg/platform"
	"github.com/skjsjhb/hyaci-launcher/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linux = &platform.Platform{OS: platform.OSLinux, Arch: platform.ArchAMD64, Version: "6.1"}

const modernProfile = `{
	"id": "1.20.1",
	"type": "release",
	"mainClass": "net.minecraft.client.main.Main",
	"assets": "5",
	"assetIndex": {"id": "5", "url": "https://example.com/5.json", "sha1": "aa", "size": 1},
	"downloads": {"client": {"url": "https://example.com/client.jar", "sha1": "bb", "size": 1}},
	"logging": {"client": {"argument": "-Dlog4j.configurationFile=${path}", "file": {"id": "client-1.12.xml", "url": "https://example.com/log.xml", "sha1": "cc", "size": 1}}},
	"libraries": [
		{"name": "com.mojang:brigadier:1.1.8", "downloads": {"artifact": {"path": "com/mojang/brigadier/1.1.8/brigadier-1.1.8.jar", "url": "https://example.com/b.jar", "sha1": "dd", "size": 1}}},
		{"name": "ca.weblite:java-objc-bridge:1.1", "rules": [{"action": "allow", "os": {"name": "osx"}}], "downloads": {"artifact": {"path": "ca/weblite/objc.jar", "url": "https://example.com/o.jar", "sha1": "ee", "size": 1}}}
	],
	"arguments": {
		"jvm": [
			{"rules": [{"action": "allow", "os": {"name": "osx"}}], "value": ["-XstartOnFirstThread"]},
			"-Djava.library.path=${natives_directory}",
			"-cp",
			"${classpath}"
		],
		"game": [
			"--username", "${auth_player_name}",
			"--version", "${version_name}",
			"--assetsDir", "${assets_root}",
			"--uuid", "${auth_uuid}",
			"--accessToken", "${auth_access_token}",
			"--versionType", "${version_type}",
			{"rules": [{"action": "allow", "features": {"is_demo_user": true}}], "value": "--demo"},
			{"rules": [{"action": "allow", "features": {"has_custom_resolution": true}}], "value": ["--width", "${resolution_width}"]}
		]
	}
}`

func setup(t *testing.T, manifest string) (profile.Profile, *container.Vanilla) {
	t.Helper()
	p, err := profile.Parse([]byte(manifest))
	require.NoError(t, err)
	r, err := container.NewVanilla(t.TempDir())
	require.NoError(t, err)
	return p, r
}

func TestOfflineAccount(t *testing.T) {
	a, err := NewOfflineAccount("  Steve ", false)
	require.NoError(t, err)
	assert.Equal(t, "Steve", a.Username())
	assert.False(t, a.Demo())

	id, err := uuid.Parse(a.UUID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(3), id.Version())
	assert.Equal(t, uuid.RFC4122, id.Variant())
	assert.Equal(t, strings.ReplaceAll(a.UUID(), "-", ""), a.Token())

	again, err := NewOfflineAccount("Steve", true)
	require.NoError(t, err)
	assert.Equal(t, a.UUID(), again.UUID(), "UUID depends on the name only")
	assert.True(t, again.Demo())

	other, err := NewOfflineAccount("Alex", false)
	require.NoError(t, err)
	assert.NotEqual(t, a.UUID(), other.UUID())

	_, err = NewOfflineAccount(" ", false)
	assert.ErrorIs(t, err, errors.ErrInvalidOption)
}

func TestBuild(t *testing.T) {
	p, r := setup(t, modernProfile)
	account, err := NewOfflineAccount("Steve", false)
	require.NoError(t, err)

	cmd, err := Build(p, r, Options{Account: account, Java: "/opt/java/bin/java", LauncherName: "hyaci", Platform: linux})
	require.NoError(t, err)

	classpath := r.Library("com/mojang/brigadier/1.1.8/brigadier-1.1.8.jar") + string(os.PathListSeparator) + r.Client("1.20.1")
	assert.Equal(t, []string{
		"/opt/java/bin/java",
		"-Djava.library.path=" + r.Natives("1.20.1"),
		"-cp", classpath,
		"-Dlog4j.configurationFile=" + r.LogConfig("client-1.12.xml"),
		"net.minecraft.client.main.Main",
		"--username", "Steve",
		"--version", "1.20.1",
		"--assetsDir", r.AssetRoot(),
		"--uuid", account.UUID(),
		"--accessToken", account.Token(),
		"--versionType", "release",
	}, cmd.Argv())
	assert.Equal(t, r.GameDir(), cmd.Dir)
}

func TestBuildDemoAndPlatformRules(t *testing.T) {
	p, r := setup(t, modernProfile)
	account, err := NewOfflineAccount("Steve", true)
	require.NoError(t, err)
	osx := &platform.Platform{OS: platform.OSMac, Arch: platform.ArchARM64}

	cmd, err := Build(p, r, Options{Account: account, Platform: osx})
	require.NoError(t, err)
	assert.Equal(t, DefaultJava, cmd.Path)
	assert.Equal(t, "-XstartOnFirstThread", cmd.Args[0])
	assert.Contains(t, cmd.Args, "--demo")
	assert.NotContains(t, cmd.Args, "--width")
	assert.Contains(t, Classpath(p, r, RuleContext(*osx, account)), r.Library("ca/weblite/objc.jar"))
}

func TestBuildLegacyProfile(t *testing.T) {
	legacy := `{
		"id": "1.5.2",
		"type": "release",
		"mainClass": "net.minecraft.client.Minecraft",
		"assets": "pre-1.6",
		"minecraftArguments": "${auth_player_name} ${auth_session} --gameDir ${game_directory} --assetsDir ${game_assets} --extra ${unknown_value}"
	}`
	p, r := setup(t, legacy)
	account, err := NewOfflineAccount("Steve", false)
	require.NoError(t, err)

	cmd, err := Build(p, r, Options{Account: account, Platform: linux, LauncherName: "hyaci", LauncherVersion: "1.0"})
	require.NoError(t, err)
	assert.Contains(t, cmd.Args, "-Dminecraft.launcher.brand=hyaci")
	assert.Contains(t, cmd.Args, "-Dminecraft.launcher.version=1.0")
	assert.Contains(t, cmd.Args, r.AssetRootLegacy())
	assert.Contains(t, cmd.Args, "${unknown_value}")
	assert.NotContains(t, cmd.Args, "-XstartOnFirstThread")

	require.NoError(t, os.MkdirAll(filepath.Dir(r.AssetIndex("pre-1.6")), 0o755))
	require.NoError(t, os.WriteFile(r.AssetIndex("pre-1.6"), []byte(`{"map_to_resources": true, "objects": {}}`), 0o644))
	cmd, err = Build(p, r, Options{Account: account, Platform: linux})
	require.NoError(t, err)
	assert.Contains(t, cmd.Args, r.AssetRootMapToResources())
}

func TestBuildErrors(t *testing.T) {
	p, r := setup(t, `{"id": "broken"}`)
	account, err := NewOfflineAccount("Steve", false)
	require.NoError(t, err)
	_, err = Build(p, r, Options{Account: account})
	assert.ErrorIs(t, err, errors.ErrProfileParse)

	p, r = setup(t, modernProfile)
	_, err = Build(p, r, Options{})
	assert.ErrorIs(t, err, errors.ErrInvalidOption)
}

func TestExpand(t *testing.T) {
	vars := map[string]string{"a": "1", "b_c": "two"}
	tests := []struct {
		in, want string
	}{
		{"${a}", "1"},
		{"x=${a},y=${b_c}", "x=1,y=two"},
		{"${missing}", "${missing}"},
		{"$a {a}", "$a {a}"},
		{"${a}${a}", "11"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Expand(tt.in, vars), tt.in)
	}
}

func TestVariablesClientID(t *testing.T) {
	p, r := setup(t, modernProfile)
	account, err := NewOfflineAccount("Steve", false)
	require.NoError(t, err)
	ctx := RuleContext(*linux, account)

	v1 := Variables(p, r, Options{Account: account}, ctx)
	v2 := Variables(p, r, Options{Account: account}, ctx)
	assert.NotEqual(t, v1["clientid"], v2["clientid"])
	assert.Equal(t, "mojang", v1["user_type"])
	assert.Equal(t, "[]", v1["user_properties"])
	assert.Equal(t, "5", v1["assets_index_name"])
	assert.Equal(t, account.Token(), v1["auth_session"])
}
