// Package launch assembles the command line that starts the game and runs
// it.
package launch

import (
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/container"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/pkg/platform"
	"github.com/skjsjhb/hyaci-launcher/pkg/profile"
	"github.com/skjsjhb/hyaci-launcher/pkg/rules"
)

// DefaultJava is used when Options.Java is empty.
const DefaultJava = "java"

// Options select the account, runtime and launcher identity of a launch.
type Options struct {
	Account         Account
	Java            string
	LauncherName    string
	LauncherVersion string
	// Platform defaults to the current one.
	Platform *platform.Platform
}

// Command is a fully expanded game command line.
type Command struct {
	Path string
	Args []string
	Dir  string
}

// Argv returns the executable followed by its arguments.
func (c *Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

// RuleContext returns the rule context of a launch: the platform's OS
// predicates plus the demo feature flag.
func RuleContext(plat platform.Platform, account Account) rules.Context {
	ctx := plat.RuleContext()
	if account != nil && account.Demo() {
		ctx = ctx.With(platform.KeyDemoUser, "true")
	}
	return ctx
}

// Classpath lists the accepted libraries' jars followed by the client jar,
// joined by the OS list separator.
func Classpath(p profile.Profile, r container.Resolver, ctx rules.Context) string {
	var entries []string
	for _, l := range profile.FilterLibraries(p.Libraries(), ctx) {
		if l.Artifact != nil {
			entries = append(entries, r.Library(l.Artifact.Path))
		}
	}
	if p.Client() != nil {
		entries = append(entries, r.Client(p.ID()))
	}
	return strings.Join(entries, string(os.PathListSeparator))
}

// Variables returns the values substituted into ${name} placeholders.
func Variables(p profile.Profile, r container.Resolver, opts Options, ctx rules.Context) map[string]string {
	gameAssets := r.AssetRootLegacy()
	if mapsToResources(r, p.AssetID()) {
		gameAssets = r.AssetRootMapToResources()
	}
	logConfig := ""
	if l := p.LoggingConfig(); l != nil {
		logConfig = r.LogConfig(l.Path)
	}

	vars := map[string]string{
		"version_name":      p.Version(),
		"game_directory":    r.GameDir(),
		"assets_root":       r.AssetRoot(),
		"game_assets":       gameAssets,
		"assets_index_name": p.AssetID(),
		"user_type":         "mojang",
		"version_type":      p.VersionType(),
		"natives_directory": r.Natives(p.ID()),
		"classpath":         Classpath(p, r, ctx),
		"path":              logConfig,
		"user_properties":   "[]",
		"clientid":          uuid.NewString(),
		"launcher_name":     opts.LauncherName,
		"launcher_version":  opts.LauncherVersion,
	}
	if a := opts.Account; a != nil {
		vars["auth_player_name"] = a.Username()
		vars["auth_uuid"] = a.UUID()
		vars["auth_session"] = a.Token()
		vars["auth_access_token"] = a.Token()
		vars["auth_xuid"] = a.XUID()
	}
	return vars
}

func mapsToResources(r container.Resolver, assetID string) bool {
	if assetID == "" {
		return false
	}
	data, err := os.ReadFile(r.AssetIndex(assetID))
	if err != nil {
		logger.Warn("Asset index unavailable", logger.Fields{"index": assetID, "error": err.Error()})
		return false
	}
	idx, err := profile.ParseAssetIndex(data)
	if err != nil {
		logger.Warn("Asset index unreadable", logger.Fields{"index": assetID, "error": err.Error()})
		return false
	}
	return idx.MapToResources
}

var placeholder = regexp.MustCompile(`\$\{([A-Za-z0-9_.]+)\}`)

// Expand replaces every known ${name} in s. Unknown placeholders are kept.
func Expand(s string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := vars[m[2:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// Build assembles the command: runtime, accepted JVM arguments, main class and
// accepted game arguments, with placeholders expanded.
func Build(p profile.Profile, r container.Resolver, opts Options) (*Command, error) {
	if p.MainClass() == "" {
		return nil, errors.Wrapf(errors.ErrProfileParse, "profile %s has no main class", p.ID())
	}
	if opts.Account == nil {
		return nil, errors.Wrap(errors.ErrInvalidOption, "no account")
	}
	plat := platform.CurrentPlatform()
	if opts.Platform != nil {
		plat = *opts.Platform
	}
	java := opts.Java
	if java == "" {
		java = DefaultJava
	}

	ctx := RuleContext(plat, opts.Account)
	vars := Variables(p, r, opts, ctx)

	raw := profile.ExpandArguments(p.JVMArgs(), ctx)
	raw = append(raw, p.MainClass())
	raw = append(raw, profile.ExpandArguments(p.GameArgs(), ctx)...)
	args := make([]string, len(raw))
	for i, a := range raw {
		args[i] = Expand(a, vars)
	}

	logger.Debug("Command assembled", logger.Fields{"profile": p.ID(), "java": java, "args": len(args)})
	return &Command{Path: java, Args: args, Dir: r.GameDir()}, nil
}
