// Package profile parses game manifests and composes them along their
// inheritance chain.
package profile

import (
	"github.com/skjsjhb/hyaci-launcher/pkg/artifact"
	"github.com/skjsjhb/hyaci-launcher/pkg/rules"
)

// Profile is the read-only view of one manifest or of a linked chain.
// Optional artifacts are nil when absent.
type Profile interface {
	ID() string
	// Version is the game version the profile ultimately runs.
	Version() string
	InheritsFrom() string
	Libraries() []Library
	JVMArgs() []Argument
	GameArgs() []Argument
	MainClass() string
	AssetID() string
	AssetIndex() *artifact.Artifact
	LoggingConfig() *artifact.Artifact
	JREComponent() string
	// JREVersion is the required Java major version, 0 when unspecified.
	JREVersion() int
	Client() *artifact.Artifact
	ClientMappings() *artifact.Artifact
	// VersionType is release, snapshot, old_beta and so on.
	VersionType() string
}

// Library is one entry of a manifest's library list.
type Library struct {
	Name  string
	Rules []rules.Rule
	// Artifact is the main jar. Paths are relative to the libraries root.
	Artifact *artifact.Artifact
	// Synthesized is set when Artifact was derived from the Maven coordinate
	// because the manifest carried no download descriptor. Such artifacts have
	// no size or checksum.
	Synthesized bool
	// Natives maps a canonical OS name to a classifier key, which may contain
	// the ${arch} token.
	Natives     map[string]string
	Classifiers map[string]artifact.Artifact
	// ExtractExclude lists path prefixes skipped when unpacking natives.
	ExtractExclude []string
}

// Accepts evaluates the library's rules against ctx.
func (l Library) Accepts(ctx rules.Context) bool {
	return rules.Evaluate(l.Rules, ctx)
}

// NativeArtifact returns the native classifier artifact for osName, or nil.
// The ${arch} token always resolves to 64.
func (l Library) NativeArtifact(osName string) *artifact.Artifact {
	key := l.Natives[osName]
	if key == "" {
		return nil
	}
	key = replaceArch(key)
	a, ok := l.Classifiers[key]
	if !ok {
		return nil
	}
	return &a
}

// FilterLibraries keeps the libraries whose rules accept ctx.
func FilterLibraries(libs []Library, ctx rules.Context) []Library {
	out := make([]Library, 0, len(libs))
	for _, l := range libs {
		if l.Accepts(ctx) {
			out = append(out, l)
		}
	}
	return out
}

// Argument is a JVM or game argument entry. It is either a Literal or a
// Conditional carrying its own rules.
type Argument interface {
	Values() []string
	Rules() []rules.Rule
}

// Literal is an unconditional single-value argument.
type Literal string

func (l Literal) Values() []string    { return []string{string(l)} }
func (l Literal) Rules() []rules.Rule { return nil }

// Conditional is an argument entry applied only when its rules accept.
type Conditional struct {
	Value      []string
	Conditions []rules.Rule
}

func (c Conditional) Values() []string    { return c.Value }
func (c Conditional) Rules() []rules.Rule { return c.Conditions }

// ExpandArguments flattens the values of the arguments accepted by ctx.
func ExpandArguments(args []Argument, ctx rules.Context) []string {
	var out []string
	for _, a := range args {
		if rules.Evaluate(a.Rules(), ctx) {
			out = append(out, a.Values()...)
		}
	}
	return out
}
