package profile

import (
	"strings"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/artifact"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
)

// Linked composes a base profile with a head profile that inherits from it.
// Scalars come from the head unless blank there. Lists are the head's
// entries followed by the base's. Version prefers the base, so a linked chain
// reports the version of its root unless the root leaves it blank.
// InheritsFrom always comes from the base.
type Linked struct {
	base Profile
	head Profile
}

// Link composes base and head. If exactly one side is nil the other is
// returned unchanged. Linking two nil profiles is an error.
func Link(base, head Profile) (Profile, error) {
	switch {
	case base == nil && head == nil:
		return nil, errors.ErrNilProfiles
	case base == nil:
		return head, nil
	case head == nil:
		return base, nil
	}
	logger.Debug("Linking profiles", logger.Fields{"head": head.ID(), "base": base.ID()})
	return &Linked{base: base, head: head}, nil
}

func (l *Linked) Base() Profile { return l.base }
func (l *Linked) Head() Profile { return l.head }

func (l *Linked) ID() string           { return pick(l.head.ID(), l.base.ID()) }
func (l *Linked) Version() string      { return pick(l.base.Version(), l.head.Version()) }
func (l *Linked) InheritsFrom() string { return l.base.InheritsFrom() }
func (l *Linked) MainClass() string    { return pick(l.head.MainClass(), l.base.MainClass()) }
func (l *Linked) AssetID() string      { return pick(l.head.AssetID(), l.base.AssetID()) }
func (l *Linked) JREComponent() string { return pick(l.head.JREComponent(), l.base.JREComponent()) }
func (l *Linked) VersionType() string  { return pick(l.head.VersionType(), l.base.VersionType()) }

func (l *Linked) JREVersion() int {
	if v := l.head.JREVersion(); v > 0 {
		return v
	}
	return l.base.JREVersion()
}

func (l *Linked) Libraries() []Library {
	return concat(l.head.Libraries(), l.base.Libraries())
}

func (l *Linked) JVMArgs() []Argument {
	return concat(l.head.JVMArgs(), l.base.JVMArgs())
}

func (l *Linked) GameArgs() []Argument {
	return concat(l.head.GameArgs(), l.base.GameArgs())
}

func (l *Linked) AssetIndex() *artifact.Artifact {
	return pickArtifact(l.head.AssetIndex(), l.base.AssetIndex())
}

func (l *Linked) LoggingConfig() *artifact.Artifact {
	return pickArtifact(l.head.LoggingConfig(), l.base.LoggingConfig())
}

func (l *Linked) Client() *artifact.Artifact {
	return pickArtifact(l.head.Client(), l.base.Client())
}

func (l *Linked) ClientMappings() *artifact.Artifact {
	return pickArtifact(l.head.ClientMappings(), l.base.ClientMappings())
}

func pick(head, base string) string {
	if strings.TrimSpace(head) != "" {
		return head
	}
	return base
}

func pickArtifact(head, base *artifact.Artifact) *artifact.Artifact {
	if head != nil {
		return head
	}
	return base
}

func concat[T any](head, base []T) []T {
	out := make([]T, 0, len(head)+len(base))
	out = append(out, head...)
	return append(out, base...)
}
