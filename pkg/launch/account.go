package launch

import (
	"crypto/md5"
	"strings"

	"github.com/google/uuid"

	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
)

// Account provides the player identity passed to the game.
type Account interface {
	Username() string
	UUID() string
	Token() string
	XUID() string
	// Demo reports whether the game runs in demo mode.
	Demo() bool
}

// OfflineAccount plays without authentication. Its UUID is derived from the
// player name the same way the game server derives offline UUIDs.
type OfflineAccount struct {
	name string
	demo bool
	id   uuid.UUID
}

// NewOfflineAccount creates an account for name.
func NewOfflineAccount(name string, demo bool) (*OfflineAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Wrap(errors.ErrInvalidOption, "player name cannot be empty")
	}
	return &OfflineAccount{name: name, demo: demo, id: nameUUID("OfflinePlayer:" + name)}, nil
}

func (a *OfflineAccount) Username() string { return a.name }
func (a *OfflineAccount) UUID() string     { return a.id.String() }
func (a *OfflineAccount) Token() string    { return strings.ReplaceAll(a.id.String(), "-", "") }
func (a *OfflineAccount) XUID() string     { return "0" }
func (a *OfflineAccount) Demo() bool       { return a.demo }

// nameUUID builds a version 3 UUID from the MD5 digest of name alone,
// without a namespace.
func nameUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte(name))
	sum[6] = sum[6]&0x0f | 0x30
	sum[8] = sum[8]&0x3f | 0x80
	return uuid.UUID(sum)
}
