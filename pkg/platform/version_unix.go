//go:build unix

package platform

import (
	"bytes"

	"golang.org/x/sys/unix"
)

func osVersion() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return UnknownVersion
	}
	release := string(bytes.TrimRight(uts.Release[:], "\x00"))
	if release == "" {
		return UnknownVersion
	}
	return release
}
