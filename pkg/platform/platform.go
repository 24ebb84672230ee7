package platform

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/skjsjhb/hyaci-launcher/pkg/rules"
)

// Platform describes the host in the vocabulary manifests use.
type Platform struct {
	OS      string `yaml:"os" json:"os"`
	Arch    string `yaml:"arch" json:"arch"`
	Version string `yaml:"version" json:"version"`
}

// CurrentPlatform returns the canonical description of the running host.
func CurrentPlatform() Platform {
	return Platform{
		OS:      NormalizeOS(runtime.GOOS),
		Arch:    NormalizeArch(runtime.GOARCH),
		Version: osVersion(),
	}
}

// String returns a string representation of the platform
func (p Platform) String() string {
	return fmt.Sprintf("%s/%s (%s)", p.OS, p.Arch, p.Version)
}

// IsArm reports whether the architecture is an ARM variant.
func (p Platform) IsArm() bool {
	return strings.Contains(p.Arch, "arm") || strings.Contains(p.Arch, "aarch")
}

// RuleContext returns the OS predicates for rule evaluation.
func (p Platform) RuleContext() rules.Context {
	return rules.Context{
		KeyOSName:    p.OS,
		KeyOSArch:    p.Arch,
		KeyOSVersion: p.Version,
	}
}

// NormalizeOS maps an OS name to one of windows, osx or linux.
// Anything unrecognized is treated as linux.
func NormalizeOS(os string) string {
	os = strings.ToLower(strings.TrimSpace(os))
	switch {
	case strings.Contains(os, "darwin"), strings.Contains(os, "mac"), os == OSMac:
		return OSMac
	case strings.Contains(os, "win"):
		return OSWindows
	default:
		return OSLinux
	}
}

// NormalizeArch maps a Go or uname architecture name to the manifest spelling.
func NormalizeArch(arch string) string {
	arch = strings.ToLower(strings.TrimSpace(arch))
	switch arch {
	case "x86_64", "x64", "amd64":
		return ArchAMD64
	case "386", "i386", "i486", "i586", "i686", "x86":
		return ArchX86
	case "arm64", "aarch64":
		return ArchARM64
	case "":
		return "unknown"
	default:
		if strings.HasPrefix(arch, "arm") {
			return ArchARM
		}
		return arch
	}
}
