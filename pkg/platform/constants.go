package platform

// Package platform provides the canonical operating system values that
// manifest rules are written against.

const (
	// OSWindows is the canonical name for Windows.
	OSWindows = "windows"
	// OSLinux is the canonical name for Linux and every other unix-like system.
	OSLinux = "linux"
	// OSMac is the canonical name for macOS.
	OSMac = "osx"

	// ArchX86 is the 32-bit x86 architecture as manifests spell it.
	ArchX86 = "x86"
	// ArchAMD64 is the 64-bit x86 architecture.
	ArchAMD64 = "amd64"
	// ArchARM64 is the 64-bit ARM architecture.
	ArchARM64 = "aarch64"
	// ArchARM is the 32-bit ARM architecture.
	ArchARM = "arm"

	// UnknownVersion is reported when the OS version cannot be read.
	UnknownVersion = "unknown"
)

// Rule context keys populated by RuleContext.
const (
	KeyOSName    = "os.name"
	KeyOSArch    = "os.arch"
	KeyOSVersion = "os.version"
	// KeyDemoUser is the feature flag set for demo accounts.
	KeyDemoUser = "features.is_demo_user"
)

// ValidOS returns the canonical OS names.
func ValidOS() []string {
	return []string{OSWindows, OSLinux, OSMac}
}
