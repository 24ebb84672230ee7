package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentPlatform(t *testing.T) {
	p := CurrentPlatform()

	assert.Contains(t, ValidOS(), p.OS)
	assert.Equal(t, NormalizeOS(runtime.GOOS), p.OS)
	assert.Equal(t, NormalizeArch(runtime.GOARCH), p.Arch)
	assert.NotEmpty(t, p.Version)
}

func TestNormalizeOS(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"darwin to osx", "darwin", OSMac},
		{"mac os x", "Mac OS X", OSMac},
		{"osx stays", "osx", OSMac},
		{"windows", "windows", OSWindows},
		{"windows 11 display name", "Windows 11", OSWindows},
		{"linux", "LINUX", OSLinux},
		{"freebsd folds into linux", "freebsd", OSLinux},
		{"solaris folds into linux", "solaris", OSLinux},
		{"empty string", "", OSLinux},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeOS(tt.input))
		})
	}
}

func TestNormalizeArch(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"amd64", "amd64", ArchAMD64},
		{"x86_64 to amd64", "x86_64", ArchAMD64},
		{"386 to x86", "386", ArchX86},
		{"i686 to x86", "i686", ArchX86},
		{"arm64 to aarch64", "arm64", ArchARM64},
		{"armv7l to arm", "armv7l", ArchARM},
		{"unknown arch", "riscv64", "riscv64"},
		{"empty string", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeArch(tt.input))
		})
	}
}

func TestIsArm(t *testing.T) {
	assert.True(t, Platform{Arch: ArchARM64}.IsArm())
	assert.True(t, Platform{Arch: ArchARM}.IsArm())
	assert.False(t, Platform{Arch: ArchAMD64}.IsArm())
}

func TestRuleContext(t *testing.T) {
	ctx := Platform{OS: OSMac, Arch: ArchARM64, Version: "23.1.0"}.RuleContext()
	assert.Equal(t, OSMac, ctx[KeyOSName])
	assert.Equal(t, ArchARM64, ctx[KeyOSArch])
	assert.Equal(t, "23.1.0", ctx[KeyOSVersion])
	assert.NotContains(t, ctx, KeyDemoUser)
}
