//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func osVersion() string {
	v := windows.RtlGetVersion()
	if v == nil {
		return UnknownVersion
	}
	return fmt.Sprintf("%d.%d", v.MajorVersion, v.MinorVersion)
}
