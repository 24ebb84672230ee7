//go:build !unix && !windows

package platform

func osVersion() string {
	return UnknownVersion
}
