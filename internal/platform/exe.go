package platform

import "runtime"

// ExeSuffix returns the file extension executables need on this OS.
func ExeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// ExeName appends ExeSuffix to name.
func ExeName(name string) string { return name + ExeSuffix() }
