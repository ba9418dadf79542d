// Package buildinfo holds the version metadata injected at build time via
// -ldflags and exposes it to the rest of the CLI (version output, crash
// reports, registry User-Agent).
package buildinfo

import (
	"fmt"
	"runtime/debug"

	"github.com/packwasm/wasm-pack/internal/branding"
)

const unknown = "unknown"

var (
	version string
	commit  = unknown
	date    = unknown

	// readBuildInfo is a test seam for debug.ReadBuildInfo.
	readBuildInfo = debug.ReadBuildInfo
)

// Set records the ldflags values passed to main. Empty commit or date keep
// their "unknown" defaults.
func Set(v, c, d string) {
	version = v
	if c != "" {
		commit = c
	}
	if d != "" {
		date = d
	}
}

// Version returns the version of this binary, or "" when it was not stamped.
// Builds from `go install module@version` carry the module version in their
// build info, which is used when ldflags were not set.
func Version() string {
	if version != "" && version != "dev" {
		return version
	}
	if info, ok := readBuildInfo(); ok && info != nil {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return ""
}

// Commit returns the git commit the binary was built from.
func Commit() string { return commit }

// Date returns the build timestamp.
func Date() string { return date }

// VersionOrUnknown returns Version(), or "unknown" when it is empty.
func VersionOrUnknown() string {
	if v := Version(); v != "" {
		return v
	}
	return unknown
}

// UserAgent returns the identifying client header for outbound requests,
// e.g. "wasm-pack/0.13.1".
func UserAgent() string {
	return branding.CLIName() + "/" + VersionOrUnknown()
}

// String returns a one-line description for `version` output.
func String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s)", branding.CLIName(), VersionOrUnknown(), commit, date)
}
