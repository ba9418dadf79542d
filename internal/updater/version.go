package updater

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions orders an installed tool version against the registry's
// max_version: -1 when installed is older, 0 when equal, 1 when newer.
// A leading "v" and surrounding space are accepted on either side.
func CompareVersions(installed, latest string) (int, error) {
	iv, err := parseVersion(installed)
	if err != nil {
		return 0, fmt.Errorf("parsing installed version %q: %w", installed, err)
	}
	lv, err := parseVersion(latest)
	if err != nil {
		return 0, fmt.Errorf("parsing latest version %q: %w", latest, err)
	}
	return iv.Compare(lv), nil
}

// IsUpdateAvailable reports whether latest should be offered over installed.
// A pre-release is only offered to someone already running a pre-release.
func IsUpdateAvailable(installed, latest string) (bool, error) {
	cmp, err := CompareVersions(installed, latest)
	if err != nil || cmp >= 0 {
		return false, err
	}

	lv, _ := parseVersion(latest)
	if lv.Prerelease() == "" {
		return true, nil
	}
	iv, _ := parseVersion(installed)
	return iv.Prerelease() != "", nil
}

func parseVersion(v string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(v), "v"))
}
