package updater

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/packwasm/wasm-pack/internal/registry"
)

const (
	cacheFileName = "version-check.json"
	// DefaultCacheMaxAge is how long a release check stays valid.
	DefaultCacheMaxAge = 24 * time.Hour
)

// VersionCache is the last release check for one tool.
type VersionCache struct {
	Tool            registry.Tool `json:"tool"`
	LatestVersion   string        `json:"latest_version"`
	CurrentVersion  string        `json:"current_version"`
	CheckedAt       time.Time     `json:"checked_at"`
	UpdateAvailable bool          `json:"update_available"`
}

// LoadCache reads the version cache from dir. A missing file is not an
// error: it returns nil, nil.
func LoadCache(dir string) (*VersionCache, error) {
	path := filepath.Join(dir, cacheFileName)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading version cache: %w", err)
	}

	var cache VersionCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing version cache: %w", err)
	}
	return &cache, nil
}

// SaveCache writes cache to dir, creating dir if needed.
func SaveCache(dir string, cache *VersionCache) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling version cache: %w", err)
	}

	path := filepath.Join(dir, cacheFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing version cache: %w", err)
	}
	return nil
}

// IsCacheStale reports whether cache is missing or older than maxAge at now.
func IsCacheStale(cache *VersionCache, maxAge time.Duration, now time.Time) bool {
	if cache == nil {
		return true
	}
	return now.Sub(cache.CheckedAt) > maxAge
}
