package build

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Crate is the part of Cargo.toml the pipeline reads.
type Crate struct {
	Package struct {
		Name        string   `toml:"name"`
		Version     string   `toml:"version"`
		Description string   `toml:"description"`
		License     string   `toml:"license"`
		Repository  string   `toml:"repository"`
		Authors     []string `toml:"authors"`
	} `toml:"package"`
	Lib struct {
		CrateType []string `toml:"crate-type"`
	} `toml:"lib"`
}

// ReadCrate parses <dir>/Cargo.toml. Every failure wraps ErrNotACrate.
func ReadCrate(dir string) (*Crate, error) {
	manifest := filepath.Join(dir, "Cargo.toml")
	var crate Crate
	if _, err := toml.DecodeFile(manifest, &crate); err != nil {
		return nil, fmt.Errorf("%w in %s: %w", ErrNotACrate, dir, err)
	}
	if crate.Package.Name == "" {
		return nil, fmt.Errorf("%w in %s: %w", ErrNotACrate, dir, errors.New("[package] has no name"))
	}
	return &crate, nil
}

// IsCdylib reports whether the crate builds a C-compatible dynamic library,
// the only crate type wasm-bindgen can process.
func (c *Crate) IsCdylib() bool {
	return slices.Contains(c.Lib.CrateType, "cdylib")
}

// LibName is the name cargo gives the library artifact.
func (c *Crate) LibName() string {
	return strings.ReplaceAll(c.Package.Name, "-", "_")
}
