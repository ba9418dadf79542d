// Package build is the seam between the CLI and the compile pipeline. The
// CLI turns flags into Options; a Pipeline does the work. Cargo is the
// pipeline wasm-pack ships: it compiles the crate for wasm32 and prepares
// the output directory.
package build

import (
	"errors"
	"fmt"
	"slices"
)

// Targets wasm-bindgen can generate bindings for.
var Targets = []string{"bundler", "nodejs", "web", "no-modules", "deno"}

// Profiles select the cargo profile and optimization level.
const (
	ProfileDev       = "dev"
	ProfileRelease   = "release"
	ProfileProfiling = "profiling"
)

// Modes. no-install skips the wasm-bindgen version check; force also
// builds crates whose crate-type lacks cdylib.
const (
	ModeNormal    = "normal"
	ModeNoInstall = "no-install"
	ModeForce     = "force"
)

// ErrInvalidOptions is wrapped by every Options validation failure.
var ErrInvalidOptions = errors.New("invalid build options")

// Options describe one build.
type Options struct {
	Path    string // Crate directory
	Target  string
	Profile string
	OutDir  string // Relative to Path unless absolute
	OutName string
	Scope   string // npm scope, without the @
	Mode    string
}

// WithDefaults fills empty fields.
func (o Options) WithDefaults() Options {
	if o.Path == "" {
		o.Path = "."
	}
	if o.Target == "" {
		o.Target = "bundler"
	}
	if o.Profile == "" {
		o.Profile = ProfileRelease
	}
	if o.OutDir == "" {
		o.OutDir = "pkg"
	}
	if o.Mode == "" {
		o.Mode = ModeNormal
	}
	return o
}

// Validate checks the enumerated fields.
func (o Options) Validate() error {
	if !slices.Contains(Targets, o.Target) {
		return fmt.Errorf("%w: unknown target %q (expected one of %v)", ErrInvalidOptions, o.Target, Targets)
	}
	switch o.Profile {
	case ProfileDev, ProfileRelease, ProfileProfiling:
	default:
		return fmt.Errorf("%w: unknown profile %q", ErrInvalidOptions, o.Profile)
	}
	switch o.Mode {
	case ModeNormal, ModeNoInstall, ModeForce:
	default:
		return fmt.Errorf("%w: unknown mode %q (expected normal, no-install or force)", ErrInvalidOptions, o.Mode)
	}
	return nil
}
