package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/packwasm/wasm-pack/internal/platform"
	"github.com/packwasm/wasm-pack/internal/progress"
)

// WasmTarget is the rustc target triple wasm-pack compiles for.
const WasmTarget = "wasm32-unknown-unknown"

var (
	// ErrNotACrate is returned when the build path has no usable Cargo.toml.
	ErrNotACrate = errors.New("no Cargo.toml found")

	// ErrNotCdylib is returned when the crate does not build a cdylib and
	// the mode is not force.
	ErrNotCdylib = errors.New(`crate-type must be cdylib to compile to wasm32-unknown-unknown; add crate-type = ["cdylib", "rlib"] under [lib] in Cargo.toml`)
)

// Pipeline runs a build.
type Pipeline interface {
	Run(ctx context.Context, opts Options) error
}

// Cargo compiles the crate with cargo and prepares the output directory.
type Cargo struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Output   *progress.Output
	LookPath func(file string) (string, error)
}

// NewCargo returns a Cargo pipeline streaming to stdout/stderr.
func NewCargo(stdout, stderr io.Writer, out *progress.Output) *Cargo {
	return &Cargo{
		Stdout:   stdout,
		Stderr:   stderr,
		Output:   out,
		LookPath: exec.LookPath,
	}
}

// CargoArgs returns the cargo arguments for opts.
func CargoArgs(opts Options) []string {
	args := []string{"build", "--lib", "--target", WasmTarget}
	if opts.Profile != ProfileDev {
		args = append(args, "--release")
	}
	return args
}

// OutputDir resolves opts.OutDir against the crate path.
func OutputDir(opts Options) string {
	if filepath.IsAbs(opts.OutDir) {
		return opts.OutDir
	}
	return filepath.Join(opts.Path, opts.OutDir)
}

// Run validates opts and the crate, compiles it and writes package.json
// into the output directory.
func (c *Cargo) Run(ctx context.Context, opts Options) error {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return err
	}

	c.Output.Step(1, 3, "Checking crate configuration...")
	crate, err := ReadCrate(opts.Path)
	if err != nil {
		return err
	}
	if opts.Mode != ModeForce && !crate.IsCdylib() {
		return fmt.Errorf("checking %s: %w", crate.Package.Name, ErrNotCdylib)
	}

	c.Output.Step(2, 3, "Compiling to Wasm...")
	cargo, err := c.LookPath(platform.ExeName("cargo"))
	if err != nil {
		return fmt.Errorf("finding cargo: %w", err)
	}
	cmd := exec.CommandContext(ctx, cargo, CargoArgs(opts)...)
	cmd.Dir = opts.Path
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("compiling to wasm: %w", err)
	}

	c.Output.Step(3, 3, "Creating output directory...")
	outDir := OutputDir(opts)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outDir, err)
	}
	pkg := NewPackage(crate, opts)
	if err := pkg.Write(outDir); err != nil {
		return err
	}

	c.Output.Info(fmt.Sprintf("Your wasm pkg %s is ready to publish at %s", pkg.Name, outDir))
	return nil
}
