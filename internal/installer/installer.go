// Package installer is the self-installer entrypoint. When the binary runs
// as wasm-pack-init it copies itself to the install directory as wasm-pack,
// replacing an older install atomically and rolling back if the new binary
// does not start.
package installer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/packwasm/wasm-pack/internal/branding"
	"github.com/packwasm/wasm-pack/internal/config"
	"github.com/packwasm/wasm-pack/internal/platform"
)

// verifyTimeout bounds the post-install `version --json` check.
const verifyTimeout = 5 * time.Second

// ErrNoExecutable is returned when the installer does not know its own path.
var ErrNoExecutable = errors.New("cannot determine the installer's own path")

// Installer places the running executable into Dir.
type Installer struct {
	Dir    string
	Stdout io.Writer
	Verify bool // Run the installed binary once before keeping it
}

// New returns an installer for $WASM_PACK_INSTALL_DIR, or ~/.wasm-pack/bin
// when it is unset.
func New(stdout io.Writer) *Installer {
	return &Installer{
		Dir:    DefaultDir(),
		Stdout: stdout,
		Verify: true,
	}
}

// DefaultDir returns the install directory.
func DefaultDir() string {
	if dir := os.Getenv(branding.EnvVar("install_dir")); dir != "" {
		return dir
	}
	return filepath.Join(config.Dir(), "bin")
}

// Run installs exePath and reports the result on i.Stdout.
func (i *Installer) Run(exePath string) error {
	if exePath == "" {
		return ErrNoExecutable
	}

	dest, err := i.Install(exePath)
	if err != nil {
		return fmt.Errorf("installing %s: %w", branding.CLIName(), err)
	}

	color.New(color.FgGreen).Fprintf(i.Stdout, "%s was installed to %s\n", branding.CLIName(), dest)
	if !onPath(i.Dir) {
		fmt.Fprintf(i.Stdout, "Add %s to your PATH to run %s from anywhere.\n", i.Dir, branding.CLIName())
	}
	return nil
}

// Install copies src to <Dir>/wasm-pack[.exe] and returns the destination.
// An existing install is kept as a backup until the new one is in place
// and, with Verify, has answered `version --json`.
func (i *Installer) Install(src string) (string, error) {
	if err := os.MkdirAll(i.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating install directory %s: %w", i.Dir, err)
	}
	dest := filepath.Join(i.Dir, platform.ExeName(branding.CLIName()))

	if same, err := sameFile(src, dest); err == nil && same {
		return dest, nil
	}

	tmp, err := copyToTemp(src, i.Dir)
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp) }()

	backup := dest + ".backup"
	hadPrevious := false
	if err := os.Rename(dest, backup); err == nil {
		hadPrevious = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("backing up existing install: %w", err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		rollback(backup, dest, hadPrevious)
		return "", fmt.Errorf("moving binary into place: %w", err)
	}

	if i.Verify {
		if err := VerifyBinary(dest); err != nil {
			rollback(backup, dest, hadPrevious)
			return "", fmt.Errorf("verification failed, rolled back: %w", err)
		}
	}

	if hadPrevious {
		_ = os.Remove(backup)
	}
	return dest, nil
}

// VerifyBinary runs `<path> version --json` and checks it prints JSON.
func VerifyBinary(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, path, "version", "--json").Output()
	if ctx.Err() != nil {
		return fmt.Errorf("new binary timed out after %s", verifyTimeout)
	}
	if err != nil {
		return fmt.Errorf("new binary exited with error: %w", err)
	}

	var info map[string]string
	if err := json.Unmarshal(output, &info); err != nil {
		return fmt.Errorf("parsing version output: %w", err)
	}
	return nil
}

// rollback restores backup to dest. Without a previous install the new
// binary is removed instead.
func rollback(backup, dest string, hadPrevious bool) {
	if !hadPrevious {
		_ = os.Remove(dest)
		return
	}
	_ = os.Rename(backup, dest)
}

func copyToTemp(src, dir string) (_ string, err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.CreateTemp(dir, "."+branding.CLIName()+"-*")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(out.Name())
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", out.Name(), err)
	}
	if err := platform.MakeExecutable(out.Name()); err != nil {
		return "", fmt.Errorf("making %s executable: %w", out.Name(), err)
	}
	return out.Name(), nil
}

func sameFile(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(ai, bi), nil
}

func onPath(dir string) bool {
	clean := filepath.Clean(dir)
	for _, p := range filepath.SplitList(os.Getenv("PATH")) {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if p == clean || (runtime.GOOS == "windows" && strings.EqualFold(p, clean)) {
			return true
		}
	}
	return false
}
