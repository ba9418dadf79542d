// Package dispatch decides, once per process, whether the binary runs as the
// ordinary CLI or as the self-installer stub.
//
// The decision is made from the running executable's file name: a stem that
// starts with the installer prefix (wasm-pack-init, wasm-pack-init.exe,
// wasm-pack-init-x86_64, ...) selects the installer. Dispatch never exits the
// process itself; it returns a Result and main performs the exit.
package dispatch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/packwasm/wasm-pack/internal/branding"
)

// Mode is the way this process behaves for its whole lifetime.
type Mode int

const (
	ModeNormalCLI Mode = iota
	ModeSelfInstaller
)

func (m Mode) String() string {
	switch m {
	case ModeNormalCLI:
		return "normal-cli"
	case ModeSelfInstaller:
		return "self-installer"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Result is the outcome of Dispatch. Either the caller continues with Args
// through the command parser, or it terminates with ExitCode.
type Result struct {
	Mode      Mode
	Args      []string
	Terminate bool
	ExitCode  int
}

// Continue returns a result that hands args to the command parser.
func Continue(args []string) Result {
	return Result{Mode: ModeNormalCLI, Args: args}
}

// Terminate returns a result that ends the process with code.
func Terminate(code int) Result {
	return Result{Mode: ModeSelfInstaller, Terminate: true, ExitCode: code}
}

// Dispatcher routes one invocation. All fields are required except Stdout,
// which defaults to os.Stdout.
type Dispatcher struct {
	Executable        Executable
	Install           func(exePath string) int
	Stdout            io.Writer
	InstallerPrefix   string
	DeprecatedCommand string
	CLIName           string
}

// DefaultDispatcher returns a dispatcher for the real process, using the
// names from branding and install as the installer entrypoint.
func DefaultDispatcher(install func(exePath string) int) *Dispatcher {
	return &Dispatcher{
		Executable:        OSExecutable{},
		Install:           install,
		Stdout:            os.Stdout,
		InstallerPrefix:   branding.InstallerPrefix(),
		DeprecatedCommand: branding.DeprecatedCommand(),
		CLIName:           branding.CLIName(),
	}
}

// Dispatch warns about the deprecated command, classifies the executable and
// either runs the installer or returns args untouched for the CLI.
func (d *Dispatcher) Dispatch(args []string) Result {
	if len(args) > 0 && d.DeprecatedCommand != "" && args[0] == d.DeprecatedCommand {
		d.warnDeprecated()
	}

	mode, exePath := Classify(d.Executable, d.InstallerPrefix)
	if mode == ModeSelfInstaller {
		return Terminate(d.Install(exePath))
	}
	return Continue(args)
}

func (d *Dispatcher) warnDeprecated() {
	w := d.Stdout
	if w == nil {
		w = os.Stdout
	}
	color.New(color.FgYellow).Fprintf(w, "%s %s is deprecated, consider using %s build\n",
		d.CLIName, d.DeprecatedCommand, d.CLIName)
}

// Classify derives the process mode from the executable's file stem. It also
// returns the executable path, which is empty when it could not be
// determined. Failing to determine the path is not fatal: the process is
// treated as the normal CLI. A path without a file name is a broken
// environment and panics.
func Classify(exe Executable, prefix string) (Mode, string) {
	path, err := exe.Path()
	if err != nil {
		return ModeNormalCLI, ""
	}

	name, ok := fileName(path)
	if !ok {
		panic("executable should have a filename")
	}
	if prefix != "" && strings.HasPrefix(fileStem(name), prefix) {
		return ModeSelfInstaller, path
	}
	return ModeNormalCLI, path
}

// fileName returns the final path component, ignoring trailing separators.
// "", a root, "." and ".." have none.
func fileName(path string) (string, bool) {
	end := len(path)
	for end > 0 && os.IsPathSeparator(path[end-1]) {
		end--
	}
	trimmed := path[:end]
	if trimmed == "" || trimmed == filepath.VolumeName(trimmed) {
		return "", false
	}

	base := filepath.Base(trimmed)
	if base == "." || base == ".." {
		return "", false
	}
	return base, true
}

// fileStem strips the last extension. A leading dot does not start an
// extension, so ".wasm-pack" keeps its name.
func fileStem(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name
	}
	return name[:i]
}
