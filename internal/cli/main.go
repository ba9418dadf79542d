package cli

import (
	"context"
	"io"

	"github.com/packwasm/wasm-pack/internal/dispatch"
	"github.com/packwasm/wasm-pack/internal/installer"
)

// Main runs one invocation and returns the process exit code: the
// installer's code in installer mode, 1 when a command fails, 0 otherwise.
// args excludes the program name.
func Main(args []string, stdout, stderr io.Writer) int {
	d := dispatch.DefaultDispatcher(installEntry(stdout, stderr))
	d.Stdout = stdout

	res := d.Dispatch(args)
	if res.Terminate {
		return res.ExitCode
	}
	return run(newApp(stdout, stderr), res.Args)
}

// run executes the command tree with args.
func run(a *app, args []string) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		PrintError(a.stderr, err)
		return 1
	}
	return 0
}

// installEntry adapts the installer to the dispatcher's entrypoint.
func installEntry(stdout, stderr io.Writer) func(exePath string) int {
	return func(exePath string) int {
		if err := installer.New(stdout).Run(exePath); err != nil {
			PrintError(stderr, err)
			return 1
		}
		return 0
	}
}
