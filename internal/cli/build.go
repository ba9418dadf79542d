package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/packwasm/wasm-pack/internal/branding"
	"github.com/packwasm/wasm-pack/internal/build"
	"github.com/packwasm/wasm-pack/internal/registry"
	"github.com/packwasm/wasm-pack/internal/updater"
)

// bindgenCheckTimeout bounds the registry lookup made before a build.
const bindgenCheckTimeout = 5 * time.Second

// toolVersion is swapped in tests to avoid running wasm-bindgen.
var toolVersion = build.ToolVersion

func newBuildCommand(a *app) *cobra.Command {
	var (
		opts      build.Options
		dev       bool
		release   bool
		profiling bool
	)

	cmd := &cobra.Command{
		Use: "build [path]",
		// The old name keeps working; the entry dispatcher prints the
		// deprecation notice.
		Aliases: []string{branding.DeprecatedCommand()},
		Short:   "Build a Rust crate into a WebAssembly package",
		Long: `Compile the crate at path (default: the current directory) for
wasm32-unknown-unknown and prepare the package output directory.`,
		Example: `  ` + branding.CLIName() + ` build
  ` + branding.CLIName() + ` build --target web --dev ./my-crate`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Path = args[0]
			}
			switch {
			case dev:
				opts.Profile = build.ProfileDev
			case profiling:
				opts.Profile = build.ProfileProfiling
			default:
				opts.Profile = build.ProfileRelease
			}
			opts = opts.WithDefaults()
			if err := opts.Validate(); err != nil {
				return err
			}

			if opts.Mode != build.ModeNoInstall {
				a.checkBindgen(cmd.Context())
			}

			if err := a.buildPipeline().Run(cmd.Context(), opts); err != nil {
				return fmt.Errorf("building %s: %w", opts.Path, err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Target, "target", "t", "bundler", "Output target: "+strings.Join(build.Targets, ", "))
	f.BoolVar(&dev, "dev", false, "Create a development build: no optimizations, debug assertions on")
	f.BoolVar(&release, "release", false, "Create a release build (default)")
	f.BoolVar(&profiling, "profiling", false, "Create a profiling build: optimized, with debug info")
	f.StringVarP(&opts.OutDir, "out-dir", "d", "pkg", "Output directory, relative to the crate")
	f.StringVar(&opts.OutName, "out-name", "", "Output file name prefix (default: the crate name)")
	f.StringVarP(&opts.Scope, "scope", "s", "", "npm scope for the package name")
	f.StringVarP(&opts.Mode, "mode", "m", build.ModeNormal, "Tool install mode: normal, no-install or force")
	cmd.MarkFlagsMutuallyExclusive("dev", "release", "profiling")

	return cmd
}

// checkBindgen compares the installed wasm-bindgen with the registry. It
// never fails the build: a lookup that does not finish in time is skipped.
func (a *app) checkBindgen(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, bindgenCheckTimeout)
	defer cancel()

	installed, err := toolVersion(ctx, registry.WasmBindgen.String())
	if err != nil {
		a.output.Debug("wasm-bindgen is not installed", "err", err)
		installed = ""
	}

	check := updater.CheckTool(ctx, a.registry(), registry.WasmBindgen, installed)
	switch {
	case check.Skipped:
		a.output.Warn("skipping wasm-bindgen version check", "err", check.Err)
	case check.UpdateAvailable:
		updater.PrintUpgradeBanner(a.stderr, check)
	default:
		a.output.Debug("wasm-bindgen version check", "installed", check.Installed, "latest", check.Latest)
	}
}
