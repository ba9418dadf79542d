package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/packwasm/wasm-pack/internal/branding"
	"github.com/packwasm/wasm-pack/internal/build"
	"github.com/packwasm/wasm-pack/internal/buildinfo"
	"github.com/packwasm/wasm-pack/internal/config"
	"github.com/packwasm/wasm-pack/internal/progress"
	"github.com/packwasm/wasm-pack/internal/registry"
	"github.com/packwasm/wasm-pack/internal/updater"
)

// app holds what commands share for one invocation.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	output   *progress.Output
	resolver updater.Resolver // nil: a registry client for the configured registry
	pipeline build.Pipeline   // nil: cargo
	notify   bool             // print the wasm-pack release banner
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		output: progress.Default,
		notify: true,
	}
}

func (a *app) registry() updater.Resolver {
	if a.resolver == nil {
		a.resolver = registry.NewClient(registry.WithBaseURL(config.Registry()))
	}
	return a.resolver
}

func (a *app) buildPipeline() build.Pipeline {
	if a.pipeline == nil {
		a.pipeline = build.NewCargo(a.stdout, a.stderr, a.output)
	}
	return a.pipeline
}

// newRootCommand builds the command tree for one invocation.
func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     branding.CLIName(),
		Short:   branding.Description(),
		Long:    branding.DisplayName() + ` builds Rust crates into WebAssembly packages ready to publish to npm.`,
		Version: buildinfo.VersionOrUnknown(),

		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.Load()
			if err := viper.BindPFlag(config.KeyLogLevel, cmd.Flags().Lookup("log-level")); err != nil {
				return err
			}
			if err := viper.BindPFlag(config.KeyQuiet, cmd.Flags().Lookup("quiet")); err != nil {
				return err
			}

			if err := a.output.SetLogLevel(config.LogLevel()); err != nil {
				return err
			}
			a.output.SetQuiet(config.Quiet())

			if !a.notify || config.Quiet() || skipsBanner(cmd) {
				return nil
			}
			updater.NewNotifier(a.registry(), buildinfo.Version(), config.Dir()).
				CheckAndPrintBanner(cmd.Context(), a.stderr)
			return nil
		},
	}
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	cmd.PersistentFlags().StringP("log-level", "l", "info", "The maximum level of messages that should be logged: debug, info, warn or error")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Only log errors and skip the new version notice")

	cmd.AddCommand(
		newBuildCommand(a),
		newToolCommand(a),
		newVersionCommand(a),
		newConfigCommand(a),
	)
	return cmd
}

// annotationNoBanner marks commands whose output is read by scripts.
const annotationNoBanner = "no-banner"

func skipsBanner(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoBanner] == "true" {
			return true
		}
	}
	return false
}
