package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packwasm/wasm-pack/internal/registry"
	"github.com/packwasm/wasm-pack/internal/updater"
)

func newToolCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool",
		Short: "Query the registry for helper tool versions",
	}
	cmd.AddCommand(newToolLatestCommand(a), newToolCheckCommand(a))
	return cmd
}

func newToolLatestCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "latest <name>...",
		Short:       "Print the latest published version of each tool",
		Example:     "  wasm-pack tool latest wasm-bindgen cargo-generate",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{annotationNoBanner: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			wanted := make(map[registry.Tool]string, len(args))
			for _, name := range args {
				wanted[registry.Tool(name)] = ""
			}

			var failed []updater.ToolCheck
			for _, check := range updater.CheckTools(cmd.Context(), a.registry(), wanted) {
				if check.Skipped {
					failed = append(failed, check)
					continue
				}
				fmt.Fprintf(a.stdout, "%s %s\n", check.Tool, check.Latest)
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d of %d lookups failed: %w", len(failed), len(wanted), failed[0].Err)
			}
			return nil
		},
	}
}

func newToolCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "check <name> <installed-version>",
		Short:   "Report whether a newer version of a tool is published",
		Example: "  wasm-pack tool check wasm-bindgen 0.2.90",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			check := updater.CheckTool(cmd.Context(), a.registry(), registry.Tool(args[0]), args[1])
			if check.Skipped {
				return fmt.Errorf("checking %s: %w", args[0], check.Err)
			}
			updater.PrintUpgradeBanner(a.stdout, check)
			return nil
		},
	}
}
