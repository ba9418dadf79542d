package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packwasm/wasm-pack/internal/buildinfo"
)

func newVersionCommand(a *app) *cobra.Command {
	var (
		short  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoBanner: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(a.stdout, buildinfo.VersionOrUnknown())
				return nil
			}

			if asJSON {
				info := map[string]string{
					"version": buildinfo.VersionOrUnknown(),
					"commit":  buildinfo.Commit(),
					"date":    buildinfo.Date(),
				}
				out, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling version info: %w", err)
				}
				fmt.Fprintln(a.stdout, string(out))
				return nil
			}

			fmt.Fprintln(a.stdout, buildinfo.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print version number only")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version info as JSON")
	return cmd
}
