package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packwasm/wasm-pack/internal/branding"
	"github.com/packwasm/wasm-pack/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage user settings",
		Long:        `Read and write ` + branding.DisplayName() + ` settings stored at ~/` + branding.HomeDir() + `/config.yaml.`,
		Annotations: map[string]string{annotationNoBanner: "true"},
	}
	cmd.AddCommand(
		newConfigSetCommand(a),
		newConfigGetCommand(a),
		newConfigListCommand(a),
	)
	return cmd
}

func newConfigSetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := config.Set(key, value); err != nil {
				return fmt.Errorf("setting config key %q: %w", key, err)
			}
			fmt.Fprintf(a.stdout, "Set %s = %s\n", key, value)
			return nil
		},
	}
}

func newConfigGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.stdout, config.Get(args[0]))
			return nil
		},
	}
}

func newConfigListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every setting with its resolved value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range config.Keys() {
				fmt.Fprintf(a.stdout, "%s = %s\n", key, config.Get(key))
			}
			return nil
		},
	}
}
