// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Hard defaults apply when a key is missing.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName           string `yaml:"cli_name"`
	DisplayName       string `yaml:"display_name"`
	Description       string `yaml:"description"`
	Authors           string `yaml:"authors"`
	Homepage          string `yaml:"homepage"`
	HomeDir           string `yaml:"home_dir"`
	EnvPrefix         string `yaml:"env_prefix"`
	InstallerPrefix   string `yaml:"installer_prefix"`
	DeprecatedCommand string `yaml:"deprecated_command"`
	RegistryURL       string `yaml:"registry_url"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:           "wasm-pack",
			DisplayName:       "wasm-pack",
			Description:       "pack up the wasm and publish it to npm!",
			Authors:           "The wasm-pack developers",
			Homepage:          "https://github.com/packwasm/wasm-pack",
			HomeDir:           ".wasm-pack",
			EnvPrefix:         "WASM_PACK",
			InstallerPrefix:   "wasm-pack-init",
			DeprecatedCommand: "init",
			RegistryURL:       "https://crates.io",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "wasm-pack").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// Authors returns the author list shown in crash reports.
func Authors() string { load(); return defaults.Authors }

// Homepage returns the project homepage shown in crash reports.
func Homepage() string { load(); return defaults.Homepage }

// HomeDir returns the dot-directory name under $HOME (e.g., ".wasm-pack").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "WASM_PACK").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// InstallerPrefix returns the executable stem prefix that switches the binary
// into self-installer mode (e.g., "wasm-pack-init").
func InstallerPrefix() string { load(); return defaults.InstallerPrefix }

// DeprecatedCommand returns the legacy subcommand that triggers a
// deprecation notice.
func DeprecatedCommand() string { load(); return defaults.DeprecatedCommand }

// RegistryURL returns the base URL of the crates registry.
func RegistryURL() string { load(); return defaults.RegistryURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("log_level") → "WASM_PACK_LOG_LEVEL".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
