package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/viper"

	"github.com/packwasm/wasm-pack/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known keys.
const (
	KeyLogLevel = "log_level"
	KeyQuiet    = "quiet"
	KeyRegistry = "registry"
)

// ErrUnknownKey is returned by Set for keys wasm-pack does not read.
var ErrUnknownKey = errors.New("unknown config key")

// Keys returns the settable keys in display order.
func Keys() []string {
	return []string{KeyLogLevel, KeyQuiet, KeyRegistry}
}

// Dir returns the path to the wasm-pack home directory (~/.wasm-pack/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyQuiet, false)
	viper.SetDefault(KeyRegistry, branding.RegistryURL())

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// LogLevel returns the resolved log level name.
func LogLevel() string { return viper.GetString(KeyLogLevel) }

// Quiet reports whether quiet mode is on.
func Quiet() bool { return viper.GetBool(KeyQuiet) }

// Registry returns the registry base URL.
func Registry() string { return viper.GetString(KeyRegistry) }

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("%w %q (known keys: %v)", ErrUnknownKey, key, Keys())
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); errors.Is(err, os.ErrNotExist) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		_ = f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
