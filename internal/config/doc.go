// Package config manages user-level settings stored at
// ~/.wasm-pack/config.yaml. Values resolve flag > WASM_PACK_* environment
// variable > file > default; the root command binds its flags into the same
// viper instance.
package config
