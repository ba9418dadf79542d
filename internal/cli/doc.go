// Package cli defines the Cobra command tree for wasm-pack and the process
// level behavior around it: entry dispatch, exit codes and error chain
// printing. Each file builds one top-level command; commands delegate to
// internal packages and only handle flags and output.
package cli
