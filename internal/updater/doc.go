// Package updater decides whether tools wasm-pack depends on, and wasm-pack
// itself, have newer releases on the registry.
//
// Lookups go through a Resolver (normally a *registry.Client). A failed
// lookup never fails the command that asked: CheckTool records it as skipped
// and the caller carries on with the installed version. The daily release
// check for wasm-pack keeps its result in version-check.json under the
// config directory so the banner costs no network time.
package updater
