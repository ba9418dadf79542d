// Package registry resolves the latest published version of a tool on the
// crates registry.
//
// A lookup is one GET of <registry>/api/v1/crates/<tool>. The response is
// checked against an embedded JSON schema before it is decoded, so a body
// without crate.max_version is an error instead of an empty version. There
// are no retries and nothing is cached; deciding what a failed lookup means
// is left to the caller (see package updater).
package registry
