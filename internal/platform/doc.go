// Package platform hides the few filesystem differences between Unix and
// Windows that wasm-pack cares about: permission bits and executable names.
package platform
