// Package crash turns unexpected panics into a persisted, human-readable crash
// report instead of a bare goroutine dump.
//
// The package is organized into three concerns:
//   - interceptor.go: the process-wide failure interception chain. Hooks are
//     composed, never replaced: each new hook wraps and calls the previous one.
//   - reporter.go: Reporter installs the friendly hook once, unless the
//     GOTRACEBACK toggle asks for raw runtime diagnostics.
//   - report.go: the TOML crash dump and the message pointing users at it.
//
// Go has no global panic hook, so the chain only sees panics that reach a
// deferred Recover: main defers crash.Recover, and background work should be
// started with Interceptor.Go.
package crash
