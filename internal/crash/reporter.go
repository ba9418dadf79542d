package crash

import (
	"errors"
	"io"
	"os"
)

// ToggleEnv is the environment variable whose presence, with any value,
// keeps the runtime's own panic output and disables the friendly report.
const ToggleEnv = "GOTRACEBACK"

// ErrAlreadyInstalled is returned when a second reporter tries to claim an
// interceptor without WithOverride.
var ErrAlreadyInstalled = errors.New("crash reporter already installed")

type (
	// Metadata describes the program in crash reports. It is fixed at
	// construction.
	Metadata struct {
		Name     string
		Version  string
		Authors  string
		Homepage string
	}

	// Reporter writes a crash dump and prints a short message pointing at it
	// whenever the interceptor handles a panic.
	Reporter struct {
		meta        Metadata
		interceptor *Interceptor
		reportDir   string
		out         io.Writer
		lookupEnv   func(string) (string, bool)
		override    bool
	}

	// Option configures a Reporter during construction.
	Option func(*Reporter)
)

// WithInterceptor attaches the reporter to in instead of the process-wide
// interceptor.
func WithInterceptor(in *Interceptor) Option {
	return func(r *Reporter) {
		r.interceptor = in
	}
}

// WithReportDir sets the directory crash dumps are written to.
func WithReportDir(dir string) Option {
	return func(r *Reporter) {
		r.reportDir = dir
	}
}

// WithOutput sets where the user-facing message is printed.
func WithOutput(w io.Writer) Option {
	return func(r *Reporter) {
		r.out = w
	}
}

// WithLookupEnv replaces os.LookupEnv for the toggle check.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(r *Reporter) {
		r.lookupEnv = fn
	}
}

// WithOverride lets Install claim an interceptor another reporter already
// owns. The previous reporter's hook stays in the chain.
func WithOverride() Option {
	return func(r *Reporter) {
		r.override = true
	}
}

// New creates a Reporter. Defaults: the process-wide interceptor, reports in
// os.TempDir(), messages on stderr.
func New(meta Metadata, opts ...Option) *Reporter {
	r := &Reporter{
		meta:        meta,
		interceptor: std,
		reportDir:   os.TempDir(),
		out:         os.Stderr,
		lookupEnv:   os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Metadata returns the program description used in reports.
func (r *Reporter) Metadata() Metadata { return r.meta }

// Install adds the reporting hook to the interceptor. It returns false
// without touching the chain when ToggleEnv is set.
func (r *Reporter) Install() (bool, error) {
	if _, set := r.lookupEnv(ToggleEnv); set {
		return false, nil
	}
	if err := r.interceptor.claim(r.override); err != nil {
		return false, err
	}

	r.interceptor.Wrap(func(prev Hook) Hook {
		return func(p *Panic) {
			prev(p)

			path, writeErr := r.WriteReport(p)
			if err := r.PrintMessage(path, writeErr); err != nil {
				panic("crash: printing error message to console failed: " + err.Error())
			}
		}
	})
	return true, nil
}
