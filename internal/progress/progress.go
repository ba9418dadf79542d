// Package progress is the reporting surface commands write status to. It
// wraps a charm logger with the two global controls: a log level and a
// quiet switch that silences everything below errors.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/packwasm/wasm-pack/internal/branding"
)

// Default writes to stderr and is configured by the root command.
var Default = New(os.Stderr)

// Output is a leveled status writer.
type Output struct {
	mu     sync.Mutex
	logger *log.Logger
	level  log.Level
	quiet  bool
}

// New returns an Output at info level writing to w.
func New(w io.Writer) *Output {
	o := &Output{
		logger: log.NewWithOptions(w, log.Options{
			Prefix: branding.CLIName(),
		}),
		level: log.InfoLevel,
	}
	o.apply()
	return o
}

// SetLogLevel sets the level by name: debug, info, warn or error.
func (o *Output) SetLogLevel(name string) error {
	level, err := log.ParseLevel(name)
	if err != nil || level > log.ErrorLevel {
		return fmt.Errorf("invalid log level %q: expected debug, info, warn or error", name)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.level = level
	o.apply()
	return nil
}

// SetQuiet suppresses info, step and warning output while on.
func (o *Output) SetQuiet(quiet bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.quiet = quiet
	o.apply()
}

// Level returns the configured level name, ignoring quiet.
func (o *Output) Level() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.level.String()
}

func (o *Output) apply() {
	level := o.level
	if o.quiet && level < log.ErrorLevel {
		level = log.ErrorLevel
	}
	o.logger.SetLevel(level)
}

// Debug logs msg with key/value pairs at debug level.
func (o *Output) Debug(msg string, keyvals ...any) { o.logger.Debug(msg, keyvals...) }

// Info logs at info level. Quiet suppresses it.
func (o *Output) Info(msg string, keyvals ...any) { o.logger.Info(msg, keyvals...) }

// Warn logs at warn level. Quiet suppresses it.
func (o *Output) Warn(msg string, keyvals ...any) { o.logger.Warn(msg, keyvals...) }

// Error logs at error level, which is printed even when quiet.
func (o *Output) Error(msg string, keyvals ...any) { o.logger.Error(msg, keyvals...) }

// Step reports stage n of total, e.g. "[2/4] Compiling to Wasm...".
func (o *Output) Step(n, total int, msg string) {
	o.logger.Info(fmt.Sprintf("[%d/%d] %s", n, total, msg))
}
