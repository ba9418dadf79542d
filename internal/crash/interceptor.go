package crash

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

// ExitCode is the status the Go runtime uses for an unrecovered panic.
const ExitCode = 2

type (
	// Panic describes one recovered fault.
	Panic struct {
		Value any    // Value passed to panic()
		Stack []byte // Stack of the panicking goroutine
		File  string // Source file of the panic site, if known
		Line  int    // Line of the panic site, if known
	}

	// Hook is one link of the failure interception chain.
	Hook func(p *Panic)

	// Interceptor is the failure interception service. A hook added with Wrap
	// receives the previous hook and is expected to call it.
	Interceptor struct {
		mu      sync.Mutex
		hook    Hook
		active  bool
		claimed bool
		exit    func(int)
	}
)

// std is the interception chain main and crash.Go use.
var std = NewInterceptor(os.Stderr, os.Exit)

// Default returns the process-wide interceptor.
func Default() *Interceptor { return std }

// Recover handles a panic with the process-wide interceptor. It must be
// deferred directly: `defer crash.Recover()`.
func Recover() {
	if !std.Active() {
		return
	}
	if r := recover(); r != nil {
		std.Handle(r)
	}
}

// Go runs fn on a new goroutine guarded by the process-wide interceptor.
func Go(fn func()) { std.Go(fn) }

// WriterHook returns the base hook: the runtime-shaped "panic: <value>"
// header followed by the goroutine stack.
func WriterHook(w io.Writer) Hook {
	return func(p *Panic) {
		fmt.Fprintf(w, "panic: %v\n\n%s", p.Value, p.Stack)
	}
}

// NewInterceptor creates an interceptor whose base hook writes to stderr and
// which terminates the process through exit.
func NewInterceptor(stderr io.Writer, exit func(int)) *Interceptor {
	return &Interceptor{
		hook: WriterHook(stderr),
		exit: exit,
	}
}

// Wrap adds a hook to the chain. wrap receives the current hook and returns
// its replacement, which should call the one it received.
func (in *Interceptor) Wrap(wrap func(prev Hook) Hook) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.hook = wrap(in.hook)
	in.active = true
}

// Active reports whether any hook was wrapped into the chain. An inactive
// interceptor leaves panics to the Go runtime.
func (in *Interceptor) Active() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.active
}

// claim marks the interceptor as owned by a reporter. A second claim fails
// unless override is set.
func (in *Interceptor) claim(override bool) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.claimed && !override {
		return ErrAlreadyInstalled
	}
	in.claimed = true
	return nil
}

// Recover handles a panic with this interceptor. It must be deferred
// directly: `defer in.Recover()`. When no hook was wrapped in it does not
// call recover, so the runtime prints its own diagnostics.
func (in *Interceptor) Recover() {
	if !in.Active() {
		return
	}
	if r := recover(); r != nil {
		in.Handle(r)
	}
}

// Handle runs the chain for an already recovered value and terminates with
// ExitCode. A panic raised by a hook propagates and is fatal.
func (in *Interceptor) Handle(v any) {
	p := &Panic{Value: v, Stack: debug.Stack()}
	p.File, p.Line = panicSite()

	in.mu.Lock()
	hook := in.hook
	in.mu.Unlock()

	hook(p)
	in.exit(ExitCode)
}

// Go runs fn on a new goroutine guarded by this interceptor.
func (in *Interceptor) Go(fn func()) {
	go func() {
		defer in.Recover()
		fn()
	}()
}

// panicSite returns the first non-runtime frame below runtime.gopanic, which
// is where panic was called (or where the runtime error was raised).
func panicSite() (string, int) {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	seenPanic := false
	for {
		frame, more := frames.Next()
		if frame.Function == "runtime.gopanic" {
			seenPanic = true
		} else if seenPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			return frame.File, frame.Line
		}
		if !more {
			return "", 0
		}
	}
}
