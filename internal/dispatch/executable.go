package dispatch

import "os"

// Executable describes the currently running program.
type Executable interface {
	Path() (string, error)
}

// OSExecutable reports the path from the operating system.
type OSExecutable struct{}

// Path returns os.Executable().
func (OSExecutable) Path() (string, error) { return os.Executable() }

// StaticExecutable is a fixed path or error, used where the real process
// table should not be consulted.
type StaticExecutable struct {
	P   string
	Err error
}

func (s StaticExecutable) Path() (string, error) { return s.P, s.Err }
