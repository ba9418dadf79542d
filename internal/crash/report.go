package crash

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Report is the on-disk crash dump.
type Report struct {
	Name             string   `toml:"name"`
	OperatingSystem  string   `toml:"operating_system"`
	Version          string   `toml:"version"`
	Explanation      string   `toml:"explanation"`
	Cause            string   `toml:"cause"`
	Method           string   `toml:"method"`
	Executable       string   `toml:"executable,omitempty"`
	Arguments        []string `toml:"arguments"`
	WorkingDirectory string   `toml:"working_directory,omitempty"`
	GoVersion        string   `toml:"go_version"`
	Backtrace        string   `toml:"backtrace"`
}

// NewReport builds the dump for p.
func NewReport(meta Metadata, p *Panic) *Report {
	explanation := "Panic location unknown.\n"
	if p.File != "" {
		explanation = fmt.Sprintf("Panic occurred in file '%s' at line %d\n", p.File, p.Line)
	}

	rep := &Report{
		Name:            meta.Name,
		OperatingSystem: runtime.GOOS + "/" + runtime.GOARCH,
		Version:         meta.Version,
		Explanation:     explanation,
		Cause:           fmt.Sprint(p.Value),
		Method:          "Panic",
		Arguments:       os.Args,
		GoVersion:       runtime.Version(),
		Backtrace:       string(p.Stack),
	}
	if exe, err := os.Executable(); err == nil {
		rep.Executable = exe
	}
	if wd, err := os.Getwd(); err == nil {
		rep.WorkingDirectory = wd
	}
	return rep
}

// WriteReport persists the dump for p as report-<uuid>.toml in the report
// directory and returns its path.
func (r *Reporter) WriteReport(p *Panic) (_ string, err error) {
	path := filepath.Join(r.reportDir, "report-"+uuid.NewString()+".toml")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("creating crash report: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing crash report: %w", closeErr)
		}
	}()

	if err := toml.NewEncoder(f).Encode(NewReport(r.meta, p)); err != nil {
		return "", fmt.Errorf("encoding crash report: %w", err)
	}
	return path, nil
}

// PrintMessage tells the user where the report is and how to send it. When
// writeErr is set the report could not be stored and the message says so.
func (r *Reporter) PrintMessage(path string, writeErr error) error {
	var b strings.Builder
	b.WriteString("Well, this is embarrassing.\n\n")
	fmt.Fprintf(&b, "%s had a problem and crashed. To help us diagnose the problem you can send us a crash report.\n\n", r.meta.Name)

	if writeErr != nil {
		fmt.Fprintf(&b, "We could not write a report file (%v). Submit an issue or email with the subject of \"%s Crash Report\" and include the output above.\n\n", writeErr, r.meta.Name)
	} else {
		fmt.Fprintf(&b, "We have generated a report file at \"%s\". Submit an issue or email with the subject of \"%s Crash Report\" and include the report as an attachment.\n\n", path, r.meta.Name)
	}

	if r.meta.Homepage != "" {
		fmt.Fprintf(&b, "- Homepage: %s\n", r.meta.Homepage)
	}
	if r.meta.Authors != "" {
		fmt.Fprintf(&b, "- Authors: %s\n", r.meta.Authors)
	}

	b.WriteString("\nWe take privacy seriously, and do not perform any automated error collection. In order to improve the software, we rely on people to submit reports.\n\n")
	b.WriteString("Thank you kindly!\n")

	_, err := color.New(color.FgRed).Fprint(r.out, b.String())
	return err
}
