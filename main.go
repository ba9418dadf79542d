package main

import (
	"fmt"
	"os"

	"github.com/packwasm/wasm-pack/internal/branding"
	"github.com/packwasm/wasm-pack/internal/buildinfo"
	"github.com/packwasm/wasm-pack/internal/cli"
	"github.com/packwasm/wasm-pack/internal/crash"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date)

	reporter := crash.New(crash.Metadata{
		Name:     branding.DisplayName(),
		Version:  buildinfo.VersionOrUnknown(),
		Authors:  branding.Authors(),
		Homepage: branding.Homepage(),
	})
	if _, err := reporter.Install(); err != nil {
		fmt.Fprintf(os.Stderr, "installing crash reporter: %v\n", err)
	}
	defer crash.Recover()

	code := cli.Main(os.Args[1:], os.Stdout, os.Stderr)
	if code != 0 {
		os.Exit(code)
	}
}
