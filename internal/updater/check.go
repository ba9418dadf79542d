package updater

import (
	"context"
	"fmt"
	"io"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/packwasm/wasm-pack/internal/crash"
	"github.com/packwasm/wasm-pack/internal/registry"
)

// maxConcurrentChecks bounds how many registry lookups CheckTools runs at once.
const maxConcurrentChecks = 4

// ToolCheck is the outcome of comparing an installed tool with the registry.
type ToolCheck struct {
	Tool            registry.Tool
	Installed       string // Empty when only the latest version was asked for
	Latest          string
	UpdateAvailable bool
	Skipped         bool // Lookup or comparison failed; Err says why
	Err             error
}

// CheckTool looks tool up and compares the result with installed. Failures
// are recorded on the result, never returned: a version check that cannot
// be made is skipped.
func CheckTool(ctx context.Context, r Resolver, tool registry.Tool, installed string) ToolCheck {
	check := ToolCheck{Tool: tool, Installed: installed}

	info, err := r.Latest(ctx, tool)
	if err != nil {
		check.Skipped = true
		check.Err = err
		return check
	}
	check.Latest = info.MaxVersion

	if installed == "" {
		return check
	}
	available, err := IsUpdateAvailable(installed, info.MaxVersion)
	if err != nil {
		check.Skipped = true
		check.Err = fmt.Errorf("comparing %s versions: %w", tool, err)
		return check
	}
	check.UpdateAvailable = available
	return check
}

// CheckTools runs CheckTool for every entry of installed concurrently. Each
// lookup is independent; results are sorted by tool name.
func CheckTools(ctx context.Context, r Resolver, installed map[registry.Tool]string) []ToolCheck {
	tools := make([]registry.Tool, 0, len(installed))
	for tool := range installed {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i] < tools[j] })

	results := make([]ToolCheck, len(tools))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChecks)
	for i, tool := range tools {
		g.Go(func() error {
			defer crash.Recover()
			results[i] = CheckTool(ctx, r, tool, installed[tool])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// PrintUpgradeBanner describes check on w in one or two lines.
func PrintUpgradeBanner(w io.Writer, check ToolCheck) {
	switch {
	case check.Skipped:
		fmt.Fprintf(w, "Could not check the latest version of %s: %v\n", check.Tool, check.Err)
	case check.UpdateAvailable:
		fmt.Fprintf(w, "%s %s is available (installed: %s)\n", check.Tool, check.Latest, check.Installed)
		fmt.Fprintf(w, "    Run `cargo install %s` to upgrade\n", check.Tool)
	case check.Installed == "":
		fmt.Fprintf(w, "%s %s\n", check.Tool, check.Latest)
	default:
		fmt.Fprintf(w, "%s %s is up to date\n", check.Tool, check.Installed)
	}
}
