package build

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/packwasm/wasm-pack/internal/platform"
)

// ToolVersion runs `<name> --version` from PATH and returns the last word
// of its output, e.g. "0.2.92" for "wasm-bindgen 0.2.92".
func ToolVersion(ctx context.Context, name string) (string, error) {
	path, err := exec.LookPath(platform.ExeName(name))
	if err != nil {
		return "", fmt.Errorf("finding %s: %w", name, err)
	}

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("running %s --version: %w", name, err)
	}

	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return "", fmt.Errorf("running %s --version: empty output", name)
	}
	return fields[len(fields)-1], nil
}
