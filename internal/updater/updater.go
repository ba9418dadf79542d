package updater

import (
	"context"

	"github.com/packwasm/wasm-pack/internal/registry"
)

// Resolver returns the latest published version of a tool.
type Resolver interface {
	Latest(ctx context.Context, tool registry.Tool) (*registry.VersionInfo, error)
}
