package updater

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/packwasm/wasm-pack/internal/branding"
	"github.com/packwasm/wasm-pack/internal/crash"
	"github.com/packwasm/wasm-pack/internal/registry"
)

// refreshTimeout bounds the background release lookup.
const refreshTimeout = 10 * time.Second

// Notifier prints a banner when a newer wasm-pack release is known and keeps
// that knowledge fresh in the background.
type Notifier struct {
	resolver Resolver
	current  string
	dir      string
	maxAge   time.Duration
	now      func() time.Time
}

// NewNotifier creates a Notifier for the running version current, caching
// its checks in dir.
func NewNotifier(r Resolver, current, dir string) *Notifier {
	return &Notifier{
		resolver: r,
		current:  current,
		dir:      dir,
		maxAge:   DefaultCacheMaxAge,
		now:      time.Now,
	}
}

// CheckAndPrintBanner prints the banner from the cached check and never
// blocks on the network. A stale cache is refreshed on a guarded goroutine
// for the next invocation. Builds without a version are never checked.
func (n *Notifier) CheckAndPrintBanner(ctx context.Context, w io.Writer) {
	if n.current == "" {
		return
	}

	cache, err := LoadCache(n.dir)
	if err != nil {
		// A corrupt cache is rewritten by the next refresh.
		cache = nil
	}

	if cache != nil && cache.UpdateAvailable && cache.CurrentVersion == n.current {
		PrintUpdateBanner(w, n.current, cache.LatestVersion)
	}

	if IsCacheStale(cache, n.maxAge, n.now()) {
		crash.Go(func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
			defer cancel()
			_ = n.Refresh(ctx)
		})
	}
}

// Refresh looks up the latest wasm-pack release and stores the result.
func (n *Notifier) Refresh(ctx context.Context) error {
	check := CheckTool(ctx, n.resolver, registry.WasmPack, n.current)
	if check.Skipped {
		return check.Err
	}

	return SaveCache(n.dir, &VersionCache{
		Tool:            registry.WasmPack,
		LatestVersion:   check.Latest,
		CurrentVersion:  n.current,
		CheckedAt:       n.now(),
		UpdateAvailable: check.UpdateAvailable,
	})
}

// PrintUpdateBanner prints the release notification to w.
func PrintUpdateBanner(w io.Writer, current, latest string) {
	fmt.Fprintf(w, "\nThere's a newer version of %s available: %s -> %s\n", branding.CLIName(), current, latest)
	fmt.Fprintf(w, "    See %s to upgrade\n\n", branding.Homepage())
}
