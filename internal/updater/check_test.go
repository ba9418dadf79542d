package updater

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/packwasm/wasm-pack/internal/registry"
)

// fakeResolver answers from a fixed table; tools missing from it fail.
type fakeResolver struct {
	versions map[registry.Tool]string
	delay    time.Duration

	mu       sync.Mutex
	calls    []registry.Tool
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeResolver) Latest(ctx context.Context, tool registry.Tool) (*registry.VersionInfo, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, tool)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	v, ok := f.versions[tool]
	if !ok {
		return nil, fmt.Errorf("fetching %s from registry: %w", tool, registry.ErrUnexpectedStatus)
	}
	return &registry.VersionInfo{MaxVersion: v}, nil
}

func TestCheckTool(t *testing.T) {
	r := &fakeResolver{versions: map[registry.Tool]string{
		registry.WasmBindgen:   "0.2.92",
		registry.CargoGenerate: "garbage",
	}}

	tests := []struct {
		name        string
		tool        registry.Tool
		installed   string
		wantLatest  string
		wantUpdate  bool
		wantSkipped bool
	}{
		{"older installed", registry.WasmBindgen, "0.2.90", "0.2.92", true, false},
		{"same version", registry.WasmBindgen, "0.2.92", "0.2.92", false, false},
		{"newer installed", registry.WasmBindgen, "0.3.0", "0.2.92", false, false},
		{"latest only", registry.WasmBindgen, "", "0.2.92", false, false},
		{"lookup fails", registry.WasmPack, "0.13.1", "", false, true},
		{"unparsable latest", registry.CargoGenerate, "0.18.0", "garbage", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckTool(context.Background(), r, tt.tool, tt.installed)
			if got.Tool != tt.tool || got.Installed != tt.installed {
				t.Errorf("identity = %q/%q", got.Tool, got.Installed)
			}
			if got.Latest != tt.wantLatest {
				t.Errorf("Latest = %q, want %q", got.Latest, tt.wantLatest)
			}
			if got.UpdateAvailable != tt.wantUpdate {
				t.Errorf("UpdateAvailable = %v, want %v", got.UpdateAvailable, tt.wantUpdate)
			}
			if got.Skipped != tt.wantSkipped {
				t.Errorf("Skipped = %v, want %v", got.Skipped, tt.wantSkipped)
			}
			if tt.wantSkipped && got.Err == nil {
				t.Error("skipped check has no error")
			}
		})
	}
}

func TestCheckToolsSortedAndIndependent(t *testing.T) {
	r := &fakeResolver{
		versions: map[registry.Tool]string{
			registry.WasmBindgen:   "0.2.92",
			registry.CargoGenerate: "0.21.0",
			"wasm-opt":             "0.116.1",
		},
		delay: 10 * time.Millisecond,
	}
	installed := map[registry.Tool]string{
		registry.WasmBindgen:   "0.2.90",
		registry.CargoGenerate: "0.21.0",
		registry.WasmPack:      "0.13.1",
		"wasm-opt":             "",
		"a":                    "1.0.0",
		"b":                    "1.0.0",
	}

	results := CheckTools(context.Background(), r, installed)

	if len(results) != len(installed) {
		t.Fatalf("got %d results, want %d", len(results), len(installed))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Tool >= results[i].Tool {
			t.Errorf("results not sorted: %q before %q", results[i-1].Tool, results[i].Tool)
		}
	}

	byTool := make(map[registry.Tool]ToolCheck)
	for _, res := range results {
		byTool[res.Tool] = res
	}
	if !byTool[registry.WasmBindgen].UpdateAvailable {
		t.Error("wasm-bindgen update not reported")
	}
	if byTool[registry.CargoGenerate].UpdateAvailable || byTool[registry.CargoGenerate].Skipped {
		t.Errorf("cargo-generate = %+v", byTool[registry.CargoGenerate])
	}
	if !byTool[registry.WasmPack].Skipped {
		t.Error("failed lookup should not stop the others and must be skipped")
	}
	if byTool["wasm-opt"].Latest != "0.116.1" {
		t.Errorf("wasm-opt = %+v", byTool["wasm-opt"])
	}

	if len(r.calls) != len(installed) {
		t.Errorf("resolver calls = %d, want one per tool", len(r.calls))
	}
	if peak := r.peak.Load(); peak > maxConcurrentChecks {
		t.Errorf("peak concurrency = %d, want <= %d", peak, maxConcurrentChecks)
	}
}

func TestCheckToolsEmpty(t *testing.T) {
	if got := CheckTools(context.Background(), &fakeResolver{}, nil); len(got) != 0 {
		t.Errorf("CheckTools(nil) = %v", got)
	}
}

func TestPrintUpgradeBanner(t *testing.T) {
	tests := []struct {
		name  string
		check ToolCheck
		want  string
	}{
		{
			"update",
			ToolCheck{Tool: registry.WasmBindgen, Installed: "0.2.90", Latest: "0.2.92", UpdateAvailable: true},
			"wasm-bindgen 0.2.92 is available (installed: 0.2.90)\n    Run `cargo install wasm-bindgen` to upgrade\n",
		},
		{
			"up to date",
			ToolCheck{Tool: registry.WasmBindgen, Installed: "0.2.92", Latest: "0.2.92"},
			"wasm-bindgen 0.2.92 is up to date\n",
		},
		{
			"latest only",
			ToolCheck{Tool: registry.CargoGenerate, Latest: "0.21.0"},
			"cargo-generate 0.21.0\n",
		},
		{
			"skipped",
			ToolCheck{Tool: registry.WasmPack, Skipped: true, Err: errors.New("offline")},
			"Could not check the latest version of wasm-pack: offline\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintUpgradeBanner(&buf, tt.check)
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestNotifierRefreshAndBanner(t *testing.T) {
	dir := t.TempDir()
	r := &fakeResolver{versions: map[registry.Tool]string{registry.WasmPack: "0.13.1"}}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	n := NewNotifier(r, "0.12.1", dir)
	n.now = func() time.Time { return now }

	if err := n.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	cache, err := LoadCache(dir)
	if err != nil || cache == nil {
		t.Fatalf("LoadCache() = %v, %v", cache, err)
	}
	if !cache.UpdateAvailable || cache.LatestVersion != "0.13.1" || !cache.CheckedAt.Equal(now) {
		t.Errorf("cache = %+v", cache)
	}

	var buf bytes.Buffer
	n.CheckAndPrintBanner(context.Background(), &buf)
	if !strings.Contains(buf.String(), "0.12.1 -> 0.13.1") {
		t.Errorf("banner = %q", buf.String())
	}
	if len(r.calls) != 1 {
		t.Errorf("fresh cache triggered %d lookups, want only the refresh", len(r.calls))
	}
}

func TestNotifierIgnoresCacheFromOtherVersion(t *testing.T) {
	dir := t.TempDir()
	if err := SaveCache(dir, &VersionCache{
		Tool:            registry.WasmPack,
		LatestVersion:   "0.13.1",
		CurrentVersion:  "0.11.0",
		CheckedAt:       time.Now(),
		UpdateAvailable: true,
	}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	NewNotifier(&fakeResolver{}, "0.13.1", dir).CheckAndPrintBanner(context.Background(), &buf)
	if buf.Len() != 0 {
		t.Errorf("banner = %q, want none after upgrading", buf.String())
	}
}

func TestNotifierRefreshFailure(t *testing.T) {
	dir := t.TempDir()
	n := NewNotifier(&fakeResolver{}, "0.12.1", dir)

	if err := n.Refresh(context.Background()); !errors.Is(err, registry.ErrUnexpectedStatus) {
		t.Errorf("Refresh() error = %v", err)
	}
	if cache, _ := LoadCache(dir); cache != nil {
		t.Errorf("failed refresh wrote %+v", cache)
	}
}

func TestNotifierWithoutVersion(t *testing.T) {
	r := &fakeResolver{}
	var buf bytes.Buffer
	NewNotifier(r, "", t.TempDir()).CheckAndPrintBanner(context.Background(), &buf)

	if buf.Len() != 0 || len(r.calls) != 0 {
		t.Errorf("unversioned build printed %q and made %d lookups", buf.String(), len(r.calls))
	}
}
