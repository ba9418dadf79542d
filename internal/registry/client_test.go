package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newStubRegistry serves body with status for every request and records the
// path and User-Agent of the last one.
func newStubRegistry(t *testing.T, status int, body string) (*httptest.Server, *stubState) {
	t.Helper()
	state := &stubState{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state.requests.Add(1)
		state.path.Store(r.URL.EscapedPath())
		state.userAgent.Store(r.Header.Get("User-Agent"))
		state.method.Store(r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, state
}

type stubState struct {
	requests  atomic.Int32
	path      atomic.Value
	userAgent atomic.Value
	method    atomic.Value
}

func TestLatest(t *testing.T) {
	srv, state := newStubRegistry(t, http.StatusOK, `{"crate":{"id":"foo","max_version":"1.2.3","downloads":10},"versions":[]}`)

	c := NewClient(WithBaseURL(srv.URL+"/"), WithUserAgent("wasm-pack/0.13.1"))
	info, err := c.Latest(context.Background(), Tool("foo"))
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if info.MaxVersion != "1.2.3" {
		t.Errorf("MaxVersion = %q, want 1.2.3", info.MaxVersion)
	}
	if got := state.path.Load(); got != "/api/v1/crates/foo" {
		t.Errorf("path = %v, want /api/v1/crates/foo", got)
	}
	if got := state.userAgent.Load(); got != "wasm-pack/0.13.1" {
		t.Errorf("User-Agent = %v", got)
	}
	if got := state.method.Load(); got != http.MethodGet {
		t.Errorf("method = %v, want GET", got)
	}
	if n := state.requests.Load(); n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}
}

func TestLatestEscapesToolName(t *testing.T) {
	srv, state := newStubRegistry(t, http.StatusOK, `{"crate":{"max_version":"0.1.0"}}`)

	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.Latest(context.Background(), Tool("a b/c")); err != nil {
		t.Fatal(err)
	}
	if got := state.path.Load(); got != "/api/v1/crates/a%20b%2Fc" {
		t.Errorf("path = %v", got)
	}
}

func TestLatestMaxVersionIsNotValidated(t *testing.T) {
	srv, _ := newStubRegistry(t, http.StatusOK, `{"crate":{"max_version":"not-semver"}}`)

	info, err := NewClient(WithBaseURL(srv.URL)).Latest(context.Background(), WasmBindgen)
	if err != nil {
		t.Fatal(err)
	}
	if info.MaxVersion != "not-semver" {
		t.Errorf("MaxVersion = %q", info.MaxVersion)
	}
}

func TestLatestErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, `{"errors":[{"detail":"Not Found"}]}`, ErrUnexpectedStatus},
		{"server error", http.StatusInternalServerError, ``, ErrUnexpectedStatus},
		{"rate limited", http.StatusTooManyRequests, ``, ErrUnexpectedStatus},
		{"malformed json", http.StatusOK, `{"crate":`, ErrInvalidResponse},
		{"empty body", http.StatusOK, ``, ErrInvalidResponse},
		{"empty object", http.StatusOK, `{}`, ErrInvalidResponse},
		{"missing max_version", http.StatusOK, `{"crate":{"id":"foo"}}`, ErrInvalidResponse},
		{"wrong type", http.StatusOK, `{"crate":{"max_version":123}}`, ErrInvalidResponse},
		{"crate not object", http.StatusOK, `{"crate":"foo"}`, ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, state := newStubRegistry(t, tt.status, tt.body)

			info, err := NewClient(WithBaseURL(srv.URL)).Latest(context.Background(), Tool("foo"))
			if err == nil {
				t.Fatalf("Latest() = %+v, want error", info)
			}
			if info != nil {
				t.Errorf("info = %+v, want nil", info)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), "foo") {
				t.Errorf("error %q does not name the tool", err)
			}
			if n := state.requests.Load(); n != 1 {
				t.Errorf("requests = %d, want exactly 1 (no retries)", n)
			}
		})
	}
}

func TestLatestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	if _, err := NewClient(WithBaseURL(base)).Latest(context.Background(), Tool("foo")); err == nil {
		t.Fatal("Latest() against a closed server succeeded")
	}
}

func TestLatestHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(WithBaseURL(srv.URL)).Latest(ctx, Tool("foo"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient()
	if c.baseURL != "https://crates.io" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
	if !strings.HasPrefix(c.userAgent, "wasm-pack/") {
		t.Errorf("userAgent = %q", c.userAgent)
	}
	if got := c.crateURL(WasmBindgen); got != "https://crates.io/api/v1/crates/wasm-bindgen" {
		t.Errorf("crateURL = %q", got)
	}
}
