package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/packwasm/wasm-pack/internal/branding"
	"github.com/packwasm/wasm-pack/internal/buildinfo"
)

// maxResponseBytes bounds how much of a registry response is read (10 MB).
const maxResponseBytes = 10 << 20

var (
	// ErrUnexpectedStatus is returned when the registry answers with a
	// non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected registry status")

	// ErrInvalidResponse is returned when the body is not the expected
	// crate envelope.
	ErrInvalidResponse = errors.New("invalid registry response")
)

type (
	// Client queries the crates registry.
	Client struct {
		httpClient *http.Client
		baseURL    string
		userAgent  string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets the HTTP client, useful for tests or proxies.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL overrides the registry base URL, primarily for test servers.
func WithBaseURL(base string) ClientOption {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(base, "/")
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// NewClient creates a Client. Defaults: http.DefaultClient, the branded
// registry URL and "wasm-pack/<version>" (or "wasm-pack/unknown").
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(branding.RegistryURL(), "/"),
		userAgent:  buildinfo.UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Latest returns the crate information for tool. It makes exactly one
// request and every failure is returned to the caller.
func (c *Client) Latest(ctx context.Context, tool Tool) (*VersionInfo, error) {
	endpoint := c.crateURL(tool)

	resp, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetching %s from registry: %w", tool, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s from registry: HTTP %s: %w", tool, resp.Status, ErrUnexpectedStatus)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading registry response for %s: %w", tool, err)
	}

	info, err := parseCrate(body)
	if err != nil {
		return nil, fmt.Errorf("reading registry response for %s: %w", tool, err)
	}
	return info, nil
}

// Latest looks tool up with a default client.
func Latest(ctx context.Context, tool Tool) (*VersionInfo, error) {
	return NewClient().Latest(ctx, tool)
}

func (c *Client) crateURL(tool Tool) string {
	return c.baseURL + "/api/v1/crates/" + url.PathEscape(string(tool))
}

func (c *Client) doRequest(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

func parseCrate(body []byte) (*VersionInfo, error) {
	if err := validateBody(body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	var resp crateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return &resp.Crate, nil
}
