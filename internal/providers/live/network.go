package live

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/inherent-design/empack/internal/cli"
	"github.com/inherent-design/empack/internal/providers"
	"github.com/inherent-design/empack/internal/resolver"
)

// httpClient is the live providers.HttpClient backed by a real
// *http.Client with a per-request timeout drawn from AppConfig.
type httpClient struct {
	client  *http.Client
	timeout func() (cancel context.CancelFunc, ctx context.Context)
}

func newHttpClient(cfg providers.AppConfig) *httpClient {
	c := &httpClient{client: &http.Client{Timeout: cfg.RequestTimeout}}
	c.timeout = func() (context.CancelFunc, context.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		return cancel, ctx
	}
	return c
}

var _ providers.HttpClient = (*httpClient)(nil)

func (c *httpClient) Get(ctx context.Context, url string, headers map[string]string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, &providers.NetError{Op: "build-request", URL: url, Err: err}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, &providers.NetError{Op: "get", URL: url, Err: cli.ClassifyConnectionError(err, url)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &providers.NetError{Op: "read-body", URL: url, Err: cli.ClassifyConnectionError(err, url)}
	}
	return resp.StatusCode, body, nil
}

func (c *httpClient) Download(ctx context.Context, url string, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return &providers.NetError{Op: "download-mkdir", URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &providers.NetError{Op: "build-request", URL: url, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &providers.NetError{Op: "download", URL: url, Err: cli.ClassifyConnectionError(err, url)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &providers.NetError{Op: "download", URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	// Exclusive creation: if a concurrent invocation already created the
	// file, this one loses the race harmlessly and reuses what's there.
	out, err := os.OpenFile(destPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return &providers.NetError{Op: "download-create", URL: url, Err: err}
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(destPath)
		return &providers.NetError{Op: "download-write", URL: url, Err: err}
	}
	return nil
}

// NetworkProvider is the live implementation of providers.NetworkProvider.
type NetworkProvider struct {
	cfg            providers.AppConfig
	client         *httpClient
	resolverClient providers.ProjectResolver
}

// NewNetworkProvider builds a live network provider, wiring a resolver.Resolver
// bound to the configured registry base URLs as its ProjectResolver.
func NewNetworkProvider(cfg providers.AppConfig) *NetworkProvider {
	client := newHttpClient(cfg)
	return &NetworkProvider{
		cfg:            cfg,
		client:         client,
		resolverClient: resolver.New(client, cfg),
	}
}

var _ providers.NetworkProvider = (*NetworkProvider)(nil)

func (n *NetworkProvider) HttpClient() (providers.HttpClient, error) {
	return n.client, nil
}

func (n *NetworkProvider) ProjectResolver() providers.ProjectResolver {
	return n.resolverClient
}

// NewTestNetworkProvider builds a NetworkProvider pointed at overridden base
// URLs, for tests that stand up a local mock HTTP server. It is exported
// only from this package (never wired into cmd/), mirroring the spec's
// "compile-time feature" gating with an explicit, clearly-named constructor
// instead of a build tag, since empack ships a single binary with no
// separate test build variant.
func NewTestNetworkProvider(cfg providers.AppConfig, modrinthBaseURL, curseForgeBaseURL string) *NetworkProvider {
	cfg.ModrinthBaseURL = modrinthBaseURL
	cfg.CurseForgeBaseURL = curseForgeBaseURL
	return NewNetworkProvider(cfg)
}
