package mock

import (
	"context"

	"github.com/inherent-design/empack/internal/providers"
)

// NetworkProvider is a scripted providers.NetworkProvider. Its
// ProjectResolver and HttpClient are supplied by the test, letting orchestration
// tests script exact ResolvedProject results without standing up an HTTP
// server (internal/resolver's own tests likewise use a scripted stub
// providers.HttpClient rather than a listening server).
type NetworkProvider struct {
	resolver providers.ProjectResolver
	client   providers.HttpClient
	log      *providers.CapabilityCallLog
}

// NewNetworkProvider builds a mock network provider backed by the given
// resolver and HTTP client stand-ins.
func NewNetworkProvider(resolver providers.ProjectResolver, client providers.HttpClient, log *providers.CapabilityCallLog) *NetworkProvider {
	return &NetworkProvider{resolver: resolver, client: client, log: log}
}

var _ providers.NetworkProvider = (*NetworkProvider)(nil)

func (n *NetworkProvider) HttpClient() (providers.HttpClient, error) {
	if n.log != nil {
		n.log.Record("NetworkProvider", "HttpClient")
	}
	return n.client, nil
}

func (n *NetworkProvider) ProjectResolver() providers.ProjectResolver {
	if n.log != nil {
		n.log.Record("NetworkProvider", "ProjectResolver")
	}
	return &loggingResolver{inner: n.resolver, log: n.log}
}

// loggingResolver wraps a scripted ProjectResolver so Resolve calls are
// recorded like any other provider method.
type loggingResolver struct {
	inner providers.ProjectResolver
	log   *providers.CapabilityCallLog
}

func (r *loggingResolver) Resolve(ctx context.Context, intent providers.SearchIntent, mcVersion string, loaders []string) ([]providers.ResolvedProject, []error) {
	if r.log != nil {
		r.log.Record("ProjectResolver", "Resolve", intent, mcVersion, loaders)
	}
	return r.inner.Resolve(ctx, intent, mcVersion, loaders)
}

// StaticResolver is a providers.ProjectResolver returning canned results
// regardless of intent, for tests that only care about one query.
type StaticResolver struct {
	Results []providers.ResolvedProject
	Errs    []error
}

func (s *StaticResolver) Resolve(context.Context, providers.SearchIntent, string, []string) ([]providers.ResolvedProject, []error) {
	return s.Results, s.Errs
}

// NoopHttpClient is a providers.HttpClient that never succeeds; useful as a
// placeholder when a test's resolver is fully scripted and never expected to
// fall through to a real HTTP call.
type NoopHttpClient struct{}

func (NoopHttpClient) Get(context.Context, string, map[string]string) (int, []byte, error) {
	return 0, nil, errNotExist("no mock response configured")
}

func (NoopHttpClient) Download(context.Context, string, string) error {
	return errNotExist("no mock download configured")
}
