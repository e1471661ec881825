// Package session implements the composition root named in spec.md §4.2: a
// Session owns every capability provider for the lifetime of one command
// invocation and exposes them only through read-only accessors.
package session

import (
	"os/exec"
	"path/filepath"

	"github.com/inherent-design/empack/internal/providers"
	"github.com/inherent-design/empack/internal/providers/live"
)

// Accessor is the non-generic view of a Session that dispatch handlers
// consume: every handler is written against Accessor, not the generic
// Session[F,N,P,C] type, so the same handler works whether it's called with
// a fully-live session or a hybrid test session without instantiating a new
// generic signature per combination of provider types.
type Accessor interface {
	FileSystem() providers.FileSystemProvider
	Network() providers.NetworkProvider
	Process() providers.ProcessProvider
	Config() providers.ConfigProvider
	Display() providers.DisplayProvider
}

// Session is parameterized over the concrete type of each capability
// provider, following spec.md §4.2's Session<F, N, P, C>. Tests assemble
// hybrid sessions (e.g. a live FileSystemProvider with mock network/process
// providers) directly via New; production code uses NewLive.
type Session[F providers.FileSystemProvider, N providers.NetworkProvider, P providers.ProcessProvider, C providers.ConfigProvider] struct {
	fs      F
	network N
	process P
	config  C
	display providers.DisplayProvider
}

// New assembles a Session from already-constructed providers. This is the
// single constructor hybrid (test) sessions and the live session both go
// through; only the concrete type parameters differ.
func New[F providers.FileSystemProvider, N providers.NetworkProvider, P providers.ProcessProvider, C providers.ConfigProvider](
	fs F, network N, process P, config C, display providers.DisplayProvider,
) *Session[F, N, P, C] {
	return &Session[F, N, P, C]{fs: fs, network: network, process: process, config: config, display: display}
}

func (s *Session[F, N, P, C]) FileSystem() providers.FileSystemProvider { return s.fs }
func (s *Session[F, N, P, C]) Network() providers.NetworkProvider       { return s.network }
func (s *Session[F, N, P, C]) Process() providers.ProcessProvider       { return s.process }
func (s *Session[F, N, P, C]) Config() providers.ConfigProvider         { return s.config }
func (s *Session[F, N, P, C]) Display() providers.DisplayProvider       { return s.display }

var _ Accessor = (*Session[*live.FileSystemProvider, *live.NetworkProvider, *live.ProcessProvider, *live.ConfigProvider])(nil)

// Live is the concrete Session type assembled from every live provider;
// cmd/ constructs exactly one of these per invocation.
type Live = Session[*live.FileSystemProvider, *live.NetworkProvider, *live.ProcessProvider, *live.ConfigProvider]

// NewLive assembles a fully-live Session from an AppConfig, per spec.md
// §4.2's "one constructor assembles a fully-live session" contract.
func NewLive(cfg providers.AppConfig) *Live {
	process := live.NewProcessProvider()
	if cfg.ExecutableLookupPath != "" {
		dirs := filepath.SplitList(cfg.ExecutableLookupPath)
		process = live.NewProcessProviderWithLookup(func(program string) (string, error) {
			for _, dir := range dirs {
				if path, err := exec.LookPath(filepath.Join(dir, program)); err == nil {
					return path, nil
				}
			}
			return "", &exec.Error{Name: program, Err: exec.ErrNotFound}
		})
	}
	return New[*live.FileSystemProvider, *live.NetworkProvider, *live.ProcessProvider, *live.ConfigProvider](
		live.NewFileSystemProvider(),
		live.NewNetworkProvider(cfg),
		process,
		live.NewConfigProviderFromValue(cfg),
		live.NewDisplayProvider(),
	)
}
