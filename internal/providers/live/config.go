package live

import (
	"os"
	"strconv"
	"time"

	"github.com/inherent-design/empack/internal/providers"
)

// ConfigProvider is the live implementation of providers.ConfigProvider. It
// builds one AppConfig snapshot from built-in defaults overlaid with
// EMPACK_* environment variables; CLI flags (bound in cmd/) overlay this
// snapshot again before a Session is constructed. The cascade itself is
// intentionally thin per spec.md §1/§9 — only the values need a home.
type ConfigProvider struct {
	cfg providers.AppConfig
}

// NewConfigProvider builds a ConfigProvider from defaults and environment
// variables.
func NewConfigProvider() *ConfigProvider {
	cfg := providers.DefaultAppConfig()

	if v := os.Getenv("EMPACK_MODRINTH_BASE_URL"); v != "" {
		cfg.ModrinthBaseURL = v
	}
	if v := os.Getenv("EMPACK_CURSEFORGE_BASE_URL"); v != "" {
		cfg.CurseForgeBaseURL = v
	}
	if v := os.Getenv("EMPACK_CURSEFORGE_API_KEY"); v != "" {
		cfg.CurseForgeAPIKey = v
	}
	if v := os.Getenv("EMPACK_REQUEST_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("EMPACK_RESOLVER_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ResolverConcurrency = n
		}
	}
	if v := os.Getenv("EMPACK_RESOLVER_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ResolverTopN = n
		}
	}
	if v := os.Getenv("EMPACK_EXECUTABLE_PATH"); v != "" {
		cfg.ExecutableLookupPath = v
	}

	return &ConfigProvider{cfg: cfg}
}

// NewConfigProviderFromValue wraps an already-assembled AppConfig, used by
// cmd/ once CLI flags have been layered on top of the environment cascade.
func NewConfigProviderFromValue(cfg providers.AppConfig) *ConfigProvider {
	return &ConfigProvider{cfg: cfg}
}

var _ providers.ConfigProvider = (*ConfigProvider)(nil)

func (p *ConfigProvider) AppConfig() providers.AppConfig {
	return p.cfg
}
