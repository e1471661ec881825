package mock

import "github.com/inherent-design/empack/internal/providers"

// ConfigProvider is a mock providers.ConfigProvider returning a fixed
// AppConfig snapshot.
type ConfigProvider struct {
	cfg providers.AppConfig
}

// NewConfigProvider builds a mock config provider. If cfg is the zero value,
// DefaultAppConfig's values are used for every field left unset.
func NewConfigProvider(cfg providers.AppConfig) *ConfigProvider {
	if cfg == (providers.AppConfig{}) {
		cfg = providers.DefaultAppConfig()
	}
	return &ConfigProvider{cfg: cfg}
}

var _ providers.ConfigProvider = (*ConfigProvider)(nil)

func (c *ConfigProvider) AppConfig() providers.AppConfig { return c.cfg }
