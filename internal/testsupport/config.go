package testsupport

import (
	"path/filepath"
	"testing"

	"slidesmith/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Service.BaseURL = "http://127.0.0.1:0"
	cfgVal.Service.WebsocketURL = "ws://127.0.0.1:0/ws"
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.ExportDir = filepath.Join(base, "exports")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithService points the config at a live test server.
func WithService(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Service.BaseURL = baseURL
		b.cfg.Service.WebsocketURL = ""
	}
}

// WithAPIToken sets the service API token on the test config.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Service.APIToken = token
	}
}

// WithTracking overrides the poll cadence and reconnect policy.
func WithTracking(tracking config.Tracking) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tracking = tracking
	}
}
