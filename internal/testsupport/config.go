package testsupport

import (
	"path/filepath"
	"testing"

	"dcl/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.APIKey = "test-api-key"
	cfgVal.BaseURL = "http://127.0.0.1:0/api/v1"
	cfgVal.Dir = base
	cfgVal.CachePath = filepath.Join(base, "cache.db")
	cfgVal.Buckets = map[string]config.Bucket{
		"standup": {
			Project:     "Internal",
			Task:        "Meetings",
			Tags:        []string{"Overhead"},
			Description: "Daily standup",
		},
		"dev": {
			Project:     "Acme",
			Task:        "Development",
			Tags:        []string{"Eng:Backend"},
			Description: "Feature work",
		},
	}

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

// WithBaseURL points the config at a fake Clockify server.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.BaseURL = url
	}
}

// WithAPIKey sets the API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.APIKey = key
	}
}

// WithBucket adds or replaces a bucket definition.
func WithBucket(name string, bucket config.Bucket) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Buckets == nil {
			b.cfg.Buckets = make(map[string]config.Bucket)
		}
		b.cfg.Buckets[name] = bucket
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Dir
}
