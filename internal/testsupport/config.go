package testsupport

import (
	"path/filepath"
	"testing"

	"cinepress/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with a unique temp work directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	cfgVal.WorkDir = filepath.Join(t.TempDir(), "work")
	cfgVal.MinFreeGiB = 0
	cfgVal.Encoding.Threads = 2

	builder := &configBuilder{t: t, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureWorkDir(); err != nil {
		t.Fatalf("ensure work dir: %v", err)
	}
	return builder.cfg
}

// WithThreads overrides the encoding thread count on the test config.
func WithThreads(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encoding.Threads = n
	}
}

// WithFramesInMemory pins the resident-payload bound by adjusting the
// multiplier against the configured thread count.
func WithFramesInMemory(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encoding.FramesInMemoryMultiplier = float64(n) / float64(b.cfg.Encoding.Threads)
	}
}
