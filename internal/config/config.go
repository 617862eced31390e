package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Encoding controls the producer pool and the writer's memory budget.
type Encoding struct {
	Threads                  int     `toml:"threads" env:"CINEPRESS_ENCODING_THREADS"`
	FramesInMemoryMultiplier float64 `toml:"frames_in_memory_multiplier" env:"CINEPRESS_FRAMES_IN_MEMORY_MULTIPLIER"`
	QueueSizeMultiplier      int     `toml:"queue_size_multiplier" env:"CINEPRESS_QUEUE_SIZE_MULTIPLIER"`
}

// Signing identifies the certificate chain used to sign package metadata.
type Signing struct {
	CertificatePath string `toml:"certificate_path" env:"CINEPRESS_SIGNING_CERTIFICATE"`
	KeyPath         string `toml:"key_path" env:"CINEPRESS_SIGNING_KEY"`
	Issuer          string `toml:"issuer" env:"CINEPRESS_ISSUER"`
	Creator         string `toml:"creator" env:"CINEPRESS_CREATOR"`
}

// Logging controls log output.
type Logging struct {
	Level  string `toml:"level" env:"CINEPRESS_LOG_LEVEL"`
	Format string `toml:"format" env:"CINEPRESS_LOG_FORMAT"`
}

// Config is the root configuration object.
type Config struct {
	WorkDir    string   `toml:"work_dir" env:"CINEPRESS_WORK_DIR"`
	MinFreeGiB int      `toml:"min_free_gib" env:"CINEPRESS_MIN_FREE_GIB"`
	CoverSheet string   `toml:"cover_sheet"`
	Encoding   Encoding `toml:"encoding"`
	Signing    Signing  `toml:"signing"`
	Logging    Logging  `toml:"logging"`
}

// MaxFramesInMemory derives the resident-payload bound from the thread count
// and the configured multiplier.
func (c *Config) MaxFramesInMemory() int {
	n := int(float64(c.Encoding.Threads)*c.Encoding.FramesInMemoryMultiplier + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

// MaxQueueSize derives the pending-item bound from the thread count.
func (c *Config) MaxQueueSize() int {
	n := c.Encoding.Threads * c.Encoding.QueueSizeMultiplier
	if n < 1 {
		n = 1
	}
	return n
}

// DefaultConfigPath returns the standard location of the config file.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "cinepress", "config.toml"), nil
}

// Load reads configuration from path (or the default location when path is
// empty), overlays environment variables, normalizes, and validates. The
// second return is the resolved path; the third reports whether the file
// existed.
func Load(path string) (*Config, string, bool, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		var err error
		resolved, err = DefaultConfigPath()
		if err != nil {
			return nil, "", false, err
		}
	}
	resolved = ExpandPath(resolved)

	cfg := Default()
	exists := true
	raw, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return nil, resolved, true, fmt.Errorf("parse %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	default:
		return nil, resolved, false, fmt.Errorf("read %s: %w", resolved, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, resolved, exists, fmt.Errorf("apply environment: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, resolved, exists, err
	}
	return &cfg, resolved, exists, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// EnsureWorkDir creates the working directory used for offloaded frames and
// the frame index.
func (c *Config) EnsureWorkDir() error {
	if err := os.MkdirAll(c.WorkDir, 0o755); err != nil {
		return fmt.Errorf("ensure work directory: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
