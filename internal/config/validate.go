package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if err := c.validateSigning(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.MinFreeGiB < 0 {
		return errors.New("min_free_gib must not be negative")
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if c.Encoding.Threads < 1 {
		return errors.New("encoding.threads must be at least 1")
	}
	if c.Encoding.FramesInMemoryMultiplier <= 0 {
		return errors.New("encoding.frames_in_memory_multiplier must be positive")
	}
	if c.Encoding.QueueSizeMultiplier < 1 {
		return errors.New("encoding.queue_size_multiplier must be at least 1")
	}
	return nil
}

func (c *Config) validateSigning() error {
	cert := strings.TrimSpace(c.Signing.CertificatePath)
	key := strings.TrimSpace(c.Signing.KeyPath)
	if (cert == "") != (key == "") {
		return errors.New("signing.certificate_path and signing.key_path must be set together")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}
