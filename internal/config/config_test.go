package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cinepress/internal/config"
)

func TestLoadDefaultsWhenFileAbsent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Encoding.Threads != 4 {
		t.Fatalf("unexpected default threads: %d", cfg.Encoding.Threads)
	}
	want := filepath.Join(tempHome, ".local", "share", "cinepress", "work")
	if cfg.WorkDir != want {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.WorkDir, want)
	}
	if !strings.Contains(cfg.CoverSheet, "$CPL_NAME") {
		t.Fatal("expected default cover sheet template")
	}
}

func TestLoadReadsFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
work_dir = "` + dir + `"

[encoding]
threads = 2
frames_in_memory_multiplier = 1.5

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CINEPRESS_ENCODING_THREADS", "8")

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Encoding.Threads != 8 {
		t.Fatalf("env override lost: threads=%d", cfg.Encoding.Threads)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	if got := cfg.MaxFramesInMemory(); got != 12 {
		t.Fatalf("MaxFramesInMemory: got %d want 12", got)
	}
	if got := cfg.MaxQueueSize(); got != 8*16 {
		t.Fatalf("MaxQueueSize: got %d want %d", got, 8*16)
	}
}

func TestValidateRejectsHalfSigningIdentity(t *testing.T) {
	cfg := config.Default()
	cfg.Signing.CertificatePath = "/tmp/signer.crt"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when only certificate is set")
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "yaml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}
