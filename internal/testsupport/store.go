package testsupport

import (
	"path/filepath"
	"testing"

	"cinepress/internal/config"
	"cinepress/internal/frameindex"
	"cinepress/internal/signing"
)

// MustOpenStore opens a frameindex.Store in the config's work directory for
// tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *frameindex.Store {
	t.Helper()

	store, err := frameindex.Open(filepath.Join(cfg.WorkDir, "frames.db"))
	if err != nil {
		t.Fatalf("frameindex.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// NewSigner generates a throwaway signing identity for tests.
func NewSigner(t testing.TB) *signing.Signer {
	t.Helper()

	signer, err := signing.GenerateSelfSigned("cinepress test")
	if err != nil {
		t.Fatalf("signing.GenerateSelfSigned: %v", err)
	}
	return signer
}
