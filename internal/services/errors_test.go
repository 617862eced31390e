package services_test

import (
	"errors"
	"strings"
	"testing"

	"cinepress/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrConfiguration, "signing", "load chain", "certificate unreadable", base)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatal("expected wrapped cause to survive")
	}
	if !strings.Contains(err.Error(), "signing: load chain: certificate unreadable") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "writer", "offload", "", errors.New("disk full"))
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected io marker by default, got %v", err)
	}
}

func TestFatal(t *testing.T) {
	if !services.Fatal(services.Wrap(services.ErrValidation, "film", "reels", "empty reel list", nil)) {
		t.Fatal("validation errors should be fatal")
	}
	if services.Fatal(services.Wrap(services.ErrInterrupted, "digest", "pool", "", nil)) {
		t.Fatal("interruption is not fatal")
	}
}
