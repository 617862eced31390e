package frameindex_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cinepress/internal/frameindex"
	"cinepress/internal/media"
)

func openStore(t *testing.T) *frameindex.Store {
	t.Helper()
	store, err := frameindex.Open(filepath.Join(t.TempDir(), "frames.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	want := frameindex.Info{Offset: 4096, Size: 1280, Hash: "abc"}
	if err := store.Put(ctx, 1, 42, media.EyesLeft, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := store.Get(ctx, 1, 42, media.EyesLeft)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}

	_, err = store.Get(ctx, 1, 42, media.EyesRight)
	if !errors.Is(err, frameindex.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing eye, got %v", err)
	}
}

func TestFirstNonexistentFrame(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if first, err := store.FirstNonexistentFrame(ctx, 0); err != nil || first != 0 {
		t.Fatalf("empty reel: got %d, %v", first, err)
	}
	for frame := int64(0); frame < 3; frame++ {
		if err := store.Put(ctx, 0, frame, media.EyesBoth, frameindex.Info{Size: 1}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if first, err := store.FirstNonexistentFrame(ctx, 0); err != nil || first != 3 {
		t.Fatalf("after three frames: got %d, %v", first, err)
	}
}

func TestOffloadBookkeeping(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.PutOffload(ctx, 0, 7, media.EyesBoth, "/tmp/x"); err != nil {
		t.Fatalf("PutOffload: %v", err)
	}
	if n, err := store.OffloadCount(ctx); err != nil || n != 1 {
		t.Fatalf("OffloadCount: got %d, %v", n, err)
	}
	if err := store.DeleteOffload(ctx, 0, 7, media.EyesBoth); err != nil {
		t.Fatalf("DeleteOffload: %v", err)
	}
	if n, err := store.OffloadCount(ctx); err != nil || n != 0 {
		t.Fatalf("OffloadCount after delete: got %d, %v", n, err)
	}
}
