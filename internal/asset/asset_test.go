package asset_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cinepress/internal/asset"
	"cinepress/internal/dcptime"
	"cinepress/internal/frameindex"
	"cinepress/internal/media"
)

func newIndex(t *testing.T) *frameindex.Store {
	t.Helper()
	store, err := frameindex.Open(filepath.Join(t.TempDir(), "frames.db"))
	if err != nil {
		t.Fatalf("frameindex.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPictureWriterWriteAndReadBack(t *testing.T) {
	ctx := context.Background()
	index := newIndex(t)
	path := filepath.Join(t.TempDir(), "picture.bin")
	w, err := asset.NewPictureWriter(path, 0, index, 100, false)
	if err != nil {
		t.Fatalf("NewPictureWriter: %v", err)
	}

	first := []byte{1, 2, 3, 4}
	second := []byte{5, 6}
	if err := w.Write(ctx, first, 0, media.EyesBoth); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write(ctx, second, 1, media.EyesBoth); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if w.Frames() != 2 {
		t.Fatalf("Frames: got %d want 2", w.Frames())
	}

	got, err := w.ReadFrame(ctx, 1, media.EyesBoth)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got, second) {
		t.Fatalf("frame 1 mismatch: %v", got)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if w.Size() != int64(len(first)+len(second)) {
		t.Fatalf("Size: got %d", w.Size())
	}
}

func TestPictureWriterRepeatAndStereoCounting(t *testing.T) {
	ctx := context.Background()
	index := newIndex(t)
	path := filepath.Join(t.TempDir(), "picture.bin")
	w, err := asset.NewPictureWriter(path, 0, index, 100, true)
	if err != nil {
		t.Fatalf("NewPictureWriter: %v", err)
	}

	if err := w.Write(ctx, []byte{9}, 0, media.EyesLeft); err != nil {
		t.Fatal(err)
	}
	if w.Frames() != 0 {
		t.Fatalf("half a stereo frame should not count, got %d", w.Frames())
	}
	if err := w.Write(ctx, []byte{8}, 0, media.EyesRight); err != nil {
		t.Fatal(err)
	}
	if w.Frames() != 1 {
		t.Fatalf("Frames after both eyes: got %d want 1", w.Frames())
	}

	if err := w.RepeatWrite(ctx, 1, media.EyesLeft); err != nil {
		t.Fatalf("RepeatWrite: %v", err)
	}
	got, err := w.ReadFrame(ctx, 1, media.EyesLeft)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{9}) {
		t.Fatalf("repeated frame mismatch: %v", got)
	}
}

func TestPictureWriterEnforcesCapacity(t *testing.T) {
	ctx := context.Background()
	index := newIndex(t)
	w, err := asset.NewPictureWriter(filepath.Join(t.TempDir(), "p.bin"), 0, index, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(ctx, []byte{1}, 0, media.EyesBoth); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(ctx, []byte{2}, 1, media.EyesBoth); err == nil {
		t.Fatal("expected capacity error")
	}
}

func TestSoundWriterEncodes24Bit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sound.pcm")
	w, err := asset.NewSoundWriter(path, 2)
	if err != nil {
		t.Fatalf("NewSoundWriter: %v", err)
	}
	buf := media.NewAudioBuffers(2, 2)
	buf.Data[0] = 0   // frame 0 ch 0
	buf.Data[1] = 1   // frame 0 ch 1 -> max positive
	buf.Data[2] = -1  // frame 1 ch 0 -> max negative
	buf.Data[3] = 2.5 // frame 1 ch 1 -> clamped to max
	if err := w.Write(buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 12 {
		t.Fatalf("expected 12 bytes, got %d", len(raw))
	}
	want := []byte{
		0x00, 0x00, 0x00, // 0
		0xff, 0xff, 0x7f, // +1
		0x01, 0x00, 0x80, // -1
		0xff, 0xff, 0x7f, // clamped
	}
	if !bytes.Equal(raw, want) {
		t.Fatalf("pcm bytes mismatch:\n got %v\nwant %v", raw, want)
	}
	if w.Frames() != 2 {
		t.Fatalf("Frames: got %d", w.Frames())
	}
}

func TestTextWriterSerializesEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.xml")
	w := asset.NewTextWriter(path, media.OpenSubtitle, 24)
	w.RegisterFont("font", &media.Font{ID: "font"})

	period := dcptime.NewPeriod(dcptime.FromSeconds(1), dcptime.FromSeconds(3))
	if err := w.Write(media.Text{Lines: []string{"Hello", "world"}}, period, []string{"font"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(raw)
	for _, want := range []string{
		`<LoadFont ID="font">`,
		`TimeIn="00:00:01:00"`,
		`TimeOut="00:00:03:00"`,
		"<Text>Hello</Text>",
		"<Text>world</Text>",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("missing %q in document:\n%s", want, doc)
		}
	}
}

func TestAtmosWriterFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atmos.bin")
	w, err := asset.NewAtmosWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write([]byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write([]byte{4}); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}
	if w.Frames() != 2 {
		t.Fatalf("Frames: got %d", w.Frames())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{3, 0, 0, 0, 1, 2, 3, 1, 0, 0, 0, 4}
	if !bytes.Equal(raw, want) {
		t.Fatalf("stream mismatch: %v", raw)
	}
}

func TestFileDigestProgressAndCancellation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asset.bin")
	if err := os.WriteFile(path, bytes.Repeat([]byte{7}, 4096), 0o644); err != nil {
		t.Fatal(err)
	}

	var last float64
	digest, err := asset.FileDigest(context.Background(), path, func(p float64) { last = p })
	if err != nil {
		t.Fatalf("FileDigest: %v", err)
	}
	if digest == "" {
		t.Fatal("empty digest")
	}
	if last != 1 {
		t.Fatalf("final progress: got %v want 1", last)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := asset.FileDigest(cancelled, path, nil); err == nil {
		t.Fatal("expected cancellation error")
	}
}
