package writer

import (
	"testing"

	"cinepress/internal/asset"
	"cinepress/internal/film"
	"cinepress/internal/media"
)

func fontWriter(standard film.Standard) *Writer {
	return &Writer{
		film:  &film.Film{Standard: standard},
		fonts: asset.NewFontTable(),
	}
}

func TestWriteFontsDisambiguatesIDs(t *testing.T) {
	w := fontWriter(film.SMPTE)
	fonts := []*media.Font{
		{ID: "A"},
		{ID: "A"},
		{ID: "A_2"},
		{ID: ""},
	}
	w.WriteFonts(fonts)

	want := []string{"A", "A_0", "A_2", "font"}
	for i, font := range fonts {
		id, ok := w.fonts.Get(font)
		if !ok {
			t.Fatalf("font %d not registered", i)
		}
		if id != want[i] {
			t.Errorf("font %d id: got %q want %q", i, id, want[i])
		}
	}
	if w.fonts.UniqueIDs() != len(fonts) {
		t.Fatalf("expected %d unique ids, got %d", len(fonts), w.fonts.UniqueIDs())
	}
}

func TestWriteFontsContinuesNumericSuffix(t *testing.T) {
	w := fontWriter(film.SMPTE)
	fonts := []*media.Font{
		{ID: "B_1"},
		{ID: "B_1"},
		{ID: "B_2"},
		{ID: "B_1"},
	}
	w.WriteFonts(fonts)

	seen := make(map[string]struct{})
	for i, font := range fonts {
		id, _ := w.fonts.Get(font)
		if _, dup := seen[id]; dup {
			t.Fatalf("font %d got duplicate id %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestWriteFontsInteropSharesOneID(t *testing.T) {
	w := fontWriter(film.Interop)
	fonts := []*media.Font{{ID: "first"}, {ID: "second"}, {ID: ""}}
	w.WriteFonts(fonts)

	for i, font := range fonts {
		id, ok := w.fonts.Get(font)
		if !ok || id != "first" {
			t.Fatalf("font %d id: got %q want %q", i, id, "first")
		}
	}
	if w.chosenLegacyFont != fonts[0] {
		t.Fatal("first font should be the chosen legacy font")
	}
}

func TestLastWrittenSuccessor2D(t *testing.T) {
	lw := newLastWritten()
	if !lw.next(queueItem{frame: 0, eyes: media.EyesBoth}) {
		t.Fatal("frame 0 should be the first successor")
	}
	if lw.next(queueItem{frame: 1, eyes: media.EyesBoth}) {
		t.Fatal("frame 1 must wait for frame 0")
	}
	lw.update(queueItem{frame: 0, eyes: media.EyesBoth})
	if !lw.next(queueItem{frame: 1, eyes: media.EyesBoth}) {
		t.Fatal("frame 1 should follow frame 0")
	}
}

func TestLastWrittenSuccessor3D(t *testing.T) {
	lw := newLastWritten()
	if !lw.next(queueItem{frame: 0, eyes: media.EyesLeft}) {
		t.Fatal("left of frame 0 should be the first successor")
	}
	if lw.next(queueItem{frame: 0, eyes: media.EyesRight}) {
		t.Fatal("right of frame 0 must wait for its left eye")
	}
	lw.update(queueItem{frame: 0, eyes: media.EyesLeft})
	if !lw.next(queueItem{frame: 0, eyes: media.EyesRight}) {
		t.Fatal("right of frame 0 should follow its left eye")
	}
	lw.update(queueItem{frame: 0, eyes: media.EyesRight})
	if lw.next(queueItem{frame: 1, eyes: media.EyesRight}) {
		t.Fatal("right of frame 1 must wait for its left eye")
	}
	if !lw.next(queueItem{frame: 1, eyes: media.EyesLeft}) {
		t.Fatal("left of frame 1 should follow right of frame 0")
	}
}

func TestSortQueueOrdersByReelFrameEyes(t *testing.T) {
	queue := []queueItem{
		{reel: 1, frame: 0, eyes: media.EyesBoth},
		{reel: 0, frame: 2, eyes: media.EyesBoth},
		{reel: 0, frame: 1, eyes: media.EyesRight},
		{reel: 0, frame: 1, eyes: media.EyesLeft},
	}
	sortQueue(queue)

	want := []queueItem{
		{reel: 0, frame: 1, eyes: media.EyesLeft},
		{reel: 0, frame: 1, eyes: media.EyesRight},
		{reel: 0, frame: 2, eyes: media.EyesBoth},
		{reel: 1, frame: 0, eyes: media.EyesBoth},
	}
	for i := range want {
		got := queue[i]
		if got.reel != want[i].reel || got.frame != want[i].frame || got.eyes != want[i].eyes {
			t.Fatalf("position %d: got %+v want %+v", i, got, want[i])
		}
	}
}
