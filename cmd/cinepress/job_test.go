package main

import (
	"os"
	"path/filepath"
	"testing"

	"cinepress/internal/dcptime"
	"cinepress/internal/film"
)

func writeJobFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJobAndConvert(t *testing.T) {
	path := writeJobFile(t, `
name = "Example"
content_kind = "feature"
container = "Scope"
standard = "interop"
video_frame_rate = 24
audio_frame_rate = 48000
audio_channels = 6
mapped_channels = [0, 1, 2, 3, 4, 5]
reel_seconds = [60, 30]
audio_language = "de"

[[ratings]]
agency = "example.org"
label = "12"

[[subtitle]]
from_seconds = 1.0
to_seconds = 2.5
lines = ["hello"]
`)

	j, err := loadJob(path)
	if err != nil {
		t.Fatalf("loadJob: %v", err)
	}
	f, err := j.film()
	if err != nil {
		t.Fatalf("film: %v", err)
	}

	if f.Standard != film.Interop {
		t.Fatalf("standard: got %v", f.Standard)
	}
	if len(f.Reels) != 2 {
		t.Fatalf("reels: got %d want 2", len(f.Reels))
	}
	if f.Reels[1].From != dcptime.FromSeconds(60) || f.Reels[1].To != dcptime.FromSeconds(90) {
		t.Fatalf("second reel period wrong: %v", f.Reels[1])
	}
	if len(f.Ratings) != 1 || f.Ratings[0].Label != "12" {
		t.Fatalf("ratings: %+v", f.Ratings)
	}
	if len(j.Subtitles) != 1 || j.Subtitles[0].ToSeconds != 2.5 {
		t.Fatalf("subtitles: %+v", j.Subtitles)
	}
}

func TestJobRejectsUnknownStandard(t *testing.T) {
	path := writeJobFile(t, `
name = "Example"
video_frame_rate = 24
audio_frame_rate = 48000
standard = "mpeg"
reel_seconds = [10]
`)
	j, err := loadJob(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := j.film(); err == nil {
		t.Fatal("expected error for unknown standard")
	}
}

func TestListFrameFilesStereoPairs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"f0_L.j2c", "f0_R.j2c", "f1_L.j2c", "f1_R.j2c"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{1}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	frames, err := listFrameFiles(dir, true)
	if err != nil {
		t.Fatalf("listFrameFiles: %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("got %d frames", len(frames))
	}
	// Name order maps each eye's files to frame indexes independently.
	if frames[2].frame != 1 || frames[3].frame != 1 {
		t.Fatalf("second pair should be frame 1: %+v", frames[2:])
	}
}

func TestListFrameFilesUnbalancedEyes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"f0_L.j2c", "f0_R.j2c", "f1_L.j2c"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{1}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := listFrameFiles(dir, true); err == nil {
		t.Fatal("expected unbalanced eyes error")
	}
}
