package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"cinepress/internal/dcptime"
	"cinepress/internal/film"
)

// job describes one packaging run: the film's metadata plus the locations of
// the pre-encoded source material.
type job struct {
	Name           string  `toml:"name"`
	NameLanguage   string  `toml:"name_language"`
	ContentKind    string  `toml:"content_kind"`
	Container      string  `toml:"container"`
	Standard       string  `toml:"standard"`
	ThreeD         bool    `toml:"three_d"`
	Encrypted      bool    `toml:"encrypted"`
	VideoFrameRate int     `toml:"video_frame_rate"`
	AudioFrameRate int     `toml:"audio_frame_rate"`
	AudioChannels  int     `toml:"audio_channels"`
	MappedChannels []int   `toml:"mapped_channels"`
	ReelSeconds    []int64 `toml:"reel_seconds"`

	AudioLanguage       string      `toml:"audio_language"`
	SubtitleLanguage    string      `toml:"subtitle_language"`
	ContentVersions     []string    `toml:"content_versions"`
	ClosedCaptionTracks []string    `toml:"closed_caption_tracks"`
	Ratings             []jobRating `toml:"ratings"`

	StoredWidth  int `toml:"stored_width"`
	StoredHeight int `toml:"stored_height"`
	ActiveWidth  int `toml:"active_width"`
	ActiveHeight int `toml:"active_height"`

	Sources   jobSources    `toml:"sources"`
	Fonts     []jobFont     `toml:"font"`
	Subtitles []jobSubtitle `toml:"subtitle"`
}

type jobSources struct {
	// FramesDir holds one pre-encoded file per frame, in name order. For
	// stereoscopic jobs each frame has a _L and a _R file.
	FramesDir string `toml:"frames_dir"`
	// AudioPCM is interleaved little-endian float32 samples.
	AudioPCM string `toml:"audio_pcm"`
}

type jobRating struct {
	Agency string `toml:"agency"`
	Label  string `toml:"label"`
}

type jobFont struct {
	ID   string `toml:"id"`
	Path string `toml:"path"`
}

type jobSubtitle struct {
	FromSeconds float64  `toml:"from_seconds"`
	ToSeconds   float64  `toml:"to_seconds"`
	Track       string   `toml:"track"`
	Lines       []string `toml:"lines"`
}

func loadJob(path string) (*job, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	var j job
	if err := toml.Unmarshal(raw, &j); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &j, nil
}

// film converts the job description into the writer's film model.
func (j *job) film() (*film.Film, error) {
	standard, err := parseStandard(j.Standard)
	if err != nil {
		return nil, err
	}

	f := &film.Film{
		Name:                j.Name,
		NameLanguage:        j.NameLanguage,
		ContentKind:         film.Kind(j.ContentKind),
		Container:           j.Container,
		VideoFrameRate:      j.VideoFrameRate,
		AudioFrameRate:      j.AudioFrameRate,
		AudioChannels:       j.AudioChannels,
		MappedChannels:      j.MappedChannels,
		ThreeD:              j.ThreeD,
		Encrypted:           j.Encrypted,
		Standard:            standard,
		ClosedCaptionTracks: j.ClosedCaptionTracks,
		ContentVersions:     j.ContentVersions,
		AudioLanguage:       j.AudioLanguage,
		SubtitleLanguage:    j.SubtitleLanguage,
		StoredArea:          film.Area{Width: j.StoredWidth, Height: j.StoredHeight},
		ActiveArea:          film.Area{Width: j.ActiveWidth, Height: j.ActiveHeight},
	}
	for _, r := range j.Ratings {
		f.Ratings = append(f.Ratings, film.Rating{Agency: r.Agency, Label: r.Label})
	}

	var cursor dcptime.Time
	for _, seconds := range j.ReelSeconds {
		next := cursor + dcptime.FromSeconds(seconds)
		f.Reels = append(f.Reels, dcptime.NewPeriod(cursor, next))
		cursor = next
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func parseStandard(raw string) (film.Standard, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "smpte":
		return film.SMPTE, nil
	case "interop":
		return film.Interop, nil
	default:
		return film.SMPTE, fmt.Errorf("standard must be smpte or interop, got %q", raw)
	}
}

func timeFromSeconds(seconds float64) dcptime.Time {
	return dcptime.Time(seconds * dcptime.TicksPerSecond)
}
