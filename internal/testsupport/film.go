package testsupport

import (
	"testing"

	"cinepress/internal/dcptime"
	"cinepress/internal/film"
)

// FilmOption allows callers to customize the generated test film.
type FilmOption func(*film.Film)

// NewFilm produces a minimal valid 2D film with the requested number of
// one-second reels.
func NewFilm(t testing.TB, reels int, opts ...FilmOption) *film.Film {
	t.Helper()

	f := &film.Film{
		Name:           "Test Film",
		ContentKind:    film.KindTest,
		Container:      "Flat",
		VideoFrameRate: 24,
		AudioFrameRate: 48000,
		AudioChannels:  2,
		MappedChannels: []int{0, 1},
		StoredArea:     film.Area{Width: 1998, Height: 1080},
	}
	for i := 0; i < reels; i++ {
		f.Reels = append(f.Reels, dcptime.NewPeriod(
			dcptime.FromSeconds(int64(i)),
			dcptime.FromSeconds(int64(i+1)),
		))
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("test film is invalid: %v", err)
	}
	return f
}

// WithThreeD makes the film stereoscopic.
func WithThreeD() FilmOption {
	return func(f *film.Film) {
		f.ThreeD = true
	}
}

// WithStandard sets the packaging standard.
func WithStandard(s film.Standard) FilmOption {
	return func(f *film.Film) {
		f.Standard = s
	}
}
