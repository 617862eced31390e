package film

import (
	"errors"
	"fmt"

	"cinepress/internal/dcptime"
	"cinepress/internal/services"
)

// Standard selects the packaging standard the writer targets.
type Standard int

const (
	SMPTE Standard = iota
	Interop
)

func (s Standard) String() string {
	if s == Interop {
		return "interop"
	}
	return "smpte"
}

// Kind is the content kind declared in the composition playlist.
type Kind string

const (
	KindFeature       Kind = "feature"
	KindTrailer       Kind = "trailer"
	KindTeaser        Kind = "teaser"
	KindTest          Kind = "test"
	KindShort         Kind = "short"
	KindAdvertisement Kind = "advertisement"
	KindPSA           Kind = "psa"
)

// PrettyName returns the human-readable name used on the cover sheet.
func (k Kind) PrettyName() string {
	switch k {
	case KindFeature:
		return "Feature"
	case KindTrailer:
		return "Trailer"
	case KindTeaser:
		return "Teaser"
	case KindTest:
		return "Test"
	case KindShort:
		return "Short"
	case KindAdvertisement:
		return "Advertisement"
	case KindPSA:
		return "PSA"
	default:
		return string(k)
	}
}

// Rating is one agency rating carried into the CPL.
type Rating struct {
	Agency string
	Label  string
}

// Area is a picture area in pixels.
type Area struct {
	Width  int
	Height int
}

// Luminance is the optional target luminance of the main picture.
type Luminance struct {
	Value float64
	Unit  string
}

// Film is the immutable description of the package under construction.
// It replaces the original's global configuration lookups: everything the
// writer needs is carried here or in config.Config.
type Film struct {
	Name         string
	NameLanguage string
	ContentKind  Kind
	Container    string

	VideoFrameRate int
	AudioFrameRate int
	AudioChannels  int
	MappedChannels []int
	ThreeD         bool
	Encrypted      bool
	Standard       Standard

	Reels               []dcptime.Period
	ClosedCaptionTracks []string

	Ratings         []Rating
	ContentVersions []string

	AudioLanguage               string
	SubtitleLanguage            string
	AdditionalSubtitleLanguages []string

	ReleaseTerritory  string
	VersionNumber     int
	Status            string
	Chain             string
	Distributor       string
	Facility          string
	Luminance         *Luminance
	SignLanguageVideo string

	StoredArea Area
	ActiveArea Area
}

// Length returns the total running time of the film.
func (f *Film) Length() dcptime.Time {
	if len(f.Reels) == 0 {
		return 0
	}
	return f.Reels[len(f.Reels)-1].To
}

// Validate checks that the film description is internally consistent.
func (f *Film) Validate() error {
	if f.Name == "" {
		return services.Wrap(services.ErrValidation, "film", "validate", "name must be set", nil)
	}
	if f.VideoFrameRate <= 0 {
		return services.Wrap(services.ErrValidation, "film", "validate", "video frame rate must be positive", nil)
	}
	if f.AudioFrameRate <= 0 {
		return services.Wrap(services.ErrValidation, "film", "validate", "audio frame rate must be positive", nil)
	}
	if f.AudioChannels < 0 {
		return services.Wrap(services.ErrValidation, "film", "validate", "audio channel count must not be negative", nil)
	}
	if len(f.Reels) == 0 {
		return services.Wrap(services.ErrValidation, "film", "validate", "at least one reel is required", nil)
	}
	var cursor dcptime.Time
	for i, p := range f.Reels {
		if p.From != cursor {
			return services.Wrap(services.ErrValidation, "film", "validate",
				fmt.Sprintf("reel %d starts at %s, expected %s", i, p.From, cursor), nil)
		}
		if p.Duration() <= 0 {
			return services.Wrap(services.ErrValidation, "film", "validate",
				fmt.Sprintf("reel %d has non-positive duration", i), nil)
		}
		cursor = p.To
	}
	return nil
}

// ChannelCounts splits the mapped audio channels into full-range and LFE
// counts for the "X.Y" description. Channel index 3 is the LFE position in
// DCP channel order.
func (f *Film) ChannelCounts() (full, lfe int) {
	for _, ch := range f.MappedChannels {
		if ch < 0 || ch >= f.AudioChannels {
			continue
		}
		if ch == 3 {
			lfe++
		} else {
			full++
		}
	}
	return full, lfe
}

var errNoReel = errors.New("no reel contains time")

// ReelAt returns the index of the reel whose period contains t.
func (f *Film) ReelAt(t dcptime.Time) (int, error) {
	for i, p := range f.Reels {
		if p.Contains(t) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w %s", errNoReel, t)
}
