package reel

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"cinepress/internal/asset"
	"cinepress/internal/dcptime"
	"cinepress/internal/fileutil"
	"cinepress/internal/film"
	"cinepress/internal/frameindex"
	"cinepress/internal/logging"
	"cinepress/internal/media"
)

// Asset describes one finished asset for the manifest.
type Asset struct {
	ID     string
	Kind   string
	Path   string
	Frames int64
	Size   int64
	Hash   string
}

// Writer writes one reel's assets.
type Writer struct {
	film   *film.Film
	index  int
	period dcptime.Period
	dir    string
	logger *slog.Logger
	store  *frameindex.Store

	id      string
	picture *asset.PictureWriter
	sound   *asset.SoundWriter
	text    *asset.TextWriter
	caption map[string]*asset.TextWriter
	atmos   *asset.AtmosWriter

	finished bool
	assets   []Asset
}

// NewWriter creates the reel's staging directory and its always-present
// assets. Text and immersive-audio assets are created on first use.
func NewWriter(f *film.Film, index int, store *frameindex.Store, workDir string, logger *slog.Logger) (*Writer, error) {
	period := f.Reels[index]
	dir := filepath.Join(workDir, "reels", fmt.Sprintf("reel_%03d", index))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reel directory: %w", err)
	}

	maxFrames := period.Duration().FramesRound(f.VideoFrameRate)
	picture, err := asset.NewPictureWriter(filepath.Join(dir, "picture.bin"), index, store, maxFrames, f.ThreeD)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		film:    f,
		index:   index,
		period:  period,
		dir:     dir,
		logger:  logging.NewComponentLogger(logger, "reel").With(logging.Int(logging.FieldReel, index)),
		store:   store,
		id:      uuid.NewString(),
		picture: picture,
		caption: make(map[string]*asset.TextWriter),
	}

	if f.AudioChannels > 0 {
		sound, err := asset.NewSoundWriter(filepath.Join(dir, "sound.pcm"), f.AudioChannels)
		if err != nil {
			return nil, err
		}
		w.sound = sound
	}
	return w, nil
}

// ID returns the reel's urn:uuid identifier.
func (w *Writer) ID() string { return "urn:uuid:" + w.id }

// Index returns the reel's position in the film.
func (w *Writer) Index() int { return w.index }

// Period returns the reel's time period.
func (w *Writer) Period() dcptime.Period { return w.period }

// StartFrame returns the whole-package frame index of the reel's first frame.
func (w *Writer) StartFrame() int64 {
	return w.period.From.FramesRound(w.film.VideoFrameRate)
}

// FramesWritten returns the number of whole picture frames written.
func (w *Writer) FramesWritten() int64 { return w.picture.Frames() }

// Write writes one encoded picture frame.
func (w *Writer) Write(ctx context.Context, payload []byte, frame int64, eyes media.Eyes) error {
	return w.picture.Write(ctx, payload, frame, eyes)
}

// FakeWrite advances the picture asset by a previously-recorded frame size.
func (w *Writer) FakeWrite(size int64, eyes media.Eyes) error {
	return w.picture.FakeWrite(size, eyes)
}

// RepeatWrite re-emits the previous frame for the given eye.
func (w *Writer) RepeatWrite(ctx context.Context, frame int64, eyes media.Eyes) error {
	return w.picture.RepeatWrite(ctx, frame, eyes)
}

// ReadFrameInfo returns the recorded info for a picture frame, used to size
// fake writes.
func (w *Writer) ReadFrameInfo(ctx context.Context, frame int64, eyes media.Eyes) (frameindex.Info, error) {
	return w.store.Get(ctx, w.index, frame, eyes)
}

// FirstNonexistentFrame returns the first picture frame with no recorded
// info.
func (w *Writer) FirstNonexistentFrame(ctx context.Context) (int64, error) {
	return w.store.FirstNonexistentFrame(ctx, w.index)
}

// WriteAudio appends audio frames. The buffer must lie entirely within the
// reel; splitting happens upstream.
func (w *Writer) WriteAudio(buffers *media.AudioBuffers) error {
	if w.sound == nil {
		return fmt.Errorf("reel %d has no sound asset", w.index)
	}
	maxFrames := w.period.Duration().FramesRound(w.film.AudioFrameRate)
	if w.sound.Frames()+int64(buffers.Frames) > maxFrames {
		return fmt.Errorf("sound asset full: %d frames exceeds reel capacity %d",
			w.sound.Frames()+int64(buffers.Frames), maxFrames)
	}
	return w.sound.Write(buffers)
}

// WriteText records one text event. The period is absolute; it is shifted to
// be reel-relative here. Font identifiers are resolved through the table.
func (w *Writer) WriteText(text media.Text, kind media.TextKind, track string, period dcptime.Period, fonts *asset.FontTable) error {
	writer, err := w.textWriter(kind, track)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(text.Fonts))
	for _, font := range text.Fonts {
		id, ok := fonts.Get(font)
		if !ok {
			id = font.ID
		}
		writer.RegisterFont(id, font)
		ids = append(ids, id)
	}

	relative := dcptime.NewPeriod(period.From-w.period.From, period.To-w.period.From)
	return writer.Write(text, relative, ids)
}

// WriteAtmos appends one video frame's worth of immersive audio.
func (w *Writer) WriteAtmos(frame []byte, meta media.AtmosMetadata) error {
	if w.atmos == nil {
		atmos, err := asset.NewAtmosWriter(filepath.Join(w.dir, "atmos.bin"))
		if err != nil {
			return err
		}
		w.atmos = atmos
	}
	return w.atmos.Write(frame)
}

func (w *Writer) textWriter(kind media.TextKind, track string) (*asset.TextWriter, error) {
	switch kind {
	case media.OpenSubtitle:
		if w.text == nil {
			w.text = asset.NewTextWriter(filepath.Join(w.dir, "subtitles.xml"), kind, w.film.VideoFrameRate)
		}
		return w.text, nil
	case media.ClosedCaption:
		if track == "" {
			return nil, fmt.Errorf("closed caption write without a track")
		}
		writer, ok := w.caption[track]
		if !ok {
			name := fmt.Sprintf("caption_%s.xml", track)
			writer = asset.NewTextWriter(filepath.Join(w.dir, name), kind, w.film.VideoFrameRate)
			w.caption[track] = writer
		}
		return writer, nil
	default:
		return nil, fmt.Errorf("unknown text kind %d", kind)
	}
}

// Finish closes every asset and moves the reel's files into outputDir.
func (w *Writer) Finish(outputDir string) error {
	if w.finished {
		return nil
	}
	w.finished = true

	prefix := fmt.Sprintf("reel%03d", w.index)
	move := func(src, kind, suffix, id string, frames int64) error {
		dst := filepath.Join(outputDir, prefix+"_"+suffix)
		if err := fileutil.MoveFile(src, dst); err != nil {
			return fmt.Errorf("move %s asset: %w", kind, err)
		}
		info, err := os.Stat(dst)
		if err != nil {
			return err
		}
		w.assets = append(w.assets, Asset{
			ID:     id,
			Kind:   kind,
			Path:   dst,
			Frames: frames,
			Size:   info.Size(),
		})
		return nil
	}

	if err := w.picture.Finish(); err != nil {
		return err
	}
	if err := move(w.picture.Path(), "picture", "picture.bin", w.picture.ID(), w.picture.Frames()); err != nil {
		return err
	}

	if w.sound != nil {
		if err := w.sound.Finish(); err != nil {
			return err
		}
		if err := move(w.sound.Path(), "sound", "sound.pcm", w.sound.ID(), w.sound.Frames()); err != nil {
			return err
		}
	}
	if w.text != nil {
		if err := w.text.Finish(); err != nil {
			return err
		}
		if err := move(w.text.Path(), "subtitle", "subtitles.xml", w.text.ID(), int64(w.text.Events())); err != nil {
			return err
		}
	}
	for track, writer := range w.caption {
		if err := writer.Finish(); err != nil {
			return err
		}
		name := fmt.Sprintf("caption_%s.xml", track)
		if err := move(writer.Path(), "caption:"+track, name, writer.ID(), int64(writer.Events())); err != nil {
			return err
		}
	}
	if w.atmos != nil {
		if err := w.atmos.Finish(); err != nil {
			return err
		}
		if err := move(w.atmos.Path(), "atmos", "atmos.bin", w.atmos.ID(), w.atmos.Frames()); err != nil {
			return err
		}
	}

	w.logger.Info("reel finished",
		logging.Int64(logging.FieldFrame, w.picture.Frames()),
		logging.Int("assets", len(w.assets)))
	return nil
}

// Assets returns the manifest entries built by Finish.
func (w *Writer) Assets() []Asset { return w.assets }

// CalculateDigests hashes every finished asset, reporting fractional
// progress across the reel's assets.
func (w *Writer) CalculateDigests(ctx context.Context, progress func(float64)) error {
	total := len(w.assets)
	for i := range w.assets {
		base := float64(i) / float64(total)
		scale := 1 / float64(total)
		digest, err := asset.FileDigest(ctx, w.assets[i].Path, func(p float64) {
			if progress != nil {
				progress(base + p*scale)
			}
		})
		if err != nil {
			return err
		}
		w.assets[i].Hash = digest
	}
	if progress != nil {
		progress(1)
	}
	return nil
}
