package asset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"cinepress/internal/frameindex"
	"cinepress/internal/media"
)

// PictureWriter appends encoded picture frames to a sequential container
// file, recording each frame's offset, size, and hash in the frame index.
type PictureWriter struct {
	id     string
	path   string
	file   *os.File
	reel   int
	index  *frameindex.Store
	threeD bool

	offset    int64
	frames    int64
	maxFrames int64

	// Last payload written per eye, kept for repeat writes.
	last map[media.Eyes][]byte
}

// NewPictureWriter creates the picture container at path.
func NewPictureWriter(path string, reel int, index *frameindex.Store, maxFrames int64, threeD bool) (*PictureWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create picture asset: %w", err)
	}
	return &PictureWriter{
		id:        uuid.NewString(),
		path:      path,
		file:      file,
		reel:      reel,
		index:     index,
		threeD:    threeD,
		maxFrames: maxFrames,
		last:      make(map[media.Eyes][]byte),
	}, nil
}

// ID returns the asset's urn:uuid identifier.
func (w *PictureWriter) ID() string { return "urn:uuid:" + w.id }

// Path returns the container file path.
func (w *PictureWriter) Path() string { return w.path }

// Frames returns the count of whole video frames written so far. For a
// stereoscopic asset a frame counts once both eyes have been written.
func (w *PictureWriter) Frames() int64 { return w.frames }

// Write appends one encoded frame for the given eye.
func (w *PictureWriter) Write(ctx context.Context, payload []byte, frame int64, eyes media.Eyes) error {
	if err := w.checkCapacity(eyes); err != nil {
		return err
	}
	if _, err := w.file.WriteAt(payload, w.offset); err != nil {
		return fmt.Errorf("write picture frame %d: %w", frame, err)
	}
	sum := sha256.Sum256(payload)
	info := frameindex.Info{
		Offset: w.offset,
		Size:   int64(len(payload)),
		Hash:   hex.EncodeToString(sum[:]),
	}
	if err := w.index.Put(ctx, w.reel, frame, eyes, info); err != nil {
		return err
	}
	w.offset += int64(len(payload))
	w.last[eyes] = append([]byte(nil), payload...)
	w.advance(eyes)
	return nil
}

// FakeWrite advances the container by size bytes without writing payload.
// The container is recreated on each run, so a fake-written range reads back
// as zeroes; only the frame's recorded size survives, not its bytes. Callers
// needing byte-identical output must write every frame for real.
func (w *PictureWriter) FakeWrite(size int64, eyes media.Eyes) error {
	if err := w.checkCapacity(eyes); err != nil {
		return err
	}
	w.offset += size
	w.advance(eyes)
	return nil
}

// RepeatWrite re-emits the last payload written for the given eye at a new
// frame index.
func (w *PictureWriter) RepeatWrite(ctx context.Context, frame int64, eyes media.Eyes) error {
	payload, ok := w.last[eyes]
	if !ok {
		return fmt.Errorf("repeat write of frame %d (%s): no previous frame", frame, eyes)
	}
	return w.Write(ctx, payload, frame, eyes)
}

// Finish pads the container to its declared length and closes it.
func (w *PictureWriter) Finish() error {
	if err := w.file.Truncate(w.offset); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("finalize picture asset: %w", err)
	}
	return w.file.Close()
}

// Size returns the container's current byte length.
func (w *PictureWriter) Size() int64 { return w.offset }

func (w *PictureWriter) checkCapacity(eyes media.Eyes) error {
	next := w.frames
	if !w.threeD || eyes != media.EyesLeft {
		next++
	}
	if next > w.maxFrames {
		return fmt.Errorf("picture asset full: %d frames exceeds reel capacity %d", next, w.maxFrames)
	}
	return nil
}

func (w *PictureWriter) advance(eyes media.Eyes) {
	// A stereoscopic frame is complete when its right eye lands.
	if !w.threeD || eyes != media.EyesLeft {
		w.frames++
	}
}

// ReadFrame reads back a frame recorded in the index; used to verify
// offloaded and reloaded payloads and by digest checks in tests.
func (w *PictureWriter) ReadFrame(ctx context.Context, frame int64, eyes media.Eyes) ([]byte, error) {
	info, err := w.index.Get(ctx, w.reel, frame, eyes)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, info.Size)
	if _, err := w.file.ReadAt(buf, info.Offset); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read frame %d: %w", frame, err)
	}
	return buf, nil
}
