package asset

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// AtmosWriter writes immersive-audio frames as a length-prefixed stream,
// one entry per video frame.
type AtmosWriter struct {
	id     string
	path   string
	file   *os.File
	buf    *bufio.Writer
	frames int64
}

// NewAtmosWriter creates the immersive-audio asset at path.
func NewAtmosWriter(path string) (*AtmosWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create atmos asset: %w", err)
	}
	return &AtmosWriter{
		id:   uuid.NewString(),
		path: path,
		file: file,
		buf:  bufio.NewWriterSize(file, 1<<16),
	}, nil
}

// ID returns the asset's urn:uuid identifier.
func (w *AtmosWriter) ID() string { return "urn:uuid:" + w.id }

// Path returns the asset file path.
func (w *AtmosWriter) Path() string { return w.path }

// Frames returns the number of frames written.
func (w *AtmosWriter) Frames() int64 { return w.frames }

// Write appends one video frame's worth of immersive-audio data.
func (w *AtmosWriter) Write(frame []byte) error {
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(frame)))
	if _, err := w.buf.Write(length[:]); err != nil {
		return fmt.Errorf("write atmos frame: %w", err)
	}
	if _, err := w.buf.Write(frame); err != nil {
		return fmt.Errorf("write atmos frame: %w", err)
	}
	w.frames++
	return nil
}

// Finish flushes and closes the asset.
func (w *AtmosWriter) Finish() error {
	if err := w.buf.Flush(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("flush atmos asset: %w", err)
	}
	return w.file.Close()
}
