package asset

import (
	"bufio"
	"fmt"
	"os"

	"github.com/google/uuid"

	"cinepress/internal/media"
)

// SoundWriter writes interleaved 24-bit little-endian PCM.
type SoundWriter struct {
	id       string
	path     string
	file     *os.File
	buf      *bufio.Writer
	channels int
	frames   int64
}

// NewSoundWriter creates the sound asset at path.
func NewSoundWriter(path string, channels int) (*SoundWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create sound asset: %w", err)
	}
	return &SoundWriter{
		id:       uuid.NewString(),
		path:     path,
		file:     file,
		buf:      bufio.NewWriterSize(file, 1<<16),
		channels: channels,
	}, nil
}

// ID returns the asset's urn:uuid identifier.
func (w *SoundWriter) ID() string { return "urn:uuid:" + w.id }

// Path returns the asset file path.
func (w *SoundWriter) Path() string { return w.path }

// Frames returns the number of audio frames written.
func (w *SoundWriter) Frames() int64 { return w.frames }

// Write appends the buffer's samples.
func (w *SoundWriter) Write(buffers *media.AudioBuffers) error {
	if buffers.Channels != w.channels {
		return fmt.Errorf("sound write: got %d channels, asset has %d", buffers.Channels, w.channels)
	}
	sample := make([]byte, 3)
	for _, v := range buffers.Data {
		encodeSample24(v, sample)
		if _, err := w.buf.Write(sample); err != nil {
			return fmt.Errorf("write sound: %w", err)
		}
	}
	w.frames += int64(buffers.Frames)
	return nil
}

// Finish flushes and closes the asset.
func (w *SoundWriter) Finish() error {
	if err := w.buf.Flush(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("flush sound asset: %w", err)
	}
	return w.file.Close()
}

// encodeSample24 clamps v to [-1, 1] and encodes it as a signed 24-bit
// little-endian integer.
func encodeSample24(v float32, out []byte) {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	s := int32(v * 8388607)
	out[0] = byte(s)
	out[1] = byte(s >> 8)
	out[2] = byte(s >> 16)
}
