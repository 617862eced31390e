package media

import "fmt"

// AudioBuffers carries interleaved float samples for a run of audio frames.
type AudioBuffers struct {
	Channels int
	Frames   int
	Data     []float32
}

// NewAudioBuffers allocates a zeroed buffer.
func NewAudioBuffers(channels, frames int) *AudioBuffers {
	return &AudioBuffers{
		Channels: channels,
		Frames:   frames,
		Data:     make([]float32, channels*frames),
	}
}

// Slice returns a view of frames [offset, offset+frames) sharing the
// underlying data.
func (b *AudioBuffers) Slice(offset, frames int) (*AudioBuffers, error) {
	if offset < 0 || frames < 0 || offset+frames > b.Frames {
		return nil, fmt.Errorf("audio slice [%d, %d) out of range (have %d frames)", offset, offset+frames, b.Frames)
	}
	return &AudioBuffers{
		Channels: b.Channels,
		Frames:   frames,
		Data:     b.Data[offset*b.Channels : (offset+frames)*b.Channels],
	}, nil
}
