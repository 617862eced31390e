package writer

import (
	"fmt"

	"cinepress/internal/dcptime"
	"cinepress/internal/logging"
	"cinepress/internal/media"
	"cinepress/internal/services"
)

// WriteAudio appends audio starting at the given package time. The buffer may
// span a reel boundary, in which case it is split and written in parts.
// Single-caller; audio arrives in time order, unlike video.
func (w *Writer) WriteAudio(buffers *media.AudioBuffers, t dcptime.Time) error {
	if buffers == nil || buffers.Frames == 0 {
		return nil
	}
	afr := w.film.AudioFrameRate
	end := t + dcptime.FromFrames(int64(buffers.Frames), afr)

	for t < end {
		if w.audioReel >= len(w.reels) {
			// Rate conversion can produce a little audio past the end of the
			// last reel; there is nowhere for it to go.
			w.logger.Warn("ignoring audio past the last reel",
				logging.Int("frames", buffers.Frames))
			return nil
		}
		r := w.reels[w.audioReel]
		period := r.Period()

		switch {
		case end <= period.To:
			// The whole remainder fits in this reel.
			if err := r.WriteAudio(buffers); err != nil {
				return err
			}
			t = end
		case period.To <= t:
			// This reel ends before our audio starts.
			w.audioReel++
		default:
			// Split at the reel boundary. The head is rounded up and the tail
			// down so the two parts never exceed the original.
			head := (period.To - t).FramesCeil(afr)
			tail := (end - period.To).FramesFloor(afr)
			if head > int64(buffers.Frames) {
				return services.Wrap(services.ErrValidation, "writer", "write audio",
					fmt.Sprintf("split head %d exceeds buffer of %d frames", head, buffers.Frames), nil)
			}
			if head > 0 {
				part, err := buffers.Slice(0, int(head))
				if err != nil {
					return err
				}
				if err := r.WriteAudio(part); err != nil {
					return err
				}
			}
			if tail == 0 {
				return nil
			}
			rest, err := buffers.Slice(int(head), int(tail))
			if err != nil {
				return err
			}
			buffers = rest
			w.audioReel++
			t = period.To
		}
	}
	return nil
}

// WriteAtmos appends one video frame's worth of immersive audio at the given
// package time, advancing to the next reel when the current one is exactly
// full.
func (w *Writer) WriteAtmos(frame []byte, t dcptime.Time, meta media.AtmosMetadata) error {
	if w.atmosReel >= len(w.reels) {
		return services.Wrap(services.ErrValidation, "writer", "write atmos",
			fmt.Sprintf("atmos at %s is past the last reel", t), nil)
	}
	if w.reels[w.atmosReel].Period().To == t {
		w.atmosReel++
		if w.atmosReel >= len(w.reels) {
			return services.Wrap(services.ErrValidation, "writer", "write atmos",
				fmt.Sprintf("atmos at %s is past the last reel", t), nil)
		}
	}
	return w.reels[w.atmosReel].WriteAtmos(frame, meta)
}
