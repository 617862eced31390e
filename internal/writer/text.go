package writer

import (
	"fmt"

	"cinepress/internal/dcptime"
	"cinepress/internal/film"
	"cinepress/internal/media"
	"cinepress/internal/services"
)

// WriteText records one subtitle or caption event over an absolute period.
// Events arrive in time order per stream. An event crossing a reel boundary
// is trimmed to the current reel and replayed into each later reel it
// overlaps when that reel's cursor arrives; trimmed ends are backed off by
// two frames so projectors do not show the event butted against the joint.
func (w *Writer) WriteText(text media.Text, kind media.TextKind, track string, period dcptime.Period) error {
	stream := textStream{kind: kind}
	if kind == media.ClosedCaption {
		if track == "" {
			return services.Wrap(services.ErrValidation, "writer", "write text", "closed caption write without a track", nil)
		}
		stream.track = track
	}
	cursor, ok := w.textReel[stream]
	if !ok {
		return services.Wrap(services.ErrValidation, "writer", "write text",
			fmt.Sprintf("unknown %s track %q", kind, track), nil)
	}

	for w.reels[cursor].Period().To <= period.From {
		cursor++
		if cursor >= len(w.reels) {
			return services.Wrap(services.ErrValidation, "writer", "write text",
				fmt.Sprintf("text at %s is past the last reel", period.From), nil)
		}
		w.textReel[stream] = cursor
		if err := w.writeHanging(cursor); err != nil {
			return err
		}
	}

	reelPeriod := w.reels[cursor].Period()
	if period.To > reelPeriod.To {
		for i := cursor + 1; i < len(w.reels); i++ {
			overlap, ok := w.reels[i].Period().Overlap(period)
			if !ok {
				continue
			}
			replay := w.backOff(overlap)
			if replay.Duration() <= 0 {
				// An overlap of two frames or less backs off to nothing.
				continue
			}
			w.hanging = append(w.hanging, hangingText{
				text:   text,
				kind:   kind,
				track:  track,
				period: replay,
			})
		}
		period.To = reelPeriod.To
		period = w.backOff(period)
		if period.Duration() <= 0 {
			// The event starts so close to the boundary that nothing of it
			// remains in this reel after the back-off.
			return nil
		}
	}
	return w.writeTextToReel(cursor, text, kind, track, period)
}

// backOff shortens a period by two video frames.
func (w *Writer) backOff(p dcptime.Period) dcptime.Period {
	p.To -= dcptime.FromFrames(2, w.film.VideoFrameRate)
	return p
}

func (w *Writer) writeTextToReel(reelIdx int, text media.Text, kind media.TextKind, track string, period dcptime.Period) error {
	if w.film.Standard == film.Interop && w.chosenLegacyFont != nil {
		// Interop assets carry a single font; every event renders with the
		// one chosen in WriteFonts.
		text.Fonts = []*media.Font{w.chosenLegacyFont}
	}
	return w.reels[reelIdx].WriteText(text, kind, track, period, w.fonts)
}

// writeHanging replays stored boundary-crossing events whose replay period
// starts at this reel.
func (w *Writer) writeHanging(reelIdx int) error {
	from := w.reels[reelIdx].Period().From
	kept := w.hanging[:0]
	for _, h := range w.hanging {
		if h.period.From != from {
			kept = append(kept, h)
			continue
		}
		if err := w.writeTextToReel(reelIdx, h.text, h.kind, h.track, h.period); err != nil {
			return err
		}
	}
	w.hanging = kept
	return nil
}
