package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"cinepress/internal/dcptime"
	"cinepress/internal/film"
	"cinepress/internal/media"
	"cinepress/internal/writer"
)

// writeAudio streams interleaved float32 PCM into the writer in one-second
// buffers. The writer splits them at reel boundaries itself.
func writeAudio(w *writer.Writer, f *film.Film, j *job) error {
	if j.Sources.AudioPCM == "" || f.AudioChannels == 0 {
		return nil
	}
	file, err := os.Open(j.Sources.AudioPCM)
	if err != nil {
		return fmt.Errorf("open audio source: %w", err)
	}
	defer file.Close()
	reader := bufio.NewReaderSize(file, 1<<20)

	channels := f.AudioChannels
	chunkFrames := f.AudioFrameRate
	raw := make([]byte, chunkFrames*channels*4)

	var t dcptime.Time
	for {
		n, err := io.ReadFull(reader, raw)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("read audio source: %w", err)
		}
		frames := n / (channels * 4)
		if frames == 0 {
			return nil
		}

		buf := media.NewAudioBuffers(channels, frames)
		for i := 0; i < frames*channels; i++ {
			buf.Data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		if werr := w.WriteAudio(buf, t); werr != nil {
			return werr
		}
		t += dcptime.FromFrames(int64(frames), f.AudioFrameRate)

		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
	}
}

// writeSubtitles registers the job's fonts and feeds its text events to the
// writer in file order.
func writeSubtitles(w *writer.Writer, j *job) error {
	if len(j.Fonts) > 0 {
		fonts := make([]*media.Font, 0, len(j.Fonts))
		for _, jf := range j.Fonts {
			var data []byte
			if jf.Path != "" {
				raw, err := os.ReadFile(jf.Path)
				if err != nil {
					return fmt.Errorf("read font %s: %w", jf.Path, err)
				}
				data = raw
			}
			fonts = append(fonts, &media.Font{ID: jf.ID, Data: data})
		}
		w.WriteFonts(fonts)
	}

	for _, ev := range j.Subtitles {
		period := dcptime.NewPeriod(timeFromSeconds(ev.FromSeconds), timeFromSeconds(ev.ToSeconds))
		kind := media.OpenSubtitle
		if ev.Track != "" {
			kind = media.ClosedCaption
		}
		text := media.Text{Lines: ev.Lines}
		if err := w.WriteText(text, kind, ev.Track, period); err != nil {
			return err
		}
	}
	return nil
}
