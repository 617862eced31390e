package asset

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"

	"cinepress/internal/dcptime"
	"cinepress/internal/media"
)

// TextWriter accumulates subtitle or caption events for one reel and writes
// them as an XML document at finish.
type TextWriter struct {
	id        string
	path      string
	kind      media.TextKind
	frameRate int

	fonts  map[string]*media.Font
	events []textEvent
}

type textEvent struct {
	in    dcptime.Time
	out   dcptime.Time
	lines []string
	fonts []string
}

// NewTextWriter creates a text asset writer. Nothing touches disk until
// Finish, since events may keep arriving until the reel closes.
func NewTextWriter(path string, kind media.TextKind, frameRate int) *TextWriter {
	return &TextWriter{
		id:        uuid.NewString(),
		path:      path,
		kind:      kind,
		frameRate: frameRate,
		fonts:     make(map[string]*media.Font),
	}
}

// ID returns the asset's urn:uuid identifier.
func (w *TextWriter) ID() string { return "urn:uuid:" + w.id }

// Path returns the asset file path.
func (w *TextWriter) Path() string { return w.path }

// Events returns the number of accumulated events.
func (w *TextWriter) Events() int { return len(w.events) }

// RegisterFont declares a font under its resolved identifier. Repeated
// declarations of the same identifier are collapsed.
func (w *TextWriter) RegisterFont(id string, font *media.Font) {
	if _, ok := w.fonts[id]; !ok {
		w.fonts[id] = font
	}
}

// Write records one text event covering period, expressed relative to the
// reel start.
func (w *TextWriter) Write(text media.Text, period dcptime.Period, fontIDs []string) error {
	if period.Duration() <= 0 {
		return fmt.Errorf("text event has non-positive duration %s", period)
	}
	w.events = append(w.events, textEvent{
		in:    period.From,
		out:   period.To,
		lines: append([]string(nil), text.Lines...),
		fonts: append([]string(nil), fontIDs...),
	})
	return nil
}

type xmlSubtitleDoc struct {
	XMLName   xml.Name      `xml:"SubtitleReel"`
	ID        string        `xml:"Id"`
	Kind      string        `xml:"Kind"`
	FrameRate int           `xml:"FrameRate"`
	LoadFonts []xmlLoadFont `xml:"LoadFont"`
	Subtitles []xmlSubtitle `xml:"Subtitle"`
}

type xmlLoadFont struct {
	ID string `xml:"ID,attr"`
}

type xmlSubtitle struct {
	TimeIn  string   `xml:"TimeIn,attr"`
	TimeOut string   `xml:"TimeOut,attr"`
	Fonts   string   `xml:"Font,attr,omitempty"`
	Text    []string `xml:"Text"`
}

// Finish serializes the accumulated events to the asset path.
func (w *TextWriter) Finish() error {
	doc := xmlSubtitleDoc{
		ID:        w.ID(),
		Kind:      w.kind.String(),
		FrameRate: w.frameRate,
	}

	ids := make([]string, 0, len(w.fonts))
	for id := range w.fonts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		doc.LoadFonts = append(doc.LoadFonts, xmlLoadFont{ID: id})
	}

	for _, ev := range w.events {
		doc.Subtitles = append(doc.Subtitles, xmlSubtitle{
			TimeIn:  w.timecode(ev.in),
			TimeOut: w.timecode(ev.out),
			Fonts:   joinIDs(ev.fonts),
			Text:    ev.lines,
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal text asset: %w", err)
	}
	body := append([]byte(xml.Header), out...)
	body = append(body, '\n')
	if err := os.WriteFile(w.path, body, 0o644); err != nil {
		return fmt.Errorf("write text asset: %w", err)
	}
	return nil
}

// Size returns the serialized asset size, or zero before Finish.
func (w *TextWriter) Size() int64 {
	info, err := os.Stat(w.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func (w *TextWriter) timecode(t dcptime.Time) string {
	hmsf := t.Split(w.frameRate)
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hmsf.H, hmsf.M, hmsf.S, hmsf.F)
}

func joinIDs(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += " "
		}
		out += id
	}
	return out
}
