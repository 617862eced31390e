package media

// TextKind distinguishes the text streams the writer accepts.
type TextKind int

const (
	OpenSubtitle TextKind = iota
	ClosedCaption
)

func (k TextKind) String() string {
	if k == ClosedCaption {
		return "closed-caption"
	}
	return "open-subtitle"
}

// Font is a typeface referenced by subtitle content. The ID is whatever the
// authoring tool supplied and may be empty or duplicated; the writer maps it
// to a stable identifier before it reaches an asset.
type Font struct {
	ID   string
	Data []byte
}

// Text is one subtitle or caption event's content.
type Text struct {
	Lines []string
	Fonts []*Font
}

// AtmosMetadata describes an immersive-audio stream.
type AtmosMetadata struct {
	FrameRate int
}
