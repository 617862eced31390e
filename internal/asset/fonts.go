package asset

import "cinepress/internal/media"

// FontTable maps fonts to the stable identifiers they are declared under in
// text assets. Insertion order is preserved for deterministic output.
type FontTable struct {
	ids   map[*media.Font]string
	order []*media.Font
}

// NewFontTable returns an empty table.
func NewFontTable() *FontTable {
	return &FontTable{ids: make(map[*media.Font]string)}
}

// Put assigns an identifier to a font, replacing any previous assignment.
func (t *FontTable) Put(font *media.Font, id string) {
	if _, ok := t.ids[font]; !ok {
		t.order = append(t.order, font)
	}
	t.ids[font] = id
}

// Get returns the identifier assigned to a font.
func (t *FontTable) Get(font *media.Font) (string, bool) {
	id, ok := t.ids[font]
	return id, ok
}

// Fonts returns the fonts in insertion order.
func (t *FontTable) Fonts() []*media.Font {
	return t.order
}

// Len returns the number of fonts in the table.
func (t *FontTable) Len() int {
	return len(t.ids)
}

// UniqueIDs returns the number of distinct identifiers in the table.
func (t *FontTable) UniqueIDs() int {
	seen := make(map[string]struct{}, len(t.ids))
	for _, id := range t.ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
