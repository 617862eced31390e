package writer

import (
	"fmt"
	"strconv"
	"strings"

	"cinepress/internal/film"
	"cinepress/internal/media"
)

// WriteFonts registers the fonts that later text events will reference.
// Incoming identifiers may be empty or duplicated; the table maps every font
// to an identifier that is safe to declare in an asset. Interop assets ignore
// all but the first font declaration, so on that standard every font shares
// the first font's identifier and events render with that one font.
func (w *Writer) WriteFonts(fonts []*media.Font) {
	if len(fonts) == 0 {
		return
	}

	if w.film.Standard == film.Interop {
		id := fixFontID(fonts[0].ID)
		for _, font := range fonts {
			w.fonts.Put(font, id)
		}
		w.chosenLegacyFont = fonts[0]
		return
	}

	used := make(map[string]struct{}, len(fonts))
	for _, font := range fonts {
		id := fixFontID(font.ID)
		if _, taken := used[id]; !taken {
			w.fonts.Put(font, id)
			used[id] = struct{}{}
			continue
		}

		// Disambiguate: continue an existing _N suffix or start one at _0,
		// skipping identifiers already taken.
		base := id
		number := 0
		if pos := underscoreNumberPosition(id); pos >= 0 {
			base = id[:pos]
			n, _ := strconv.Atoi(id[pos+1:])
			number = n + 1
		}
		for {
			candidate := fmt.Sprintf("%s_%d", base, number)
			if _, taken := used[candidate]; !taken {
				id = candidate
				break
			}
			number++
		}
		w.fonts.Put(font, id)
		used[id] = struct{}{}
	}
}

func fixFontID(id string) string {
	if id == "" {
		return "font"
	}
	return id
}

// underscoreNumberPosition returns the index of a trailing "_<digits>"
// suffix, or -1 when there is none.
func underscoreNumberPosition(s string) int {
	i := strings.LastIndexByte(s, '_')
	if i < 0 || i == len(s)-1 {
		return -1
	}
	if _, err := strconv.Atoi(s[i+1:]); err != nil {
		return -1
	}
	return i
}
