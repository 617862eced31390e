package writer

import (
	"sort"

	"cinepress/internal/media"
)

// ItemKind classifies a queued video write.
type ItemKind int

const (
	// ItemFull carries an encoded payload.
	ItemFull ItemKind = iota
	// ItemFake advances the asset by a previously-recorded size without
	// payload.
	ItemFake
	// ItemRepeat re-emits the reel's previous frame at a new index.
	ItemRepeat
)

func (k ItemKind) String() string {
	switch k {
	case ItemFull:
		return "full"
	case ItemFake:
		return "fake"
	case ItemRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// queueItem is one pending video write. Frame is relative to the reel start.
// Payload is nil for fake and repeat items, and for full items whose payload
// has been offloaded to disk.
type queueItem struct {
	kind    ItemKind
	reel    int
	frame   int64
	eyes    media.Eyes
	payload []byte
	size    int64
}

// less orders items by (reel, frame, eyes) with Both < Left < Right.
func (a queueItem) less(b queueItem) bool {
	if a.reel != b.reel {
		return a.reel < b.reel
	}
	if a.frame != b.frame {
		return a.frame < b.frame
	}
	return a.eyes.Rank() < b.eyes.Rank()
}

func sortQueue(queue []queueItem) {
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].less(queue[j])
	})
}

// lastWritten tracks the most recently dispatched frame for one reel and
// decides what counts as its contiguous successor.
type lastWritten struct {
	frame int64
	eyes  media.Eyes
}

// newLastWritten starts one step before the reel's first frame so that
// frame 0 (or its left eye) is the initial successor.
func newLastWritten() lastWritten {
	return lastWritten{frame: -1, eyes: media.EyesRight}
}

// next reports whether qi is the contiguous successor.
func (lw lastWritten) next(qi queueItem) bool {
	if qi.eyes == media.EyesBoth {
		// 2D
		return qi.frame == lw.frame+1
	}

	// 3D
	if lw.eyes == media.EyesLeft && qi.frame == lw.frame && qi.eyes == media.EyesRight {
		return true
	}
	if lw.eyes == media.EyesRight && qi.frame == lw.frame+1 && qi.eyes == media.EyesLeft {
		return true
	}
	return false
}

func (lw *lastWritten) update(qi queueItem) {
	lw.frame = qi.frame
	lw.eyes = qi.eyes
}
