package writer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"cinepress/internal/asset"
	"cinepress/internal/config"
	"cinepress/internal/dcptime"
	"cinepress/internal/film"
	"cinepress/internal/frameindex"
	"cinepress/internal/logging"
	"cinepress/internal/manifest"
	"cinepress/internal/media"
	"cinepress/internal/reel"
	"cinepress/internal/services"
	"cinepress/internal/signing"
)

// Progress receives a fraction in [0,1] during digest calculation.
type Progress func(float64)

type textStream struct {
	kind  media.TextKind
	track string
}

type hangingText struct {
	text   media.Text
	kind   media.TextKind
	track  string
	period dcptime.Period
}

type referencedAsset struct {
	reel  int
	asset manifest.Asset
}

// Writer assembles a package from out-of-order producer writes.
type Writer struct {
	film     *film.Film
	cfg      *config.Config
	signer   *signing.Signer
	logger   *slog.Logger
	store    *frameindex.Store
	reels    []*reel.Writer
	progress Progress

	mu    sync.Mutex
	empty *sync.Cond // "work or pressure exists"
	full  *sync.Cond // "resources freed"

	queue              []queueItem
	queuedFullInMemory int
	maxFramesInMemory  int
	maxQueueSize       int
	finishing          bool
	consumerErr        error
	lastWritten        []lastWritten

	started bool
	done    chan struct{}

	// Stream cursors; audio and text arrive in caller order, unlike video.
	audioReel int
	atmosReel int
	textReel  map[textStream]int
	hanging   []hangingText

	fonts            *asset.FontTable
	chosenLegacyFont *media.Font
	referenced       []referencedAsset

	fullWritten   int
	fakeWritten   int
	repeatWritten int
	pushedToDisk  int

	digestMu       sync.Mutex
	digestProgress map[int]float64
	digestSampler  *logging.ProgressSampler
}

// New constructs a writer for the film. The signer is checked here so an
// invalid signing identity aborts before any output is produced.
func New(f *film.Film, cfg *config.Config, signer *signing.Signer, store *frameindex.Store, logger *slog.Logger, progress Progress) (*Writer, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := signer.Valid(); err != nil {
		return nil, err
	}

	w := &Writer{
		film:              f,
		cfg:               cfg,
		signer:            signer,
		logger:            logging.NewComponentLogger(logger, "writer"),
		store:             store,
		progress:          progress,
		maxFramesInMemory: cfg.MaxFramesInMemory(),
		maxQueueSize:      cfg.MaxQueueSize(),
		done:              make(chan struct{}),
		textReel:          make(map[textStream]int),
		fonts:             asset.NewFontTable(),
		digestProgress:    make(map[int]float64),
		digestSampler:     logging.NewProgressSampler(0.05),
	}
	w.empty = sync.NewCond(&w.mu)
	w.full = sync.NewCond(&w.mu)

	for i := range f.Reels {
		r, err := reel.NewWriter(f, i, store, cfg.WorkDir, logger)
		if err != nil {
			return nil, err
		}
		w.reels = append(w.reels, r)
		w.lastWritten = append(w.lastWritten, newLastWritten())
	}

	// Audio and text cursors start at the first reel; captions get one
	// cursor per track.
	w.textReel[textStream{kind: media.OpenSubtitle}] = 0
	for _, track := range f.ClosedCaptionTracks {
		w.textReel[textStream{kind: media.ClosedCaption, track: track}] = 0
	}
	return w, nil
}

// Start launches the consumer goroutine.
func (w *Writer) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.run()
}

// videoReel locates the reel containing a whole-package frame index and
// returns the reel index and the frame index within the reel.
func (w *Writer) videoReel(frame int64) (int, int64, error) {
	t := dcptime.FromFrames(frame, w.film.VideoFrameRate)
	idx, err := w.film.ReelAt(t)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrValidation, "writer", "video reel",
			fmt.Sprintf("frame %d is outside every reel", frame), err)
	}
	return idx, frame - w.reels[idx].StartFrame(), nil
}

// Write queues one encoded frame for writing. Safe to call concurrently and
// out of order; blocks while too many full frames are resident in memory.
func (w *Writer) Write(payload []byte, frame int64, eyes media.Eyes) error {
	reelIdx, frameInReel, err := w.videoReel(frame)
	if err != nil {
		return err
	}
	if err := w.checkEyes(eyes); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for w.consumerErr == nil && w.queuedFullInMemory > w.maxFramesInMemory {
		// Too many full frames in memory; wake the consumer and wait for it
		// to sort everything out.
		w.empty.Broadcast()
		w.full.Wait()
	}
	if w.consumerErr != nil {
		return w.consumerErr
	}

	w.queue = append(w.queue, queueItem{
		kind:    ItemFull,
		reel:    reelIdx,
		frame:   frameInReel,
		eyes:    eyes,
		payload: payload,
		size:    int64(len(payload)),
	})
	w.queuedFullInMemory++
	w.empty.Broadcast()
	return nil
}

// CanRepeat reports whether frame can be written as a repeat of its
// predecessor.
func (w *Writer) CanRepeat(frame int64) bool {
	_, frameInReel, err := w.videoReel(frame)
	if err != nil {
		return false
	}
	return frameInReel > 0
}

// Repeat queues a frame that reuses the reel's previous output.
func (w *Writer) Repeat(frame int64, eyes media.Eyes) error {
	reelIdx, frameInReel, err := w.videoReel(frame)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.waitQueueRoomLocked(); err != nil {
		return err
	}

	w.enqueueExpandedLocked(queueItem{
		kind:  ItemRepeat,
		reel:  reelIdx,
		frame: frameInReel,
	}, eyes)
	w.empty.Broadcast()
	return nil
}

// CanFakeWrite reports whether frame can be fake-written: the payload must
// already exist on disk from a previous run, and encrypted packages always
// need real writes.
func (w *Writer) CanFakeWrite(frame int64) bool {
	if w.film.Encrypted {
		return false
	}
	reelIdx, frameInReel, err := w.videoReel(frame)
	if err != nil {
		return false
	}
	first, err := w.reels[reelIdx].FirstNonexistentFrame(context.Background())
	if err != nil {
		return false
	}
	// The first frame must be written for real so the asset writer can set
	// itself up.
	return frameInReel != 0 && frameInReel < first
}

// FakeWrite queues a placeholder of the size previously recorded for frame.
func (w *Writer) FakeWrite(frame int64, eyes media.Eyes) error {
	reelIdx, frameInReel, err := w.videoReel(frame)
	if err != nil {
		return err
	}
	info, err := w.reels[reelIdx].ReadFrameInfo(context.Background(), frameInReel, eyes)
	if err != nil {
		return services.Wrap(services.ErrValidation, "writer", "fake write",
			fmt.Sprintf("no recorded size for frame %d (%s)", frame, eyes), err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.waitQueueRoomLocked(); err != nil {
		return err
	}

	w.enqueueExpandedLocked(queueItem{
		kind:  ItemFake,
		reel:  reelIdx,
		frame: frameInReel,
		size:  info.Size,
	}, eyes)
	w.empty.Broadcast()
	return nil
}

// WriteReferencedAsset registers an externally-authored asset to carry into
// the manifest. Assets without a hash are digested at finalize.
func (w *Writer) WriteReferencedAsset(reelIndex int, a manifest.Asset) {
	a.External = true
	w.referenced = append(w.referenced, referencedAsset{reel: reelIndex, asset: a})
}

// waitQueueRoomLocked blocks while the queue is over its bound and the
// consumer can make progress. Waiting only while a sequenced item is at the
// head avoids deadlock when the consumer cannot proceed yet.
func (w *Writer) waitQueueRoomLocked() error {
	for w.consumerErr == nil && len(w.queue) > w.maxQueueSize && w.haveSequencedImageAtQueueHeadLocked() {
		w.empty.Broadcast()
		w.full.Wait()
	}
	return w.consumerErr
}

// enqueueExpandedLocked pushes the item, expanding a Both request into
// Left then Right at the same frame on a stereoscopic film.
func (w *Writer) enqueueExpandedLocked(qi queueItem, eyes media.Eyes) {
	if w.film.ThreeD && eyes == media.EyesBoth {
		qi.eyes = media.EyesLeft
		w.queue = append(w.queue, qi)
		qi.eyes = media.EyesRight
		w.queue = append(w.queue, qi)
		return
	}
	qi.eyes = eyes
	w.queue = append(w.queue, qi)
}

func (w *Writer) checkEyes(eyes media.Eyes) error {
	if w.film.ThreeD && eyes == media.EyesBoth {
		return services.Wrap(services.ErrValidation, "writer", "write", "stereoscopic film requires per-eye frames", nil)
	}
	if !w.film.ThreeD && eyes != media.EyesBoth {
		return services.Wrap(services.ErrValidation, "writer", "write", "flat film requires both-eye frames", nil)
	}
	return nil
}

// haveSequencedImageAtQueueHeadLocked sorts the queue and reports whether
// the front item is the contiguous successor of its reel's last write.
func (w *Writer) haveSequencedImageAtQueueHeadLocked() bool {
	if len(w.queue) == 0 {
		return false
	}
	sortQueue(w.queue)
	front := w.queue[0]
	return w.lastWritten[front.reel].next(front)
}

func (w *Writer) offloadPath(reelIdx int, frame int64, eyes media.Eyes) string {
	name := fmt.Sprintf("%03d_%08d_%s.j2c", reelIdx, frame, eyes)
	return filepath.Join(w.cfg.WorkDir, "video", name)
}

// QueuedFullInMemory reports the number of full payloads currently resident,
// for tests and status reporting.
func (w *Writer) QueuedFullInMemory() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queuedFullInMemory
}

// Reels exposes the reel writers for status reporting.
func (w *Writer) Reels() []*reel.Writer { return w.reels }
