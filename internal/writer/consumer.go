package writer

import (
	"context"
	"os"

	"cinepress/internal/fileutil"
	"cinepress/internal/logging"
	"cinepress/internal/services"
)

// run is the single consumer goroutine. It wakes when finishing is
// requested, when memory pressure exceeds the bound, or when a sequenced
// item is ready; it drains contiguous runs into the reel writers and
// offloads payloads to disk while still over the memory threshold.
func (w *Writer) run() {
	defer close(w.done)

	w.mu.Lock()
	defer w.mu.Unlock()

	for {
		for !(w.finishing || w.queuedFullInMemory > w.maxFramesInMemory || w.haveSequencedImageAtQueueHeadLocked()) {
			w.empty.Wait()
		}

		// Stop when asked to finish and either the queue is empty or its
		// head is not sequenced; no new frames will arrive to unblock it.
		if w.finishing && (len(w.queue) == 0 || !w.haveSequencedImageAtQueueHeadLocked()) {
			w.logLeftoversLocked()
			return
		}

		// Write whatever is in sequence.
		for w.haveSequencedImageAtQueueHeadLocked() {
			qi := w.queue[0]
			w.lastWritten[qi.reel].update(qi)
			w.queue = w.queue[1:]
			if qi.kind == ItemFull && qi.payload != nil {
				w.queuedFullInMemory--
			}

			w.mu.Unlock()
			err := w.dispatch(qi)
			w.mu.Lock()

			if err != nil {
				w.failLocked(err)
				return
			}
			w.full.Broadcast()
		}

		// Still over the memory threshold: push full payloads to disk,
		// highest ordering first, so the frames needed soonest stay
		// resident.
		for w.queuedFullInMemory > w.maxFramesInMemory {
			sortQueue(w.queue)
			idx := -1
			for i := len(w.queue) - 1; i >= 0; i-- {
				if w.queue[i].kind == ItemFull && w.queue[i].payload != nil {
					idx = i
					break
				}
			}
			if idx < 0 {
				w.failLocked(services.Wrap(services.ErrOrdering, "writer", "offload",
					"over memory threshold with no offloadable payload", nil))
				return
			}

			item := w.queue[idx]
			awaiting := w.lastWritten[w.queue[0].reel].frame + 1
			w.mu.Unlock()

			w.logger.Debug("writer full; pushing frame to disk",
				logging.Int(logging.FieldReel, item.reel),
				logging.Int64(logging.FieldFrame, item.frame),
				logging.Int64("awaiting", awaiting))

			path := w.offloadPath(item.reel, item.frame, item.eyes)
			err := fileutil.WriteViaTemp(path, item.payload)
			if err == nil {
				err = w.store.PutOffload(context.Background(), item.reel, item.frame, item.eyes, path)
			}

			w.mu.Lock()
			if err != nil {
				w.failLocked(services.Wrap(services.ErrIO, "writer", "offload", path, err))
				return
			}
			// Producers may have appended while unlocked; find the item
			// again by key before dropping its payload.
			for i := range w.queue {
				q := &w.queue[i]
				if q.kind == ItemFull && q.reel == item.reel && q.frame == item.frame && q.eyes == item.eyes {
					q.payload = nil
					break
				}
			}
			w.pushedToDisk++
			w.queuedFullInMemory--
			w.full.Broadcast()
		}
	}
}

// dispatch writes one dequeued item to its reel. Called without the lock.
func (w *Writer) dispatch(qi queueItem) error {
	ctx := context.Background()
	r := w.reels[qi.reel]

	switch qi.kind {
	case ItemFull:
		payload := qi.payload
		if payload == nil {
			// The payload was offloaded under memory pressure; reload it.
			path := w.offloadPath(qi.reel, qi.frame, qi.eyes)
			loaded, err := os.ReadFile(path)
			if err != nil {
				return services.Wrap(services.ErrIO, "writer", "reload offloaded frame", path, err)
			}
			payload = loaded
			_ = w.store.DeleteOffload(ctx, qi.reel, qi.frame, qi.eyes)
			_ = os.Remove(path)
		}
		if err := r.Write(ctx, payload, qi.frame, qi.eyes); err != nil {
			return err
		}
		w.fullWritten++
	case ItemFake:
		if err := r.FakeWrite(qi.size, qi.eyes); err != nil {
			return err
		}
		w.fakeWritten++
	case ItemRepeat:
		if err := r.RepeatWrite(ctx, qi.frame, qi.eyes); err != nil {
			return err
		}
		w.repeatWritten++
	}
	return nil
}

// failLocked records the consumer error and wakes every blocked producer.
func (w *Writer) failLocked(err error) {
	if w.consumerErr == nil {
		w.consumerErr = err
	}
	w.logger.Error("writer thread stopped", logging.Error(err))
	w.full.Broadcast()
	w.empty.Broadcast()
}

// logLeftoversLocked reports any non-contiguous items abandoned at finish.
// Producers are required to deliver every frame exactly once before
// requesting finish; anything left here is lost, not written.
func (w *Writer) logLeftoversLocked() {
	if len(w.queue) == 0 {
		return
	}
	w.logger.Warn("finishing writer with a left-over queue",
		logging.Int(logging.FieldQueue, len(w.queue)))
	for _, qi := range w.queue {
		w.logger.Warn("dropping unwritten item",
			logging.String(logging.FieldKind, qi.kind.String()),
			logging.Int(logging.FieldReel, qi.reel),
			logging.Int64(logging.FieldFrame, qi.frame),
			logging.String(logging.FieldEyes, qi.eyes.String()),
			logging.Int64("size", qi.size))
	}
	w.queue = nil
}
