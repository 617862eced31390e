package writer

import (
	"context"
	"sync"

	"cinepress/internal/asset"
	"cinepress/internal/logging"
)

// calculateDigests hashes every finished asset using the configured number of
// worker threads, one job per reel plus one for referenced assets. Overall
// progress is the minimum across jobs, since the package is only as done as
// its slowest asset.
func (w *Writer) calculateDigests(ctx context.Context) error {
	type job struct {
		id  int
		run func(ctx context.Context, progress func(float64)) error
	}

	var jobs []job
	for i, r := range w.reels {
		r := r
		jobs = append(jobs, job{
			id: i,
			run: func(ctx context.Context, progress func(float64)) error {
				return r.CalculateDigests(ctx, progress)
			},
		})
	}
	if len(w.referenced) > 0 {
		jobs = append(jobs, job{id: len(w.reels), run: w.digestReferenced})
	}

	w.digestMu.Lock()
	w.digestSampler.Reset()
	for _, j := range jobs {
		w.digestProgress[j.id] = 0
	}
	w.digestMu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	threads := w.cfg.Encoding.Threads
	if threads < 1 {
		threads = 1
	}
	sem := make(chan struct{}, threads)

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			err := j.run(ctx, func(p float64) { w.setDigestProgress(j.id, p) })
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				errMu.Unlock()
			}
		}(j)
	}
	wg.Wait()

	if firstErr != nil {
		w.logger.Error("digest calculation stopped", logging.Error(firstErr))
		return firstErr
	}
	return nil
}

// digestReferenced fills in hashes for referenced assets that arrived
// without one.
func (w *Writer) digestReferenced(ctx context.Context, progress func(float64)) error {
	pending := 0
	for i := range w.referenced {
		if w.referenced[i].asset.Hash == "" {
			pending++
		}
	}
	if pending == 0 {
		progress(1)
		return nil
	}

	done := 0
	for i := range w.referenced {
		ra := &w.referenced[i]
		if ra.asset.Hash != "" {
			continue
		}
		base := float64(done) / float64(pending)
		scale := 1 / float64(pending)
		digest, err := asset.FileDigest(ctx, ra.asset.Path, func(p float64) {
			progress(base + p*scale)
		})
		if err != nil {
			return err
		}
		ra.asset.Hash = digest
		done++
	}
	progress(1)
	return nil
}

// setDigestProgress records one job's progress and reports the minimum
// across all jobs, sampled to keep the log quiet.
func (w *Writer) setDigestProgress(id int, p float64) {
	w.digestMu.Lock()
	w.digestProgress[id] = p
	overall := 1.0
	for _, v := range w.digestProgress {
		if v < overall {
			overall = v
		}
	}
	shouldLog := w.digestSampler.ShouldLog(overall)
	w.digestMu.Unlock()

	if w.progress != nil {
		w.progress(overall)
	}
	if shouldLog {
		w.logger.Info("computing digests", logging.Float64(logging.FieldProgress, overall))
	}
}
