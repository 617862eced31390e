package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"cinepress/internal/config"
	"cinepress/internal/film"
	"cinepress/internal/frameindex"
	"cinepress/internal/logging"
	"cinepress/internal/media"
	"cinepress/internal/preflight"
	"cinepress/internal/reel"
	"cinepress/internal/signing"
	"cinepress/internal/writer"
)

func newPackCommand(cctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "pack <job.toml>",
		Short: "Assemble a package from a job description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			return runPack(cmd, cfg, args[0], outputDir)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for the finished package")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runPack(cmd *cobra.Command, cfg *config.Config, jobPath, outputDir string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	j, err := loadJob(jobPath)
	if err != nil {
		return err
	}
	f, err := j.film()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := preflight.Err(preflight.RunAll(cfg, outputDir)); err != nil {
		return err
	}
	lock, err := preflight.AcquireLock(outputDir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	var signer *signing.Signer
	if cfg.Signing.CertificatePath != "" {
		signer, err = signing.Load(cfg.Signing.CertificatePath, cfg.Signing.KeyPath)
	} else {
		logger.Warn("no signing certificate configured; using a self-signed identity")
		signer, err = signing.GenerateSelfSigned("cinepress")
	}
	if err != nil {
		return err
	}

	store, err := frameindex.Open(filepath.Join(cfg.WorkDir, "frames.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	w, err := writer.New(f, cfg, signer, store, logger, nil)
	if err != nil {
		return err
	}
	w.Start()

	if err := writeVideo(ctx, w, f, cfg, j); err != nil {
		return err
	}
	if err := writeAudio(w, f, j); err != nil {
		return err
	}
	if err := writeSubtitles(w, j); err != nil {
		return err
	}

	if err := w.Finish(ctx, outputDir); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderReelSummary(w.Reels()))
	return nil
}

type frameSource struct {
	path  string
	frame int64
	eyes  media.Eyes
}

// writeVideo feeds pre-encoded frames to the writer with one producer per
// encoding thread. Frames are dealt round-robin, so they reach the writer
// out of order the same way live encoders deliver them.
func writeVideo(ctx context.Context, w *writer.Writer, f *film.Film, cfg *config.Config, j *job) error {
	if j.Sources.FramesDir == "" {
		return nil
	}
	frames, err := listFrameFiles(j.Sources.FramesDir, f.ThreeD)
	if err != nil {
		return err
	}

	threads := cfg.Encoding.Threads
	errs := make(chan error, threads)
	var wg sync.WaitGroup
	for k := 0; k < threads; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			for i := k; i < len(frames); i += threads {
				if err := ctx.Err(); err != nil {
					errs <- err
					return
				}
				src := frames[i]
				payload, err := os.ReadFile(src.path)
				if err != nil {
					errs <- fmt.Errorf("read frame %s: %w", src.path, err)
					return
				}
				if err := w.Write(payload, src.frame, src.eyes); err != nil {
					errs <- err
					return
				}
			}
		}(k)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// listFrameFiles maps the directory contents to frame indexes by name order.
// Stereoscopic sources carry a _L or _R suffix before the extension.
func listFrameFiles(dir string, threeD bool) ([]frameSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frames directory: %w", err)
	}

	var out []frameSource
	if !threeD {
		var frame int64
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			out = append(out, frameSource{
				path:  filepath.Join(dir, e.Name()),
				frame: frame,
				eyes:  media.EyesBoth,
			})
			frame++
		}
		return out, nil
	}

	var left, right int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		switch {
		case strings.HasSuffix(base, "_L"):
			out = append(out, frameSource{path: filepath.Join(dir, e.Name()), frame: left, eyes: media.EyesLeft})
			left++
		case strings.HasSuffix(base, "_R"):
			out = append(out, frameSource{path: filepath.Join(dir, e.Name()), frame: right, eyes: media.EyesRight})
			right++
		default:
			return nil, fmt.Errorf("stereoscopic frame %s has no _L or _R suffix", e.Name())
		}
	}
	if left != right {
		return nil, fmt.Errorf("unbalanced eyes: %d left frames, %d right frames", left, right)
	}
	return out, nil
}

func renderReelSummary(reels []*reel.Writer) string {
	headers := []string{"Reel", "Period", "Frames", "Size", "Digest"}
	rows := make([][]string, 0, len(reels))
	for _, r := range reels {
		var size int64
		digest := ""
		for _, a := range r.Assets() {
			size += a.Size
			if a.Kind == "picture" {
				digest = a.Hash
			}
		}
		if len(digest) > 8 {
			digest = digest[:8]
		}
		p := r.Period()
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Index()),
			fmt.Sprintf("%.1fs-%.1fs", p.From.Seconds(), p.To.Seconds()),
			fmt.Sprintf("%d", r.FramesWritten()),
			formatSize(size),
			digest,
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft})
}

func formatSize(size int64) string {
	if size > 1e9 {
		return fmt.Sprintf("%.1fGB", float64(size)/1e9)
	}
	return fmt.Sprintf("%.1fMB", float64(size)/1e6)
}
