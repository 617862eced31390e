package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"cinepress/internal/fileutil"
	"cinepress/internal/film"
	"cinepress/internal/logging"
	"cinepress/internal/manifest"
	"cinepress/internal/services"
)

// Finish drains the consumer, finalizes every reel into outputDir, computes
// content digests, and writes the signed composition playlist and the cover
// sheet. Any items still unordered in the queue at this point are dropped
// and logged; producers are expected to have delivered every frame.
func (w *Writer) Finish(ctx context.Context, outputDir string) error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return services.Wrap(services.ErrValidation, "writer", "finish", "writer was never started", nil)
	}
	w.finishing = true
	w.empty.Broadcast()
	w.mu.Unlock()

	<-w.done

	w.mu.Lock()
	consumerErr := w.consumerErr
	w.mu.Unlock()
	if consumerErr != nil {
		return consumerErr
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return services.Wrap(services.ErrIO, "writer", "finish", outputDir, err)
	}

	for i := range w.reels {
		if err := w.writeHanging(i); err != nil {
			return err
		}
		if err := w.reels[i].Finish(outputDir); err != nil {
			return err
		}
	}

	if err := w.calculateDigests(ctx); err != nil {
		return err
	}

	cplPath, err := w.writeCPL(outputDir)
	if err != nil {
		return err
	}

	w.logger.Info("writer finished",
		logging.Int("full", w.fullWritten),
		logging.Int("fake", w.fakeWritten),
		logging.Int("repeat", w.repeatWritten),
		logging.Int("pushed_to_disk", w.pushedToDisk))

	if w.cfg.CoverSheet != "" {
		if err := w.writeCoverSheet(outputDir, cplPath); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeCPL(outputDir string) (string, error) {
	standard := "SMPTE"
	if w.film.Standard == film.Interop {
		standard = "Interop"
	}
	cpl := manifest.New(w.film.Name, string(w.film.ContentKind), standard)

	cpl.Issuer = w.cfg.Signing.Issuer
	if cpl.Issuer == "" {
		cpl.Issuer = "cinepress"
	}
	cpl.Creator = w.cfg.Signing.Creator
	if cpl.Creator == "" {
		cpl.Creator = "cinepress"
	}
	cpl.ContentTitleLanguage = w.film.NameLanguage

	cpl.ContentVersions = w.film.ContentVersions
	if len(cpl.ContentVersions) == 0 {
		cpl.ContentVersions = []string{"1"}
	}
	for _, r := range w.film.Ratings {
		cpl.Ratings = append(cpl.Ratings, manifest.Rating{Agency: r.Agency, Label: r.Label})
	}

	if w.film.AudioChannels > 0 {
		cpl.MainSoundConfiguration = manifest.MainSoundConfiguration(w.film.AudioChannels, w.film.MappedChannels)
		cpl.MainSoundSampleRate = w.film.AudioFrameRate
	}

	cpl.MainPictureStoredArea = manifest.Area{
		Width:  w.film.StoredArea.Width,
		Height: w.film.StoredArea.Height,
	}
	if w.film.ActiveArea.Width > 0 && w.film.ActiveArea.Height > 0 {
		// Active area dimensions must be even.
		cpl.MainPictureActiveArea = &manifest.Area{
			Width:  w.film.ActiveArea.Width &^ 1,
			Height: w.film.ActiveArea.Height &^ 1,
		}
	}

	cpl.ReleaseTerritory = w.film.ReleaseTerritory
	cpl.VersionNumber = w.film.VersionNumber
	cpl.Status = w.film.Status
	cpl.Chain = w.film.Chain
	cpl.Distributor = w.film.Distributor
	cpl.Facility = w.film.Facility
	if w.film.Luminance != nil {
		cpl.Luminance = fmt.Sprintf("%.1f %s", w.film.Luminance.Value, w.film.Luminance.Unit)
	}
	cpl.SignLanguageVideoLanguage = w.film.SignLanguageVideo
	cpl.AdditionalSubtitleLanguages = w.film.AdditionalSubtitleLanguages

	for i, r := range w.reels {
		reel := manifest.Reel{ID: r.ID()}
		for _, a := range r.Assets() {
			reel.Assets = append(reel.Assets, manifest.Asset{
				ID:     a.ID,
				Kind:   a.Kind,
				Path:   a.Path,
				Frames: a.Frames,
				Size:   a.Size,
				Hash:   a.Hash,
			})
		}
		for _, ra := range w.referenced {
			if ra.reel == i {
				reel.Assets = append(reel.Assets, ra.asset)
			}
		}
		cpl.Reels = append(cpl.Reels, reel)
	}

	// The signer was checked at construction, but certificates can expire
	// during a long write.
	if err := w.signer.Valid(); err != nil {
		return "", err
	}
	return cpl.WriteSigned(outputDir, w.signer)
}

// writeCoverSheet expands the configured cover sheet template and writes it
// next to the package.
func (w *Writer) writeCoverSheet(outputDir, cplPath string) error {
	text := w.cfg.CoverSheet
	text = strings.ReplaceAll(text, "$CPL_NAME", w.film.Name)
	text = strings.ReplaceAll(text, "$CPL_FILENAME", filepath.Base(cplPath))
	text = strings.ReplaceAll(text, "$TYPE", w.film.ContentKind.PrettyName())
	text = strings.ReplaceAll(text, "$CONTAINER", w.film.Container)
	text = strings.ReplaceAll(text, "$AUDIO_LANGUAGE", languageDisplayName(w.film.AudioLanguage))
	text = strings.ReplaceAll(text, "$SUBTITLE_LANGUAGE", languageDisplayName(w.film.SubtitleLanguage))

	size, err := fileutil.TreeSize(outputDir)
	if err != nil {
		return services.Wrap(services.ErrIO, "writer", "cover sheet", outputDir, err)
	}
	var sizeText string
	if size > 1e9 {
		sizeText = fmt.Sprintf("%.1fGB", float64(size)/1e9)
	} else {
		sizeText = fmt.Sprintf("%.1fMB", float64(size)/1e6)
	}
	text = strings.ReplaceAll(text, "$SIZE", sizeText)

	full, lfe := w.film.ChannelCounts()
	var audio string
	switch {
	case full == 0 && lfe == 0:
		audio = "None"
	case full == 1 && lfe == 0:
		audio = "Mono"
	case full == 2 && lfe == 0:
		audio = "Stereo"
	default:
		audio = fmt.Sprintf("%d.%d", full, lfe)
	}
	text = strings.ReplaceAll(text, "$AUDIO", audio)

	hmsf := w.film.Length().Split(w.film.VideoFrameRate)
	var length string
	switch {
	case hmsf.H == 0 && hmsf.M == 0:
		length = fmt.Sprintf("%ds", hmsf.S)
	case hmsf.H == 0:
		length = fmt.Sprintf("%dm%ds", hmsf.M, hmsf.S)
	default:
		length = fmt.Sprintf("%dh%dm%ds", hmsf.H, hmsf.M, hmsf.S)
	}
	text = strings.ReplaceAll(text, "$LENGTH", length)

	return fileutil.WriteViaTemp(filepath.Join(outputDir, "COVER_SHEET.txt"), []byte(text))
}

// languageDisplayName renders an RFC 5646 code as an English language name
// for the cover sheet, or "None" when no language is set.
func languageDisplayName(code string) string {
	if code == "" {
		return "None"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}
