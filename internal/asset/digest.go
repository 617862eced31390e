package asset

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"cinepress/internal/services"
)

// FileDigest computes the base64-encoded SHA-256 digest of the file at path,
// reporting fractional progress in [0,1] and honoring cooperative
// cancellation between chunks.
func FileDigest(ctx context.Context, path string, progress func(float64)) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for digest: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat for digest: %w", err)
	}
	total := info.Size()

	hash := sha256.New()
	buf := make([]byte, 1<<20)
	var done int64
	for {
		if err := ctx.Err(); err != nil {
			return "", services.Wrap(services.ErrInterrupted, "digest", "hash", path, err)
		}
		n, err := file.Read(buf)
		if n > 0 {
			hash.Write(buf[:n])
			done += int64(n)
			if progress != nil && total > 0 {
				progress(float64(done) / float64(total))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read for digest: %w", err)
		}
	}
	if progress != nil {
		progress(1)
	}
	return base64.StdEncoding.EncodeToString(hash.Sum(nil)), nil
}
