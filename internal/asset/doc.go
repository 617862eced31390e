// Package asset implements the on-disk writers for one reel's assets:
// picture, sound, subtitle/caption text, and immersive audio.
//
// Each writer accepts strictly in-order writes from a single goroutine; the
// ordering guarantees are enforced upstream by the package writer. Every
// asset carries a urn:uuid identifier and can compute a content digest over
// its final bytes.
package asset
