// Package media holds the sample types that flow between producers, the
// writer, and the per-reel asset writers: stereoscopic eye tags, audio
// buffers, subtitle text, fonts, and immersive-audio frames.
package media
