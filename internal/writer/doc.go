// Package writer is the package writer: it enforces global write ordering
// across concurrent encoding producers, bounds the number of full frames
// resident in memory by blocking producers and offloading payloads to disk,
// splits continuous audio and text streams across reel boundaries, and
// finalizes the package with content digests and a signed manifest.
//
// Producers call Write, Repeat, and FakeWrite concurrently and out of order;
// a single consumer goroutine drains contiguous runs into the reel writers.
// WriteAudio, WriteText, and WriteAtmos are single-caller and advance
// per-stream reel cursors directly. All blocking is a single shared mutex
// with two wait conditions: "work or pressure exists" and "resources freed".
package writer
