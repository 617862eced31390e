// Package dcptime models positions and periods on the DCP timeline.
//
// Times are integer ticks at 96 kHz, which divides every frame and audio
// sample rate the packager accepts, so conversions between frames, samples,
// and seconds stay exact. Periods are half-open intervals [From, To).
package dcptime
