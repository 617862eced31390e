package dcptime

import "fmt"

// TicksPerSecond is the resolution of the DCP timeline. 96000 is divisible
// by every supported video frame rate and audio sample rate factor.
const TicksPerSecond = 96000

// Time is a position on the DCP timeline in ticks.
type Time int64

// FromFrames converts a frame count at the given rate to a Time.
func FromFrames(frames int64, rate int) Time {
	return Time(frames * TicksPerSecond / int64(rate))
}

// FromSeconds converts whole seconds to a Time.
func FromSeconds(seconds int64) Time {
	return Time(seconds * TicksPerSecond)
}

// FramesRound converts t to a frame count at the given rate, rounding to
// nearest.
func (t Time) FramesRound(rate int) int64 {
	r := int64(rate)
	x := int64(t)*r + TicksPerSecond/2
	return floorDiv(x, TicksPerSecond)
}

// FramesFloor converts t to a frame count at the given rate, rounding down.
func (t Time) FramesFloor(rate int) int64 {
	return floorDiv(int64(t)*int64(rate), TicksPerSecond)
}

// FramesCeil converts t to a frame count at the given rate, rounding up.
func (t Time) FramesCeil(rate int) int64 {
	return ceilDiv(int64(t)*int64(rate), TicksPerSecond)
}

// Seconds returns t as floating-point seconds.
func (t Time) Seconds() float64 {
	return float64(t) / TicksPerSecond
}

// HMSF is a time split into hours, minutes, seconds and leftover frames.
type HMSF struct {
	H, M, S, F int
}

// Split breaks t into hours, minutes, seconds and frames at the given video
// frame rate.
func (t Time) Split(rate int) HMSF {
	frames := t.FramesRound(rate)
	var out HMSF
	out.F = int(frames % int64(rate))
	seconds := frames / int64(rate)
	out.S = int(seconds % 60)
	minutes := seconds / 60
	out.M = int(minutes % 60)
	out.H = int(minutes / 60)
	return out
}

func (t Time) String() string {
	return fmt.Sprintf("%dt(%.3fs)", int64(t), t.Seconds())
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}
