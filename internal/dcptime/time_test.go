package dcptime_test

import (
	"testing"

	"cinepress/internal/dcptime"
)

func TestFromFramesRoundTrip(t *testing.T) {
	for _, rate := range []int{24, 25, 30, 48, 60} {
		for _, frames := range []int64{0, 1, 23, 24, 1000, 86400} {
			tm := dcptime.FromFrames(frames, rate)
			if got := tm.FramesRound(rate); got != frames {
				t.Fatalf("rate %d frames %d: round-trip gave %d", rate, frames, got)
			}
		}
	}
}

func TestFramesCeilFloor(t *testing.T) {
	// One and a half frames at 24 fps.
	tm := dcptime.FromFrames(3, 48)
	if got := tm.FramesFloor(24); got != 1 {
		t.Fatalf("FramesFloor: got %d want 1", got)
	}
	if got := tm.FramesCeil(24); got != 2 {
		t.Fatalf("FramesCeil: got %d want 2", got)
	}
}

func TestSplit(t *testing.T) {
	cases := []struct {
		seconds int64
		want    dcptime.HMSF
	}{
		{30, dcptime.HMSF{S: 30}},
		{90, dcptime.HMSF{M: 1, S: 30}},
		{3661, dcptime.HMSF{H: 1, M: 1, S: 1}},
	}
	for _, tc := range cases {
		got := dcptime.FromSeconds(tc.seconds).Split(24)
		if got != tc.want {
			t.Fatalf("Split(%ds): got %+v want %+v", tc.seconds, got, tc.want)
		}
	}
}

func TestPeriodOverlap(t *testing.T) {
	a := dcptime.NewPeriod(0, 100)
	b := dcptime.NewPeriod(50, 150)
	overlap, ok := a.Overlap(b)
	if !ok {
		t.Fatal("expected overlap")
	}
	if overlap.From != 50 || overlap.To != 100 {
		t.Fatalf("unexpected overlap: %v", overlap)
	}

	c := dcptime.NewPeriod(100, 200)
	if _, ok := a.Overlap(c); ok {
		t.Fatal("half-open periods touching at a point must not overlap")
	}
}

func TestPeriodContains(t *testing.T) {
	p := dcptime.NewPeriod(10, 20)
	if p.Contains(9) || !p.Contains(10) || !p.Contains(19) || p.Contains(20) {
		t.Fatalf("Contains misbehaves on boundaries")
	}
}
