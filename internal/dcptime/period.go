package dcptime

import "fmt"

// Period is a half-open interval [From, To) on the DCP timeline.
type Period struct {
	From Time
	To   Time
}

// NewPeriod builds a period from two times.
func NewPeriod(from, to Time) Period {
	return Period{From: from, To: to}
}

// Duration returns the length of the period.
func (p Period) Duration() Time {
	return p.To - p.From
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t Time) bool {
	return p.From <= t && t < p.To
}

// Overlap returns the intersection of p and other, or false when the two
// periods do not overlap.
func (p Period) Overlap(other Period) (Period, bool) {
	from := maxTime(p.From, other.From)
	to := minTime(p.To, other.To)
	if from >= to {
		return Period{}, false
	}
	return Period{From: from, To: to}, true
}

func (p Period) String() string {
	return fmt.Sprintf("[%s, %s)", p.From, p.To)
}

func maxTime(a, b Time) Time {
	if a > b {
		return a
	}
	return b
}

func minTime(a, b Time) Time {
	if a < b {
		return a
	}
	return b
}
