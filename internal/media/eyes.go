package media

// Eyes tags a video frame with its stereoscopic target.
type Eyes int

const (
	EyesBoth Eyes = iota
	EyesLeft
	EyesRight
)

func (e Eyes) String() string {
	switch e {
	case EyesBoth:
		return "both"
	case EyesLeft:
		return "left"
	case EyesRight:
		return "right"
	default:
		return "unknown"
	}
}

// Rank orders eyes within one frame index: Both < Left < Right.
func (e Eyes) Rank() int {
	return int(e)
}
