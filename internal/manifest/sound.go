package manifest

import (
	"fmt"
	"strings"
)

// Sound fields recognized by the composition playlist.
const (
	FieldStereo        = "ST"
	FieldFivePointOne  = "51"
	FieldSevenPointOne = "71"
)

// channelNames is the DCP channel order for the first sixteen channels.
var channelNames = []string{
	"L", "R", "C", "LFE", "Ls", "Rs", "HI", "VIN",
	"-", "-", "Lc", "Rc", "Lrs", "Rrs", "DBOX", "SLVS",
}

// SoundField selects the sound field label from the channel count:
// 2 channels is stereo, up to 6 is 5.1, anything more is 7.1.
func SoundField(channels int) string {
	switch {
	case channels == 2:
		return FieldStereo
	case channels <= 6:
		return FieldFivePointOne
	default:
		return FieldSevenPointOne
	}
}

// MainSoundConfiguration builds the configuration string for the given
// channel count with the mapped channels named and the rest dashed out.
// Mapped indices outside [0, channels) are ignored.
func MainSoundConfiguration(channels int, mapped []int) string {
	active := make([]bool, channels)
	for _, ch := range mapped {
		if ch >= 0 && ch < channels {
			active[ch] = true
		}
	}
	labels := make([]string, channels)
	for i := range labels {
		if active[i] && i < len(channelNames) {
			labels[i] = channelNames[i]
		} else {
			labels[i] = "-"
		}
	}
	return fmt.Sprintf("%s/%s", SoundField(channels), strings.Join(labels, ","))
}
