package speech

import "math/rand"

// Voices is the fixed set of voice identifiers the synthesis vendor accepts.
var Voices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

func ValidVoice(v string) bool {
	for _, known := range Voices {
		if v == known {
			return true
		}
	}
	return false
}

// RandomVoice picks a voice for sessions that started without one.
func RandomVoice() string {
	return Voices[rand.Intn(len(Voices))]
}
