package scheduling

import "math"

// ToUTCHour converts a local hour-of-day to its UTC equivalent given a signed
// UTC offset in hours. Fractional offsets (e.g. +5.5 for IST) are supported.
// dayShift is -1, 0 or +1 when the conversion crosses a midnight boundary.
// Availability comparisons across participants must always run on the UTC
// values, never on raw local hours.
func ToUTCHour(localHour, offsetHours float64) (utcHour float64, dayShift int) {
	utcHour = localHour - offsetHours

	for utcHour < 0 {
		utcHour += 24
		dayShift--
	}
	for utcHour >= 24 {
		utcHour -= 24
		dayShift++
	}

	// Guard against float drift on fractional offsets: snap to the nearest
	// minute so set membership comparisons stay exact.
	utcHour = math.Round(utcHour*60) / 60
	if utcHour == 24 {
		utcHour = 0
		dayShift++
	}
	return utcHour, dayShift
}

// FromUTCHour is the inverse conversion, used when rendering a UTC grid back
// into a participant's local clock.
func FromUTCHour(utcHour, offsetHours float64) (localHour float64, dayShift int) {
	return ToUTCHour(utcHour, -offsetHours)
}
