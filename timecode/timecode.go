// Package timecode converts sample positions to human readable time.
//
// The exact grammar (field widths, separators, fractional precision) is
// dictated by the application importing the marker list, so it is modeled
// as data rather than a hardcoded format string.
package timecode

import (
	"fmt"
	"math"
)

// Grammar describes a timecode layout.
type Grammar struct {
	// Hours includes an hours field; without it minutes grow unbounded.
	Hours bool
	// FractionDigits is the number of fractional second digits.
	FractionDigits int
}

var (
	// Decimal is the HH:MM:SS.mmm grammar.
	Decimal = Grammar{Hours: true, FractionDigits: 3}
	// Audition is the MM:SS.mmm grammar Adobe Audition shows in its
	// markers panel, with minutes growing past 59.
	Audition = Grammar{Hours: false, FractionDigits: 3}
)

// Seconds converts a sample position to seconds at the given rate.
func Seconds(samples int64, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}

	return float64(samples) / float64(sampleRate)
}

// Format renders a sample position at the given rate. Negative positions
// clamp to zero.
func (g Grammar) Format(samples int64, sampleRate int) string {
	return g.FormatSeconds(Seconds(samples, sampleRate))
}

// FormatSeconds renders a duration in seconds. Negative values clamp to
// zero.
func (g Grammar) FormatSeconds(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	digits := g.FractionDigits
	if digits < 0 {
		digits = 0
	}

	// round to the printed precision first so 59.9995s doesn't render
	// as "59.1000"
	scale := math.Pow(10, float64(digits))
	total := math.Round(seconds*scale) / scale

	secs := math.Mod(total, 60)
	minutes := int64(total) / 60

	secWidth := 2
	if digits > 0 {
		secWidth = 3 + digits
	}

	if !g.Hours {
		return fmt.Sprintf("%02d:%0*.*f", minutes, secWidth, digits, secs)
	}

	hours := minutes / 60
	minutes %= 60

	return fmt.Sprintf("%02d:%02d:%0*.*f", hours, minutes, secWidth, digits, secs)
}
