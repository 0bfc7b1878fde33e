// Package timeutil converts between millisecond integers and the
// MM:SS.mmm / MM:SS.cc textual forms used throughout LRC-family formats.
package timeutil

import "fmt"

// MsToFormatted renders ms as MM:SS.mmm (digits=3) or MM:SS.cc (digits=2).
// Negative values clamp to zero. Minutes are zero-padded to 2 digits but may
// exceed 99 for long tracks.
func MsToFormatted(ms, digits int) string {
	if ms < 0 {
		ms = 0
	}
	m := ms / 60000
	rem := ms % 60000
	s := rem / 1000
	frac := rem % 1000
	if digits == 2 {
		return fmt.Sprintf("%02d:%02d.%02d", m, s, frac/10)
	}
	return fmt.Sprintf("%02d:%02d.%03d", m, s, frac)
}

// MsToRounded is MsToFormatted with a 2-digit (centisecond) fraction.
func MsToRounded(ms int) string {
	return MsToFormatted(ms, 2)
}

// FormattedToMs converts parsed minute/second/fraction fields back to
// milliseconds. A 2-digit fraction is treated as centiseconds (×10); a
// 3-digit fraction is taken literally as milliseconds.
func FormattedToMs(m, s int, fracDigits string) int {
	frac := 0
	if fracDigits != "" {
		var v int
		fmt.Sscanf(fracDigits, "%d", &v)
		switch len(fracDigits) {
		case 2:
			frac = v * 10
		default:
			frac = v
		}
	}
	return m*60000 + s*1000 + frac
}
