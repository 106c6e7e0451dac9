package domain

import "math"

// Percent maps progress toward cap onto [0, 100], rounding half up.
// A non-positive cap always yields 0.
func Percent(progress, cap int) int {
	if cap <= 0 || progress <= 0 {
		return 0
	}
	p := int(math.Round(float64(progress) / float64(cap) * 100))
	if p > 100 {
		return 100
	}
	return p
}
