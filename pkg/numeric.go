package pkg

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumberOrZero parses user-entered numeric input (weights, amounts).
// Anything that is not a finite number becomes 0, it is never rejected.
func ParseNumberOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseIntOrZero is like ParseNumberOrZero, for reps and set numbers.
// Fractional input is truncated, values outside the int range become 0.
func ParseIntOrZero(s string) int {
	v := ParseNumberOrZero(s)
	if v < float64(math.MinInt) || v >= -float64(math.MinInt) {
		return 0
	}
	return int(v)
}

// RoundTo rounds v to the given number of decimals, halves away from zero.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
