// Package progress maps between normalized positions and token indices.
package progress

import "math"

// FractionToIndex returns the token index nearest to position f (0.0-1.0)
// in a sequence of n tokens. Out-of-range and NaN fractions are clamped.
func FractionToIndex(f float64, n int) int {
	if n <= 0 {
		return 0
	}
	if math.IsNaN(f) || f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return ClampIndex(int(math.Round(f*float64(n-1))), n)
}

// IndexToFraction returns the normalized position of index i in a sequence of n tokens.
func IndexToFraction(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(ClampIndex(i, n)) / float64(n-1)
}

// ClampIndex limits i to [0, n-1]. It returns 0 for an empty sequence.
func ClampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
