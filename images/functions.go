// Package images provides the pixel-buffer model shared by the filters: channel
// layouts, owned buffers, allocators, numeric helpers and conversion to and
// from the standard library image types.
package images

// Clamp restricts a value to the specified range [min, max].
//
// Arguments:
// - value: The value to clamp.
// - min: Minimum allowed value.
// - max: Maximum allowed value.
//
// Returns:
// - The clamped value within [min, max].
//
// @example
// clamped := Clamp(300.5, 0, 255) // Returns 255
// clamped := Clamp(-10.0, 0, 255) // Returns 0
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampInt restricts an index to [min, max). Values below min become min and
// values at or above max become max-1, so the result can be used directly to
// index a slice of length max.
//
// When min > max-1 the lower bound wins for values below min and the upper
// bound for everything else; callers pass bounds that are both valid indices.
//
// @example
// ClampInt(-3, 0, 10) // 0
// ClampInt(10, 0, 10) // 9
func ClampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value >= max {
		return max - 1
	}
	return value
}

// ClampUint8 rounds a channel sum to the nearest byte value.
func ClampUint8(v float64) uint8 {
	return uint8(Clamp(v, 0, 255) + 0.5)
}
