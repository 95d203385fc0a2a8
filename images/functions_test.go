package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 255.0, Clamp(300.5, 0, 255))
	assert.Equal(t, 0.0, Clamp(-10, 0, 255))
	assert.Equal(t, 12.5, Clamp(12.5, 0, 255))
}

func TestClampInt(t *testing.T) {
	testCases := []struct {
		name            string
		value, min, max int
		expected        int
	}{
		{name: "inside", value: 4, min: 0, max: 10, expected: 4},
		{name: "below", value: -3, min: 0, max: 10, expected: 0},
		{name: "at_max", value: 10, min: 0, max: 10, expected: 9},
		{name: "above", value: 42, min: 0, max: 10, expected: 9},
		{name: "column_band_low", value: -13, min: 3, max: 13, expected: 3},
		{name: "column_band_high", value: 19, min: 3, max: 13, expected: 12},
		// Inverted band: below min wins first, everything else folds to max-1.
		{name: "inverted_below", value: -1, min: 3, max: 1, expected: 3},
		{name: "inverted_inside", value: 3, min: 3, max: 1, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClampInt(tc.value, tc.min, tc.max))
		})
	}
}

func TestClampUint8(t *testing.T) {
	assert.Equal(t, uint8(255), ClampUint8(254.9999999))
	assert.Equal(t, uint8(255), ClampUint8(1e9))
	assert.Equal(t, uint8(0), ClampUint8(-4))
	assert.Equal(t, uint8(96), ClampUint8(96.27))
	assert.Equal(t, uint8(97), ClampUint8(96.5))
}
