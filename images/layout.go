package images

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Layout identifies the byte order of the four 8-bit channels of a pixel.
type Layout int

const (
	// AlphaFirst stores pixels as {alpha, red, green, blue}.
	AlphaFirst Layout = iota
	// AlphaLast stores pixels as {red, green, blue, alpha}.
	AlphaLast
)

// Channel names one of the four channels of a pixel.
type Channel int

const (
	// Alpha is the opacity channel.
	Alpha Channel = iota
	// Red is the red color channel.
	Red
	// Green is the green color channel.
	Green
	// Blue is the blue color channel.
	Blue
)

// BytesPerPixel is the size of every pixel in both layouts.
const BytesPerPixel = 4

// channelOffsets maps each layout to the byte offset of every channel.
var channelOffsets = [...][BytesPerPixel]int{
	AlphaFirst: {Alpha: 0, Red: 1, Green: 2, Blue: 3},
	AlphaLast:  {Alpha: 3, Red: 0, Green: 1, Blue: 2},
}

// Offset returns the byte offset of the channel within a pixel.
//
// Arguments:
// - c: The channel to locate.
//
// Returns:
// - The offset in [0, 4).
//
// @example
// AlphaLast.Offset(Alpha) // 3
func (l Layout) Offset(c Channel) int {
	return channelOffsets[l][c]
}

// Valid reports whether l is one of the known layouts.
func (l Layout) Valid() bool {
	return l == AlphaFirst || l == AlphaLast
}

func (l Layout) String() string {
	switch l {
	case AlphaFirst:
		return "argb"
	case AlphaLast:
		return "rgba"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout converts a layout name ("argb", "alpha-first", "rgba", "alpha-last")
// into a Layout.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "argb", "alpha-first", "alpha_first":
		return AlphaFirst, nil
	case "rgba", "alpha-last", "alpha_last":
		return AlphaLast, nil
	default:
		return 0, errors.Wrapf(ErrUnknownLayout, "%q", s)
	}
}
