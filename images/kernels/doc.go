// Package kernels implements the separable convolution filters: Blur, which
// convolves all four channels of an alpha-first surface, and Shadow, which
// convolves the alpha bytes of an alpha-last surface and clears its color.
//
// Both filters run a horizontal pass from input into output followed by an
// in-place vertical pass on output. Kernels are generated per call.
package kernels
