package kernels

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

const (
	// MaxRadius is the largest radius accepted by the filters.
	MaxRadius = 65535
	// MaxDiameter is the largest kernel generated.
	MaxDiameter = 2 * MaxRadius
)

// GenerateLinearKernel creates a 1D kernel of diameter weights for separable
// filtering. The weights are normalized to sum to 1.0 so the blur doesn't
// change image brightness.
//
// The Gaussian is centred on mean = diameter/2, so kernel[k] == kernel[2*mean-k]
// for every k in [1, diameter). Index 0 has no mirror.
//
// Arguments:
// - diameter: Number of weights, 2*radius for the filters (> 0).
// - sigma: Standard deviation of the Gaussian (!= 0). Ignored by FormulaBox.
// - formula: How the weights are computed.
//
// Returns:
// - A normalized kernel of length diameter.
// - ErrInvalidRadius if diameter <= 0 or sigma == 0.
// - ErrAllocation if diameter > MaxDiameter.
//
// @example
// kernel, err := GenerateLinearKernel(2*radius, float64(radius), FormulaReference)
func GenerateLinearKernel(diameter int, sigma float64, formula KernelFormula) ([]float64, error) {
	if err := checkKernel(diameter, sigma == 0); err != nil {
		return nil, err
	}
	kernel := make([]float64, diameter)

	if formula == FormulaBox {
		w := 1.0 / float64(diameter)
		for i := range kernel {
			kernel[i] = w
		}
		return kernel, nil
	}

	// Integer halving, as for the centre of the second axis below.
	mean := float64(diameter / 2)
	var residual float64
	if formula == FormulaReference {
		d := (float64(diameter/2) - mean) / sigma
		residual = d * d
	}
	norm := 2 * math.Pi * sigma * sigma

	sum := 0.0
	for x := range kernel {
		d := (float64(x) - mean) / sigma
		kernel[x] = math.Exp(-0.5*(d*d+residual)) / norm
		sum += kernel[x]
	}
	if sum == 0 || math.IsInf(sum, 0) || math.IsNaN(sum) {
		return nil, errors.Wrapf(ErrInvalidRadius, "degenerate kernel for sigma %g", sigma)
	}

	for x := range kernel {
		kernel[x] /= sum
	}
	return kernel, nil
}

// GenerateLinearKernel32 is GenerateLinearKernel evaluated in float32.
func GenerateLinearKernel32(diameter int, sigma float32, formula KernelFormula) ([]float32, error) {
	if err := checkKernel(diameter, sigma == 0); err != nil {
		return nil, err
	}
	kernel := make([]float32, diameter)

	if formula == FormulaBox {
		w := 1 / float32(diameter)
		for i := range kernel {
			kernel[i] = w
		}
		return kernel, nil
	}

	mean := float32(diameter / 2)
	var residual float32
	if formula == FormulaReference {
		residual = math32.Pow((float32(diameter/2)-mean)/sigma, 2)
	}
	norm := 2 * math32.Pi * sigma * sigma

	var sum float32
	for x := range kernel {
		d := (float32(x) - mean) / sigma
		kernel[x] = math32.Exp(-0.5*(d*d+residual)) / norm
		sum += kernel[x]
	}
	if sum == 0 || math32.IsInf(sum, 0) || math32.IsNaN(sum) {
		return nil, errors.Wrapf(ErrInvalidRadius, "degenerate kernel for sigma %g", sigma)
	}

	for x := range kernel {
		kernel[x] /= sum
	}
	return kernel, nil
}

func checkKernel(diameter int, zeroSigma bool) error {
	switch {
	case diameter <= 0:
		return errors.Wrapf(ErrInvalidRadius, "kernel diameter %d", diameter)
	case diameter > MaxDiameter:
		return errors.Wrapf(ErrAllocation, "kernel diameter %d exceeds %d", diameter, MaxDiameter)
	case zeroSigma:
		return errors.Wrap(ErrInvalidRadius, "sigma is zero")
	}
	return nil
}
