package kernels

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// KernelFormula selects how GenerateLinearKernel computes its weights.
type KernelFormula int

const (
	// FormulaReference evaluates the Gaussian together with the constant
	// second-axis term of the two-dimensional formula it was reduced from.
	// The term is zero for the even diameters the filters use.
	FormulaReference KernelFormula = iota
	// FormulaGaussian evaluates a plain one-dimensional Gaussian.
	FormulaGaussian
	// FormulaBox gives every tap the same weight (a moving average).
	FormulaBox
)

func (f KernelFormula) String() string {
	switch f {
	case FormulaReference:
		return "reference"
	case FormulaGaussian:
		return "gaussian"
	case FormulaBox:
		return "box"
	default:
		return fmt.Sprintf("KernelFormula(%d)", int(f))
	}
}

// ParseKernelFormula converts a formula name into a KernelFormula.
func ParseKernelFormula(s string) (KernelFormula, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reference":
		return FormulaReference, nil
	case "gaussian":
		return FormulaGaussian, nil
	case "box":
		return FormulaBox, nil
	default:
		return 0, errors.Wrapf(ErrInvalidOptions, "unknown kernel formula %q", s)
	}
}

// EdgePolicy defines how sampling behaves outside the image bounds.
//   - EdgeFlat: clamps the index into the whole buffer. Horizontal reads near
//     the left and right edges bleed into the neighbouring row; vertical reads
//     are held to the column band [col, total-col).
//   - EdgeRow: clamps x into the row and y into the column (repeats edge pixels).
type EdgePolicy int

const (
	EdgeFlat EdgePolicy = iota
	EdgeRow
)

func (e EdgePolicy) String() string {
	switch e {
	case EdgeFlat:
		return "flat"
	case EdgeRow:
		return "row"
	default:
		return fmt.Sprintf("EdgePolicy(%d)", int(e))
	}
}

// ParseEdgePolicy converts a policy name into an EdgePolicy.
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat":
		return EdgeFlat, nil
	case "row", "clamp":
		return EdgeRow, nil
	default:
		return 0, errors.Wrapf(ErrInvalidOptions, "unknown edge policy %q", s)
	}
}

// Precision selects the floating point type of the kernel and accumulators.
type Precision int

const (
	Precision64 Precision = iota
	Precision32
)

func (p Precision) String() string {
	switch p {
	case Precision64:
		return "float64"
	case Precision32:
		return "float32"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// ParsePrecision converts "float64"/"64" or "float32"/"32" into a Precision.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "float64", "64":
		return Precision64, nil
	case "float32", "32":
		return Precision32, nil
	default:
		return 0, errors.Wrapf(ErrInvalidOptions, "unknown precision %q", s)
	}
}

// Options configures a filter call. The zero value is the default: reference
// kernel, flat edge policy, float64, sequential.
type Options struct {
	Formula   KernelFormula // Kernel weights.
	Edge      EdgePolicy    // Edge sampling policy.
	Precision Precision     // Kernel and accumulator precision.
	Parallel  bool          // Split each pass across goroutines (good for 1080p+).
	Workers   int           // Goroutines per pass when Parallel; 0 means runtime.NumCPU().
}

// DefaultOptions returns the zero Options.
func DefaultOptions() Options {
	return Options{}
}

// Validate rejects unknown enum values and negative worker counts.
func (o Options) Validate() error {
	switch {
	case o.Formula < FormulaReference || o.Formula > FormulaBox:
		return errors.Wrapf(ErrInvalidOptions, "kernel formula %d", int(o.Formula))
	case o.Edge != EdgeFlat && o.Edge != EdgeRow:
		return errors.Wrapf(ErrInvalidOptions, "edge policy %d", int(o.Edge))
	case o.Precision != Precision64 && o.Precision != Precision32:
		return errors.Wrapf(ErrInvalidOptions, "precision %d", int(o.Precision))
	case o.Workers < 0:
		return errors.Wrapf(ErrInvalidOptions, "workers %d", o.Workers)
	}
	return nil
}
