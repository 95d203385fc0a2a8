package kernels

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-filters/images"
)

var (
	// ErrInvalidRadius is returned for a radius outside [1, MaxRadius]. A radius
	// of 0 would give the kernel a zero sigma.
	ErrInvalidRadius = errors.New("invalid blur radius")
	// ErrInvalidOptions is returned for unknown option values.
	ErrInvalidOptions = errors.New("invalid filter options")

	// ErrInvalidGeometry and ErrAllocation are shared with the images package
	// so callers can test either name with errors.Is.
	ErrInvalidGeometry = images.ErrInvalidGeometry
	ErrAllocation      = images.ErrAllocation
)
