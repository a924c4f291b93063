package remap

import "errors"

// Fatal error kinds surfaced by the remap kernels. All are deterministic
// structural or numerical conditions; none is retryable.
var (
	// ErrUnsupportedElement reports a source SE face that is not a
	// quadrilateral.
	ErrUnsupportedElement = errors.New("only quadrilateral elements allowed for SE remapping")

	// ErrInverseMapOutOfRange reports a quadrature point whose reference
	// coordinates fall outside the unit square beyond tolerance. This
	// indicates a defective overlap mesh, not a kernel failure.
	ErrInverseMapOutOfRange = errors.New("inverse map out of range")

	// ErrSchurSolveFailed reports a non-positive-definite Schur system in
	// the consistency/conservation corrector.
	ErrSchurSolveFailed = errors.New("unable to solve SPD Schur system")
)
