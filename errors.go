package geometry

import "errors"

// Sentinel errors returned by constructors and accessors. Callers match them
// with errors.Is; wrapped returns carry the offending values.
var (
	// ErrSingularGeometry indicates a rank-deficient linear part: the element
	// is degenerate (zero or parallel edge vectors) and no pseudo-inverse
	// exists. Construction fails; no partially built mapping is returned.
	ErrSingularGeometry = errors.New("geometry: singular linear part")

	// ErrIndexOutOfRange indicates a corner index outside [0, Corners()).
	ErrIndexOutOfRange = errors.New("geometry: corner index out of range")

	// ErrMalformedCorners indicates a corner list whose length differs from
	// mydim+1, the simplex-style count the corner constructor requires.
	ErrMalformedCorners = errors.New("geometry: malformed corner list")

	// ErrDimensionMismatch indicates inconsistent dimensions between the
	// reference element, the origin, and the linear part.
	ErrDimensionMismatch = errors.New("geometry: dimension mismatch")
)
