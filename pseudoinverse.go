package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// rightPseudoInverse computes the right pseudo-inverse of the mydim x coorddim
// matrix jt together with the integration element sqrt(det(jt jt^T)).
//
// The returned inverse is coorddim x mydim and satisfies jt * inv = I_mydim.
// For square jt this is the ordinary inverse and the scale is |det(jt)|. For
// mydim < coorddim the inverse is jt^T (jt jt^T)^-1, obtained by inverting
// the small Gram matrix directly; the dimensions here are at most the world
// dimension, so no iterative solver is involved.
//
// Rank-deficient input is a precondition violation and yields
// ErrSingularGeometry; no regularized least-squares fallback is attempted.
func rightPseudoInverse(jt mat.Matrix) (*mat.Dense, float64, error) {
	m, n := jt.Dims()
	if m > n {
		return nil, 0, fmt.Errorf("%w: linear part is %dx%d, need mydim <= coorddim",
			ErrDimensionMismatch, m, n)
	}

	if m == n {
		det := mat.Det(jt)
		var inv mat.Dense
		if err := inv.Inverse(jt); err != nil {
			return nil, 0, fmt.Errorf("%w: det=%g: %v", ErrSingularGeometry, det, err)
		}
		return &inv, math.Abs(det), nil
	}

	gram := mat.NewDense(m, m, nil)
	gram.Mul(jt, jt.T())
	det := mat.Det(gram)
	if !(det > 0) || math.IsInf(det, 0) {
		return nil, 0, fmt.Errorf("%w: det(J J^T)=%g", ErrSingularGeometry, det)
	}
	var gramInv mat.Dense
	if err := gramInv.Inverse(gram); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrSingularGeometry, err)
	}
	inv := mat.NewDense(n, m, nil)
	inv.Mul(jt.T(), &gramInv)
	return inv, math.Sqrt(det), nil
}
