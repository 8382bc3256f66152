package geometry

import (
	"fmt"

	"github.com/notargets/geometry/refelem"
	"gonum.org/v1/gonum/mat"
)

// Affine is an affine mapping x -> origin + jt^T x from a reference element
// into world space. The Jacobian is constant over the element; the right
// pseudo-inverse and the integration element are computed once at
// construction and never recomputed.
//
// Affine values are immutable after construction except for the user payload
// UD, an opaque extension point the mapping imposes no constraints on. A
// payload-free mapping uses UD = struct{}. Immutable geometry makes a
// constructed Affine safe to share for concurrent reads.
//
// The reference element is a borrowed handle into the refelem catalog, whose
// entries are process-wide immutable data outliving any mapping.
type Affine[UD any] struct {
	ref     *refelem.ReferenceElement
	origin  []float64
	jt      *mat.Dense // mydim x coorddim, row i is the image of basis vector i
	jit     *mat.Dense // coorddim x mydim, right pseudo-inverse of jt
	intElem float64

	userData UD
}

var _ Geometry = (*Affine[struct{}])(nil)

// NewAffine builds a payload-free affine mapping from a reference element,
// the world image of the local origin, and the transposed Jacobian (one row
// per local basis direction). The pseudo-inverse and integration element are
// computed here; a rank-deficient Jacobian yields ErrSingularGeometry.
func NewAffine(ref *refelem.ReferenceElement, origin []float64, jt *mat.Dense) (*Affine[struct{}], error) {
	return NewAffineWithData(ref, origin, jt, struct{}{})
}

// NewAffineWithData is NewAffine carrying an initial user payload.
func NewAffineWithData[UD any](ref *refelem.ReferenceElement, origin []float64, jt *mat.Dense, data UD) (*Affine[UD], error) {
	if ref == nil {
		return nil, fmt.Errorf("%w: nil reference element", ErrDimensionMismatch)
	}
	m, n := jt.Dims()
	if m != ref.Dimension() {
		return nil, fmt.Errorf("%w: linear part has %d rows, reference element is %d-dimensional",
			ErrDimensionMismatch, m, ref.Dimension())
	}
	if len(origin) != n {
		return nil, fmt.Errorf("%w: origin has length %d, linear part has %d columns",
			ErrDimensionMismatch, len(origin), n)
	}
	jit, scale, err := rightPseudoInverse(jt)
	if err != nil {
		return nil, err
	}
	org := make([]float64, n)
	copy(org, origin)
	return &Affine[UD]{
		ref:      ref,
		origin:   org,
		jt:       mat.DenseCopyOf(jt),
		jit:      jit,
		intElem:  scale,
		userData: data,
	}, nil
}

// NewAffineFromCorners builds a payload-free affine mapping from a
// simplex-style corner list: origin = corners[0] and row i of the Jacobian is
// corners[i+1] - corners[0]. Exactly mydim+1 corners are required; any other
// count yields ErrMalformedCorners.
func NewAffineFromCorners(ref *refelem.ReferenceElement, corners [][]float64) (*Affine[struct{}], error) {
	return NewAffineFromCornersWithData(ref, corners, struct{}{})
}

// NewAffineFromCornersWithData is NewAffineFromCorners carrying an initial
// user payload.
func NewAffineFromCornersWithData[UD any](ref *refelem.ReferenceElement, corners [][]float64, data UD) (*Affine[UD], error) {
	if ref == nil {
		return nil, fmt.Errorf("%w: nil reference element", ErrDimensionMismatch)
	}
	m := ref.Dimension()
	if len(corners) != m+1 {
		return nil, fmt.Errorf("%w: got %d coordinates, need mydim+1 = %d",
			ErrMalformedCorners, len(corners), m+1)
	}
	n := len(corners[0])
	jt := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		if len(corners[i+1]) != n {
			return nil, fmt.Errorf("%w: coordinate %d has length %d, coordinate 0 has length %d",
				ErrDimensionMismatch, i+1, len(corners[i+1]), n)
		}
		for j := 0; j < n; j++ {
			jt.Set(i, j, corners[i+1][j]-corners[0][j])
		}
	}
	return NewAffineWithData(ref, corners[0], jt, data)
}

// NewAffineByType is NewAffine with the reference element looked up by tag.
func NewAffineByType(gt refelem.GeometryType, origin []float64, jt *mat.Dense) (*Affine[struct{}], error) {
	ref, err := refelem.ByType(gt)
	if err != nil {
		return nil, err
	}
	return NewAffine(ref, origin, jt)
}

// NewAffineFromCornersByType is NewAffineFromCorners with the reference
// element looked up by tag.
func NewAffineFromCornersByType(gt refelem.GeometryType, corners [][]float64) (*Affine[struct{}], error) {
	ref, err := refelem.ByType(gt)
	if err != nil {
		return nil, err
	}
	return NewAffineFromCorners(ref, corners)
}

// Affine always reports true: the Jacobian is constant by construction.
func (a *Affine[UD]) Affine() bool { return true }

// Type returns the geometry-type tag of the reference element.
func (a *Affine[UD]) Type() refelem.GeometryType { return a.ref.Type() }

// Dimension returns the dimension of the reference element.
func (a *Affine[UD]) Dimension() int { return a.ref.Dimension() }

// CoordDimension returns the dimension of the world space.
func (a *Affine[UD]) CoordDimension() int { return len(a.origin) }

// ReferenceElement returns the catalog entry this mapping is built over.
func (a *Affine[UD]) ReferenceElement() *refelem.ReferenceElement { return a.ref }

// Corners returns the number of corners of the reference element.
func (a *Affine[UD]) Corners() int { return a.ref.Size(a.ref.Dimension()) }

// Corner returns the world coordinate of corner i.
func (a *Affine[UD]) Corner(i int) ([]float64, error) {
	if i < 0 || i >= a.Corners() {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, a.Corners())
	}
	return a.Global(a.ref.Position(i, a.ref.Dimension())), nil
}

// Center returns the image of the reference element's center.
func (a *Affine[UD]) Center() []float64 {
	return a.Global(a.ref.Position(0, 0))
}

// Global maps a local coordinate into world space: origin + jt^T local.
func (a *Affine[UD]) Global(local []float64) []float64 {
	m, n := a.jt.Dims()
	out := make([]float64, n)
	copy(out, a.origin)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			out[j] += a.jt.At(i, j) * local[i]
		}
	}
	return out
}

// Local maps a world coordinate to local coordinates via the cached
// pseudo-inverse: jit^T (global - origin). For points off the mapping's
// image this is the least-squares solution, so Local(Global(x)) == x for
// every local x, while Global(Local(g)) == g only for g in the image.
func (a *Affine[UD]) Local(global []float64) []float64 {
	n, m := a.jit.Dims()
	out := make([]float64, m)
	for j := 0; j < n; j++ {
		d := global[j] - a.origin[j]
		for i := 0; i < m; i++ {
			out[i] += a.jit.At(j, i) * d
		}
	}
	return out
}

// IntegrationElement returns the cached scale factor sqrt(det(J J^T)). The
// local coordinate is ignored; the parameter exists for interface symmetry
// with non-affine mappings.
func (a *Affine[UD]) IntegrationElement(local []float64) float64 { return a.intElem }

// Volume returns the volume of the mapping's image.
func (a *Affine[UD]) Volume() float64 { return a.intElem * a.ref.Volume() }

// JacobianTransposed returns a fresh copy of the constant transposed
// Jacobian; the local coordinate is ignored.
func (a *Affine[UD]) JacobianTransposed(local []float64) *mat.Dense {
	return mat.DenseCopyOf(a.jt)
}

// JacobianInverseTransposed returns a fresh copy of the constant transposed
// pseudo-inverse; the local coordinate is ignored.
func (a *Affine[UD]) JacobianInverseTransposed(local []float64) *mat.Dense {
	return mat.DenseCopyOf(a.jit)
}

// UserData returns the user payload.
func (a *Affine[UD]) UserData() UD { return a.userData }

// SetUserData replaces the user payload. The payload is the only mutable
// part of a mapping; geometry is fixed at construction.
func (a *Affine[UD]) SetUserData(data UD) { a.userData = data }

func (a *Affine[UD]) String() string {
	return fmt.Sprintf("%s affine mapping R^%d -> R^%d: integrationElement=%g volume=%g",
		a.Type(), a.Dimension(), a.CoordDimension(), a.intElem, a.Volume())
}
