// Package geometry implements affine mappings between a reference element
// and a world coordinate space, for finite-element style discretizations.
//
// A mapping may embed a lower-dimensional element in a higher-dimensional
// world (a triangle in 3-D); the inverse map then uses a right pseudo-inverse
// of the Jacobian and the integration element follows the Gram determinant
// formula sqrt(det(J J^T)).
package geometry

import (
	"github.com/notargets/geometry/refelem"
	"gonum.org/v1/gonum/mat"
)

// Geometry is the contract every element mapping exposes. It is implemented
// by Affine and intended to be implemented identically by non-affine (curved)
// mapping types, so validators and downstream consumers can treat mixed
// element collections uniformly.
//
// Local coordinates have length Dimension(), global coordinates length
// CoordDimension(), and Dimension() <= CoordDimension() always holds.
type Geometry interface {
	// Affine reports whether the Jacobian is constant over the element.
	Affine() bool

	// Type returns the geometry-type tag of the reference element.
	Type() refelem.GeometryType

	// Dimension returns the dimension of the reference element.
	Dimension() int

	// CoordDimension returns the dimension of the world space.
	CoordDimension() int

	// Corners returns the number of corners of the reference element.
	Corners() int

	// Corner returns the world coordinate of corner i, or
	// ErrIndexOutOfRange if i is outside [0, Corners()).
	Corner(i int) ([]float64, error)

	// Center returns the image of the reference element's center.
	Center() []float64

	// Global maps a local coordinate into world space.
	Global(local []float64) []float64

	// Local maps a world coordinate back to local coordinates. The result
	// minimizes the distance between Global(result) and the argument; it is
	// exact when the point lies in the mapping's image.
	Local(global []float64) []float64

	// IntegrationElement returns the local-to-world volume scaling factor
	// at the given local coordinate.
	IntegrationElement(local []float64) float64

	// Volume returns the volume of the mapping's image.
	Volume() float64

	// JacobianTransposed returns the transposed Jacobian at the given local
	// coordinate: Dimension() rows, each the image of a local basis vector.
	JacobianTransposed(local []float64) *mat.Dense

	// JacobianInverseTransposed returns the transposed right pseudo-inverse
	// of the Jacobian: JacobianTransposed * JacobianInverseTransposed is the
	// Dimension() x Dimension() identity.
	JacobianInverseTransposed(local []float64) *mat.Dense
}
