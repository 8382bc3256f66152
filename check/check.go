// Package check validates implementations of the geometry.Geometry contract.
//
// CheckGeometry is a conformance test: it works against any mapping type,
// affine or not, and verifies the numerical identities the contract promises
// at quadrature sample points. Failed checks accumulate as diagnostics
// rather than aborting, so one run reports every violation found.
package check

import (
	"fmt"
	"math"

	"github.com/notargets/geometry"
	"github.com/notargets/geometry/quadrature"
	"github.com/notargets/geometry/refelem"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// algebraicTol bounds the error of the algebraic identities (corner and
	// center placement, inverse Jacobian product, integration element,
	// volume). Fixed, matching double-precision accuracy for small dense
	// operations.
	algebraicTol = 1e-8

	// sampleDegree is the polynomial degree of the quadrature rule used as
	// the set of sample points.
	sampleDegree = 2
)

// roundTripTol bounds the local/global round-trip error.
var roundTripTol = math.Sqrt(math.Nextafter(1, 2) - 1)

// CheckGeometry verifies a mapping against its reference element and returns
// whether every check passed along with one diagnostic per failure. A
// non-nil error reports malformed input only (a geometry-type tag unknown to
// the catalog, or a missing quadrature rule), never a failed numerical check.
func CheckGeometry(g geometry.Geometry) (bool, []string, error) {
	ref, err := refelem.ByType(g.Type())
	if err != nil {
		return false, nil, err
	}

	var diags []string
	mydim := g.Dimension()
	if mydim != ref.Dimension() {
		diags = append(diags, fmt.Sprintf(
			"Dimension() is %d, reference element %s is %d-dimensional",
			mydim, ref.Type(), ref.Dimension()))
		return false, diags, nil
	}

	// The center must be the image of the reference element's center.
	center := g.Global(ref.Position(0, 0))
	if dist(g.Center(), center) > algebraicTol {
		diags = append(diags, "center() is not consistent with global(position(0,0))")
	}

	// Corner count and placement must match the reference element.
	if g.Corners() == ref.Size(mydim) {
		for i := 0; i < g.Corners(); i++ {
			c, err := g.Corner(i)
			if err != nil {
				diags = append(diags, fmt.Sprintf("corner(%d) failed: %v", i, err))
				continue
			}
			if dist(c, g.Global(ref.Position(i, mydim))) > algebraicTol {
				diags = append(diags, fmt.Sprintf(
					"corner(%d) is not consistent with global(position(%d,%d))", i, i, mydim))
			}
		}
	} else {
		diags = append(diags, fmt.Sprintf(
			"incorrect number of corners (%d, should be %d)", g.Corners(), ref.Size(mydim)))
	}

	rule, err := quadrature.Rule(g.Type(), sampleDegree)
	if err != nil {
		return false, nil, err
	}
	for k, p := range rule {
		x := p.Position

		// local and global must be inverse to each other.
		if dist(x, g.Local(g.Global(x))) > roundTripTol {
			diags = append(diags, fmt.Sprintf(
				"global and local are not inverse to each other at sample point %d", k))
		}

		// jacobianTransposed times jacobianInverseTransposed must be the
		// mydim x mydim identity.
		jt := g.JacobianTransposed(x)
		jit := g.JacobianInverseTransposed(x)
		id := mat.NewDense(mydim, mydim, nil)
		id.Mul(jt, jit)
		isID := true
		for i := 0; i < mydim; i++ {
			for j := 0; j < mydim; j++ {
				want := 0.0
				if i == j {
					want = 1.0
				}
				isID = isID && math.Abs(id.At(i, j)-want) < algebraicTol
			}
		}
		if !isID {
			diags = append(diags, fmt.Sprintf(
				"jacobianTransposed and jacobianInverseTransposed are not inverse to each other at sample point %d", k))
		}

		ie := g.IntegrationElement(x)
		if ie < 0 {
			diags = append(diags, fmt.Sprintf(
				"negative integration element %g at sample point %d", ie, k))
		}

		// The integration element must follow the Gram determinant of the
		// transposed Jacobian.
		gram := mat.NewDense(mydim, mydim, nil)
		gram.Mul(jt, jt.T())
		if want := math.Sqrt(mat.Det(gram)); math.Abs(want-ie) > algebraicTol {
			diags = append(diags, fmt.Sprintf(
				"integration element is not consistent with jacobianTransposed at sample point %d (got %g, want %g)", k, ie, want))
		}

		if g.Affine() {
			if math.Abs(g.Volume()-ref.Volume()*ie) > algebraicTol {
				diags = append(diags, fmt.Sprintf(
					"volume is not consistent with the integration element at sample point %d (volume=%g, refVolume*ie=%g)",
					k, g.Volume(), ref.Volume()*ie))
			}
		}
	}

	return len(diags) == 0, diags, nil
}

// dist returns the Euclidean distance between two coordinates.
func dist(a, b []float64) float64 {
	d := make([]float64, len(a))
	floats.SubTo(d, a, b)
	return floats.Norm(d, 2)
}
