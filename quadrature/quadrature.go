// Package quadrature builds quadrature rules over the reference elements.
//
// Rules are exact for polynomials up to the requested total degree. The 1-D
// Gauss-Legendre nodes come from gonum; higher-dimensional rules are built
// from them by tensor products (cube directions) and conical products
// (simplex and pyramid directions), so every geometry type in the catalog is
// covered by the same construction.
package quadrature

import (
	"fmt"

	"github.com/notargets/geometry/refelem"
	"gonum.org/v1/gonum/integrate/quad"
)

// Point is a single quadrature node: a local coordinate on the reference
// element and its weight. Weights of a rule sum to the reference volume.
type Point struct {
	Position []float64
	Weight   float64
}

// Rule returns a quadrature rule for the given geometry type, exact for
// polynomials of total degree <= degree. Degrees below zero are treated as
// zero. Unknown geometry types are an error.
func Rule(gt refelem.GeometryType, degree int) ([]Point, error) {
	if degree < 0 {
		degree = 0
	}
	switch gt {
	case refelem.Line:
		return gauss1D(degree), nil
	case refelem.Rectangle:
		g := gauss1D(degree)
		return tensor(g, g), nil
	case refelem.Hex:
		g := gauss1D(degree)
		return tensor(tensor(g, g), g), nil
	case refelem.Tri:
		return conical(gauss1D(degree), degree), nil
	case refelem.Tet:
		tri := conical(gauss1D(degree), degree)
		return conical(tri, degree), nil
	case refelem.Prism:
		tri := conical(gauss1D(degree), degree)
		return tensor(tri, gauss1D(degree)), nil
	case refelem.Pyramid:
		g := gauss1D(degree)
		return conical(tensor(g, g), degree), nil
	default:
		return nil, fmt.Errorf("quadrature: no rule for geometry type %s: %w",
			gt, refelem.ErrUnknownGeometryType)
	}
}

// gauss1D returns the Gauss-Legendre rule on [0,1] exact up to the given
// polynomial degree. n points integrate degree 2n-1 exactly.
func gauss1D(degree int) []Point {
	n := degree/2 + 1
	x := make([]float64, n)
	w := make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, 0, 1)
	pts := make([]Point, n)
	for i := range x {
		pts[i] = Point{Position: []float64{x[i]}, Weight: w[i]}
	}
	return pts
}

// tensor forms the product rule of two rules over a product domain: positions
// concatenate, weights multiply.
func tensor(a, b []Point) []Point {
	pts := make([]Point, 0, len(a)*len(b))
	for _, pa := range a {
		for _, pb := range b {
			pos := make([]float64, 0, len(pa.Position)+len(pb.Position))
			pos = append(pos, pa.Position...)
			pos = append(pos, pb.Position...)
			pts = append(pts, Point{Position: pos, Weight: pa.Weight * pb.Weight})
		}
	}
	return pts
}

// conical lifts a rule over a d-dimensional base to the cone over that base
// with apex at unit height (Duffy construction): the base point scales by
// (1-t) and the weight picks up the (1-t)^d volume factor. The radial rule
// must absorb that factor, so it is taken at degree+d.
func conical(base []Point, degree int) []Point {
	d := len(base[0].Position)
	radial := gauss1D(degree + d)
	pts := make([]Point, 0, len(base)*len(radial))
	for _, pb := range base {
		for _, pt := range radial {
			t := pt.Position[0]
			pos := make([]float64, d+1)
			s := 1 - t
			for i, c := range pb.Position {
				pos[i] = s * c
			}
			pos[d] = t
			w := pb.Weight * pt.Weight
			for i := 0; i < d; i++ {
				w *= s
			}
			pts = append(pts, Point{Position: pos, Weight: w})
		}
	}
	return pts
}
