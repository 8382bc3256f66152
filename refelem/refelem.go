// Package refelem provides the catalog of reference elements: for each
// geometry type, the corner coordinates of the canonical element in [0,1]^d,
// the barycenters of its sub-entities, and its reference volume. The catalog
// is immutable, process-wide data; entries are shared by reference and are
// safe for concurrent reads.
package refelem

import (
	"errors"
	"fmt"
)

// ErrUnknownGeometryType is returned by ByType for a tag not in the catalog.
var ErrUnknownGeometryType = errors.New("refelem: unknown geometry type")

// ReferenceElement is a single immutable catalog entry.
//
// Sub-entities are addressed by codimension: codim 0 is the element itself,
// codim Dimension() are the corners. Position(i, codim) is the barycenter of
// the i-th sub-entity of that codimension, so Position(0, 0) is the element
// center and Position(i, Dimension()) is corner i.
type ReferenceElement struct {
	gt     GeometryType
	dim    int
	volume float64

	// corners[i] is the local coordinate of corner i, length dim
	corners [][]float64

	// entities[codim][i] lists the corner indices of sub-entity i
	entities [][][]int

	// positions[codim][i] is the barycenter of sub-entity i, length dim
	positions [][][]float64
}

// Type returns the geometry-type tag of this element.
func (r *ReferenceElement) Type() GeometryType { return r.gt }

// Dimension returns the dimension of the reference element.
func (r *ReferenceElement) Dimension() int { return r.dim }

// Volume returns the volume of the reference element.
func (r *ReferenceElement) Volume() float64 { return r.volume }

// Size returns the number of sub-entities of the given codimension, or 0 if
// the codimension is outside [0, Dimension()].
func (r *ReferenceElement) Size(codim int) int {
	if codim < 0 || codim > r.dim {
		return 0
	}
	return len(r.entities[codim])
}

// Position returns the barycenter of sub-entity i of the given codimension
// as a fresh slice of length Dimension(). It panics if codim or i is out of
// range; catalog indices are fixed per type and known to the caller.
func (r *ReferenceElement) Position(i, codim int) []float64 {
	if codim < 0 || codim > r.dim {
		panic(fmt.Sprintf("refelem: codimension %d out of range for %s", codim, r.gt))
	}
	if i < 0 || i >= len(r.positions[codim]) {
		panic(fmt.Sprintf("refelem: sub-entity index %d out of range for %s codim %d", i, r.gt, codim))
	}
	out := make([]float64, r.dim)
	copy(out, r.positions[codim][i])
	return out
}

// SubEntityCorners returns the corner indices of sub-entity i of the given
// codimension. The returned slice is a fresh copy.
func (r *ReferenceElement) SubEntityCorners(i, codim int) []int {
	if codim < 0 || codim > r.dim || i < 0 || i >= len(r.entities[codim]) {
		panic(fmt.Sprintf("refelem: sub-entity (%d, codim %d) out of range for %s", i, codim, r.gt))
	}
	out := make([]int, len(r.entities[codim][i]))
	copy(out, r.entities[codim][i])
	return out
}

func (r *ReferenceElement) String() string {
	return fmt.Sprintf("%s reference element: dim=%d corners=%d volume=%g",
		r.gt, r.dim, r.Size(r.dim), r.volume)
}

// ByType looks up the reference element for a geometry-type tag.
func ByType(gt GeometryType) (*ReferenceElement, error) {
	r, ok := registry[gt]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGeometryType, gt)
	}
	return r, nil
}

var registry map[GeometryType]*ReferenceElement

func init() {
	registry = make(map[GeometryType]*ReferenceElement)
	for _, r := range []*ReferenceElement{
		newLine(), newTri(), newRectangle(), newTet(), newHex(), newPrism(), newPyramid(),
	} {
		registry[r.gt] = r
	}
}

// newReferenceElement assembles an entry from its corner table and the
// sub-entity corner-index lists for codimensions 1..dim-1. The codim-0 entity
// (the element itself) and the codim-dim entities (the corners) are implied.
func newReferenceElement(gt GeometryType, volume float64, corners [][]float64, middle ...[][]int) *ReferenceElement {
	dim := gt.Dim()
	if len(middle) != dim-1 {
		panic(fmt.Sprintf("refelem: %s needs %d intermediate codimension tables, got %d", gt, dim-1, len(middle)))
	}

	entities := make([][][]int, dim+1)
	all := make([]int, len(corners))
	for i := range corners {
		all[i] = i
	}
	entities[0] = [][]int{all}
	for c := 1; c < dim; c++ {
		entities[c] = middle[c-1]
	}
	verts := make([][]int, len(corners))
	for i := range corners {
		verts[i] = []int{i}
	}
	entities[dim] = verts

	positions := make([][][]float64, dim+1)
	for c := 0; c <= dim; c++ {
		positions[c] = make([][]float64, len(entities[c]))
		for i, vs := range entities[c] {
			b := make([]float64, dim)
			for _, v := range vs {
				for d := 0; d < dim; d++ {
					b[d] += corners[v][d]
				}
			}
			for d := 0; d < dim; d++ {
				b[d] /= float64(len(vs))
			}
			positions[c][i] = b
		}
	}

	return &ReferenceElement{
		gt:        gt,
		dim:       dim,
		volume:    volume,
		corners:   corners,
		entities:  entities,
		positions: positions,
	}
}

func newLine() *ReferenceElement {
	return newReferenceElement(Line, 1, [][]float64{{0}, {1}})
}

func newTri() *ReferenceElement {
	return newReferenceElement(Tri, 0.5,
		[][]float64{{0, 0}, {1, 0}, {0, 1}},
		[][]int{{0, 1}, {0, 2}, {1, 2}}, // edges
	)
}

func newRectangle() *ReferenceElement {
	return newReferenceElement(Rectangle, 1,
		[][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		[][]int{{0, 2}, {1, 3}, {0, 1}, {2, 3}}, // edges
	)
}

func newTet() *ReferenceElement {
	return newReferenceElement(Tet, 1.0/6.0,
		[][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[][]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}},     // faces
		[][]int{{0, 1}, {0, 2}, {1, 2}, {0, 3}, {1, 3}, {2, 3}}, // edges
	)
}

func newHex() *ReferenceElement {
	return newReferenceElement(Hex, 1,
		[][]float64{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
		},
		[][]int{ // faces: x=0, x=1, y=0, y=1, z=0, z=1
			{0, 2, 4, 6}, {1, 3, 5, 7},
			{0, 1, 4, 5}, {2, 3, 6, 7},
			{0, 1, 2, 3}, {4, 5, 6, 7},
		},
		[][]int{ // edges: x-directed, then y-directed, then z-directed
			{0, 1}, {2, 3}, {4, 5}, {6, 7},
			{0, 2}, {1, 3}, {4, 6}, {5, 7},
			{0, 4}, {1, 5}, {2, 6}, {3, 7},
		},
	)
}

func newPrism() *ReferenceElement {
	return newReferenceElement(Prism, 0.5,
		[][]float64{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {0, 1, 1},
		},
		[][]int{ // faces: bottom tri, top tri, three quads
			{0, 1, 2}, {3, 4, 5},
			{0, 1, 3, 4}, {0, 2, 3, 5}, {1, 2, 4, 5},
		},
		[][]int{ // edges: bottom, top, vertical
			{0, 1}, {0, 2}, {1, 2},
			{3, 4}, {3, 5}, {4, 5},
			{0, 3}, {1, 4}, {2, 5},
		},
	)
}

func newPyramid() *ReferenceElement {
	return newReferenceElement(Pyramid, 1.0/3.0,
		[][]float64{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
			{0, 0, 1},
		},
		[][]int{ // faces: base quad, four lateral triangles
			{0, 1, 2, 3},
			{0, 1, 4}, {2, 3, 4}, {0, 2, 4}, {1, 3, 4},
		},
		[][]int{ // edges: base, then lateral
			{0, 1}, {0, 2}, {1, 3}, {2, 3},
			{0, 4}, {1, 4}, {2, 4}, {3, 4},
		},
	)
}
