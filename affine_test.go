package geometry

import (
	"math"
	"testing"

	"github.com/notargets/geometry/refelem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// Identity mapping of the unit triangle.
func TestUnitTriangle(t *testing.T) {
	g, err := NewAffineByType(refelem.Tri, []float64{0, 0}, mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	}))
	require.NoError(t, err)

	assert.True(t, g.Affine())
	assert.Equal(t, refelem.Tri, g.Type())
	assert.Equal(t, 2, g.Dimension())
	assert.Equal(t, 2, g.CoordDimension())

	assert.Equal(t, []float64{0, 0}, g.Global([]float64{0, 0}))
	assert.Equal(t, []float64{1, 0}, g.Global([]float64{1, 0}))
	assert.Equal(t, 1.0, g.IntegrationElement([]float64{0.25, 0.25}))
	assert.True(t, scalar.EqualWithinAbs(0.5, g.Volume(), 1e-15))

	require.Equal(t, 3, g.Corners())
	c, err := g.Corner(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, c)

	center := g.Center()
	assert.True(t, scalar.EqualWithinAbs(1.0/3.0, center[0], 1e-15))
	assert.True(t, scalar.EqualWithinAbs(1.0/3.0, center[1], 1e-15))
}

// The same triangle embedded in 3-D: mydim < coorddim exercises the right
// pseudo-inverse path.
func TestTriangleEmbeddedIn3D(t *testing.T) {
	g, err := NewAffineByType(refelem.Tri, []float64{0, 0, 0}, mat.NewDense(2, 3, []float64{
		1, 0, 0,
		0, 1, 0,
	}))
	require.NoError(t, err)

	assert.Equal(t, 2, g.Dimension())
	assert.Equal(t, 3, g.CoordDimension())
	assert.True(t, scalar.EqualWithinAbs(1.0, g.IntegrationElement(nil), 1e-15))

	// jt * jit must be the 2x2 identity even though jt is 2x3.
	jt := g.JacobianTransposed(nil)
	jit := g.JacobianInverseTransposed(nil)
	id := mat.NewDense(2, 2, nil)
	id.Mul(jt, jit)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.True(t, scalar.EqualWithinAbs(want, id.At(i, j), 1e-14))
		}
	}

	// Local of an in-plane point is exact.
	loc := g.Local(g.Global([]float64{0.3, 0.2}))
	assert.True(t, scalar.EqualWithinAbs(0.3, loc[0], 1e-14))
	assert.True(t, scalar.EqualWithinAbs(0.2, loc[1], 1e-14))

	// Local of an off-plane point is its least-squares projection.
	loc = g.Local([]float64{0.3, 0.2, 5})
	assert.True(t, scalar.EqualWithinAbs(0.3, loc[0], 1e-14))
	assert.True(t, scalar.EqualWithinAbs(0.2, loc[1], 1e-14))
}

// A sheared, scaled triangle built from corners: integration element and
// volume follow the parallelogram area of the edge vectors.
func TestTriangleFromCorners(t *testing.T) {
	g, err := NewAffineFromCornersByType(refelem.Tri, [][]float64{
		{1, 1},
		{3, 1},
		{1, 4},
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1}, g.Global([]float64{0, 0}))
	assert.Equal(t, []float64{3, 1}, g.Global([]float64{1, 0}))
	assert.True(t, scalar.EqualWithinAbs(6.0, g.IntegrationElement(nil), 1e-14))
	assert.True(t, scalar.EqualWithinAbs(3.0, g.Volume(), 1e-14))
}

func TestTetVolume(t *testing.T) {
	g, err := NewAffineFromCornersByType(refelem.Tet, [][]float64{
		{0, 0, 0},
		{2, 0, 0},
		{0, 2, 0},
		{0, 0, 2},
	})
	require.NoError(t, err)
	assert.True(t, scalar.EqualWithinAbs(8.0, g.IntegrationElement(nil), 1e-13))
	assert.True(t, scalar.EqualWithinAbs(8.0/6.0, g.Volume(), 1e-13))
}

// Affine combinations commute with the mapping: for a+b = 1,
// Global(a*x + b*y) == a*Global(x) + b*Global(y).
func TestAffineCombination(t *testing.T) {
	g, err := NewAffineFromCornersByType(refelem.Tri, [][]float64{
		{0.5, -1, 2},
		{2, 0, 1},
		{0, 3, -0.5},
	})
	require.NoError(t, err)

	x := []float64{0.2, 0.1}
	y := []float64{0.4, 0.5}
	for _, a := range []float64{-0.5, 0, 0.25, 1, 1.5} {
		b := 1 - a
		comb := []float64{a*x[0] + b*y[0], a*x[1] + b*y[1]}
		gc := g.Global(comb)
		gx, gy := g.Global(x), g.Global(y)
		for j := range gc {
			assert.True(t, scalar.EqualWithinAbs(a*gx[j]+b*gy[j], gc[j], 1e-13),
				"a=%g component %d", a, j)
		}
	}
}

// Local is a left inverse of Global everywhere in the reference domain.
func TestRoundTrip(t *testing.T) {
	g, err := NewAffineFromCornersByType(refelem.Tet, [][]float64{
		{0, 0, 0},
		{1, 0.1, 0},
		{0.2, 2, 0.1},
		{-0.1, 0.3, 1.5},
	})
	require.NoError(t, err)

	tol := math.Sqrt(math.Nextafter(1, 2) - 1)
	for _, x := range [][]float64{
		{0, 0, 0}, {1, 0, 0}, {0.25, 0.25, 0.25}, {0.1, 0.2, 0.3},
	} {
		loc := g.Local(g.Global(x))
		for d := range x {
			assert.True(t, scalar.EqualWithinAbs(x[d], loc[d], tol),
				"x=%v component %d: got %g", x, d, loc[d])
		}
	}
}

func TestDegenerateCorners(t *testing.T) {
	// Two parallel edge vectors span no area.
	_, err := NewAffineFromCornersByType(refelem.Tri, [][]float64{
		{0, 0},
		{1, 0},
		{2, 0},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSingularGeometry)

	// Parallel rows in an embedded linear part.
	_, err = NewAffineByType(refelem.Tri, []float64{0, 0, 0}, mat.NewDense(2, 3, []float64{
		1, 1, 0,
		2, 2, 0,
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSingularGeometry)
}

func TestMalformedCornerList(t *testing.T) {
	_, err := NewAffineFromCornersByType(refelem.Tri, [][]float64{
		{0, 0}, {1, 0}, {0, 1}, {1, 1},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedCorners)
}

func TestDimensionMismatch(t *testing.T) {
	// Origin length disagrees with the linear part's columns.
	_, err := NewAffineByType(refelem.Tri, []float64{0, 0, 0}, mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	// Row count disagrees with the reference dimension.
	_, err = NewAffineByType(refelem.Tet, []float64{0, 0, 0}, mat.NewDense(2, 3, []float64{
		1, 0, 0,
		0, 1, 0,
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	// mydim > coorddim is never valid.
	ref, err := refelem.ByType(refelem.Tri)
	require.NoError(t, err)
	_, err = NewAffine(ref, []float64{0}, mat.NewDense(2, 1, []float64{1, 2}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestCornerOutOfRange(t *testing.T) {
	g, err := NewAffineFromCornersByType(refelem.Tri, [][]float64{
		{0, 0}, {1, 0}, {0, 1},
	})
	require.NoError(t, err)

	_, err = g.Corner(3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = g.Corner(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

// Returned jacobians are owned copies; mutating them must not corrupt the
// mapping's cached state.
func TestJacobianReturnsCopy(t *testing.T) {
	g, err := NewAffineByType(refelem.Tri, []float64{0, 0}, mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	}))
	require.NoError(t, err)

	jt := g.JacobianTransposed(nil)
	jt.Set(0, 0, 99)
	assert.Equal(t, 1.0, g.JacobianTransposed(nil).At(0, 0))

	jit := g.JacobianInverseTransposed(nil)
	jit.Set(0, 0, 99)
	assert.Equal(t, 1.0, g.JacobianInverseTransposed(nil).At(0, 0))
}

// Constructors copy their inputs; the caller may reuse its buffers.
func TestConstructionCopiesInputs(t *testing.T) {
	origin := []float64{1, 2}
	jt := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	g, err := NewAffineByType(refelem.Tri, origin, jt)
	require.NoError(t, err)

	origin[0] = -7
	jt.Set(0, 0, -7)
	assert.Equal(t, []float64{1, 2}, g.Global([]float64{0, 0}))
	assert.Equal(t, 1.0, g.JacobianTransposed(nil).At(0, 0))
}

type elementTag struct {
	ID    int
	Label string
}

func TestUserData(t *testing.T) {
	ref, err := refelem.ByType(refelem.Tri)
	require.NoError(t, err)

	g, err := NewAffineFromCornersWithData(ref, [][]float64{
		{0, 0}, {1, 0}, {0, 1},
	}, elementTag{ID: 7, Label: "boundary"})
	require.NoError(t, err)

	assert.Equal(t, 7, g.UserData().ID)
	g.SetUserData(elementTag{ID: 8, Label: "interior"})
	assert.Equal(t, "interior", g.UserData().Label)

	// Geometry is untouched by payload mutation.
	assert.True(t, scalar.EqualWithinAbs(0.5, g.Volume(), 1e-15))
}

func TestLineSegmentIn2D(t *testing.T) {
	g, err := NewAffineFromCornersByType(refelem.Line, [][]float64{
		{0, 0},
		{3, 4},
	})
	require.NoError(t, err)
	assert.True(t, scalar.EqualWithinAbs(5.0, g.IntegrationElement(nil), 1e-14))
	assert.True(t, scalar.EqualWithinAbs(5.0, g.Volume(), 1e-14))

	mid := g.Global([]float64{0.5})
	assert.True(t, scalar.EqualWithinAbs(1.5, mid[0], 1e-14))
	assert.True(t, scalar.EqualWithinAbs(2.0, mid[1], 1e-14))
}

func TestUnknownTypeConstructor(t *testing.T) {
	_, err := NewAffineByType(refelem.GeometryType(99), []float64{0}, mat.NewDense(1, 1, []float64{1}))
	require.Error(t, err)
	assert.ErrorIs(t, err, refelem.ErrUnknownGeometryType)
}

func TestString(t *testing.T) {
	g, err := NewAffineFromCornersByType(refelem.Tri, [][]float64{
		{0, 0}, {1, 0}, {0, 1},
	})
	require.NoError(t, err)
	assert.Contains(t, g.String(), "Tri affine mapping R^2 -> R^2")
}
