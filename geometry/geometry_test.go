package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTriangleArea(t *testing.T) {
	a := r3.Vec{}
	b := r3.Vec{X: 1}
	c := r3.Vec{Y: 1}
	assert.InDelta(t, 0.5, TriangleArea(a, b, c), 1e-15)
}

func TestTriangleNormal(t *testing.T) {
	n, err := TriangleNormal(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1})
	require.NoError(t, err)
	assert.InDelta(t, 0, n.X, 1e-15)
	assert.InDelta(t, 0, n.Y, 1e-15)
	assert.InDelta(t, 1, n.Z, 1e-15)

	// Winding reversal flips the normal.
	n, err = TriangleNormal(r3.Vec{}, r3.Vec{Y: 1}, r3.Vec{X: 1})
	require.NoError(t, err)
	assert.InDelta(t, -1, n.Z, 1e-15)
}

func TestTriangleNormalDegenerate(t *testing.T) {
	_, err := TriangleNormal(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 2})
	var dg *ErrDegenerate
	require.ErrorAs(t, err, &dg)
}

func TestPolygonAreaNormal(t *testing.T) {
	square := []r3.Vec{{}, {X: 2}, {X: 2, Y: 2}, {Y: 2}}
	area, n, err := PolygonAreaNormal(square)
	require.NoError(t, err)
	assert.InDelta(t, 4, area, 1e-15)
	assert.InDelta(t, 1, n.Z, 1e-15)

	// Concave L-shape: 2x2 square minus its upper-right 1x1 quadrant.
	ell := []r3.Vec{{}, {X: 2}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {Y: 2}}
	area, n, err = PolygonAreaNormal(ell)
	require.NoError(t, err)
	assert.InDelta(t, 3, area, 1e-15)
	assert.InDelta(t, 1, n.Z, 1e-15)
}

func TestPolygonAreaNormalNonPlanarDeterministic(t *testing.T) {
	// Twisted quad: one corner lifted out of plane. Newell's method must
	// return the same best-fit answer on every call.
	quad := []r3.Vec{{}, {X: 1}, {X: 1, Y: 1, Z: 0.5}, {Y: 1}}
	a1, n1, err := PolygonAreaNormal(quad)
	require.NoError(t, err)
	a2, n2, err := PolygonAreaNormal(quad)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, n1, n2)
	assert.Greater(t, a1, 1.0) // lifted corner stretches the surface
}

func TestPolygonDegenerate(t *testing.T) {
	_, _, err := PolygonAreaNormal([]r3.Vec{{}, {X: 1}})
	var dg *ErrDegenerate
	require.ErrorAs(t, err, &dg)

	// Collinear ring has no normal.
	_, _, err = PolygonAreaNormal([]r3.Vec{{}, {X: 1}, {X: 2}})
	require.ErrorAs(t, err, &dg)
}

func TestTetVolume(t *testing.T) {
	a := r3.Vec{}
	b := r3.Vec{X: 1}
	c := r3.Vec{Y: 1}
	d := r3.Vec{Z: 1}
	assert.InDelta(t, 1.0/6.0, TetVolume(a, b, c, d), 1e-15)
	assert.InDelta(t, 1.0/6.0, SignedTetVolume(a, b, c, d), 1e-15)
	// Swapping two corners flips the sign but not the magnitude.
	assert.InDelta(t, -1.0/6.0, SignedTetVolume(b, a, c, d), 1e-15)
	assert.InDelta(t, 1.0/6.0, TetVolume(b, a, c, d), 1e-15)
}

func TestCentroid(t *testing.T) {
	c := Centroid([]r3.Vec{{}, {X: 3}, {Y: 3}})
	assert.InDelta(t, 1, c.X, 1e-15)
	assert.InDelta(t, 1, c.Y, 1e-15)
	assert.InDelta(t, 0, c.Z, 1e-15)
}

func TestMeasureRigidInvariance(t *testing.T) {
	a := r3.Vec{X: 0.3, Y: -0.7, Z: 1.1}
	b := r3.Vec{X: 1.9, Y: 0.2, Z: -0.4}
	c := r3.Vec{X: -0.5, Y: 1.3, Z: 0.8}
	d := r3.Vec{X: 0.1, Y: 0.6, Z: 2.0}

	rot := r3.NewRotation(0.83, r3.Vec{X: 1, Y: 2, Z: -0.5})
	shift := r3.Vec{X: -3, Y: 17, Z: 0.25}
	xform := func(p r3.Vec) r3.Vec { return r3.Add(rot.Rotate(p), shift) }

	assert.InDelta(t, TriangleArea(a, b, c),
		TriangleArea(xform(a), xform(b), xform(c)), 1e-12)
	assert.InDelta(t, TetVolume(a, b, c, d),
		TetVolume(xform(a), xform(b), xform(c), xform(d)), 1e-12)

	if math.Abs(TetVolume(a, b, c, d)) < Eps {
		t.Fatal("fixture tet unexpectedly degenerate")
	}
}
