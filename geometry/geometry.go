// Package geometry provides the vector and measure primitives shared by the
// mesh containers and discretization assemblers. All computation is float64;
// degenerate configurations are reported as errors, never clamped.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Eps is the measure floor below which a cell is considered degenerate.
const Eps = 1e-12

// ErrDegenerate reports a geometric configuration with no usable measure or
// normal, e.g. a collinear triangle.
type ErrDegenerate struct {
	What  string
	Value float64
}

func (e *ErrDegenerate) Error() string {
	return fmt.Sprintf("degenerate geometry: %s = %g below eps %g", e.What, e.Value, Eps)
}

// TriangleArea returns the area of the triangle a,b,c.
func TriangleArea(a, b, c r3.Vec) float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}

// TriangleNormal returns the unit normal of the triangle a,b,c, oriented by
// the right-hand rule over the vertex order (counter-clockwise seen from the
// positive side). Collinear vertices yield an ErrDegenerate.
func TriangleNormal(a, b, c r3.Vec) (r3.Vec, error) {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	nrm := r3.Norm(n)
	if nrm < Eps {
		return r3.Vec{}, &ErrDegenerate{What: "triangle normal magnitude", Value: nrm}
	}
	return r3.Scale(1/nrm, n), nil
}

// PolygonAreaNormal computes the area and unit normal of the polygon ring pts
// using Newell's method: the per-edge cross products are accumulated into an
// area-weighted normal. For a planar counter-clockwise ring this is the exact
// normal; for a non-planar ring it is the deterministic best-fit convention
// used throughout this module.
func PolygonAreaNormal(pts []r3.Vec) (float64, r3.Vec, error) {
	if len(pts) < 3 {
		return 0, r3.Vec{}, &ErrDegenerate{What: "polygon vertex count", Value: float64(len(pts))}
	}
	var n r3.Vec
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	nrm := r3.Norm(n)
	if nrm < Eps {
		// The near-zero area is still reported so callers can surface it.
		return 0.5 * nrm, r3.Vec{}, &ErrDegenerate{What: "polygon normal magnitude", Value: nrm}
	}
	return 0.5 * nrm, r3.Scale(1/nrm, n), nil
}

// SignedTetVolume returns det([b-a, c-a, d-a]) / 6. Positive when d lies on
// the side of the plane a,b,c that the counter-clockwise normal points into.
func SignedTetVolume(a, b, c, d r3.Vec) float64 {
	u := r3.Sub(b, a)
	v := r3.Sub(c, a)
	w := r3.Sub(d, a)
	return (u.X*(v.Y*w.Z-v.Z*w.Y) -
		u.Y*(v.X*w.Z-v.Z*w.X) +
		u.Z*(v.X*w.Y-v.Y*w.X)) / 6
}

// TetVolume returns the unsigned volume of the tetrahedron a,b,c,d.
func TetVolume(a, b, c, d r3.Vec) float64 {
	return math.Abs(SignedTetVolume(a, b, c, d))
}

// Centroid returns the arithmetic mean of pts.
func Centroid(pts []r3.Vec) r3.Vec {
	var c r3.Vec
	for _, p := range pts {
		c = r3.Add(c, p)
	}
	return r3.Scale(1/float64(len(pts)), c)
}
