// Package mesh provides the typed mesh containers and the cell abstraction
// underneath the discretization layer: polygonal and triangular surface
// meshes, tetrahedral volume meshes, and the CellMesh query surface numerical
// code is written against. Vertex pools and cell lists are immutable after
// construction, so derived connectivity can be shared by concurrent readers.
package mesh

import (
	"fmt"

	"github.com/notargets/polymesh/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

// CellType enumerates the closed set of supported cell shapes. Discretization
// code switches exhaustively over this set; new shapes are added here first.
type CellType uint8

const (
	Triangle CellType = iota
	PolygonCell
	Tet
)

func (c CellType) String() string {
	return [...]string{"Triangle", "Polygon", "Tet"}[c]
}

// Dimension returns the intrinsic dimension of the cell: 2 for surface
// cells, 3 for volume cells.
func (c CellType) Dimension() int {
	if c == Tet {
		return 3
	}
	return 2
}

// MinVerts returns the smallest legal vertex count for the variant.
func (c CellType) MinVerts() int {
	if c == Tet {
		return 4
	}
	return 3
}

// tetFaces lists the local faces of a tetrahedron by corner index.
var tetFaces = [4][3]int{
	{0, 1, 2},
	{0, 1, 3},
	{1, 2, 3},
	{0, 2, 3},
}

// Cell is a single mesh element referencing the shared vertex pool by index.
// The index order encodes orientation: counter-clockwise as seen from the
// positive-normal side for surface cells, and for a tetrahedron corner 3 lies
// on the positive side of the counter-clockwise base 0,1,2. A Cell never owns
// coordinates, so deforming the pool never rewrites cells.
type Cell struct {
	Type CellType
	V    []int
}

// Arity returns the number of vertices in the cell.
func (c Cell) Arity() int { return len(c.V) }

// VertexIndices returns a copy of the ordered vertex indices.
func (c Cell) VertexIndices() []int {
	out := make([]int, len(c.V))
	copy(out, c.V)
	return out
}

// Faces returns the ordered lower-dimensional boundaries of the cell: edges
// for surface cells, triangular faces for a tetrahedron. The traversal order
// of each face follows the cell's own orientation.
func (c Cell) Faces() [][]int {
	if c.Type == Tet {
		out := make([][]int, 4)
		for i, f := range tetFaces {
			out[i] = []int{c.V[f[0]], c.V[f[1]], c.V[f[2]]}
		}
		return out
	}
	out := make([][]int, len(c.V))
	for i := range c.V {
		out[i] = []int{c.V[i], c.V[(i+1)%len(c.V)]}
	}
	return out
}

// Measure returns the area (surface cells) or volume (tetrahedron) of the
// cell over the given vertex pool.
func (c Cell) Measure(verts []r3.Vec) (float64, error) {
	switch c.Type {
	case Triangle:
		return geometry.TriangleArea(verts[c.V[0]], verts[c.V[1]], verts[c.V[2]]), nil
	case PolygonCell:
		// Newell accumulation: exact for planar rings, convex or concave,
		// and the module's fixed convention for non-planar ones.
		pts := make([]r3.Vec, len(c.V))
		for i, vi := range c.V {
			pts[i] = verts[vi]
		}
		area, _, err := geometry.PolygonAreaNormal(pts)
		return area, err
	case Tet:
		return geometry.TetVolume(verts[c.V[0]], verts[c.V[1]], verts[c.V[2]], verts[c.V[3]]), nil
	}
	return 0, fmt.Errorf("unknown cell type %d", c.Type)
}

// Normal returns the unit normal of a surface cell. Triangles use the exact
// cross product; polygons use Newell's method, which reduces to the exact
// normal for planar rings and is the deterministic convention for non-planar
// ones. Volume cells return ErrNoNormal.
func (c Cell) Normal(verts []r3.Vec) (r3.Vec, error) {
	switch c.Type {
	case Triangle:
		return geometry.TriangleNormal(verts[c.V[0]], verts[c.V[1]], verts[c.V[2]])
	case PolygonCell:
		pts := make([]r3.Vec, len(c.V))
		for i, vi := range c.V {
			pts[i] = verts[vi]
		}
		_, n, err := geometry.PolygonAreaNormal(pts)
		return n, err
	}
	return r3.Vec{}, ErrNoNormal
}

// Centroid returns the arithmetic mean of the cell's corner positions.
func (c Cell) Centroid(verts []r3.Vec) r3.Vec {
	pts := make([]r3.Vec, len(c.V))
	for i, vi := range c.V {
		pts[i] = verts[vi]
	}
	return geometry.Centroid(pts)
}

// validate checks arity, index range and index repetition against a pool of
// npool vertices. want < 0 means any arity >= MinVerts is accepted.
func (c Cell) validate(id, npool, want int) error {
	if want >= 0 && len(c.V) != want {
		return &InvalidTopologyError{Cell: id,
			Reason: fmt.Sprintf("%s requires %d vertices, got %d", c.Type, want, len(c.V))}
	}
	if len(c.V) < c.Type.MinVerts() {
		return &InvalidTopologyError{Cell: id,
			Reason: fmt.Sprintf("%s requires at least %d vertices, got %d", c.Type, c.Type.MinVerts(), len(c.V))}
	}
	seen := make(map[int]struct{}, len(c.V))
	for _, vi := range c.V {
		if vi < 0 || vi >= npool {
			return &InvalidTopologyError{Cell: id,
				Reason: fmt.Sprintf("vertex index %d out of range [0,%d)", vi, npool)}
		}
		if _, dup := seen[vi]; dup {
			return &InvalidTopologyError{Cell: id,
				Reason: fmt.Sprintf("repeated vertex index %d", vi)}
		}
		seen[vi] = struct{}{}
	}
	return nil
}
