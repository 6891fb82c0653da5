package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// PolygonMesh is a surface mesh of n-gon cells (n >= 3) over a shared vertex
// pool. Three-vertex cells are typed Triangle, so a PolygonMesh built from
// triangles only is indistinguishable from a TriangleMesh in discretization.
type PolygonMesh struct {
	Mesh
}

// TriangleMesh is the n=3 specialization of PolygonMesh: the same skeleton
// and construction path with the arity pinned to 3.
type TriangleMesh struct {
	PolygonMesh
}

// newSurface runs the shared surface construction path: pool dedup, cell
// validation, edge connectivity with manifold and orientation checks.
// want pins the arity (-1 accepts any n-gon).
func newSurface(coords []r3.Vec, faces [][]int, want int, opts []Option) (*Mesh, error) {
	o := defaultBuildOptions()
	for _, opt := range opts {
		opt(&o)
	}
	pool, remap := buildPool(coords, o)

	m := &Mesh{verts: pool, dim: 2, cells: make([]Cell, 0, len(faces))}
	for id, face := range faces {
		c := Cell{Type: PolygonCell, V: make([]int, len(face))}
		if len(face) == 3 {
			c.Type = Triangle
		}
		for i, vi := range face {
			if vi < 0 || vi >= len(remap) {
				// Out-of-range against the input coordinates; remapping
				// cannot apply, report against the pool size instead.
				c.V[i] = vi
				continue
			}
			c.V[i] = remap[vi]
		}
		if err := c.validate(id, len(pool), want); err != nil {
			return nil, err
		}
		m.cells = append(m.cells, c)
	}
	if err := m.buildConnectivity(true); err != nil {
		return nil, err
	}
	return m, nil
}

// NewPolygonMesh builds a surface mesh from raw importer output: a
// coordinate sequence and one vertex-index group per face. Coordinates
// within the deduplication epsilon collapse to one pool vertex and face
// indices are remapped accordingly. Construction validates every cell
// (arity, range, repeats), requires each edge be shared by at most two faces
// traversed in opposite directions, and fails with InvalidTopologyError on
// any violation.
func NewPolygonMesh(coords []r3.Vec, faces [][]int, opts ...Option) (*PolygonMesh, error) {
	m, err := newSurface(coords, faces, -1, opts)
	if err != nil {
		return nil, err
	}
	return &PolygonMesh{Mesh: *m}, nil
}

// NewTriangleMesh builds a surface mesh whose faces must all have exactly
// three vertices; otherwise identical to NewPolygonMesh.
func NewTriangleMesh(coords []r3.Vec, faces [][]int, opts ...Option) (*TriangleMesh, error) {
	m, err := newSurface(coords, faces, 3, opts)
	if err != nil {
		return nil, err
	}
	return &TriangleMesh{PolygonMesh: PolygonMesh{Mesh: *m}}, nil
}

// Triangulate produces a new TriangleMesh covering the same surface: each
// non-triangle face is fanned about an added centroid vertex, preserving the
// face's orientation; triangle faces carry over unchanged. The receiver is
// not modified.
func (pm *PolygonMesh) Triangulate(opts ...Option) (*TriangleMesh, error) {
	coords := pm.Vertices()
	var faces [][]int
	for _, c := range pm.cells {
		if len(c.V) == 3 {
			faces = append(faces, c.VertexIndices())
			continue
		}
		ctr := c.Centroid(pm.verts)
		ci := len(coords)
		coords = append(coords, ctr)
		for i := range c.V {
			faces = append(faces, []int{ci, c.V[i], c.V[(i+1)%len(c.V)]})
		}
	}
	return NewTriangleMesh(coords, faces, opts...)
}
