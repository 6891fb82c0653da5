package mesh

import (
	"fmt"

	"github.com/notargets/polymesh/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

// TetrahedralMesh is a volume mesh of tetrahedra: the surface-mesh contract
// one dimension up, with triangular faces in place of edges.
type TetrahedralMesh struct {
	Mesh
}

// NewTetrahedralMesh builds a volume mesh from a coordinate sequence and one
// four-index group per tetrahedron. Corner ordering is fixed: corner 3 lies
// on the positive side of the counter-clockwise base 0,1,2, so the signed
// volume of every cell must be positive. Construction validates arity,
// range, repeats and orientation, rejects degenerate (near-zero volume)
// cells, and requires each triangular face be shared by at most two
// tetrahedra.
func NewTetrahedralMesh(coords []r3.Vec, tets [][]int, opts ...Option) (*TetrahedralMesh, error) {
	o := defaultBuildOptions()
	for _, opt := range opts {
		opt(&o)
	}
	pool, remap := buildPool(coords, o)

	m := &Mesh{verts: pool, dim: 3, cells: make([]Cell, 0, len(tets))}
	for id, tet := range tets {
		c := Cell{Type: Tet, V: make([]int, len(tet))}
		for i, vi := range tet {
			if vi < 0 || vi >= len(remap) {
				c.V[i] = vi
				continue
			}
			c.V[i] = remap[vi]
		}
		if err := c.validate(id, len(pool), 4); err != nil {
			return nil, err
		}
		vol := geometry.SignedTetVolume(pool[c.V[0]], pool[c.V[1]], pool[c.V[2]], pool[c.V[3]])
		if vol < geometry.Eps && vol > -geometry.Eps {
			return nil, &DegenerateCellError{Cell: id, Measure: vol}
		}
		if vol < 0 {
			return nil, &InvalidTopologyError{Cell: id,
				Reason: fmt.Sprintf("negative orientation: signed volume %g", vol)}
		}
		m.cells = append(m.cells, c)
	}
	if err := m.buildConnectivity(false); err != nil {
		return nil, err
	}
	return &TetrahedralMesh{Mesh: *m}, nil
}
