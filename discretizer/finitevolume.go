package discretizer

import (
	"github.com/james-bowman/sparse"
	"github.com/notargets/polymesh/geometry"
	"github.com/notargets/polymesh/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// finiteVolume assembles the cell-centered two-point-flux diffusion operator:
// one degree of freedom per cell, one flux stencil entry per interior face
// with transmissibility faceMeasure / centroidSpacing. Rows of interior
// cells sum to zero; boundary faces contribute nothing (boundary conditions
// are a solver concern).
type finiteVolume struct {
	cfg Config
}

// Triangles and tetrahedra only: the two-point flux needs a single centroid
// per cell on each side of a face, which general polygons would require a
// multi-point stencil for. Triangulate polygon meshes first.
func (fv *finiteVolume) supports(t mesh.CellType) bool {
	return t == mesh.Triangle || t == mesh.Tet
}

func (fv *finiteVolume) Assemble(m mesh.CellMesh) (*Operator, error) {
	n := m.Len()
	for i := 0; i < n; i++ {
		if t := m.Cell(i).Type; !fv.supports(t) {
			return nil, &UnsupportedCellShapeError{Cell: i, Type: t, Scheme: fv.cfg.Scheme}
		}
		if v, err := m.Measure(i); err != nil {
			return nil, &IllConditionedMeshError{Cell: i, Detail: "cell measure", Value: v}
		}
	}

	dok := sparse.NewDOK(n, n)
	for _, f := range m.Faces() {
		if f.Boundary() {
			continue
		}
		p, q := f.Cells[0], f.Cells[1]
		d := r3.Norm(r3.Sub(m.Centroid(p), m.Centroid(q)))
		if d < geometry.Eps {
			return nil, &IllConditionedMeshError{Cell: p, Detail: "centroid spacing", Value: d}
		}
		k := m.FaceMeasure(f) / d
		dok.Set(p, p, dok.At(p, p)+k)
		dok.Set(q, q, dok.At(q, q)+k)
		dok.Set(p, q, dok.At(p, q)-k)
		dok.Set(q, p, dok.At(q, p)-k)
	}

	return &Operator{
		A:    dok.ToCSR(),
		DoFs: newDoFMap(CellDoF, n),
	}, nil
}
