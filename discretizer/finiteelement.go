package discretizer

import (
	"github.com/james-bowman/sparse"
	"github.com/notargets/polymesh/geometry"
	"github.com/notargets/polymesh/mesh"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// finiteElement assembles the P1 Galerkin stiffness and consistent mass
// matrices: one degree of freedom per pool vertex, linear barycentric shape
// functions on triangles and tetrahedra. Local matrices scatter into the
// global sparse system by vertex index.
type finiteElement struct {
	cfg Config
}

func (fe *finiteElement) supports(t mesh.CellType) bool {
	return t == mesh.Triangle || t == mesh.Tet
}

func (fe *finiteElement) Assemble(m mesh.CellMesh) (*Operator, error) {
	nv := m.NumVertices()
	stiff := sparse.NewDOK(nv, nv)
	mass := sparse.NewDOK(nv, nv)

	for i := 0; i < m.Len(); i++ {
		c := m.Cell(i)
		if !fe.supports(c.Type) {
			return nil, &UnsupportedCellShapeError{Cell: i, Type: c.Type, Scheme: fe.cfg.Scheme}
		}
		measure, err := m.Measure(i)
		if err != nil {
			return nil, &IllConditionedMeshError{Cell: i, Detail: "cell measure", Value: measure}
		}

		var grads []r3.Vec
		switch c.Type {
		case mesh.Triangle:
			grads, err = triangleGradients(m, c, measure)
		case mesh.Tet:
			grads, err = tetGradients(m, c)
		}
		if err != nil {
			return nil, &IllConditionedMeshError{Cell: i, Detail: "shape gradients", Value: measure}
		}

		// Consistent mass: measure/12 (triangle) or /20 (tet) times 1+delta.
		massScale := measure / 12
		if c.Type == mesh.Tet {
			massScale = measure / 20
		}
		for a, va := range c.V {
			for b, vb := range c.V {
				k := measure * r3.Dot(grads[a], grads[b])
				stiff.Set(va, vb, stiff.At(va, vb)+k)
				mv := massScale
				if a == b {
					mv *= 2
				}
				mass.Set(va, vb, mass.At(va, vb)+mv)
			}
		}
	}

	return &Operator{
		A:    stiff.ToCSR(),
		M:    mass.ToCSR(),
		DoFs: newDoFMap(VertexDoF, nv),
	}, nil
}

// triangleGradients returns the in-plane barycentric gradients of a triangle
// that may be embedded arbitrarily in 3D: grad lambda_a = n x e_a / (2A)
// with e_a the opposite edge traversed in cell order and n the unit normal.
func triangleGradients(m mesh.CellMesh, c mesh.Cell, area float64) ([]r3.Vec, error) {
	p := [3]r3.Vec{m.Vertex(c.V[0]), m.Vertex(c.V[1]), m.Vertex(c.V[2])}
	n, err := geometry.TriangleNormal(p[0], p[1], p[2])
	if err != nil {
		return nil, err
	}
	grads := make([]r3.Vec, 3)
	for a := 0; a < 3; a++ {
		e := r3.Sub(p[(a+2)%3], p[(a+1)%3])
		grads[a] = r3.Scale(1/(2*area), r3.Cross(n, e))
	}
	return grads, nil
}

// tetGradients solves the 3x3 edge system for the barycentric gradients of
// corners 1..3; corner 0's gradient closes the partition of unity. A
// singular edge matrix (flat tet) surfaces as an error.
func tetGradients(m mesh.CellMesh, c mesh.Cell) ([]r3.Vec, error) {
	p0 := m.Vertex(c.V[0])
	jac := mat.NewDense(3, 3, nil)
	for r := 0; r < 3; r++ {
		e := r3.Sub(m.Vertex(c.V[r+1]), p0)
		jac.SetRow(r, []float64{e.X, e.Y, e.Z})
	}
	var inv mat.Dense
	if err := inv.Inverse(jac); err != nil {
		return nil, err
	}
	grads := make([]r3.Vec, 4)
	for k := 1; k < 4; k++ {
		g := r3.Vec{X: inv.At(0, k-1), Y: inv.At(1, k-1), Z: inv.At(2, k-1)}
		grads[k] = g
		grads[0] = r3.Sub(grads[0], g)
	}
	return grads, nil
}
