package mesh

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/notargets/polymesh/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

// Face is a unique lower-dimensional boundary between cells: an edge in a
// surface mesh, a triangle in a volume mesh. V holds the sorted vertex
// indices (the canonical identity of the face); Cells the incident cell ids
// with Cells[1] == -1 on the boundary; Local the face's local index within
// each incident cell.
type Face struct {
	V     []int
	Cells [2]int
	Local [2]int

	// ordered is the traversal order of the first incident cell, kept for
	// orientation checks and outward-normal computation.
	ordered []int
}

// Boundary reports whether the face has exactly one incident cell.
func (f Face) Boundary() bool { return f.Cells[1] < 0 }

// Mesh is the shared container skeleton: an immutable deduplicated vertex
// pool, an ordered immutable cell list, and connectivity derived once at
// construction. PolygonMesh, TriangleMesh and TetrahedralMesh specialize the
// construction path; all queries live here.
type Mesh struct {
	verts []r3.Vec
	cells []Cell
	dim   int

	etoe  [][]int // [cell][local face] -> neighbor cell or -1
	faces []Face
}

// Dims returns the intrinsic dimension of the mesh cells (2 or 3).
func (m *Mesh) Dims() int { return m.dim }

// Len returns the number of cells.
func (m *Mesh) Len() int { return len(m.cells) }

// NumVertices returns the size of the deduplicated vertex pool.
func (m *Mesh) NumVertices() int { return len(m.verts) }

// Cell returns the cell at index i.
func (m *Mesh) Cell(i int) Cell { return m.cells[i] }

// Cells returns a copy of the ordered cell sequence.
func (m *Mesh) Cells() []Cell {
	out := make([]Cell, len(m.cells))
	copy(out, m.cells)
	return out
}

// Vertex returns the pool vertex at index i.
func (m *Mesh) Vertex(i int) r3.Vec { return m.verts[i] }

// Vertices returns a copy of the vertex pool.
func (m *Mesh) Vertices() []r3.Vec {
	out := make([]r3.Vec, len(m.verts))
	copy(out, m.verts)
	return out
}

// Faces returns a copy of the unique face records.
func (m *Mesh) Faces() []Face {
	out := make([]Face, len(m.faces))
	copy(out, m.faces)
	return out
}

// Measure returns the area or volume of cell i, failing with a
// DegenerateCellError naming the cell when it falls below the epsilon floor.
func (m *Mesh) Measure(i int) (float64, error) {
	v, err := m.cells[i].Measure(m.verts)
	if err != nil {
		return 0, &DegenerateCellError{Cell: i, Measure: v}
	}
	if v < geometry.Eps {
		return 0, &DegenerateCellError{Cell: i, Measure: v}
	}
	return v, nil
}

// Centroid returns the centroid of cell i.
func (m *Mesh) Centroid(i int) r3.Vec { return m.cells[i].Centroid(m.verts) }

// Normal returns the unit normal of surface cell i.
func (m *Mesh) Normal(i int) (r3.Vec, error) {
	n, err := m.cells[i].Normal(m.verts)
	if err == ErrNoNormal {
		return r3.Vec{}, err
	}
	if err != nil {
		return r3.Vec{}, &DegenerateCellError{Cell: i}
	}
	return n, nil
}

// Neighbors returns the distinct cells sharing an edge (surface) or face
// (volume) with cell i. The relation is symmetric.
func (m *Mesh) Neighbors(i int) []int {
	var out []int
	for _, nb := range m.etoe[i] {
		if nb < 0 {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == nb {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, nb)
		}
	}
	return out
}

// BoundaryFaces returns the faces incident to exactly one cell.
func (m *Mesh) BoundaryFaces() []Face {
	var out []Face
	for _, f := range m.faces {
		if f.Boundary() {
			out = append(out, f)
		}
	}
	return out
}

// BoundaryCells returns the ids of cells owning at least one boundary face.
func (m *Mesh) BoundaryCells() []int {
	var out []int
	for i, row := range m.etoe {
		for _, nb := range row {
			if nb < 0 {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// FaceMeasure returns the length (edge) or area (triangle) of a face.
func (m *Mesh) FaceMeasure(f Face) float64 {
	if len(f.V) == 2 {
		return r3.Norm(r3.Sub(m.verts[f.V[1]], m.verts[f.V[0]]))
	}
	return geometry.TriangleArea(m.verts[f.V[0]], m.verts[f.V[1]], m.verts[f.V[2]])
}

// FaceCentroid returns the centroid of a face.
func (m *Mesh) FaceCentroid(f Face) r3.Vec {
	pts := make([]r3.Vec, len(f.V))
	for i, vi := range f.V {
		pts[i] = m.verts[vi]
	}
	return geometry.Centroid(pts)
}

// FaceNormal returns the unit normal of a face oriented outward from its
// first incident cell. For a surface-mesh edge the normal lies in the cell
// plane and follows from the owner's counter-clockwise traversal: with edge
// direction t and cell normal n, outward is t x n. This holds for concave
// cells, where the edge midpoint may sit on the interior side of the cell
// centroid. For a volume-mesh triangle (tetrahedra are convex) the plane
// normal is oriented away from the owner's centroid.
func (m *Mesh) FaceNormal(f Face) (r3.Vec, error) {
	owner := f.Cells[0]
	if len(f.V) == 2 {
		cn, err := m.Normal(owner)
		if err != nil {
			return r3.Vec{}, err
		}
		ord := f.ordered
		if ord == nil {
			ord = f.V
		}
		t := r3.Sub(m.verts[ord[1]], m.verts[ord[0]])
		c := r3.Cross(t, cn)
		nrm := r3.Norm(c)
		if nrm < geometry.Eps {
			return r3.Vec{}, &DegenerateCellError{Cell: owner}
		}
		return r3.Scale(1/nrm, c), nil
	}
	n, err := geometry.TriangleNormal(m.verts[f.V[0]], m.verts[f.V[1]], m.verts[f.V[2]])
	if err != nil {
		return r3.Vec{}, &DegenerateCellError{Cell: owner}
	}
	away := r3.Sub(m.FaceCentroid(f), m.Centroid(owner))
	if r3.Dot(n, away) < 0 {
		n = r3.Scale(-1, n)
	}
	return n, nil
}

// Measures computes every cell measure in one sweep. The pool and cell list
// are immutable, so the per-cell work fans out over NumCPU workers without
// locking. The first failing cell (lowest id) decides the returned error.
func (m *Mesh) Measures() ([]float64, error) {
	n := m.Len()
	out := make([]float64, n)
	errs := make([]error, n)

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				out[i], errs[i] = m.Measure(i)
			}
		}(lo, hi)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// faceKey builds the canonical map key for a face from its sorted vertex
// indices.
func faceKey(sorted []int) string {
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// buildConnectivity derives cell-to-cell adjacency and the unique face
// list. Each face
// key may be claimed by at most two cells; a third incidence is a
// non-manifold error. With checkOrient set (surface meshes), the two cells
// sharing an edge must traverse it in opposite directions.
func (m *Mesh) buildConnectivity(checkOrient bool) error {
	m.etoe = make([][]int, len(m.cells))
	faceMap := make(map[string]int)

	for id, c := range m.cells {
		locals := c.Faces()
		m.etoe[id] = make([]int, len(locals))
		for i := range locals {
			m.etoe[id][i] = -1
		}

		for lf, fverts := range locals {
			sorted := make([]int, len(fverts))
			copy(sorted, fverts)
			sort.Ints(sorted)
			key := faceKey(sorted)

			fid, exists := faceMap[key]
			if !exists {
				ordered := make([]int, len(fverts))
				copy(ordered, fverts)
				faceMap[key] = len(m.faces)
				m.faces = append(m.faces, Face{
					V:       sorted,
					Cells:   [2]int{id, -1},
					Local:   [2]int{lf, -1},
					ordered: ordered,
				})
				continue
			}

			f := &m.faces[fid]
			if f.Cells[1] >= 0 {
				return &InvalidTopologyError{Cell: id,
					Reason: fmt.Sprintf("non-manifold: face (%s) shared by cells %d, %d and %d",
						key, f.Cells[0], f.Cells[1], id)}
			}
			if checkOrient && !(fverts[0] == f.ordered[1] && fverts[1] == f.ordered[0]) {
				return &InvalidTopologyError{Cell: id,
					Reason: fmt.Sprintf("inconsistent orientation: edge (%s) traversed the same way by cells %d and %d",
						key, f.Cells[0], id)}
			}
			f.Cells[1] = id
			f.Local[1] = lf

			other, otherLocal := f.Cells[0], f.Local[0]
			m.etoe[id][lf] = other
			m.etoe[other][otherLocal] = id
		}
	}
	return nil
}

// String summarizes the mesh for diagnostics.
func (m *Mesh) String() string {
	boundary := 0
	for _, f := range m.faces {
		if f.Boundary() {
			boundary++
		}
	}
	return fmt.Sprintf("mesh: %dD, %d vertices, %d cells, %d faces (%d boundary)",
		m.dim, len(m.verts), len(m.cells), len(m.faces), boundary)
}
