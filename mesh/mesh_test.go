package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// unitSquare is two consistently oriented triangles covering [0,1]^2.
func unitSquare(t *testing.T) *TriangleMesh {
	t.Helper()
	coords := []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	m, err := NewTriangleMesh(coords, [][]int{{0, 1, 2}, {0, 2, 3}})
	require.NoError(t, err)
	return m
}

func TestTriangleMeshRoundTrip(t *testing.T) {
	coords := []r3.Vec{{}, {X: 1}, {Y: 1}}
	m, err := NewTriangleMesh(coords, [][]int{{0, 1, 2}})
	require.NoError(t, err)

	require.Equal(t, 1, m.Len())
	require.Equal(t, 3, m.NumVertices())
	assert.Equal(t, 2, m.Dims())

	area, err := m.Measure(0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, area, 1e-15)

	n, err := m.Normal(0)
	require.NoError(t, err)
	assert.InDelta(t, 0, n.X, 1e-15)
	assert.InDelta(t, 0, n.Y, 1e-15)
	assert.InDelta(t, 1, n.Z, 1e-15)
}

func TestOutOfRangeIndexFailsConstruction(t *testing.T) {
	coords := []r3.Vec{{}, {X: 1}, {Y: 1}}
	_, err := NewTriangleMesh(coords, [][]int{{0, 1, 2}, {0, 1, 5}})
	var topo *InvalidTopologyError
	require.ErrorAs(t, err, &topo)
	assert.Equal(t, 1, topo.Cell)
}

func TestRepeatedIndexFailsConstruction(t *testing.T) {
	coords := []r3.Vec{{}, {X: 1}, {Y: 1}}
	_, err := NewTriangleMesh(coords, [][]int{{0, 1, 1}})
	var topo *InvalidTopologyError
	require.ErrorAs(t, err, &topo)
	assert.Equal(t, 0, topo.Cell)
}

func TestWrongArityFailsTriangleMesh(t *testing.T) {
	coords := []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	_, err := NewTriangleMesh(coords, [][]int{{0, 1, 2, 3}})
	var topo *InvalidTopologyError
	require.ErrorAs(t, err, &topo)

	// The same input is a legal polygon mesh.
	pm, err := NewPolygonMesh(coords, [][]int{{0, 1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, PolygonCell, pm.Cell(0).Type)
}

func TestNonManifoldEdgeFailsConstruction(t *testing.T) {
	coords := []r3.Vec{{}, {X: 1}, {Y: 1}, {Y: -1}, {Z: 1}}
	// Three triangles share edge 0-1.
	_, err := NewTriangleMesh(coords, [][]int{{0, 1, 2}, {1, 0, 3}, {0, 1, 4}})
	var topo *InvalidTopologyError
	require.ErrorAs(t, err, &topo)
	assert.Contains(t, topo.Reason, "non-manifold")
}

func TestInconsistentOrientationFailsConstruction(t *testing.T) {
	coords := []r3.Vec{{}, {X: 1}, {Y: 1}, {Y: -1}}
	// Both triangles traverse edge 0-1 in the same direction.
	_, err := NewTriangleMesh(coords, [][]int{{0, 1, 2}, {0, 1, 3}})
	var topo *InvalidTopologyError
	require.ErrorAs(t, err, &topo)
	assert.Contains(t, topo.Reason, "orientation")
}

func TestNeighborsSymmetric(t *testing.T) {
	m := unitSquare(t)
	for i := 0; i < m.Len(); i++ {
		for _, nb := range m.Neighbors(i) {
			assert.Contains(t, m.Neighbors(nb), i, "cell %d neighbor %d not reciprocal", i, nb)
		}
	}
	assert.Equal(t, []int{1}, m.Neighbors(0))
	assert.Equal(t, []int{0}, m.Neighbors(1))
}

func TestBoundaryQueries(t *testing.T) {
	m := unitSquare(t)

	bf := m.BoundaryFaces()
	assert.Len(t, bf, 4)
	for _, f := range bf {
		assert.True(t, f.Boundary())
		assert.Equal(t, -1, f.Cells[1])
	}
	assert.Len(t, m.Faces(), 5)
	assert.Equal(t, []int{0, 1}, m.BoundaryCells())
}

func TestBoundaryEdgeOutwardNormal(t *testing.T) {
	m := unitSquare(t)
	for _, f := range m.BoundaryFaces() {
		n, err := m.FaceNormal(f)
		require.NoError(t, err)
		// In-plane for a flat surface mesh, pointing off the square.
		assert.InDelta(t, 0, n.Z, 1e-15)
		ctr := m.FaceCentroid(f)
		out := r3.Sub(ctr, r3.Vec{X: 0.5, Y: 0.5})
		assert.Greater(t, r3.Dot(n, out), 0.0)
	}
}

// Directed boundary edges of a consistently oriented mesh close up: every
// interior edge is traversed once each way, so the signed traversals cancel
// over any closed region.
func TestOrientationClosure(t *testing.T) {
	coords := []r3.Vec{
		{X: 1}, {Y: -1}, {X: -1}, {Y: 1}, {Z: 1}, {Z: -1},
	}
	faces := [][]int{
		{1, 0, 4}, {2, 1, 4}, {3, 2, 4}, {0, 3, 4},
		{0, 1, 5}, {1, 2, 5}, {2, 3, 5}, {3, 0, 5},
	}
	m, err := NewTriangleMesh(coords, faces)
	require.NoError(t, err)

	signed := make(map[[2]int]int)
	for i := 0; i < m.Len(); i++ {
		for _, e := range m.Cell(i).Faces() {
			u, v := e[0], e[1]
			if u < v {
				signed[[2]int{u, v}]++
			} else {
				signed[[2]int{v, u}]--
			}
		}
	}
	for edge, s := range signed {
		assert.Zero(t, s, "edge %v has unbalanced orientation", edge)
	}
	// Closed surface: no boundary at all.
	assert.Empty(t, m.BoundaryFaces())
}

func TestVertexDedup(t *testing.T) {
	coords := []r3.Vec{
		{}, {X: 1}, {Y: 1},
		{X: 1 + 1e-12}, {Y: 1}, {X: 1, Y: 1}, // first two within eps of 1 and 2
	}
	m, err := NewTriangleMesh(coords, [][]int{{0, 1, 2}, {4, 3, 5}})
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumVertices())
	assert.Equal(t, []int{1}, m.Neighbors(0))

	m2, err := NewTriangleMesh(coords, [][]int{{0, 1, 2}, {4, 3, 5}}, WithoutDedup())
	require.NoError(t, err)
	assert.Equal(t, 6, m2.NumVertices())
	assert.Empty(t, m2.Neighbors(0))
}

func TestDedupCollapsingCellFails(t *testing.T) {
	// Vertices 1 and 2 collapse under a coarse epsilon, leaving the cell
	// with a repeated index.
	coords := []r3.Vec{{}, {X: 1}, {X: 1.0001}, {Y: 1}}
	_, err := NewTriangleMesh(coords, [][]int{{0, 1, 2}}, WithEpsilon(1e-2))
	var topo *InvalidTopologyError
	require.ErrorAs(t, err, &topo)
}

func TestDegenerateMeasureReported(t *testing.T) {
	// Collinear triangle: topology-legal, geometry-degenerate. Construction
	// admits it; measure and normal queries must name the cell.
	coords := []r3.Vec{{}, {X: 1}, {X: 2}}
	m, err := NewTriangleMesh(coords, [][]int{{0, 1, 2}})
	require.NoError(t, err)

	_, err = m.Measure(0)
	var dg *DegenerateCellError
	require.ErrorAs(t, err, &dg)
	assert.Equal(t, 0, dg.Cell)

	_, err = m.Normal(0)
	require.ErrorAs(t, err, &dg)
}

func TestMeasuresParallelMatchesSerial(t *testing.T) {
	// A strip of triangles long enough to engage multiple workers.
	var coords []r3.Vec
	var faces [][]int
	n := 500
	for i := 0; i <= n; i++ {
		coords = append(coords,
			r3.Vec{X: float64(i)},
			r3.Vec{X: float64(i), Y: 1})
	}
	for i := 0; i < n; i++ {
		a, b, c, d := 2*i, 2*i+1, 2*i+2, 2*i+3
		faces = append(faces, []int{a, c, b}, []int{b, c, d})
	}
	m, err := NewTriangleMesh(coords, faces)
	require.NoError(t, err)

	got, err := m.Measures()
	require.NoError(t, err)
	require.Len(t, got, m.Len())
	for i := range got {
		want, err := m.Measure(i)
		require.NoError(t, err)
		assert.Equal(t, want, got[i])
	}
}

func TestMeasuresSurfacesDegenerateCell(t *testing.T) {
	coords := []r3.Vec{{}, {X: 1}, {X: 2}}
	m, err := NewTriangleMesh(coords, [][]int{{0, 1, 2}})
	require.NoError(t, err)
	_, err = m.Measures()
	var dg *DegenerateCellError
	require.ErrorAs(t, err, &dg)
	assert.Equal(t, 0, dg.Cell)
}

func TestTriangulate(t *testing.T) {
	coords := []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	pm, err := NewPolygonMesh(coords, [][]int{{0, 1, 2, 3}})
	require.NoError(t, err)

	tm, err := pm.Triangulate()
	require.NoError(t, err)
	assert.Equal(t, 4, tm.Len())
	assert.Equal(t, 5, tm.NumVertices()) // quad corners + fan centroid

	var total float64
	for i := 0; i < tm.Len(); i++ {
		a, err := tm.Measure(i)
		require.NoError(t, err)
		total += a
	}
	assert.InDelta(t, 1.0, total, 1e-12)

	// Orientation carries through the fan.
	for i := 0; i < tm.Len(); i++ {
		n, err := tm.Normal(i)
		require.NoError(t, err)
		assert.InDelta(t, 1, n.Z, 1e-12)
	}

	// The source mesh is untouched.
	assert.Equal(t, 1, pm.Len())
	assert.Equal(t, 4, pm.NumVertices())
}

func TestBoundaryNormalConcavePolygon(t *testing.T) {
	// U-shaped counter-clockwise octagon: the cavity floor edge 4-5 has its
	// true outward normal +y, pointing toward the cell centroid rather than
	// away from it, so any centroid-side test would flip it.
	ring := []r3.Vec{
		{}, {X: 3}, {X: 3, Y: 3}, {X: 2, Y: 3},
		{X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 3}, {Y: 3},
	}
	m, err := NewPolygonMesh(ring, [][]int{{0, 1, 2, 3, 4, 5, 6, 7}})
	require.NoError(t, err)
	bf := m.BoundaryFaces()
	require.Len(t, bf, 8)

	// For a CCW ring with +z cell normal, outward at edge i->j is the
	// traversal direction rotated clockwise in plane.
	want := make(map[[2]int]r3.Vec)
	for i := range ring {
		j := (i + 1) % len(ring)
		tv := r3.Sub(ring[j], ring[i])
		key := [2]int{i, j}
		if j < i {
			key = [2]int{j, i}
		}
		want[key] = r3.Unit(r3.Vec{X: tv.Y, Y: -tv.X})
	}
	for _, f := range bf {
		n, err := m.FaceNormal(f)
		require.NoError(t, err)
		w := want[[2]int{f.V[0], f.V[1]}]
		assert.InDelta(t, w.X, n.X, 1e-15, "edge %v", f.V)
		assert.InDelta(t, w.Y, n.Y, 1e-15, "edge %v", f.V)
		assert.InDelta(t, 0, n.Z, 1e-15, "edge %v", f.V)
		if f.V[0] == 4 && f.V[1] == 5 {
			assert.InDelta(t, 1, n.Y, 1e-15, "cavity floor must point +y")
		}
	}
}

func TestFaceLocalIndices(t *testing.T) {
	m := unitSquare(t)
	var interior Face
	found := false
	for _, f := range m.Faces() {
		if !f.Boundary() {
			interior = f
			found = true
			break
		}
	}
	require.True(t, found)
	// Cell 0 (0,1,2) traverses the diagonal as its local edge 2; cell 1
	// (0,2,3) as its local edge 0.
	assert.Equal(t, [2]int{0, 1}, interior.Cells)
	assert.Equal(t, [2]int{2, 0}, interior.Local)
}

func TestDegeneratePolygonMeasureValue(t *testing.T) {
	// A sliver rectangle below the epsilon floor: the error must carry the
	// tiny computed area, not a placeholder zero.
	h := 1e-14
	coords := []r3.Vec{{}, {X: 1}, {X: 1, Y: h}, {Y: h}}
	m, err := NewPolygonMesh(coords, [][]int{{0, 1, 2, 3}}, WithoutDedup())
	require.NoError(t, err)

	_, err = m.Measure(0)
	var dg *DegenerateCellError
	require.ErrorAs(t, err, &dg)
	assert.Equal(t, 0, dg.Cell)
	assert.Greater(t, dg.Measure, 0.0)
	assert.InDelta(t, h, dg.Measure, h/100)
}

func TestStringSummary(t *testing.T) {
	m := unitSquare(t)
	s := m.String()
	assert.Contains(t, s, "2 cells")
	assert.Contains(t, s, "4 vertices")
}
