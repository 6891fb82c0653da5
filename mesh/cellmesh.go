package mesh

import "gonum.org/v1/gonum/spatial/r3"

// CellMesh is the query surface numerical code is written against. Any
// container satisfying these capabilities can be discretized; adding a new
// cell shape never touches solver code, only the CellType set and the
// containers. All methods are read-only and safe for concurrent use.
type CellMesh interface {
	// Dims is the intrinsic dimension of the mesh cells (2 or 3).
	Dims() int
	// Len is the number of cells; cell ids run [0, Len).
	Len() int
	// Cell returns the cell at index i.
	Cell(i int) Cell
	// NumVertices is the size of the shared vertex pool.
	NumVertices() int
	// Vertex returns the pool vertex at index i.
	Vertex(i int) r3.Vec
	// Measure is the area or volume of cell i.
	Measure(i int) (float64, error)
	// Centroid is the centroid of cell i.
	Centroid(i int) r3.Vec
	// Neighbors lists the cells sharing an edge (2D) or face (3D) with i.
	Neighbors(i int) []int
	// Faces lists every unique face; boundary faces have one incident cell.
	Faces() []Face
	// BoundaryFaces lists the faces with exactly one incident cell.
	BoundaryFaces() []Face
	// FaceMeasure is the length (2D) or area (3D) of a face.
	FaceMeasure(f Face) float64
	// FaceCentroid is the centroid of a face.
	FaceCentroid(f Face) r3.Vec
	// FaceNormal is the unit normal oriented outward from Cells[0].
	FaceNormal(f Face) (r3.Vec, error)
}

var (
	_ CellMesh = (*PolygonMesh)(nil)
	_ CellMesh = (*TriangleMesh)(nil)
	_ CellMesh = (*TetrahedralMesh)(nil)
)
