// Package readers parses interchange geometry into the raw vertex and face
// arrays the mesh constructors consume. The only format in scope is
// Wavefront OBJ: `v x y z` vertex records and `f i j k ...` face records
// with 1-based indices, normalized to 0-based here.
package readers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/polymesh/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// FormatError reports an unparseable record, with the 1-based line number it
// occurred on.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("obj: line %d: %s", e.Line, e.Msg)
}

// IndexError reports a face referencing a vertex the file has not defined.
type IndexError struct {
	Line  int
	Index int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("obj: line %d: vertex %d not contained in mesh", e.Line, e.Index)
}

// Record prefixes carrying data this layer does not represent. Lines
// starting with one of these are skipped, not rejected.
var skipPrefixes = []string{"#", "vt", "vn", "vp", "g", "o", "s", "usemtl", "mtllib", "l"}

func skippable(line string) bool {
	for _, p := range skipPrefixes {
		if line == p || strings.HasPrefix(line, p+" ") || strings.HasPrefix(line, p+"\t") {
			return true
		}
	}
	return false
}

// ReadOBJ scans OBJ records from r and returns the coordinate sequence and
// the 0-based face index groups. Face records may use the `i/t/n` slash
// syntax; only the vertex index is kept. Faces must reference already
// defined vertices and have at least three of them.
func ReadOBJ(r io.Reader) ([]r3.Vec, [][]int, error) {
	var (
		coords []r3.Vec
		faces  [][]int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || skippable(line):
			continue
		case strings.HasPrefix(line, "v "):
			v, err := parseVertex(strings.TrimPrefix(line, "v "), lineNo)
			if err != nil {
				return nil, nil, err
			}
			coords = append(coords, v)
		case strings.HasPrefix(line, "f "):
			f, err := parseFace(strings.TrimPrefix(line, "f "), lineNo, len(coords))
			if err != nil {
				return nil, nil, err
			}
			faces = append(faces, f)
		default:
			return nil, nil, &FormatError{Line: lineNo, Msg: "invalid file line"}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("obj: read failed: %w", err)
	}
	return coords, faces, nil
}

func parseVertex(s string, lineNo int) (r3.Vec, error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return r3.Vec{}, &FormatError{Line: lineNo, Msg: "vertex requires 3 coordinates"}
	}
	var xyz [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			// Bare integers are legal coordinates.
			n, ierr := strconv.Atoi(fields[i])
			if ierr != nil {
				return r3.Vec{}, &FormatError{Line: lineNo,
					Msg: fmt.Sprintf("failed to parse float %q", fields[i])}
			}
			f = float64(n)
		}
		xyz[i] = f
	}
	return r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func parseFace(s string, lineNo, nverts int) ([]int, error) {
	fields := strings.Fields(s)
	face := make([]int, 0, len(fields))
	for _, tok := range fields {
		idxStr := tok
		if i := strings.IndexByte(tok, '/'); i >= 0 {
			idxStr = tok[:i]
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 1 {
			return nil, &FormatError{Line: lineNo,
				Msg: fmt.Sprintf("failed to parse integer %q", idxStr)}
		}
		if idx > nverts {
			return nil, &IndexError{Line: lineNo, Index: idx}
		}
		face = append(face, idx-1)
	}
	if len(face) < 3 {
		return nil, &FormatError{Line: lineNo, Msg: "face does not have enough vertices"}
	}
	return face, nil
}

// ReadOBJFile reads OBJ records from a file.
func ReadOBJFile(path string) ([]r3.Vec, [][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("obj: %w", err)
	}
	defer f.Close()
	return ReadOBJ(f)
}

// LoadPolygonMesh reads an OBJ file and constructs a PolygonMesh from it.
func LoadPolygonMesh(path string, opts ...mesh.Option) (*mesh.PolygonMesh, error) {
	coords, faces, err := ReadOBJFile(path)
	if err != nil {
		return nil, err
	}
	return mesh.NewPolygonMesh(coords, faces, opts...)
}

// LoadTriangleMesh reads an OBJ file whose faces must all be triangles and
// constructs a TriangleMesh.
func LoadTriangleMesh(path string, opts ...mesh.Option) (*mesh.TriangleMesh, error) {
	coords, faces, err := ReadOBJFile(path)
	if err != nil {
		return nil, err
	}
	return mesh.NewTriangleMesh(coords, faces, opts...)
}

// WriteOBJ writes the mesh's vertex pool and faces as OBJ records with
// 1-based indices, returning the number of bytes written.
func WriteOBJ(w io.Writer, m *mesh.PolygonMesh) (int, error) {
	bytes := 0
	for _, v := range m.Vertices() {
		n, err := fmt.Fprintf(w, "v %g %g %g\n", v.X, v.Y, v.Z)
		if err != nil {
			return bytes, fmt.Errorf("obj: write failed: %w", err)
		}
		bytes += n
	}
	for i := 0; i < m.Len(); i++ {
		parts := make([]string, 0, m.Cell(i).Arity())
		for _, vi := range m.Cell(i).VertexIndices() {
			parts = append(parts, strconv.Itoa(vi+1))
		}
		n, err := fmt.Fprintf(w, "f %s\n", strings.Join(parts, " "))
		if err != nil {
			return bytes, fmt.Errorf("obj: write failed: %w", err)
		}
		bytes += n
	}
	return bytes, nil
}

// WriteOBJFile writes the mesh to path, returning the number of bytes
// written.
func WriteOBJFile(path string, m *mesh.PolygonMesh) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("obj: %w", err)
	}
	defer f.Close()
	return WriteOBJ(f, m)
}
