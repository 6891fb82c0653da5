package mesh

import (
	"errors"
	"fmt"
)

// ErrNoNormal is returned when a normal is requested from a cell variant
// that has none (a tetrahedron has faces with normals, not a cell normal).
var ErrNoNormal = errors.New("normal undefined for volume cells")

// DegenerateCellError reports a cell whose measure (area or volume) fell
// below the geometric epsilon. It always names the offending cell; the
// computed value is preserved so callers can diagnose without re-deriving it.
type DegenerateCellError struct {
	Cell    int
	Measure float64
}

func (e *DegenerateCellError) Error() string {
	return fmt.Sprintf("cell %d is degenerate: measure %g", e.Cell, e.Measure)
}

// InvalidTopologyError reports malformed construction input: out-of-range or
// repeated vertex indices, wrong arity, non-manifold sharing, or inconsistent
// orientation. Construction fails as a whole; no partial mesh is returned.
// Cell is -1 when the violation is not attributable to a single cell.
type InvalidTopologyError struct {
	Cell   int
	Reason string
}

func (e *InvalidTopologyError) Error() string {
	if e.Cell < 0 {
		return fmt.Sprintf("invalid topology: %s", e.Reason)
	}
	return fmt.Sprintf("invalid topology at cell %d: %s", e.Cell, e.Reason)
}
