package discretizer

import (
	"fmt"

	"github.com/notargets/polymesh/mesh"
)

// UnsupportedCellShapeError reports a mesh cell whose variant the selected
// scheme cannot discretize.
type UnsupportedCellShapeError struct {
	Cell   int
	Type   mesh.CellType
	Scheme Scheme
}

func (e *UnsupportedCellShapeError) Error() string {
	return fmt.Sprintf("scheme %v cannot discretize cell %d of type %v", e.Scheme, e.Cell, e.Type)
}

// IllConditionedMeshError reports a mesh quantity too close to zero for the
// scheme to assemble safely: a vanishing cell measure, a collapsed centroid
// spacing, or a singular element Jacobian.
type IllConditionedMeshError struct {
	Cell   int
	Detail string
	Value  float64
}

func (e *IllConditionedMeshError) Error() string {
	return fmt.Sprintf("mesh ill-conditioned at cell %d: %s = %g", e.Cell, e.Detail, e.Value)
}
