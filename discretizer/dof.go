package discretizer

// DoFKind names the mesh entity a degree of freedom lives on.
type DoFKind uint8

const (
	CellDoF DoFKind = iota
	VertexDoF
)

func (k DoFKind) String() string {
	return [...]string{"cell", "vertex"}[k]
}

// DoFMap maps between mesh entities and degree-of-freedom indices. Every
// entity of the map's kind carries exactly one scalar unknown, so the map is
// a bijection over [0, Len).
type DoFMap struct {
	Kind  DoFKind
	toDoF []int
	toEnt []int
}

func newDoFMap(kind DoFKind, n int) *DoFMap {
	m := &DoFMap{Kind: kind, toDoF: make([]int, n), toEnt: make([]int, n)}
	for i := 0; i < n; i++ {
		m.toDoF[i] = i
		m.toEnt[i] = i
	}
	return m
}

// Len is the number of degrees of freedom.
func (m *DoFMap) Len() int { return len(m.toDoF) }

// DoF returns the degree-of-freedom index for a mesh entity.
func (m *DoFMap) DoF(entity int) int { return m.toDoF[entity] }

// Entity returns the mesh entity carrying a degree of freedom.
func (m *DoFMap) Entity(dof int) int { return m.toEnt[dof] }
