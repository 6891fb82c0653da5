// Package discretizer assembles sparse numerical operators over a CellMesh.
// It owns the closed set of supported schemes, the mapping between mesh
// entities and degrees of freedom, and nothing else: no solving, no time
// stepping, no boundary-condition enforcement. The same mesh can be handed
// to any scheme, and an external solver consumes the assembled operator.
package discretizer

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/notargets/polymesh/mesh"
)

// Scheme identifies a discretization scheme. The set is closed: assemblers
// switch exhaustively over it and unrecognized names fail at configuration
// time, not at assembly time.
type Scheme uint8

const (
	FiniteVolume Scheme = iota
	FiniteElement
)

var schemeNames = [...]string{"finite_volume", "finite_element"}

func (s Scheme) String() string {
	if int(s) < len(schemeNames) {
		return schemeNames[s]
	}
	return fmt.Sprintf("Scheme(%d)", uint8(s))
}

// ParseScheme resolves a configuration identifier to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	for i, n := range schemeNames {
		if n == name {
			return Scheme(i), nil
		}
	}
	return 0, fmt.Errorf("unrecognized scheme %q (supported: %v)", name, schemeNames)
}

// Config selects a scheme and its options. Upwind selects upwind-biased flux
// stencils for advection terms; the diffusion operators assembled here are
// unaffected by it.
type Config struct {
	Scheme Scheme
	Upwind bool
}

// NewConfig builds a validated Config from a scheme identifier.
func NewConfig(scheme string, upwind bool) (Config, error) {
	s, err := ParseScheme(scheme)
	if err != nil {
		return Config{}, err
	}
	return Config{Scheme: s, Upwind: upwind}, nil
}

// Operator is an assembled sparse system over degree-of-freedom indices.
// A is the primary operator (flux stencil or stiffness matrix); M is the
// mass matrix for schemes that have one, nil otherwise. DoFs maps between
// mesh entities and operator rows so the solver can interpret results back
// onto the mesh.
type Operator struct {
	A    *sparse.CSR
	M    *sparse.CSR
	DoFs *DoFMap
}

// Discretizer turns a borrowed mesh into an assembled Operator. Assemblers
// only read through the CellMesh interface and never mutate topology.
type Discretizer interface {
	Assemble(m mesh.CellMesh) (*Operator, error)
}

// New returns the assembler for the configured scheme.
func New(cfg Config) (Discretizer, error) {
	switch cfg.Scheme {
	case FiniteVolume:
		return &finiteVolume{cfg: cfg}, nil
	case FiniteElement:
		return &finiteElement{cfg: cfg}, nil
	}
	return nil, fmt.Errorf("unrecognized scheme %v", cfg.Scheme)
}
