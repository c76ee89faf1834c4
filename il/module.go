package il

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/gofrs/uuid"
)

// Module is a set of emitted method bodies handed to the assembler as one
// unit. Each module carries a unique identifier so artifacts produced by
// separate runs can be told apart.
type Module struct {
	id     uuid.UUID
	name   string
	bodies []*Body
	index  map[string]int
}

// NewModule creates a module. Bodies are ordered by method name.
func NewModule(name string, bodies []*Body) (*Module, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generating module id: %w", err)
	}
	sorted := append([]*Body(nil), bodies...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name() < sorted[j].Name()
	})
	index := make(map[string]int, len(sorted))
	for i, b := range sorted {
		if _, dup := index[b.Name()]; dup {
			return nil, fmt.Errorf("duplicate method body %s", b.Name())
		}
		index[b.Name()] = i
	}
	return &Module{id: id, name: name, bodies: sorted, index: index}, nil
}

// ID returns the module's unique identifier.
func (m *Module) ID() uuid.UUID { return m.id }

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// BodyCount returns the number of method bodies.
func (m *Module) BodyCount() int { return len(m.bodies) }

// BodyAt returns the body at the given index.
func (m *Module) BodyAt(i int) *Body { return m.bodies[i] }

// Body returns the body of the named method.
func (m *Module) Body(name string) (*Body, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.bodies[i], true
}

// Bodies returns the method bodies in name order.
func (m *Module) Bodies() []*Body {
	return append([]*Body(nil), m.bodies...)
}

type moduleState struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Bodies []*bodyState `json:"bodies"`
}

// MarshalModule converts a Module into its JSON representation.
func MarshalModule(m *Module) ([]byte, error) {
	state := moduleState{
		ID:     m.id.String(),
		Name:   m.name,
		Bodies: make([]*bodyState, len(m.bodies)),
	}
	for i, b := range m.bodies {
		state.Bodies[i] = stateFromBody(b)
	}
	return json.Marshal(state)
}

// UnmarshalModule converts a JSON representation back into a Module,
// keeping its identifier.
func UnmarshalModule(data []byte) (*Module, error) {
	var state moduleState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	id, err := uuid.FromString(state.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid module id: %w", err)
	}
	bodies := make([]*Body, len(state.Bodies))
	for i, s := range state.Bodies {
		if bodies[i], err = bodyFromState(s); err != nil {
			return nil, fmt.Errorf("body %s: %w", s.Name, err)
		}
	}
	m, err := NewModule(state.Name, bodies)
	if err != nil {
		return nil, err
	}
	m.id = id
	return m, nil
}
