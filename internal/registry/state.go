package registry

import "fmt"

// MutationState models a registry mutation as an explicit state machine.
// A mutation moves Viewing -> Submitting -> Persisted on success or
// Submitting -> Error on failure, and callers re-render from the resulting
// state instead of relying on an implicit full reload.
type MutationState string

// Mutation lifecycle states.
const (
	StateViewing    MutationState = "viewing"
	StateSubmitting MutationState = "submitting"
	StatePersisted  MutationState = "persisted"
	StateError      MutationState = "error"
)

var transitions = map[MutationState][]MutationState{
	StateViewing:    {StateSubmitting},
	StateSubmitting: {StatePersisted, StateError},
	StatePersisted:  {StateViewing},
	StateError:      {StateViewing},
}

// Mutation tracks a single mutation through its lifecycle.
type Mutation struct {
	state MutationState
	err   error
}

// NewMutation starts in the Viewing state.
func NewMutation() *Mutation { return &Mutation{state: StateViewing} }

// State returns the current lifecycle state.
func (m *Mutation) State() MutationState { return m.state }

// Err returns the failure recorded by Fail, if any.
func (m *Mutation) Err() error { return m.err }

// Begin marks the mutation as submitting.
func (m *Mutation) Begin() error { return m.to(StateSubmitting) }

// Persisted marks the mutation as durably applied.
func (m *Mutation) Persisted() error { return m.to(StatePersisted) }

// Fail records the failure and moves to the Error state.
func (m *Mutation) Fail(err error) error {
	if terr := m.to(StateError); terr != nil {
		return terr
	}
	m.err = err
	return nil
}

// Reset returns a terminal mutation to Viewing for the next interaction.
func (m *Mutation) Reset() error {
	if err := m.to(StateViewing); err != nil {
		return err
	}
	m.err = nil
	return nil
}

func (m *Mutation) to(next MutationState) error {
	for _, allowed := range transitions[m.state] {
		if allowed == next {
			m.state = next
			return nil
		}
	}
	return fmt.Errorf("invalid mutation transition %s -> %s", m.state, next)
}
