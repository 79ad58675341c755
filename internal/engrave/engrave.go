// Package engrave tracks the condition of the protective Elbereth engraving
// on the player's square and decides how a rest request must be serviced.
package engrave

// Word is the protective glyph text.
const Word = "Elbereth"

// State is the tracked condition of the engraving.
type State string

const (
	// Absent: no engraving on the square.
	Absent State = "absent"
	// Effective: the glyph is present and intact.
	Effective State = "present-effective"
	// Corrupted: an engraving is present but the glyph is degraded and no
	// longer protective.
	Corrupted State = "present-corrupted"
)

// Action is what a rest request requires before the player may safely rest.
type Action int

const (
	// Rest: the glyph is intact, rest one turn.
	Rest Action = iota
	// Reengrave: write the glyph (again) first, then rest.
	Reengrave
)

// Machine is the engraving state machine. The zero value starts Absent.
type Machine struct {
	state State
}

// New returns a Machine in the given state, so that a persisted state can
// be restored across restarts. Unknown values degrade to Absent.
func New(state State) *Machine {
	switch state {
	case Effective, Corrupted:
		return &Machine{state: state}
	default:
		return &Machine{state: Absent}
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// ObserveRead records the square's engraving as read from the game. The
// intact glyph is effective; any other text is a corrupted engraving.
func (m *Machine) ObserveRead(text string) {
	if text == Word {
		m.state = Effective
	} else {
		m.state = Corrupted
	}
}

// ObserveErased records that the square holds no engraving at all.
func (m *Machine) ObserveErased() {
	m.state = Absent
}

// ObserveEngraved records a completed engrave of the glyph.
func (m *Machine) ObserveEngraved() {
	m.state = Effective
}

// RequestRestTurn reports how a rest request must be serviced given the
// current condition. Resting is only safe on an intact glyph; from any
// other state the glyph must be written first. Adjacency of hostile
// creatures is only knowable from the game's own "waiting to get hit?"
// prompt, so that check stays with the caller driving the keystrokes.
func (m *Machine) RequestRestTurn() Action {
	if m.state == Effective {
		return Rest
	}
	return Reengrave
}
