// Package playback provides the RSVP playback scheduler.
package playback

// State represents the playback state.
type State int

const (
	StateIdle     State = iota // Article loaded (or none), playback not started
	StatePlaying               // Words are advancing
	StatePaused                // Stopped mid-article by the reader
	StateFinished              // Last token reached, timer stopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ParseState converts a state name back to a State.
func ParseState(name string) (State, bool) {
	for _, s := range []State{StateIdle, StatePlaying, StatePaused, StateFinished} {
		if s.String() == name {
			return s, true
		}
	}
	return StateIdle, false
}
