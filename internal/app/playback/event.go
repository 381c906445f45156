package playback

// EventType represents a playback event type.
type EventType int

const (
	EventWordChanged  EventType = iota // Displayed word changed
	EventProgress                      // Position changed
	EventRateChanged                   // Rate changed
	EventStateChanged                  // Playback state changed
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventWordChanged:
		return "word_changed"
	case EventProgress:
		return "progress"
	case EventRateChanged:
		return "rate_changed"
	case EventStateChanged:
		return "state_changed"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type  EventType
	State State // Playback state when the event was emitted
	Index int   // Current token index
	Total int   // Number of tokens in the loaded sequence

	// EventWordChanged
	Word   string
	Before string
	Focus  string
	After  string

	// EventProgress
	Fraction float64

	// EventRateChanged
	Rate int
}
