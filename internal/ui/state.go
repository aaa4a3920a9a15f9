// Package ui holds the host-independent UI controller: the
// Idle/Loading/ResultsShown/ErrorShown state machine, request sequencing
// and the table binding user triggers to actions.
package ui

// State is the controller's UI state
type State int

const (
	Idle State = iota
	Loading
	ResultsShown
	ErrorShown
)

var stateNames = map[State]string{
	Idle:         "idle",
	Loading:      "loading",
	ResultsShown: "results_shown",
	ErrorShown:   "error_shown",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
