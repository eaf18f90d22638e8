package pipeline

// State is a pipeline stage. A run moves forward through the stages and
// never re-enters one.
type State int

// Pipeline states in run order.
const (
	StateStart State = iota
	StateCollecting
	StateFormatting
	StateHighlighting
	StateEmitting
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateStart:        "start",
	StateCollecting:   "collecting",
	StateFormatting:   "formatting",
	StateHighlighting: "highlighting",
	StateEmitting:     "emitting",
	StateDone:         "done",
	StateFailed:       "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
