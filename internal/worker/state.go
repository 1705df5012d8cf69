package worker

// State is the lifecycle state of a Worker
type State int

const (
	// StateCreated is the initial state before Initialize
	StateCreated State = iota

	// StateRunning means the loop is ticking and capturing
	StateRunning

	// StatePaused means the loop is ticking but captures are suppressed
	StatePaused

	// StateStopped is terminal: the loop has been told to stop or has failed
	StateStopped
)

// String returns a human-readable name for the state
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IsActive returns true while the loop is executing, paused or not
func (s State) IsActive() bool {
	return s == StateRunning || s == StatePaused
}

// IsTerminal returns true once the worker can no longer capture
func (s State) IsTerminal() bool {
	return s == StateStopped
}
