package model

// ProcessState represents the lifecycle state of a simulated Process.
type ProcessState string

const (
	ProcessStateReady    ProcessState = "READY"
	ProcessStateRunning  ProcessState = "RUNNING"
	ProcessStateBlocked  ProcessState = "BLOCKED"
	ProcessStateFinished ProcessState = "FINISHED"
)

// String returns the string representation of the process state.
func (s ProcessState) String() string {
	return string(s)
}

// IsTerminal returns true if the process is in a final state.
func (s ProcessState) IsTerminal() bool {
	return s == ProcessStateFinished
}

// IsValid reports whether s is one of the known process states.
func (s ProcessState) IsValid() bool {
	switch s {
	case ProcessStateReady, ProcessStateRunning, ProcessStateBlocked, ProcessStateFinished:
		return true
	}
	return false
}

// ValidProcessTransitions defines the allowed state transitions for Processes.
// FINISHED has no entry: it is absorbing.
var ValidProcessTransitions = map[ProcessState][]ProcessState{
	ProcessStateReady:   {ProcessStateRunning, ProcessStateBlocked},
	ProcessStateRunning: {ProcessStateBlocked, ProcessStateFinished, ProcessStateReady},
	ProcessStateBlocked: {ProcessStateReady},
}

// CanTransitionTo returns true if moving from the current state to next is valid.
func (s ProcessState) CanTransitionTo(next ProcessState) bool {
	for _, allowed := range ValidProcessTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RunState represents the lifecycle state of a simulation Run.
type RunState string

const (
	RunStateCompleted RunState = "COMPLETED"
	RunStateFailed    RunState = "FAILED"
)

// String returns the string representation of the run state.
func (s RunState) String() string {
	return string(s)
}

// BurstPolicy decides what a burst does once the running process has no
// credits left but still has CPU demand within its burst bound.
type BurstPolicy string

const (
	// BurstPolicyYield stops consuming CPU as soon as credits reach 0.
	BurstPolicyYield BurstPolicy = "yield"
	// BurstPolicyDrain keeps consuming CPU demand without charging credits.
	BurstPolicyDrain BurstPolicy = "drain"
)

// String returns the string representation of the burst policy.
func (p BurstPolicy) String() string {
	return string(p)
}

// IsValid reports whether p is a known burst policy.
func (p BurstPolicy) IsValid() bool {
	return p == BurstPolicyYield || p == BurstPolicyDrain
}
