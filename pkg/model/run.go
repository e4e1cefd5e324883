package model

import "time"

// ProcessSpec is the construction-time description of a simulated process.
// All numeric fields are time units except Priority and Order.
type ProcessSpec struct {
	Name     string `json:"name" yaml:"name"`
	Burst    int    `json:"burst" yaml:"burst"`
	IO       int    `json:"io" yaml:"io"`
	Demand   int    `json:"demand" yaml:"demand"`
	Priority int    `json:"priority" yaml:"priority"`
	Order    int    `json:"order" yaml:"order"`
}

// ProcessResult is the inspectable state of a process after (or during) a run.
type ProcessResult struct {
	Name       string       `json:"name"`
	Order      int          `json:"order"`
	State      ProcessState `json:"state"`
	Credits    int          `json:"credits"`
	Demand     int          `json:"demand"`
	Priority   int          `json:"priority"`
	Turns      int          `json:"turns"`
	CPUTime    int          `json:"cpu_time"`
	FinishedAt int          `json:"finished_at"` // -1 while unfinished
}

// RunSummary aggregates the scheduler counters of a run.
type RunSummary struct {
	Clock      int `json:"clock"`
	Iterations int `json:"iterations"`
	Resets     int `json:"resets"`
}

// Run is a completed simulation of one workload.
type Run struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	State       RunState        `json:"state"`
	BurstPolicy BurstPolicy     `json:"burst_policy"`
	Heartbeat   bool            `json:"heartbeat"`
	Summary     RunSummary      `json:"summary"`
	Processes   []ProcessResult `json:"processes"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
