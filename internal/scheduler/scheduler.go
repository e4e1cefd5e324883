package scheduler

import (
	"errors"

	"github.com/me/credsched/pkg/model"
)

// Scheduler drives a set of processes to completion on a simulated CPU.
type Scheduler interface {
	// RunToCompletion ticks until every process is FINISHED.
	RunToCompletion() error

	// Tick runs a single scheduling iteration and reports whether every
	// process has finished.
	Tick() (bool, error)

	// Results returns the current state of every process in registration order.
	Results() []model.ProcessResult

	// Summary returns the clock and loop counters.
	Summary() model.RunSummary
}

var (
	// ErrNoProcesses is returned when a scheduler is built without processes.
	ErrNoProcesses = errors.New("scheduler needs at least one process")

	// ErrTickLimit is returned when RunToCompletion exceeds the configured MaxTicks.
	ErrTickLimit = errors.New("tick limit reached before all processes finished")

	// ErrUnitLimit is returned when executed CPU units exceed the configured MaxUnits.
	ErrUnitLimit = errors.New("cpu unit limit reached before all processes finished")
)

// EventKind names what happened at a point of the simulation.
type EventKind string

const (
	EventSelected EventKind = "selected"
	EventTick     EventKind = "tick"
	EventBlocked  EventKind = "blocked"
	EventWoke     EventKind = "woke"
	EventReady    EventKind = "ready"
	EventFinished EventKind = "finished"
	EventReset    EventKind = "reset"
	EventIdle     EventKind = "idle"
)

// Event is a single observable step. Process is empty for idle events.
type Event struct {
	Clock   int       `json:"clock"`
	Kind    EventKind `json:"kind"`
	Process string    `json:"process,omitempty"`
	Credits int       `json:"credits"`
	Demand  int       `json:"demand"`
}

// Observer receives events as the scheduler emits them.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) { f(ev) }

// Recorder collects every event it observes.
type Recorder struct {
	Events []Event
}

// Observe appends ev.
func (r *Recorder) Observe(ev Event) {
	r.Events = append(r.Events, ev)
}

// Count returns how many recorded events have the given kind.
func (r *Recorder) Count(kind EventKind) int {
	n := 0
	for _, ev := range r.Events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
