package scheduler

import "github.com/me/credsched/pkg/model"

// Process is one simulated process competing for the CPU.
// Static parameters are fixed at construction; the scheduling state is
// mutated only by the Scheduler that owns it.
type Process struct {
	name     string
	order    int
	burst    int
	io       int
	priority int

	credits int
	demand  int
	state   model.ProcessState

	turns      int
	cpuTime    int
	finishedAt int
	wakeAt     int
}

// NewProcess creates a READY process whose credits equal its priority.
func NewProcess(spec model.ProcessSpec) *Process {
	return &Process{
		name:       spec.Name,
		order:      spec.Order,
		burst:      spec.Burst,
		io:         spec.IO,
		priority:   spec.Priority,
		credits:    spec.Priority,
		demand:     spec.Demand,
		state:      model.ProcessStateReady,
		finishedAt: -1,
	}
}

func (p *Process) Name() string              { return p.name }
func (p *Process) Order() int                { return p.order }
func (p *Process) Burst() int                { return p.burst }
func (p *Process) IO() int                   { return p.io }
func (p *Process) Priority() int             { return p.priority }
func (p *Process) Credits() int              { return p.credits }
func (p *Process) Demand() int               { return p.demand }
func (p *Process) State() model.ProcessState { return p.state }

// DecrementCredit removes one credit; credits never go below 0.
func (p *Process) DecrementCredit() {
	if p.credits > 0 {
		p.credits--
	}
}

// DecrementDemand reduces the remaining CPU demand by n, floored at 0.
func (p *Process) DecrementDemand(n int) {
	p.demand -= n
	if p.demand < 0 {
		p.demand = 0
	}
}

// ResetCredits applies the decay formula: credits = credits/2 + priority.
func (p *Process) ResetCredits() {
	p.credits = p.credits/2 + p.priority
}

// ChangeState moves the process to target if the transition table allows it.
// Any request on a FINISHED process is ignored.
func (p *Process) ChangeState(target model.ProcessState) error {
	if p.state.IsTerminal() {
		return nil
	}
	if !p.state.CanTransitionTo(target) {
		return &model.InvalidTransitionError{
			Entity: "process",
			ID:     p.name,
			From:   p.state.String(),
			To:     target.String(),
		}
	}
	p.state = target
	return nil
}

// Result returns an inspectable copy of the process state.
func (p *Process) Result() model.ProcessResult {
	return model.ProcessResult{
		Name:       p.name,
		Order:      p.order,
		State:      p.state,
		Credits:    p.credits,
		Demand:     p.demand,
		Priority:   p.priority,
		Turns:      p.turns,
		CPUTime:    p.cpuTime,
		FinishedAt: p.finishedAt,
	}
}
