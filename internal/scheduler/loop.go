package scheduler

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/me/credsched/internal/config"
	"github.com/me/credsched/pkg/model"
)

// Loop implements the Scheduler interface with the credit-based selection
// policy. A Loop owns its clock and processes; it is not safe for
// concurrent use.
type Loop struct {
	procs    []*Process
	config   config.SimulationConfig
	logger   *slog.Logger
	observer Observer

	clock      int
	iterations int
	resets     int
	units      int
}

// Option configures optional Loop dependencies.
type Option func(*Loop)

// WithObserver registers an observer for scheduling events.
func WithObserver(o Observer) Option {
	return func(l *Loop) {
		l.observer = o
	}
}

var _ Scheduler = (*Loop)(nil)

// NewLoop creates a scheduler over procs. The slice order is the
// registration order used as the last-resort tie-break.
func NewLoop(procs []*Process, cfg config.SimulationConfig, logger *slog.Logger, opts ...Option) (*Loop, error) {
	if len(procs) == 0 {
		return nil, ErrNoProcesses
	}
	if cfg.BurstPolicy == "" {
		cfg.BurstPolicy = model.BurstPolicyYield
	}
	if !cfg.BurstPolicy.IsValid() {
		return nil, fmt.Errorf("unknown burst policy %q", cfg.BurstPolicy)
	}

	l := &Loop{
		procs:  append([]*Process(nil), procs...),
		config: cfg,
		logger: logger.With("component", "scheduler"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Clock returns the current simulated time.
func (l *Loop) Clock() int { return l.clock }

// Processes returns the scheduled processes in registration order.
func (l *Loop) Processes() []*Process {
	return append([]*Process(nil), l.procs...)
}

// RunToCompletion ticks until every process is FINISHED. Termination is
// guaranteed only when every process has priority >= 1 and a positive burst
// while it still has demand; MaxTicks bounds runs that violate this.
func (l *Loop) RunToCompletion() error {
	l.logger.Info("simulation started",
		"processes", len(l.procs),
		"burst_policy", l.config.BurstPolicy,
		"heartbeat", l.config.Heartbeat,
	)

	for {
		done, err := l.Tick()
		if err != nil {
			return err
		}
		if done {
			l.logger.Info("simulation finished", "clock", l.clock, "iterations", l.iterations, "resets", l.resets)
			return nil
		}
		if l.config.MaxTicks > 0 && l.iterations >= l.config.MaxTicks {
			return fmt.Errorf("%w (ticks=%d, clock=%d)", ErrTickLimit, l.iterations, l.clock)
		}
		if l.budgetSpent() {
			return fmt.Errorf("%w (units=%d, clock=%d)", ErrUnitLimit, l.units, l.clock)
		}
	}
}

// Tick runs a single scheduling iteration.
func (l *Loop) Tick() (bool, error) {
	if l.AllFinished() {
		return true, nil
	}
	l.iterations++

	// Phase 1: Return processes whose I/O wait has elapsed to READY.
	if err := l.wakeBlocked(); err != nil {
		return false, fmt.Errorf("wake blocked: %w", err)
	}

	// Phase 2: Run the best candidate, or redistribute credits when every
	// READY process is exhausted.
	if p := l.Select(); p != nil {
		l.emit(EventSelected, p)
		if err := l.RunProcess(p); err != nil {
			return false, fmt.Errorf("run process %s: %w", p.name, err)
		}
	} else if l.anyReady() && l.AllReadyExhausted() {
		l.ResetAllCredits()
	} else {
		l.emit(EventIdle, nil)
	}

	// Phase 3: Heartbeat.
	if l.config.Heartbeat {
		l.advance(1)
	}

	return l.AllFinished(), nil
}

// Select returns the READY process with the most credits, breaking ties by
// the smaller creation order and then by registration order. It returns nil
// when no READY process has credits.
func (l *Loop) Select() *Process {
	var best *Process
	for _, p := range l.procs {
		if p.state != model.ProcessStateReady || p.credits <= 0 {
			continue
		}
		if best == nil ||
			p.credits > best.credits ||
			(p.credits == best.credits && p.order < best.order) {
			best = p
		}
	}
	return best
}

// RunProcess gives p one scheduling turn: start, burst, then disposition.
func (l *Loop) RunProcess(p *Process) error {
	if err := l.StartProcess(p); err != nil {
		return err
	}
	l.ExecuteBurst(p)
	return l.FinishOrBlock(p)
}

// StartProcess moves p to RUNNING and counts the turn.
func (l *Loop) StartProcess(p *Process) error {
	if err := p.ChangeState(model.ProcessStateRunning); err != nil {
		return err
	}
	p.turns++
	l.logger.Debug("process running", "process", p.name, "clock", l.clock, "credits", p.credits)
	return nil
}

// ExecuteBurst consumes CPU for at most min(burst, demand) units and returns
// the units executed. Each unit costs one credit; with no credits left the
// burst either stops (yield) or keeps consuming demand for free (drain).
// A spent MaxUnits budget also ends the burst.
func (l *Loop) ExecuteBurst(p *Process) int {
	bound := min(p.burst, p.demand)
	executed := 0
	for i := 0; i < bound; i++ {
		if l.budgetSpent() {
			break
		}
		if p.credits > 0 {
			p.DecrementCredit()
		} else if l.config.BurstPolicy != model.BurstPolicyDrain {
			break
		}
		p.DecrementDemand(1)
		p.cpuTime++
		l.units++
		l.advance(1)
		executed++
		l.emit(EventTick, p)

		if p.demand == 0 {
			break
		}
	}
	return executed
}

// FinishOrBlock decides where p goes after its burst: FINISHED when no demand
// remains, BLOCKED when it performs I/O, READY otherwise.
func (l *Loop) FinishOrBlock(p *Process) error {
	switch {
	case p.demand == 0:
		if err := p.ChangeState(model.ProcessStateFinished); err != nil {
			return err
		}
		if p.finishedAt < 0 {
			p.finishedAt = l.clock
		}
		l.emit(EventFinished, p)
		l.logger.Info("process finished", "process", p.name, "clock", l.clock)
		return nil
	case p.io > 0:
		return l.BlockForIO(p)
	default:
		if err := p.ChangeState(model.ProcessStateReady); err != nil {
			return err
		}
		l.emit(EventReady, p)
		return nil
	}
}

// BlockForIO moves p to BLOCKED and charges its I/O duration to the clock.
// The process becomes READY again on the first tick at or after the charge.
func (l *Loop) BlockForIO(p *Process) error {
	if err := p.ChangeState(model.ProcessStateBlocked); err != nil {
		return err
	}
	if p.state != model.ProcessStateBlocked {
		return nil
	}
	l.advance(p.io)
	p.wakeAt = l.clock
	l.emit(EventBlocked, p)
	return nil
}

// AllReadyExhausted reports whether no process is READY with credits left.
func (l *Loop) AllReadyExhausted() bool {
	for _, p := range l.procs {
		if p.state == model.ProcessStateReady && p.credits > 0 {
			return false
		}
	}
	return true
}

// AllFinished reports whether every process is FINISHED.
func (l *Loop) AllFinished() bool {
	for _, p := range l.procs {
		if !p.state.IsTerminal() {
			return false
		}
	}
	return true
}

// ResetAllCredits applies the decay formula to every process, whatever its state.
func (l *Loop) ResetAllCredits() {
	l.resets++
	for _, p := range l.procs {
		p.ResetCredits()
		l.emit(EventReset, p)
	}
	l.logger.Debug("credits redistributed", "clock", l.clock, "resets", l.resets)
}

// Results returns the current state of every process in registration order.
func (l *Loop) Results() []model.ProcessResult {
	out := make([]model.ProcessResult, len(l.procs))
	for i, p := range l.procs {
		out[i] = p.Result()
	}
	return out
}

// Summary returns the clock and loop counters.
func (l *Loop) Summary() model.RunSummary {
	return model.RunSummary{
		Clock:      l.clock,
		Iterations: l.iterations,
		Resets:     l.resets,
	}
}

// advance moves the clock forward by n, saturating at math.MaxInt so the
// clock never runs backwards.
func (l *Loop) advance(n int) {
	if n > math.MaxInt-l.clock {
		l.clock = math.MaxInt
		return
	}
	l.clock += n
}

func (l *Loop) budgetSpent() bool {
	return l.config.MaxUnits > 0 && l.units >= l.config.MaxUnits
}

func (l *Loop) anyReady() bool {
	for _, p := range l.procs {
		if p.state == model.ProcessStateReady {
			return true
		}
	}
	return false
}

func (l *Loop) wakeBlocked() error {
	for _, p := range l.procs {
		if p.state != model.ProcessStateBlocked || p.wakeAt > l.clock {
			continue
		}
		if err := p.ChangeState(model.ProcessStateReady); err != nil {
			return err
		}
		l.emit(EventWoke, p)
	}
	return nil
}

func (l *Loop) emit(kind EventKind, p *Process) {
	ev := Event{Clock: l.clock, Kind: kind}
	if p != nil {
		ev.Process = p.name
		ev.Credits = p.credits
		ev.Demand = p.demand
	}
	if l.observer != nil {
		l.observer.Observe(ev)
	}
	l.logger.Debug("event", "kind", kind, "clock", ev.Clock, "process", ev.Process, "credits", ev.Credits, "demand", ev.Demand)
}
