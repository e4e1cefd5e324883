package workload

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/me/credsched/internal/config"
	"github.com/me/credsched/internal/logging"
	"github.com/me/credsched/internal/scheduler"
	"github.com/me/credsched/pkg/model"
)

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return "run_" + uuid.New().String()
}

// Execute validates w and simulates it to completion on an isolated
// scheduler. A run that aborts (illegal transition, tick limit) is still
// returned, with State FAILED and the error recorded; only validation and
// construction problems are returned as errors.
func Execute(w *Workload, base config.SimulationConfig, logger *slog.Logger, opts ...scheduler.Option) (*model.Run, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	cfg := w.Apply(base)

	run := &model.Run{
		ID:          NewRunID(),
		Name:        w.Name,
		BurstPolicy: cfg.BurstPolicy,
		Heartbeat:   cfg.Heartbeat,
		CreatedAt:   time.Now().UTC(),
	}
	logger = logging.ForRun(logger, run.ID, w.Name)

	loop, err := scheduler.NewLoop(w.NewProcesses(), cfg, logger, opts...)
	if err != nil {
		return nil, err
	}
	// NewLoop fills in the default policy when none was configured.
	if run.BurstPolicy == "" {
		run.BurstPolicy = model.BurstPolicyYield
	}

	if err := loop.RunToCompletion(); err != nil {
		run.State = model.RunStateFailed
		run.Error = err.Error()
		logger.Error("simulation aborted", logging.ErrAttr(err))
	} else {
		run.State = model.RunStateCompleted
	}
	run.Summary = loop.Summary()
	run.Processes = loop.Results()
	return run, nil
}
