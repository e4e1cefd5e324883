package cli

import (
	"fmt"

	"github.com/me/credsched/internal/config"
	"github.com/me/credsched/internal/report"
	"github.com/me/credsched/internal/scheduler"
	"github.com/me/credsched/internal/workload"
	"github.com/me/credsched/pkg/model"
	"github.com/spf13/cobra"
)

// simFlags are the simulation overrides shared by run and demo.
type simFlags struct {
	policy      string
	noHeartbeat bool
	maxTicks    int
	maxUnits    int
	trace       bool
	output      string
}

func (f *simFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.policy, "policy", string(model.BurstPolicyYield), "Mid-burst credit exhaustion policy (yield, drain)")
	cmd.Flags().BoolVar(&f.noHeartbeat, "no-heartbeat", false, "Do not add one clock unit per scheduler iteration")
	cmd.Flags().IntVar(&f.maxTicks, "max-ticks", 0, "Abort after this many scheduler iterations (0 = unlimited)")
	cmd.Flags().IntVar(&f.maxUnits, "max-units", 0, "Abort after this many executed CPU units (0 = unlimited)")
	cmd.Flags().BoolVar(&f.trace, "trace", false, "Print every scheduling event before the final states")
	cmd.Flags().StringVarP(&f.output, "output", "o", "text", "Output format (text, json)")
}

// override copies explicitly set flags onto the workload; unset flags keep
// the workload's own values.
func (f *simFlags) override(cmd *cobra.Command, w *workload.Workload) {
	if cmd.Flags().Changed("policy") {
		w.BurstPolicy = model.BurstPolicy(f.policy)
	}
	if cmd.Flags().Changed("no-heartbeat") {
		hb := !f.noHeartbeat
		w.Heartbeat = &hb
	}
	if cmd.Flags().Changed("max-ticks") {
		w.MaxTicks = f.maxTicks
	}
}

func newRunCmd() *cobra.Command {
	var flags simFlags

	cmd := &cobra.Command{
		Use:   "run <workload-file>",
		Short: "Simulate a workload to completion and print the final process states",
		Long: `Loads a YAML or JSON workload, runs the credit scheduler until every
process is FINISHED and prints each process's final state, credits and
remaining CPU demand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workload.Load(args[0])
			if err != nil {
				return err
			}
			return simulate(cmd, w, &flags)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newDemoCmd() *cobra.Command {
	var flags simFlags

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Simulate the built-in four-process workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return simulate(cmd, workload.Demo(), &flags)
		},
	}
	flags.bind(cmd)
	return cmd
}

func simulate(cmd *cobra.Command, w *workload.Workload, flags *simFlags) error {
	format, err := report.ParseFormat(flags.output)
	if err != nil {
		return err
	}
	flags.override(cmd, w)

	var opts []scheduler.Option
	rec := &scheduler.Recorder{}
	if flags.trace {
		opts = append(opts, scheduler.WithObserver(rec))
	}

	base := config.DefaultSimulationConfig()
	base.MaxUnits = flags.maxUnits

	run, err := workload.Execute(w, base, logger, opts...)
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), format, run, rec.Events); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if run.State == model.RunStateFailed {
		return fmt.Errorf("run %s failed: %s", run.ID, run.Error)
	}
	return nil
}
