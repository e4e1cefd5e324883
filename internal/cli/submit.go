package cli

import (
	"fmt"

	"github.com/me/credsched/internal/report"
	"github.com/me/credsched/internal/workload"
	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "submit <workload-file>",
		Short: "Simulate a workload on a credsched server and record the run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(output)
			if err != nil {
				return err
			}
			w, err := workload.Load(args[0])
			if err != nil {
				return err
			}

			run, err := client.SubmitRun(w)
			if err != nil {
				return fmt.Errorf("submit workload: %w", err)
			}
			return report.Write(cmd.OutOrStdout(), format, run, nil)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")
	return cmd
}
