package cli

import (
	"fmt"

	"github.com/me/credsched/internal/report"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status <run_id>",
		Short: "Show the final process states of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(output)
			if err != nil {
				return err
			}
			run, err := client.GetRun(args[0])
			if err != nil {
				return fmt.Errorf("get run: %w", err)
			}
			return report.Write(cmd.OutOrStdout(), format, run, nil)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")
	return cmd
}
