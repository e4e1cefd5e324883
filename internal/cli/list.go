package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var state string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs recorded by the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, pg, err := client.ListRuns(state, limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs found.")
				return nil
			}

			fmt.Fprintf(out, "%-40s  %-10s  %-16s  %6s  %s\n", "ID", "STATE", "NAME", "CLOCK", "CREATED")
			fmt.Fprintf(out, "%-40s  %-10s  %-16s  %6s  %s\n", "----", "-----", "----", "-----", "-------")
			for _, r := range runs {
				fmt.Fprintf(out, "%-40s  %-10s  %-16s  %6d  %s\n",
					r.ID, r.State, r.Name, r.Summary.Clock, r.CreatedAt.Format("2006-01-02 15:04:05"))
			}

			if pg != nil && pg.HasMore {
				fmt.Fprintf(out, "\n(%d of %d shown)\n", len(runs), pg.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "Filter by run state (COMPLETED, FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}
