package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEstimateCommand(ctx *commandContext) *cobra.Command {
	flags := &requestFlags{}
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the provider cost of a request without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			defer ctx.closeService()

			estimate, err := svc.Estimate(req)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), estimate)
			}

			rows := make([][]string, 0, len(estimate.Lines))
			for _, line := range estimate.Lines {
				enabled := "yes"
				if !line.Enabled {
					enabled = "no"
				}
				rows = append(rows, []string{
					line.StageID,
					enabled,
					fmt.Sprintf("$%.3f", line.UnitCost),
					fmt.Sprintf("$%.3f", line.Cost),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Stage", "Enabled", "Unit", "Cost"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "estimated total: $%.2f\n", estimate.Total)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the estimate as JSON")
	return cmd
}
