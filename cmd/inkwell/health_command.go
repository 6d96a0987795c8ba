package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show session store counts and provider readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			defer ctx.closeService()

			health, err := svc.HealthCheck(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), health)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sessions: %d total, %d running, %d completed, %d failed\n",
				health.Sessions.Total, health.Sessions.Running, health.Sessions.Completed, health.Sessions.Failed)

			rows := make([][]string, 0, len(health.Stages))
			for _, record := range health.Stages {
				ready := "ready"
				if !record.Ready {
					ready = "unready"
				}
				rows = append(rows, []string{record.Name, ready, record.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Stage", "Readiness", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit health as JSON")
	return cmd
}
