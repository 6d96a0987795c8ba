package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/internal/stage"
)

func newStagesCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "stages",
		Short:       "List the pipeline stages in execution order",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptors := stage.All()
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), descriptors)
			}

			rows := make([][]string, 0, len(descriptors))
			for _, d := range descriptors {
				kind := "mandatory"
				if d.Optional {
					kind = "optional"
				}
				rows = append(rows, []string{
					d.ID,
					d.Name,
					kind,
					strings.Join(d.DependsOn, ", "),
					fmt.Sprintf("%d", d.Weight),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Kind", "Depends On", "Weight"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit stage descriptors as JSON")
	return cmd
}
