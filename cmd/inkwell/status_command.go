package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"inkwell/internal/session"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status <session-id>",
		Short: "Show the stage-by-stage progress of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			defer ctx.closeService()

			sess, err := svc.Progress(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), sess)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "session %s  status: %s  progress: %.0f%%  estimated cost: $%.2f\n",
				sess.ID, paintSessionStatus(sess.Status), sess.Progress, sess.EstimatedCost)
			if sess.ErrorMessage != "" {
				fmt.Fprintf(out, "error: %s\n", sess.ErrorMessage)
			}
			printStageTable(out, sess)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the session as JSON")
	return cmd
}

func printStageTable(out io.Writer, sess *session.Session) {
	rows := make([][]string, 0, len(sess.Stages))
	for _, result := range sess.Stages {
		rows = append(rows, []string{
			result.StageID,
			paintStageStatus(result.Status),
			fmt.Sprintf("%.0f%%", result.Progress),
			formatDuration(result.StartedAt, result.CompletedAt),
			result.ErrorMessage,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Stage", "Status", "Progress", "Duration", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
}

func formatDuration(start, end *time.Time) string {
	if start == nil || end == nil {
		return ""
	}
	return end.Sub(*start).Round(time.Millisecond).String()
}
