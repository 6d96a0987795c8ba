package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResultCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var bodyOnly bool

	cmd := &cobra.Command{
		Use:   "result <session-id>",
		Short: "Print the generated artifact of a completed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			defer ctx.closeService()

			artifact, err := svc.Result(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), artifact)
			}

			out := cmd.OutOrStdout()
			if bodyOnly {
				fmt.Fprintln(out, artifact.Body)
				return nil
			}

			fmt.Fprintf(out, "# %s\n\n", artifact.Title)
			if artifact.Slug != "" {
				fmt.Fprintf(out, "slug: %s\n", artifact.Slug)
			}
			if artifact.MetaDescription != "" {
				fmt.Fprintf(out, "meta: %s\n", artifact.MetaDescription)
			}
			if len(artifact.Tags) > 0 {
				fmt.Fprintf(out, "tags: %v\n", artifact.Tags)
			}
			fmt.Fprintf(out, "\n%s\n", artifact.Body)
			if artifact.Metrics != nil {
				fmt.Fprintf(out, "\nwords: %d  seo score: %.0f  keyword density: %.2f%%\n",
					artifact.Metrics.WordCount, artifact.Metrics.SEOScore, artifact.Metrics.KeywordDensity)
			}
			for _, image := range artifact.Images {
				fmt.Fprintf(out, "image (%s): %s\n", image.Position, image.URL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the artifact as JSON")
	cmd.Flags().BoolVar(&bodyOnly, "body", false, "Print only the article body")
	return cmd
}
