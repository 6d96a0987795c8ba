package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"inkwell/internal/api"
	"inkwell/internal/session"
)

type requestFlags struct {
	topics            []string
	industry          string
	audience          string
	contentType       string
	lengthClass       string
	writingStyle      string
	instructions      string
	disabledStages    []string
	minSearchVolume   int
	maxDifficulty     int
	competitorDomains []string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.topics, "topic", "t", nil, "Seed topic (repeatable; first is primary)")
	cmd.Flags().StringVar(&f.industry, "industry", "", "Target industry")
	cmd.Flags().StringVar(&f.audience, "audience", "", "Target audience")
	cmd.Flags().StringVar(&f.contentType, "type", string(session.ContentTypeBlog), "Content type (pillar, blog, whitepaper, case-study, guide, comparison)")
	cmd.Flags().StringVar(&f.lengthClass, "length", "", "Length class (short, standard, long)")
	cmd.Flags().StringVar(&f.writingStyle, "style", "", "Writing style")
	cmd.Flags().StringVar(&f.instructions, "instructions", "", "Custom instructions passed to generation")
	cmd.Flags().StringArrayVar(&f.disabledStages, "disable", nil, "Stage id to disable (repeatable)")
	cmd.Flags().IntVar(&f.minSearchVolume, "min-volume", 0, "Minimum keyword search volume")
	cmd.Flags().IntVar(&f.maxDifficulty, "max-difficulty", 100, "Maximum keyword difficulty (0-100)")
	cmd.Flags().StringArrayVar(&f.competitorDomains, "competitor", nil, "Competitor domain for SERP gap analysis (repeatable)")
}

func (f *requestFlags) request() (session.GenerationRequest, error) {
	contentType, ok := session.ParseContentType(f.contentType)
	if !ok {
		return session.GenerationRequest{}, fmt.Errorf("unknown content type %q", f.contentType)
	}

	req := session.GenerationRequest{
		Topics:             f.topics,
		Industry:           f.industry,
		Audience:           f.audience,
		ContentType:        contentType,
		LengthClass:        f.lengthClass,
		WritingStyle:       f.writingStyle,
		CustomInstructions: f.instructions,
		MinSearchVolume:    f.minSearchVolume,
		MaxDifficulty:      f.maxDifficulty,
		CompetitorDomains:  f.competitorDomains,
	}
	if len(f.disabledStages) > 0 {
		req.EnabledStages = make(map[string]bool, len(f.disabledStages))
		for _, id := range f.disabledStages {
			req.EnabledStages[id] = false
		}
	}
	return req, nil
}

// cliReporter streams stage transitions to stderr while a run is in
// flight.
type cliReporter struct {
	out io.Writer
}

func (r cliReporter) OnStageUpdate(_, stageID string, status session.StageStatus, progress float64) {
	fmt.Fprintf(r.out, "[%3.0f%%] %-26s %s\n", progress, stageID, status)
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	flags := &requestFlags{}
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the full content generation pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}

			ctx.reporter = cliReporter{out: cmd.ErrOrStderr()}
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			defer ctx.closeService()

			submitted, err := svc.Submit(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "session %s started (estimated cost $%.2f)\n",
				submitted.SessionID, submitted.Estimate.Total)

			svc.Wait(submitted.SessionID)

			sess, err := svc.Progress(cmd.Context(), submitted.SessionID)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), sess)
			}
			return printOutcome(cmd, svc, sess)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the final session as JSON")
	return cmd
}

func printOutcome(cmd *cobra.Command, svc *api.Service, sess *session.Session) error {
	out := cmd.OutOrStdout()
	printStageTable(out, sess)

	artifact, err := svc.Result(cmd.Context(), sess.ID)
	if err != nil {
		if errors.Is(err, api.ErrSessionFailed) {
			return fmt.Errorf("session %s failed: %s", sess.ID, sess.ErrorMessage)
		}
		return err
	}

	fmt.Fprintf(out, "\n%s\n\n", artifact.Title)
	fmt.Fprintln(out, artifact.Body)
	if artifact.Metrics != nil {
		fmt.Fprintf(out, "\nwords: %d  seo score: %.0f  keyword density: %.2f%%\n",
			artifact.Metrics.WordCount, artifact.Metrics.SEOScore, artifact.Metrics.KeywordDensity)
	}
	for _, image := range artifact.Images {
		fmt.Fprintf(out, "image (%s): %s\n", image.Position, image.URL)
	}
	return nil
}
