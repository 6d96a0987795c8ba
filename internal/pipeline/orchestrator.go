// Package pipeline runs generation sessions through the fixed stage
// sequence: it owns stage transitions, dependency skipping, failure
// isolation, progress aggregation, and final artifact assembly.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/logging"
	"inkwell/internal/providers"
	"inkwell/internal/session"
	"inkwell/internal/stage"
)

// Orchestrator advances sessions through the stage registry. It is safe
// for concurrent use; each Run call owns its session exclusively.
type Orchestrator struct {
	store    session.Store
	gateway  providers.Gateway
	logger   *slog.Logger
	reporter Reporter
	handlers []stage.Handler
	progress *monotonicProgress
}

// Option configures optional Orchestrator behavior.
type Option func(*Orchestrator)

// WithReporter installs a progress reporter.
func WithReporter(r Reporter) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.reporter = r
		}
	}
}

// New constructs an orchestrator over the given store and gateway.
func New(store session.Store, gateway providers.Gateway, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		store:    store,
		gateway:  gateway,
		logger:   logger,
		reporter: NopReporter{},
		handlers: handlers(gateway),
		progress: newMonotonicProgress(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// InitStages seeds a session with pending stage records in registry
// order. Existing records are kept so resumed sessions retain their
// terminal stages.
func InitStages(sess *session.Session) {
	for _, d := range stage.All() {
		if sess.Stage(d.ID) == nil {
			sess.Stages = append(sess.Stages, session.StageResult{
				StageID: d.ID,
				Status:  session.StagePending,
			})
		}
	}
}

// Health reports the readiness of every stage's backing capability.
func (o *Orchestrator) Health(ctx context.Context) []stage.Health {
	out := make([]stage.Health, 0, len(o.handlers))
	for _, handler := range o.handlers {
		out = append(out, handler.HealthCheck(ctx))
	}
	return out
}

// Run executes the session until it reaches a terminal status. Stage
// outcomes and progress are persisted as the run advances; persistence
// failures are logged but never interrupt the run.
func (o *Orchestrator) Run(ctx context.Context, sess *session.Session) error {
	logger := o.logger.With(logging.String(logging.FieldSessionID, sess.ID))
	InitStages(sess)

	sess.Status = session.StatusRunning
	o.persist(ctx, sess, logger)

	exec := &stage.Execution{Session: sess, Request: sess.Request}
	if err := rehydrate(exec, sess); err != nil {
		logger.Warn("failed to restore prior stage payloads", logging.Error(err))
	}

	defer o.progress.Forget(sess.ID)

	for i, handler := range o.handlers {
		d := handler.Descriptor()
		result := sess.Stage(d.ID)
		if result.Status.IsTerminal() {
			continue
		}

		if skipReason := o.skipReason(sess, d); skipReason != "" {
			result.MarkSkipped()
			if d.Mandatory() {
				// A mandatory stage is only skipped when an upstream
				// dependency failed; the session cannot finish.
				o.skipRemaining(sess, i+1)
				sess.Status = session.StatusFailed
				sess.ErrorMessage = fmt.Sprintf("stage %s skipped: %s", d.ID, skipReason)
				o.afterStageUpdate(ctx, sess, result, logger)
				logger.Error("pipeline failed",
					logging.String(logging.FieldEventType, "pipeline_failed"),
					logging.String(logging.FieldStage, d.ID),
					logging.String("reason", skipReason),
				)
				return &PipelineError{
					SessionID: sess.ID,
					StageID:   d.ID,
					Err:       fmt.Errorf("mandatory stage skipped: %s", skipReason),
				}
			}
			logger.Debug("stage skipped",
				logging.String(logging.FieldStage, d.ID),
				logging.String("reason", skipReason),
			)
			o.afterStageUpdate(ctx, sess, result, logger)
			continue
		}

		result.MarkProcessing()
		o.afterStageUpdate(ctx, sess, result, logger)
		logger.Info("stage started",
			logging.String(logging.FieldEventType, "stage_start"),
			logging.String(logging.FieldStage, d.ID),
		)

		stageStart := time.Now()
		payload, err := handler.Execute(ctx, exec)
		if err == nil {
			var encoded string
			encoded, err = stage.EncodePayload(payload)
			if err == nil {
				result.MarkCompleted(encoded)
				o.afterStageUpdate(ctx, sess, result, logger)
				logger.Info("stage completed",
					logging.String(logging.FieldEventType, "stage_complete"),
					logging.String(logging.FieldStage, d.ID),
					logging.Duration("stage_duration", time.Since(stageStart)),
				)
				continue
			}
		}

		stageErr := &StageError{StageID: d.ID, Mandatory: d.Mandatory(), Err: err}
		result.MarkFailed(err.Error())

		if d.Mandatory() {
			o.skipRemaining(sess, i+1)
			sess.Status = session.StatusFailed
			sess.ErrorMessage = fmt.Sprintf("stage %s: %v", d.ID, err)
			o.afterStageUpdate(ctx, sess, result, logger)
			logger.Error("pipeline failed",
				logging.String(logging.FieldEventType, "pipeline_failed"),
				logging.String(logging.FieldStage, d.ID),
				logging.Error(err),
			)
			return &PipelineError{SessionID: sess.ID, StageID: d.ID, Err: stageErr}
		}

		logger.Warn("optional stage failed",
			logging.String(logging.FieldEventType, "stage_failed"),
			logging.String(logging.FieldStage, d.ID),
			logging.Error(err),
		)
		o.afterStageUpdate(ctx, sess, result, logger)
	}

	sess.Artifact = assembleArtifact(exec)
	if sess.Artifact == nil {
		// Mandatory stages completed, so an absent artifact means the
		// stored article payload no longer decodes.
		err := fmt.Errorf("article payload unavailable after completion")
		sess.Status = session.StatusFailed
		sess.ErrorMessage = err.Error()
		o.persist(ctx, sess, logger)
		return &PipelineError{SessionID: sess.ID, StageID: stage.ArticleGeneration, Err: err}
	}

	sess.Status = session.StatusCompleted
	sess.Progress = 100
	o.persist(ctx, sess, logger)
	logger.Info("pipeline completed",
		logging.String(logging.FieldEventType, "pipeline_complete"),
		logging.Float64("estimated_cost", sess.EstimatedCost),
	)
	return nil
}

// skipReason decides whether a stage runs, returning the reason when it
// must be skipped instead. A failed dependency always skips; a skipped
// dependency skips only optional stages, since a mandatory stage can
// still run with reduced context while an optional one would bill a
// provider for nothing.
func (o *Orchestrator) skipReason(sess *session.Session, d stage.Descriptor) string {
	if d.Optional && !sess.Request.StageEnabled(d.ID) {
		return "disabled by request"
	}
	for _, dep := range d.DependsOn {
		depResult := sess.Stage(dep)
		if depResult == nil || depResult.Status == session.StageFailed {
			return fmt.Sprintf("dependency %s failed", dep)
		}
		if d.Optional && depResult.Status == session.StageSkipped {
			return fmt.Sprintf("dependency %s skipped", dep)
		}
	}
	return ""
}

// skipRemaining marks every non-terminal stage at or after position
// from as skipped after a mandatory stage failure.
func (o *Orchestrator) skipRemaining(sess *session.Session, from int) {
	descriptors := stage.All()
	for i := from; i < len(descriptors); i++ {
		result := sess.Stage(descriptors[i].ID)
		if result != nil && !result.Status.IsTerminal() {
			result.MarkSkipped()
		}
	}
}

// afterStageUpdate recomputes aggregate progress, persists the session,
// and notifies the reporter.
func (o *Orchestrator) afterStageUpdate(ctx context.Context, sess *session.Session, result *session.StageResult, logger *slog.Logger) {
	sess.Progress = o.progress.Observe(sess.ID, Aggregate(sess))
	o.persist(ctx, sess, logger)
	o.reporter.OnStageUpdate(sess.ID, result.StageID, result.Status, sess.Progress)
}

// persist writes the session back to the store. Failures are logged and
// swallowed so a storage outage cannot kill an in-flight run.
func (o *Orchestrator) persist(ctx context.Context, sess *session.Session, logger *slog.Logger) {
	sess.UpdatedAt = time.Now().UTC()
	if err := o.store.Update(ctx, sess); err != nil {
		logger.Warn("failed to persist session state", logging.Error(err))
	}
}

// rehydrate restores the execution accumulator from stage payloads that
// completed in a previous run of the same session.
func rehydrate(exec *stage.Execution, sess *session.Session) error {
	for _, result := range sess.Stages {
		if result.Status != session.StageCompleted || result.PayloadJSON == "" {
			continue
		}
		var err error
		switch result.StageID {
		case stage.KeywordResearch:
			exec.Keywords = &providers.KeywordResult{}
			err = stage.DecodePayload(result.PayloadJSON, exec.Keywords)
		case stage.AdvancedKeywords:
			exec.KeywordAnalysis = &providers.KeywordAnalysisResult{}
			err = stage.DecodePayload(result.PayloadJSON, exec.KeywordAnalysis)
		case stage.SerpAnalysis:
			exec.Serp = &providers.SerpResult{}
			err = stage.DecodePayload(result.PayloadJSON, exec.Serp)
		case stage.PerplexityResearch:
			exec.Research = &providers.ResearchResult{}
			err = stage.DecodePayload(result.PayloadJSON, exec.Research)
		case stage.ContentStrategy:
			exec.Strategy = &providers.StrategyResult{}
			err = stage.DecodePayload(result.PayloadJSON, exec.Strategy)
		case stage.ArticleGeneration:
			exec.Article = &providers.ArticleResult{}
			err = stage.DecodePayload(result.PayloadJSON, exec.Article)
		case stage.SEOOptimization:
			exec.Score = &providers.ScoreResult{}
			err = stage.DecodePayload(result.PayloadJSON, exec.Score)
		case stage.ImageGeneration:
			exec.Images = &providers.ImageResult{}
			err = stage.DecodePayload(result.PayloadJSON, exec.Images)
		case stage.QualityAssurance:
			exec.QA = &providers.QAResult{}
			err = stage.DecodePayload(result.PayloadJSON, exec.QA)
		}
		if err != nil {
			return fmt.Errorf("stage %s: %w", result.StageID, err)
		}
	}
	return nil
}
