package stage

import (
	"context"

	"inkwell/internal/providers"
	"inkwell/internal/session"
)

// Execution carries the session and the payloads accumulated by
// completed stages. Later stages read the fields earlier stages
// populated; a nil field means the producing stage was skipped or
// failed.
type Execution struct {
	Session *session.Session
	Request session.GenerationRequest

	Keywords        *providers.KeywordResult
	KeywordAnalysis *providers.KeywordAnalysisResult
	Serp            *providers.SerpResult
	Research        *providers.ResearchResult
	Strategy        *providers.StrategyResult
	Article         *providers.ArticleResult
	Score           *providers.ScoreResult
	Images          *providers.ImageResult
	QA              *providers.QAResult
}

// Handler describes the contract the orchestrator needs from each stage.
// Execute performs the stage's work against the execution state and
// returns the payload to persist on the stage record. HealthCheck
// reports whether the stage's backing capability is ready.
type Handler interface {
	Descriptor() Descriptor
	Execute(ctx context.Context, exec *Execution) (any, error)
	HealthCheck(ctx context.Context) Health
}

// Health reports whether a stage's backing capability can serve a run
// right now. Detail carries the reason when Ready is false.
type Health struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// Healthy reports a stage as ready.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy reports a stage as not ready, with the reason.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}
