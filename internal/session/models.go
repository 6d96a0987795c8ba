package session

import (
	"strings"
	"time"
)

// StageStatus represents the lifecycle of a single pipeline stage.
type StageStatus string

const (
	StagePending    StageStatus = "pending"
	StageProcessing StageStatus = "processing"
	StageCompleted  StageStatus = "completed"
	StageFailed     StageStatus = "failed"
	StageSkipped    StageStatus = "skipped"
)

// Status represents the lifecycle of a session.
type Status string

const (
	StatusCreated   Status = "created"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{
	StatusCreated,
	StatusRunning,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known session statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a stage status is final for that stage.
func (s StageStatus) IsTerminal() bool {
	switch s {
	case StageCompleted, StageFailed, StageSkipped:
		return true
	default:
		return false
	}
}

// StageResult records the outcome of one stage within a session. It is
// owned by the session and mutated only by the orchestrator.
type StageResult struct {
	StageID      string      `json:"stage_id"`
	Status       StageStatus `json:"status"`
	Progress     float64     `json:"progress"`
	PayloadJSON  string      `json:"payload_json,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
	StartedAt    *time.Time  `json:"started_at,omitempty"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
}

// MarkProcessing transitions the stage to processing and stamps the start time.
func (r *StageResult) MarkProcessing() {
	now := time.Now().UTC()
	r.Status = StageProcessing
	r.Progress = 0
	r.ErrorMessage = ""
	r.StartedAt = &now
}

// MarkCompleted transitions the stage to completed with full progress.
func (r *StageResult) MarkCompleted(payloadJSON string) {
	now := time.Now().UTC()
	r.Status = StageCompleted
	r.Progress = 100
	r.PayloadJSON = payloadJSON
	r.CompletedAt = &now
}

// MarkFailed transitions the stage to failed, keeping the message for display.
func (r *StageResult) MarkFailed(message string) {
	now := time.Now().UTC()
	r.Status = StageFailed
	r.Progress = 0
	r.ErrorMessage = message
	r.CompletedAt = &now
}

// MarkSkipped transitions the stage to skipped. Skipped stages report
// full progress so the aggregate still reaches 100.
func (r *StageResult) MarkSkipped() {
	now := time.Now().UTC()
	r.Status = StageSkipped
	r.Progress = 100
	r.CompletedAt = &now
}

// ImageDescriptor describes one generated image attached to the artifact.
type ImageDescriptor struct {
	URL      string `json:"url"`
	AltText  string `json:"alt_text"`
	Position string `json:"position"`
}

// SEOMetrics carries computed content metrics. The struct is attached to
// the artifact only when the scoring stage completed.
type SEOMetrics struct {
	WordCount      int     `json:"word_count"`
	KeywordDensity float64 `json:"keyword_density"`
	SEOScore       float64 `json:"seo_score"`
}

// GeneratedArtifact bundles the final deliverable assembled from
// completed stages. Metrics and images are nil when the corresponding
// optional stages did not complete.
type GeneratedArtifact struct {
	Title           string            `json:"title"`
	Slug            string            `json:"slug,omitempty"`
	Body            string            `json:"body"`
	Tags            []string          `json:"tags,omitempty"`
	MetaDescription string            `json:"meta_description,omitempty"`
	Metrics         *SEOMetrics       `json:"metrics,omitempty"`
	Images          []ImageDescriptor `json:"images,omitempty"`
}

// Session represents one end-to-end pipeline run.
type Session struct {
	ID            string             `json:"id"`
	Request       GenerationRequest  `json:"request"`
	Stages        []StageResult      `json:"stages"`
	Progress      float64            `json:"progress"`
	Status        Status             `json:"status"`
	EstimatedCost float64            `json:"estimated_cost"`
	ErrorMessage  string             `json:"error_message,omitempty"`
	Artifact      *GeneratedArtifact `json:"artifact,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Ephemeral marks a session whose creation could not be persisted.
	// The run continues in memory; the flag itself is never stored.
	Ephemeral bool `json:"-"`
}

// Stage returns the stage result for the given id, or nil when absent.
func (s *Session) Stage(id string) *StageResult {
	for i := range s.Stages {
		if s.Stages[i].StageID == id {
			return &s.Stages[i]
		}
	}
	return nil
}

// IsTerminal reports whether the session reached a final status.
func (s *Session) IsTerminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

// FailedStage returns the first stage that ended failed, or nil.
func (s *Session) FailedStage() *StageResult {
	for i := range s.Stages {
		if s.Stages[i].Status == StageFailed {
			return &s.Stages[i]
		}
	}
	return nil
}

// Snapshot returns a deep copy safe to hand to callers while the
// orchestrator keeps mutating the original.
func (s *Session) Snapshot() *Session {
	cp := *s
	cp.Stages = make([]StageResult, len(s.Stages))
	copy(cp.Stages, s.Stages)
	if s.Artifact != nil {
		artifact := *s.Artifact
		if s.Artifact.Metrics != nil {
			metrics := *s.Artifact.Metrics
			artifact.Metrics = &metrics
		}
		artifact.Tags = append([]string(nil), s.Artifact.Tags...)
		artifact.Images = append([]ImageDescriptor(nil), s.Artifact.Images...)
		cp.Artifact = &artifact
	}
	return &cp
}

// HealthSummary describes aggregated session counts per lifecycle state.
type HealthSummary struct {
	Total     int
	Created   int
	Running   int
	Completed int
	Failed    int
}
