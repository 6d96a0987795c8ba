package api

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/config"
	"inkwell/internal/cost"
	"inkwell/internal/logging"
	"inkwell/internal/pipeline"
	"inkwell/internal/providers"
	"inkwell/internal/session"
	"inkwell/internal/stage"
)

// Service owns session submission and the registry of in-flight runs.
// A single Service instance is shared by every CLI invocation within a
// process; all methods are safe for concurrent use.
type Service struct {
	cfg      *config.Config
	store    session.Store
	gateway  providers.Gateway
	logger   *slog.Logger
	reporter pipeline.Reporter

	// fallback receives sessions whose creation could not be persisted
	// so their runs stay observable for the life of the process.
	fallback *session.MemoryStore

	mu   sync.Mutex
	runs map[string]*run
	wg   sync.WaitGroup
}

type run struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// ServiceOption configures optional Service behavior.
type ServiceOption func(*Service)

// WithReporter installs a progress reporter for every run the service starts.
func WithReporter(r pipeline.Reporter) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.reporter = r
		}
	}
}

// NewService constructs the service layer over an open store and an
// assembled gateway.
func NewService(cfg *config.Config, store session.Store, gateway providers.Gateway, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Service{
		cfg:      cfg,
		store:    store,
		gateway:  gateway,
		logger:   logger,
		reporter: pipeline.LogReporter{Logger: logger},
		fallback: session.NewMemoryStore(),
		runs:     make(map[string]*run),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitResult is returned to the caller immediately; the run proceeds
// in the background.
type SubmitResult struct {
	SessionID string
	Estimate  cost.Estimate
}

// Submit validates the request, creates the session, and starts the
// pipeline run. A store failure during creation downgrades the session
// to process-local memory instead of rejecting the submission.
func (s *Service) Submit(ctx context.Context, req session.GenerationRequest) (*SubmitResult, error) {
	if err := req.Validate(); err != nil {
		return nil, invalidRequest(err)
	}

	estimate := cost.ForRequest(req, s.cfg.Pricing)
	now := time.Now().UTC()
	sess := &session.Session{
		ID:            uuid.NewString(),
		Request:       req,
		Status:        session.StatusCreated,
		EstimatedCost: estimate.Total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	pipeline.InitStages(sess)

	runStore := s.store
	if err := s.store.Create(ctx, sess); err != nil {
		s.logger.Warn("session creation not persisted, continuing in memory",
			logging.String(logging.FieldSessionID, sess.ID),
			logging.Error(err),
		)
		sess.Ephemeral = true
		runStore = s.fallback
		if err := s.fallback.Create(ctx, sess); err != nil {
			return nil, storageFailure("create session", err)
		}
	}

	s.start(sess, runStore)
	return &SubmitResult{SessionID: sess.ID, Estimate: estimate}, nil
}

// Estimate prices a request without creating a session.
func (s *Service) Estimate(req session.GenerationRequest) (cost.Estimate, error) {
	if err := req.Validate(); err != nil {
		return cost.Estimate{}, invalidRequest(err)
	}
	return cost.ForRequest(req, s.cfg.Pricing), nil
}

// start launches the background run and registers it for cancellation.
func (s *Service) start(sess *session.Session, store session.Store) {
	runCtx, cancel := context.WithCancel(context.Background())
	r := &run{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	s.runs[sess.ID] = r
	s.mu.Unlock()

	orch := pipeline.New(store, s.gateway, s.logger, pipeline.WithReporter(s.reporter))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(r.done)
		defer cancel()
		defer func() {
			s.mu.Lock()
			delete(s.runs, sess.ID)
			s.mu.Unlock()
		}()

		if err := orch.Run(runCtx, sess); err != nil {
			s.logger.Warn("pipeline run ended with failure",
				logging.String(logging.FieldSessionID, sess.ID),
				logging.Error(err),
			)
		}
	}()
}

// Progress returns the latest persisted snapshot of the session.
func (s *Service) Progress(ctx context.Context, id string) (*session.Session, error) {
	return s.lookup(ctx, id)
}

// Result returns the artifact of a completed session. It fails with
// ErrNotReady while the run is in flight and ErrSessionFailed when the
// pipeline ended in failure.
func (s *Service) Result(ctx context.Context, id string) (*session.GeneratedArtifact, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	switch sess.Status {
	case session.StatusCompleted:
		return sess.Artifact, nil
	case session.StatusFailed:
		if sess.ErrorMessage != "" {
			return nil, errors.Join(ErrSessionFailed, errors.New(sess.ErrorMessage))
		}
		return nil, ErrSessionFailed
	default:
		return nil, ErrNotReady
	}
}

// Cancel stops an in-flight run. The interrupted stage surfaces as a
// provider failure, so the session ends failed through the normal
// mandatory-stage path.
func (s *Service) Cancel(id string) error {
	s.mu.Lock()
	r, ok := s.runs[id]
	s.mu.Unlock()
	if !ok {
		return ErrNotRunning
	}
	r.cancel()
	return nil
}

// Wait blocks until the session's run finishes. It returns immediately
// for sessions with no live run.
func (s *Service) Wait(id string) {
	s.mu.Lock()
	r, ok := s.runs[id]
	s.mu.Unlock()
	if ok {
		<-r.done
	}
}

// Sessions lists every known session, newest first.
func (s *Service) Sessions(ctx context.Context) ([]*session.Session, error) {
	stored, err := s.store.List(ctx)
	if err != nil {
		return nil, storageFailure("list sessions", err)
	}
	ephemeral, err := s.fallback.List(ctx)
	if err != nil {
		return nil, storageFailure("list ephemeral sessions", err)
	}
	all := append(stored, ephemeral...)
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

// Health aggregates store counts and per-stage capability readiness.
type Health struct {
	Sessions session.HealthSummary
	Stages   []stage.Health
}

// HealthCheck reports overall service readiness.
func (s *Service) HealthCheck(ctx context.Context) (Health, error) {
	summary, err := s.store.Health(ctx)
	if err != nil {
		return Health{}, storageFailure("session store health", err)
	}
	orch := pipeline.New(s.store, s.gateway, s.logger)
	return Health{Sessions: summary, Stages: orch.Health(ctx)}, nil
}

// Close cancels every in-flight run and waits for the goroutines to drain.
func (s *Service) Close() {
	s.mu.Lock()
	for _, r := range s.runs {
		r.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// lookup fetches a session snapshot from the primary store, falling
// back to process-local memory for sessions that were never persisted.
func (s *Service) lookup(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, session.ErrNotFound) {
		return nil, storageFailure("get session", err)
	}
	sess, err = s.fallback.Get(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, err
		}
		return nil, storageFailure("get session", err)
	}
	return sess, nil
}
