package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkwell/internal/logging"
	"inkwell/internal/providers"
	"inkwell/internal/session"
	"inkwell/internal/stage"
	"inkwell/internal/testsupport"
)

func newTestService(t *testing.T, gateway providers.Gateway) (*Service, *session.MemoryStore) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := session.NewMemoryStore()
	svc := NewService(cfg, store, gateway, logging.NewNop())
	t.Cleanup(svc.Close)
	return svc, store
}

func validRequest() session.GenerationRequest {
	return session.GenerationRequest{
		Topics:      []string{"kubernetes cost optimization"},
		Industry:    "cloud infrastructure",
		ContentType: session.ContentTypeBlog,
	}
}

func TestSubmitRejectsInvalidRequest(t *testing.T) {
	svc, _ := newTestService(t, testsupport.NewFakeGateway())

	_, err := svc.Submit(context.Background(), session.GenerationRequest{})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestSubmitRunsToCompletion(t *testing.T) {
	svc, store := newTestService(t, testsupport.NewFakeGateway())

	submitted, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submitted.SessionID == "" {
		t.Fatal("missing session id")
	}
	if submitted.Estimate.Total != 1.30 {
		t.Errorf("estimate total = %v, want 1.30", submitted.Estimate.Total)
	}

	svc.Wait(submitted.SessionID)

	sess, err := svc.Progress(context.Background(), submitted.SessionID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if sess.Status != session.StatusCompleted {
		t.Fatalf("status = %s, want completed", sess.Status)
	}
	if sess.Progress != 100 {
		t.Errorf("progress = %v", sess.Progress)
	}

	artifact, err := svc.Result(context.Background(), submitted.SessionID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if artifact == nil || artifact.Body == "" {
		t.Errorf("artifact = %+v", artifact)
	}

	stored, err := store.Get(context.Background(), submitted.SessionID)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if stored.Status != session.StatusCompleted {
		t.Errorf("stored status = %s", stored.Status)
	}
}

type blockingGateway struct {
	*testsupport.FakeGateway
	release chan struct{}
}

func (g *blockingGateway) GenerateArticle(ctx context.Context, req providers.ArticleRequest) (*providers.ArticleResult, error) {
	select {
	case <-g.release:
		return g.FakeGateway.GenerateArticle(ctx, req)
	case <-ctx.Done():
		return nil, providers.FromContextErr(providers.CapabilityGeneration, ctx.Err())
	}
}

func waitForCalls(t *testing.T, gateway *testsupport.FakeGateway, method string, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if gateway.Calls(method) >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("method %s never reached %d calls", method, want)
}

func TestResultNotReadyWhileRunning(t *testing.T) {
	gateway := &blockingGateway{FakeGateway: testsupport.NewFakeGateway(), release: make(chan struct{})}
	svc, _ := newTestService(t, gateway)

	submitted, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitForCalls(t, gateway.FakeGateway, "PlanStrategy", 1)

	if _, err := svc.Result(context.Background(), submitted.SessionID); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}

	close(gateway.release)
	svc.Wait(submitted.SessionID)

	if _, err := svc.Result(context.Background(), submitted.SessionID); err != nil {
		t.Fatalf("Result after completion: %v", err)
	}
}

func TestCancelFailsSession(t *testing.T) {
	gateway := &blockingGateway{FakeGateway: testsupport.NewFakeGateway(), release: make(chan struct{})}
	svc, _ := newTestService(t, gateway)

	submitted, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitForCalls(t, gateway.FakeGateway, "PlanStrategy", 1)

	if err := svc.Cancel(submitted.SessionID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	svc.Wait(submitted.SessionID)

	sess, err := svc.Progress(context.Background(), submitted.SessionID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if sess.Status != session.StatusFailed {
		t.Fatalf("status = %s, want failed", sess.Status)
	}
	if _, err := svc.Result(context.Background(), submitted.SessionID); !errors.Is(err, ErrSessionFailed) {
		t.Fatalf("err = %v, want ErrSessionFailed", err)
	}
}

func TestCancelUnknownSession(t *testing.T) {
	svc, _ := newTestService(t, testsupport.NewFakeGateway())
	if err := svc.Cancel("missing"); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("err = %v, want ErrNotRunning", err)
	}
}

func TestSubmitFallsBackToMemoryWhenCreateFails(t *testing.T) {
	gateway := testsupport.NewFakeGateway()
	cfg := testsupport.NewConfig(t)
	store := session.NewMemoryStore()
	store.CreateErr = errors.New("disk full")
	svc := NewService(cfg, store, gateway, logging.NewNop())
	t.Cleanup(svc.Close)

	submitted, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit should survive store failure, got %v", err)
	}
	svc.Wait(submitted.SessionID)

	sess, err := svc.Progress(context.Background(), submitted.SessionID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if !sess.Ephemeral {
		t.Error("session should be marked ephemeral")
	}
	if sess.Status != session.StatusCompleted {
		t.Errorf("status = %s, want completed", sess.Status)
	}

	listed, err := svc.Sessions(context.Background())
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("sessions = %d, want 1", len(listed))
	}
}

func TestProgressUnknownSession(t *testing.T) {
	svc, _ := newTestService(t, testsupport.NewFakeGateway())
	if _, err := svc.Progress(context.Background(), "missing"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEstimateDoesNotCreateSessions(t *testing.T) {
	svc, store := newTestService(t, testsupport.NewFakeGateway())

	estimate, err := svc.Estimate(validRequest())
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if estimate.Total != 1.30 {
		t.Errorf("total = %v, want 1.30", estimate.Total)
	}

	listed, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("sessions = %d, want 0", len(listed))
	}
}

func TestHealthCheckReportsStages(t *testing.T) {
	svc, _ := newTestService(t, testsupport.NewFakeGateway())

	health, err := svc.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if len(health.Stages) != stage.Count() {
		t.Errorf("stage records = %d, want %d", len(health.Stages), stage.Count())
	}
}
