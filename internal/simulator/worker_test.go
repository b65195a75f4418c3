package simulator

import (
	"context"
	"sync"
	"testing"
	"time"

	"roadside/internal/domain"
	"roadside/internal/service"
)

type stubLister struct {
	requests []*domain.ServiceRequest
}

func (s *stubLister) GetByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.ServiceRequest, error) {
	out := make([]*domain.ServiceRequest, 0, len(s.requests))
	for _, r := range s.requests {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubAdvancer struct {
	mu    sync.Mutex
	calls []service.AdvanceParams
	err   error
}

func (s *stubAdvancer) Advance(ctx context.Context, params service.AdvanceParams) (*domain.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, params)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ServiceRequest{ID: params.RequestID, Status: params.Target}, nil
}

func (s *stubAdvancer) advanced() []service.AdvanceParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]service.AdvanceParams(nil), s.calls...)
}

func TestWorker_AdvancesAcceptedRequestAfterDelay(t *testing.T) {
	t.Parallel()

	lister := &stubLister{requests: []*domain.ServiceRequest{
		{
			ID:         "req-due",
			Status:     domain.StatusAccepted,
			AcceptedAt: time.Now().Add(-time.Minute),
		},
		{
			ID:         "req-fresh",
			Status:     domain.StatusAccepted,
			AcceptedAt: time.Now(),
		},
		{
			ID:     "req-en-route",
			Status: domain.StatusEnRoute,
		},
	}}
	advancer := &stubAdvancer{}

	w := NewWorker(lister, advancer, time.Second, 30*time.Second)
	w.tick(context.Background())

	calls := advancer.advanced()
	if len(calls) != 1 {
		t.Fatalf("expected 1 advance, got %d", len(calls))
	}
	if calls[0].RequestID != "req-due" {
		t.Errorf("expected req-due to advance, got %s", calls[0].RequestID)
	}
	if calls[0].Target != domain.StatusEnRoute {
		t.Errorf("expected target EN_ROUTE, got %s", calls[0].Target)
	}
}

func TestWorker_SkipsRequestWithoutAcceptanceTime(t *testing.T) {
	t.Parallel()

	lister := &stubLister{requests: []*domain.ServiceRequest{
		{ID: "req-1", Status: domain.StatusAccepted}, // zero AcceptedAt
	}}
	advancer := &stubAdvancer{}

	w := NewWorker(lister, advancer, time.Second, 0)
	w.tick(context.Background())

	if len(advancer.advanced()) != 0 {
		t.Error("expected no advances for a request with no acceptance time")
	}
}

func TestWorker_ExplicitActionWinsOverTick(t *testing.T) {
	t.Parallel()

	lister := &stubLister{requests: []*domain.ServiceRequest{
		{
			ID:         "req-1",
			Status:     domain.StatusAccepted,
			AcceptedAt: time.Now().Add(-time.Minute),
		},
	}}
	// The provider already moved the request on; the tick loses the race.
	advancer := &stubAdvancer{err: service.ErrInvalidTransition}

	w := NewWorker(lister, advancer, time.Second, 0)
	w.tick(context.Background()) // must not panic or log.Fatal

	if len(advancer.advanced()) != 1 {
		t.Error("expected the tick to attempt exactly one advance")
	}
}

func TestWorker_StopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	lister := &stubLister{}
	advancer := &stubAdvancer{}

	w := NewWorker(lister, advancer, 5*time.Millisecond, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
