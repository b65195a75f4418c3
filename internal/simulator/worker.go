// Package simulator drives demo deployments where no real provider app is
// connected. It replaces the original randomized progression with a
// deterministic rule: an accepted request goes en route a fixed delay after
// acceptance. Arrival, completion and payment still require explicit
// actions, so an explicit action always wins over a simulator tick.
package simulator

import (
	"context"
	"errors"
	"log"
	"time"

	"roadside/internal/domain"
	"roadside/internal/service"
)

// RequestAdvancer is the slice of RequestService the worker needs.
type RequestAdvancer interface {
	Advance(ctx context.Context, params service.AdvanceParams) (*domain.ServiceRequest, error)
}

// RequestLister lists requests in a given status.
type RequestLister interface {
	GetByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.ServiceRequest, error)
}

// Worker periodically advances accepted requests to EN_ROUTE.
type Worker struct {
	requests    RequestLister
	advancer    RequestAdvancer
	interval    time.Duration
	acceptDelay time.Duration
}

// NewWorker creates a new simulation worker.
func NewWorker(requests RequestLister, advancer RequestAdvancer, interval, acceptDelay time.Duration) *Worker {
	return &Worker{
		requests:    requests,
		advancer:    advancer,
		interval:    interval,
		acceptDelay: acceptDelay,
	}
}

// Run ticks until the context is cancelled. Each tick is independent; a
// failed tick is retried naturally at the next one.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Printf("simulator: running (interval=%s, accept delay=%s)", w.interval, w.acceptDelay)

	for {
		select {
		case <-ctx.Done():
			log.Println("simulator: stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	accepted, err := w.requests.GetByStatus(ctx, domain.StatusAccepted)
	if err != nil {
		log.Printf("simulator: list accepted requests: %v", err)
		return
	}

	now := time.Now()
	for _, req := range accepted {
		if req.AcceptedAt.IsZero() || now.Sub(req.AcceptedAt) < w.acceptDelay {
			continue
		}

		_, err := w.advancer.Advance(ctx, service.AdvanceParams{
			RequestID: req.ID,
			Target:    domain.StatusEnRoute,
		})
		if err != nil {
			// A racing explicit action or cancellation got there first.
			if errors.Is(err, service.ErrInvalidTransition) {
				continue
			}
			log.Printf("simulator: advance request %s: %v", req.ID, err)
		}
	}
}
