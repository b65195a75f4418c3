package domain

import (
	"testing"
	"time"
)

func TestCanTransition_ForwardPathOnly(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to RequestStatus }{
		{StatusRequested, StatusAccepted},
		{StatusAccepted, StatusEnRoute},
		{StatusEnRoute, StatusArrived},
		{StatusArrived, StatusCompleted},
		{StatusCompleted, StatusPaid},
	}
	for _, tr := range allowed {
		if !CanTransition(tr.from, tr.to) {
			t.Errorf("expected %s -> %s to be allowed", tr.from, tr.to)
		}
	}

	rejected := []struct{ from, to RequestStatus }{
		{StatusRequested, StatusEnRoute}, // skips a step
		{StatusAccepted, StatusArrived},
		{StatusAccepted, StatusCompleted},
		{StatusEnRoute, StatusPaid},
		{StatusArrived, StatusEnRoute}, // backwards
		{StatusCompleted, StatusArrived},
		{StatusPaid, StatusRequested}, // terminal
		{StatusPaid, StatusAccepted},
		{StatusCancelled, StatusAccepted},
		{StatusCancelled, StatusCancelled},
	}
	for _, tr := range rejected {
		if CanTransition(tr.from, tr.to) {
			t.Errorf("expected %s -> %s to be rejected", tr.from, tr.to)
		}
	}
}

func TestCanTransition_CancelledReachableBeforeCompletion(t *testing.T) {
	t.Parallel()

	for _, from := range []RequestStatus{StatusRequested, StatusAccepted, StatusEnRoute, StatusArrived} {
		if !CanTransition(from, StatusCancelled) {
			t.Errorf("expected %s -> CANCELLED to be allowed", from)
		}
	}
	for _, from := range []RequestStatus{StatusCompleted, StatusPaid, StatusCancelled} {
		if CanTransition(from, StatusCancelled) {
			t.Errorf("expected %s -> CANCELLED to be rejected", from)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	for _, s := range []RequestStatus{StatusPaid, StatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []RequestStatus{StatusRequested, StatusAccepted, StatusEnRoute, StatusArrived, StatusCompleted} {
		if s.IsTerminal() {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}

func TestRemainingETA_DecaysWithCeiling(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"countdown not started yet", 0, 15},
		{"thirty seconds in rounds up", 30 * time.Second, 15},
		{"one minute in", time.Minute, 14},
		{"partial minute rounds up", 4*time.Minute + 10*time.Second, 11},
		{"near the end", 14*time.Minute + 30*time.Second, 1},
		{"baseline exhausted clamps at one", 15 * time.Minute, 1},
		{"long overdue still reads one", time.Hour, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RemainingETA(15, start, start.Add(tc.elapsed))
			if got != tc.want {
				t.Errorf("elapsed %s: expected %d, got %d", tc.elapsed, tc.want, got)
			}
		})
	}
}

func TestRemainingETA_ZeroBaselineAndZeroDecayFrom(t *testing.T) {
	t.Parallel()

	now := time.Now()

	if got := RemainingETA(0, now, now); got != 0 {
		t.Errorf("zero baseline: expected 0, got %d", got)
	}
	// Zero decayFrom means the countdown has not started.
	if got := RemainingETA(15, time.Time{}, now); got != 15 {
		t.Errorf("no decay start: expected 15, got %d", got)
	}
}

func TestETARemaining_ZeroOutsideActiveTravel(t *testing.T) {
	t.Parallel()

	req := &ServiceRequest{ETAMinutes: 15}

	for _, s := range []RequestStatus{StatusRequested, StatusArrived, StatusCompleted, StatusPaid, StatusCancelled} {
		req.Status = s
		if got := req.ETARemaining(time.Now()); got != 0 {
			t.Errorf("status %s: expected 0, got %d", s, got)
		}
	}

	req.Status = StatusAccepted
	if got := req.ETARemaining(time.Now()); got != 15 {
		t.Errorf("ACCEPTED: expected full baseline 15, got %d", got)
	}

	req.Status = StatusEnRoute
	req.EnRouteAt = time.Now().Add(-5 * time.Minute)
	if got := req.ETARemaining(time.Now()); got != 10 {
		t.Errorf("EN_ROUTE after 5 min: expected 10, got %d", got)
	}
}

func TestCatalog_FixedPrices(t *testing.T) {
	t.Parallel()

	want := map[ServiceType]float64{
		ServiceFlatTire:  75.00,
		ServiceLocksmith: 150.00,
		ServiceEmergency: 50.00,
		ServiceTowing:    120.00,
	}

	for serviceType, price := range want {
		got, ok := PriceFor(serviceType)
		if !ok {
			t.Errorf("expected %s in catalog", serviceType)
			continue
		}
		if got != price {
			t.Errorf("%s: expected %.2f, got %.2f", serviceType, price, got)
		}
	}

	if _, ok := PriceFor("jump-start"); ok {
		t.Error("unknown service type must not price")
	}
}
