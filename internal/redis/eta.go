package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"roadside/internal/domain"
)

const etaKeyPrefix = "eta:request:"

// ETAStore keeps the per-request arrival countdown used purely for display
// decay. The baseline is written when a provider accepts; the decay clock
// starts when the provider goes en route. Remaining values are computed on
// read, so the countdown is monotonically non-increasing by construction
// and reaching the floor never forces a status transition.
type ETAStore struct {
	client *redis.Client
}

// NewETAStore creates a new ETAStore.
func NewETAStore(client *redis.Client) *ETAStore {
	return &ETAStore{client: client}
}

// etaTTL bounds stale entries for requests that never reach a terminal state.
const etaTTL = 6 * time.Hour

// SetBaseline records the estimated arrival time in minutes. The countdown
// does not decay until StartDecay is called.
func (s *ETAStore) SetBaseline(ctx context.Context, requestID string, minutes int) error {
	key := etaKeyPrefix + requestID

	if err := s.client.HSet(ctx, key, "minutes", minutes, "decay_from", 0).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, etaTTL).Err()
}

// StartDecay starts the countdown clock for the request.
func (s *ETAStore) StartDecay(ctx context.Context, requestID string, from time.Time) error {
	key := etaKeyPrefix + requestID

	return s.client.HSet(ctx, key, "decay_from", from.Unix()).Err()
}

// Remaining returns the decayed ETA in minutes. Returns ok=false when no
// countdown exists for the request.
func (s *ETAStore) Remaining(ctx context.Context, requestID string, now time.Time) (int, bool, error) {
	key := etaKeyPrefix + requestID

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return 0, false, err
	}
	if len(fields) == 0 {
		return 0, false, nil
	}

	minutes, err := strconv.Atoi(fields["minutes"])
	if err != nil {
		return 0, false, fmt.Errorf("corrupt eta entry for request %s: %w", requestID, err)
	}

	decayFromUnix, err := strconv.ParseInt(fields["decay_from"], 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt eta entry for request %s: %w", requestID, err)
	}

	var decayFrom time.Time
	if decayFromUnix > 0 {
		decayFrom = time.Unix(decayFromUnix, 0)
	}

	return domain.RemainingETA(minutes, decayFrom, now), true, nil
}

// Clear removes the countdown for a request. Called on arrival, completion
// and cancellation.
func (s *ETAStore) Clear(ctx context.Context, requestID string) error {
	return s.client.Del(ctx, etaKeyPrefix+requestID).Err()
}
