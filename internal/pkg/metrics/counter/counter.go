package counter

import (
	"context"
	"strings"

	"github.com/startstack/startstack/internal/pkg/cache"
)

const (
	eventsReceivedKey = "webhook:counters:received"
	eventsFailedKey   = "webhook:counters:failed"
)

// AddEventReceived increments the received counter for a webhook event type
// in Redis.
func AddEventReceived(eventType string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, eventsReceivedKey, eventType, 1).Err()
}

// AddEventFailed increments the failure counter for a webhook event type in
// Redis. This counts events whose handler returned an error; a reconciler
// that exhausts its retries logs the drop and reports success, so exhaustion
// does not land here.
func AddEventFailed(eventType string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, eventsFailedKey, eventType, 1).Err()
}

// EventCounts holds per-event-type webhook counters.
type EventCounts struct {
	Received map[string]string `json:"received"`
	Failed   map[string]string `json:"failed"`
}

// Snapshot reads the current webhook counters. Counters survive restarts but
// not a Redis flush; they are operational insight, not bookkeeping.
func Snapshot() (EventCounts, error) {
	ctx := context.Background()
	rdb := cache.GetClient()

	received, err := rdb.HGetAll(ctx, eventsReceivedKey).Result()
	if err != nil && !isNilErr(err) {
		return EventCounts{}, err
	}
	failed, err := rdb.HGetAll(ctx, eventsFailedKey).Result()
	if err != nil && !isNilErr(err) {
		return EventCounts{}, err
	}

	return EventCounts{Received: received, Failed: failed}, nil
}

func isNilErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "redis: nil")
}
