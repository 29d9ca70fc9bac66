package payments

import (
	"errors"
	"testing"
	"time"
)

func TestWithRetriesStopsAfterMaxRetries(t *testing.T) {
	s := newTestService(newFakeRepository(), &fakeGateway{})

	attempts := 0
	exhausted, err := s.withRetries("test", func() (bool, error) {
		attempts++
		return false, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exhausted {
		t.Fatalf("expected exhaustion")
	}
	if want := s.maxRetries + 1; attempts != want {
		t.Fatalf("expected %d attempts, got %d", want, attempts)
	}
}

func TestWithRetriesSucceedsMidway(t *testing.T) {
	s := newTestService(newFakeRepository(), &fakeGateway{})

	attempts := 0
	exhausted, err := s.withRetries("test", func() (bool, error) {
		attempts++
		return attempts == 3, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exhausted {
		t.Fatalf("did not expect exhaustion")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetriesAbortsOnError(t *testing.T) {
	s := newTestService(newFakeRepository(), &fakeGateway{})

	boom := errors.New("boom")
	attempts := 0
	_, err := s.withRetries("test", func() (bool, error) {
		attempts++
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected error to propagate, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt on error, got %d", attempts)
	}
}

func TestWithRetriesSleepsBetweenAttempts(t *testing.T) {
	s := newTestService(newFakeRepository(), &fakeGateway{})
	s.backoff = 3 * time.Second

	var slept []time.Duration
	s.sleep = func(d time.Duration) { slept = append(slept, d) }

	if _, err := s.withRetries("test", func() (bool, error) { return false, nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slept) != s.maxRetries {
		t.Fatalf("expected %d sleeps, got %d", s.maxRetries, len(slept))
	}
	for _, d := range slept {
		if d != 3*time.Second {
			t.Fatalf("expected fixed 3s backoff, got %s", d)
		}
	}
}
