package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewNopLogger()}

	calls := 0
	err := r.Do(context.Background(), "flaky", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: unexpected error %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestRetryWrapsLastError(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NewNopLogger()}
	sentinel := errors.New("down")

	err := r.Do(context.Background(), "always", func(context.Context) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("Do: got %v, want wrapped %v", err, sentinel)
	}
}

func TestRetrySingleAttemptReturnsErrorUnwrapped(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 0}
	sentinel := errors.New("once")

	calls := 0
	err := r.Do(context.Background(), "once", func(context.Context) error {
		calls++
		return sentinel
	})
	if err != sentinel {
		t.Errorf("Do: got %v, want %v", err, sentinel)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := r.Do(ctx, "cancelled", func(context.Context) error {
		calls++
		cancel()
		return errors.New("fail")
	})
	if err == nil {
		t.Fatal("Do: expected error after cancel")
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}
