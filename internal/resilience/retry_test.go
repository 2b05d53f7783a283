package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
		Jitter:         false,
	}
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), func() error {
		calls++
		return nil
	}, fastConfig(3), nil)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestRetryEventualSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, fastConfig(5), nil)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	wantErr := errors.New("persistent")
	calls := 0
	err := Retry(context.Background(), func() error {
		calls++
		return wantErr
	}, fastConfig(3), nil)

	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected %v, got %v", wantErr, err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	fatal := errors.New("fatal")
	calls := 0
	err := Retry(context.Background(), func() error {
		calls++
		return fatal
	}, fastConfig(5), func(err error) bool {
		return !errors.Is(err, fatal)
	})

	if !errors.Is(err, fatal) {
		t.Fatalf("Expected %v, got %v", fatal, err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	cfg := Config{
		MaxAttempts:    10,
		InitialBackoff: time.Hour, // cancellation must interrupt the wait
		Multiplier:     2.0,
	}
	done := make(chan error, 1)
	go func() {
		done <- Retry(ctx, func() error {
			calls++
			return errors.New("transient")
		}, cfg, nil)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Retry did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("Expected 1 call before cancellation, got %d", calls)
	}
}

func TestRetrySingleAttemptDefault(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxAttempts != 1 {
		t.Fatalf("Expected default MaxAttempts 1, got %d", cfg.MaxAttempts)
	}

	calls := 0
	err := Retry(context.Background(), func() error {
		calls++
		return errors.New("boom")
	}, cfg, nil)

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if calls != 1 {
		t.Errorf("Expected exactly 1 call, got %d", calls)
	}
}

func TestFromAttempts(t *testing.T) {
	cfg := FromAttempts(4, 100*time.Millisecond)
	if cfg.MaxAttempts != 4 {
		t.Errorf("Expected MaxAttempts 4, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff != 100*time.Millisecond {
		t.Errorf("Expected InitialBackoff 100ms, got %v", cfg.InitialBackoff)
	}

	cfg = FromAttempts(0, 0)
	def := DefaultConfig()
	if cfg.MaxAttempts != def.MaxAttempts {
		t.Errorf("Expected default MaxAttempts %d, got %d", def.MaxAttempts, cfg.MaxAttempts)
	}
	if cfg.InitialBackoff != def.InitialBackoff {
		t.Errorf("Expected default InitialBackoff %v, got %v", def.InitialBackoff, cfg.InitialBackoff)
	}
}
