package retry

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
		MaxBackoff:     10 * time.Millisecond,
		Multiplier:     1.0,
	}
}

func TestWithRetry_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(3), func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestWithRetry_ClientErrorIsTerminal(t *testing.T) {
	calls := 0
	httpErr := NewHTTPError(404, "404 Not Found", "http://example.com/roster")

	err := WithRetry(context.Background(), fastConfig(3), func() error {
		calls++
		return httpErr
	})

	if calls != 1 {
		t.Errorf("Expected no retries for 404, got %d calls", calls)
	}
	if !errors.Is(err, httpErr) {
		t.Errorf("Expected the HTTP error back, got %v", err)
	}
}

func TestWithRetry_ServerErrorIsRetried(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(3), func() error {
		calls++
		if calls < 3 {
			return NewHTTPError(503, "503 Service Unavailable", "")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Expected success on third attempt, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(3), func() error {
		calls++
		return NewHTTPError(500, "500 Internal Server Error", "")
	})

	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
	if err == nil {
		t.Fatal("Expected an error after exhausting attempts")
	}
}

func TestWithRetry_FixedDelayBetweenAttempts(t *testing.T) {
	cfg := Config{
		MaxAttempts:    3,
		InitialBackoff: 20 * time.Millisecond,
		MaxBackoff:     20 * time.Millisecond,
		Multiplier:     1.0,
	}

	start := time.Now()
	_ = WithRetry(context.Background(), cfg, func() error {
		return NewHTTPError(503, "503 Service Unavailable", "")
	})
	elapsed := time.Since(start)

	// Two sleeps between three attempts
	if elapsed < 40*time.Millisecond {
		t.Errorf("Expected at least 40ms of backoff, got %v", elapsed)
	}
}

func TestWithRetry_TimeoutErrorsAreRetryable(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(2), func() error {
		calls++
		return context.DeadlineExceeded
	})

	if calls != 2 {
		t.Errorf("Expected timeout to be retried, got %d calls", calls)
	}
	if err == nil {
		t.Fatal("Expected an error")
	}
}

func TestWithRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := Config{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     time.Second,
		Multiplier:     1.0,
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := WithRetry(ctx, cfg, func() error {
		return NewHTTPError(503, "503 Service Unavailable", "")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestCalculateBackoff_FixedWhenMultiplierOne(t *testing.T) {
	cfg := fastConfig(5)
	for attempt := 0; attempt < 4; attempt++ {
		if got := calculateBackoff(attempt, cfg); got != cfg.InitialBackoff {
			t.Errorf("Attempt %d: expected %v, got %v", attempt, cfg.InitialBackoff, got)
		}
	}
}

func TestHTTPError_Message(t *testing.T) {
	err := NewHTTPError(404, "404 Not Found", "http://example.com")
	want := "HTTP 404: 404 Not Found (http://example.com)"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
	if err.GetStatusCode() != 404 {
		t.Errorf("Expected status 404, got %d", err.GetStatusCode())
	}
}
