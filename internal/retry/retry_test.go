package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// recordingSleeper captures requested delays instead of sleeping.
type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func testConfig(s *recordingSleeper) Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: 5 * time.Second,
		Factor:       2,
		Sleep:        s.sleep,
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	s := &recordingSleeper{}
	calls := 0

	err := Do(context.Background(), testConfig(s), func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d; want 1", calls)
	}
	if len(s.delays) != 0 {
		t.Errorf("slept %d times; want 0", len(s.delays))
	}
}

func TestDo_FailsKTimesThenSucceeds(t *testing.T) {
	s := &recordingSleeper{}
	calls := 0

	err := Do(context.Background(), testConfig(s), func(context.Context) error {
		calls++
		if calls <= 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if calls != 4 {
		t.Errorf("calls = %d; want 4", calls)
	}
	want := []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}
	if len(s.delays) != len(want) {
		t.Fatalf("delays = %v; want %v", s.delays, want)
	}
	for i := range want {
		if s.delays[i] != want[i] {
			t.Errorf("delay[%d] = %v; want %v", i, s.delays[i], want[i])
		}
	}
}

func TestDo_SuccessOnFinalAttemptIsNotRetried(t *testing.T) {
	s := &recordingSleeper{}
	calls := 0

	err := Do(context.Background(), testConfig(s), func(context.Context) error {
		calls++
		if calls < 5 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if calls != 5 {
		t.Errorf("calls = %d; want 5", calls)
	}
	// Four failures → four waits; the final success must not add a fifth.
	if len(s.delays) != 4 {
		t.Errorf("slept %d times; want 4", len(s.delays))
	}
}

func TestDo_ExhaustionSchedule(t *testing.T) {
	s := &recordingSleeper{}
	sentinel := errors.New("permanent")
	calls := 0

	err := Do(context.Background(), testConfig(s), func(context.Context) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Do error = %v; want %v", err, sentinel)
	}
	if calls != 5 {
		t.Errorf("calls = %d; want 5", calls)
	}

	// The delay is paid after every failed attempt, the final one included:
	// 5+10+20+40+80 = 155s worst-case total wait.
	want := []time.Duration{
		5 * time.Second,
		10 * time.Second,
		20 * time.Second,
		40 * time.Second,
		80 * time.Second,
	}
	if len(s.delays) != len(want) {
		t.Fatalf("delays = %v; want %v", s.delays, want)
	}
	var total time.Duration
	for i := range want {
		if s.delays[i] != want[i] {
			t.Errorf("delay[%d] = %v; want %v", i, s.delays[i], want[i])
		}
		total += s.delays[i]
	}
	if total != 155*time.Second {
		t.Errorf("total wait = %v; want 155s", total)
	}
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := Config{
		MaxAttempts:  5,
		InitialDelay: 5 * time.Second,
		Factor:       2,
		Sleep: func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}

	calls := 0
	err := Do(ctx, cfg, func(context.Context) error {
		calls++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do error = %v; want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d; want 1 (no retry after cancellation)", calls)
	}
}

func TestDo_ZeroConfigUsesDefaults(t *testing.T) {
	s := &recordingSleeper{}
	cfg := Config{Sleep: s.sleep}

	calls := 0
	err := Do(context.Background(), cfg, func(context.Context) error {
		calls++
		return errors.New("always")
	})
	if err == nil {
		t.Fatal("Do returned nil; want error after exhaustion")
	}
	if calls != 5 {
		t.Errorf("calls = %d; want default 5 attempts", calls)
	}
	if s.delays[0] != 5*time.Second {
		t.Errorf("first delay = %v; want default 5s", s.delays[0])
	}
}

func TestDo_PermanentErrorAbortsImmediately(t *testing.T) {
	s := &recordingSleeper{}
	cfg := Config{MaxAttempts: 5, InitialDelay: 5 * time.Second, Factor: 2, Sleep: s.sleep}

	terminal := errors.New("volume does not exist")
	calls := 0
	err := Do(context.Background(), cfg, func(context.Context) error {
		calls++
		return Permanent(terminal)
	})
	if !errors.Is(err, terminal) {
		t.Fatalf("Do error = %v; want the wrapped terminal error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d; want 1 (no retry on permanent error)", calls)
	}
	if len(s.delays) != 0 {
		t.Errorf("slept %d times; want 0", len(s.delays))
	}
}

func TestPermanent_NilPassthrough(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}
