package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statusexporter/internal/probe"
)

// --- fakes ---

type scriptedChecker struct {
	mu     sync.Mutex
	calls  int
	fail   error // returned once calls reaches failAt
	failAt int
	times  []time.Time
}

func (c *scriptedChecker) Check(ctx context.Context, target string, rec probe.Recorder) (probe.Result, error) {
	c.mu.Lock()
	c.calls++
	n := c.calls
	c.times = append(c.times, time.Now())
	c.mu.Unlock()

	if c.fail != nil && n >= c.failAt {
		return probe.Result{Domain: target}, c.fail
	}
	rec.ObserveResponse(target, 200)
	rec.ObserveDuration(target, time.Millisecond)
	return probe.Result{Domain: target, StatusCode: 200, Elapsed: time.Millisecond}, nil
}

func (c *scriptedChecker) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type countingRecorder struct {
	mu        sync.Mutex
	responses map[string]int
	durations map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{responses: map[string]int{}, durations: map[string]int{}}
}

func (r *countingRecorder) ObserveResponse(domain string, code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[domain]++
}

func (r *countingRecorder) ObserveDuration(domain string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations[domain]++
}

// --- tests ---

func TestPoller_ChecksRepeatedlyUntilCancelled(t *testing.T) {
	chk := &scriptedChecker{}
	rec := newCountingRecorder()
	p := &Poller{
		Logger:   zap.NewNop(),
		Domain:   "http://a.test",
		Checker:  chk,
		Recorder: rec,
		Interval: 20 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(110 * time.Millisecond)
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("cancelled poller should return nil, got %v", err)
	}
	n := chk.count()
	if n < 3 || n > 7 {
		t.Fatalf("want roughly 5 checks in 110ms at 20ms interval, got %d", n)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.responses["http://a.test"] != n || rec.durations["http://a.test"] != n {
		t.Fatalf("recorder out of step with checks: %v %v (checks=%d)", rec.responses, rec.durations, n)
	}
}

func TestPoller_SleepsIntervalBetweenChecks(t *testing.T) {
	chk := &scriptedChecker{}
	p := &Poller{
		Logger:   zap.NewNop(),
		Domain:   "http://a.test",
		Checker:  chk,
		Recorder: newCountingRecorder(),
		Interval: 40 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = p.Run(ctx)

	chk.mu.Lock()
	defer chk.mu.Unlock()
	if len(chk.times) < 2 {
		t.Fatalf("want at least 2 checks, got %d", len(chk.times))
	}
	if gap := chk.times[1].Sub(chk.times[0]); gap < 40*time.Millisecond {
		t.Fatalf("checks only %s apart, want >= interval", gap)
	}
}

func TestPoller_FirstFailureEndsChain(t *testing.T) {
	boom := errors.New("connection refused")
	chk := &scriptedChecker{fail: boom, failAt: 2}
	p := &Poller{
		Logger:   zap.NewNop(),
		Domain:   "http://b.test",
		Checker:  chk,
		Recorder: newCountingRecorder(),
		Interval: 5 * time.Millisecond,
	}

	err := p.Run(context.Background())

	var pe *PollError
	if !errors.As(err, &pe) {
		t.Fatalf("want *PollError, got %v", err)
	}
	if pe.Domain != "http://b.test" || !errors.Is(err, boom) {
		t.Fatalf("unexpected error: %v", err)
	}
	if chk.count() != 2 {
		t.Fatalf("no checks should follow a failure, got %d", chk.count())
	}
}

func TestPoller_ErrorDuringShutdownIsNotAFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Poller{
		Logger:   zap.NewNop(),
		Domain:   "http://a.test",
		Checker:  &scriptedChecker{fail: context.Canceled, failAt: 1},
		Recorder: newCountingRecorder(),
		Interval: time.Second,
	}
	if err := p.Run(ctx); err != nil {
		t.Fatalf("want nil on shutdown, got %v", err)
	}
}
