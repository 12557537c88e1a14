package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statusexporter/internal/probe"
)

// PollError is returned by a Poller whose check failed. It ends that
// domain's polling and, through the Supervisor, every other one.
type PollError struct {
	Domain string
	Err    error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("poll %s: %v", e.Domain, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

// Poller checks one domain forever: check, sleep Interval, repeat.
type Poller struct {
	Logger   *zap.Logger
	Domain   string
	Checker  probe.Checker
	Recorder probe.Recorder
	Interval time.Duration
}

// Run returns nil once ctx is cancelled and a *PollError on the first failed
// check. There are no retries.
func (p *Poller) Run(ctx context.Context) error {
	for {
		out, err := p.Checker.Check(ctx, p.Domain, p.Recorder)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return &PollError{Domain: p.Domain, Err: err}
		}
		p.Logger.Debug("poller_checked",
			zap.String("domain", p.Domain),
			zap.Int("status", out.StatusCode),
			zap.Duration("elapsed", out.Elapsed),
		)

		if !sleep(ctx, p.Interval) {
			return nil
		}
	}
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
