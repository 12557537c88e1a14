package scheduler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/statusexporter/internal/httpapi"
	"github.com/hamed0406/statusexporter/internal/probe"
	"github.com/hamed0406/statusexporter/internal/targets"
)

// Registry is where pollers record results and what the exporter serves.
type Registry interface {
	probe.Recorder
	Gatherer() prometheus.Gatherer
}

// Supervisor starts the exporter, then one Poller per domain. The first
// failure anywhere stops everything.
type Supervisor struct {
	Logger      *zap.Logger
	DomainsFile string
	MetricsAddr string
	Interval    time.Duration
	Checker     probe.Checker
	Metrics     Registry

	// Listener, if set, is used instead of binding MetricsAddr.
	Listener net.Listener
	// OnPollerStart, if set, is called just before each poller is launched.
	OnPollerStart func(domain string)
}

// Run blocks until ctx is cancelled (returns nil) or a task fails (returns
// its error). Startup failures are returned before any polling begins.
func (s *Supervisor) Run(ctx context.Context) error {
	ln := s.Listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", s.MetricsAddr)
		if err != nil {
			return fmt.Errorf("bind metrics endpoint %s: %w", s.MetricsAddr, err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	exporter := httpapi.NewServer(s.Logger, s.Metrics.Gatherer())
	g.Go(s.guard("exporter", func() error { return exporter.Serve(gctx, ln) }))

	domains, err := targets.Load(s.DomainsFile)
	if err != nil {
		// g.Wait is nil unless the exporter failed on its own or on close.
		cancel()
		return multierr.Append(err, g.Wait())
	}
	s.Logger.Info("domains_loaded",
		zap.String("file", s.DomainsFile),
		zap.Int("count", len(domains)),
	)

	g.Go(s.guard("bootstrap", func() error { return s.launch(gctx, g, domains) }))

	if err := g.Wait(); err != nil {
		s.Logger.Error("supervisor_failed",
			zap.String("error_type", fmt.Sprintf("%T", rootCause(err))),
			zap.Error(err),
		)
		return err
	}
	s.Logger.Info("supervisor_stopped")
	return nil
}

// launch starts pollers in input order, spacing them Interval/len(domains)
// apart so the first round of requests is spread over one interval.
func (s *Supervisor) launch(ctx context.Context, g *errgroup.Group, domains []string) error {
	if len(domains) == 0 {
		s.Logger.Warn("no_domains", zap.String("file", s.DomainsFile))
		return nil
	}
	stagger := s.Interval / time.Duration(len(domains))

	for _, d := range domains {
		p := &Poller{
			Logger:   s.Logger,
			Domain:   d,
			Checker:  s.Checker,
			Recorder: s.Metrics,
			Interval: s.Interval,
		}
		if s.OnPollerStart != nil {
			s.OnPollerStart(d)
		}
		g.Go(s.guard(d, func() error { return p.Run(ctx) }))
		s.Logger.Info("poller_started", zap.String("domain", d))

		if !sleep(ctx, stagger) {
			return nil
		}
	}

	s.Logger.Info("pollers_started", zap.Int("count", len(domains)))
	return nil
}

// guard turns a panic in fn into an error so it takes the same path as any
// other failure.
func (s *Supervisor) guard(task string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				id := uuid.NewString()
				s.Logger.Error("task_panic",
					zap.String("task", task),
					zap.String("correlation_id", id),
					zap.String("panic", fmt.Sprintf("%v", r)),
					zap.ByteString("stack", debug.Stack()),
				)
				err = fmt.Errorf("task %s panicked: %v (correlation_id: %s)", task, r, id)
			}
		}()
		return fn()
	}
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// NotifyOnSignal returns a context that is cancelled when one of sigs
// arrives or stop is called.
func NotifyOnSignal(parent context.Context, logger *zap.Logger, sigs ...os.Signal) (ctx context.Context, stop context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			logger.Info("shutdown_signal", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
