package main

import (
	"context"
	"log"
	"os"
	"syscall"

	"go.uber.org/zap"

	"github.com/hamed0406/statusexporter/internal/config"
	"github.com/hamed0406/statusexporter/internal/logging"
	"github.com/hamed0406/statusexporter/internal/metrics"
	"github.com/hamed0406/statusexporter/internal/probe"
	"github.com/hamed0406/statusexporter/internal/scheduler"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := scheduler.NotifyOnSignal(context.Background(), logger, os.Interrupt, syscall.SIGTERM)
	defer stop()

	checker := probe.NewHTTPChecker(cfg.RequestTimeout)
	defer checker.Close()

	sup := &scheduler.Supervisor{
		Logger:      logger,
		DomainsFile: cfg.DomainsFile,
		MetricsAddr: cfg.MetricsAddr,
		Interval:    cfg.Interval,
		Checker:     checker,
		Metrics:     metrics.New(),
	}

	logger.Info("exporter_start",
		zap.String("domains_file", cfg.DomainsFile),
		zap.String("metrics_addr", cfg.MetricsAddr),
		zap.Duration("interval", cfg.Interval),
		zap.Duration("request_timeout", cfg.RequestTimeout),
	)
	if err := sup.Run(ctx); err != nil {
		logger.Error("exporter_exit", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
