package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DomainsFile    string        // newline-delimited list of URLs to poll
	MetricsAddr    string        // exporter bind address, e.g. ":9002"
	Interval       time.Duration // delay between two checks of the same domain
	RequestTimeout time.Duration // per-request timeout; 0 means none
	LogDir         string        // logs directory
}

const (
	DefaultDomainsFile = "domains.txt"
	DefaultMetricsAddr = ":9002"
	DefaultInterval    = 15 * time.Second
	DefaultLogDir      = "logs"
)

func FromEnv() Config {
	domainsFile := os.Getenv("DOMAINS_FILE")
	if domainsFile == "" {
		domainsFile = DefaultDomainsFile
	}

	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		addr = DefaultMetricsAddr
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = DefaultLogDir
	}

	interval := DefaultInterval
	if v := os.Getenv("CHECK_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			interval = time.Duration(ms) * time.Millisecond
		}
	}

	// No timeout unless asked for: a hung server blocks only its own domain.
	var timeout time.Duration
	if v := os.Getenv("REQUEST_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}

	return Config{
		DomainsFile:    domainsFile,
		MetricsAddr:    addr,
		Interval:       interval,
		RequestTimeout: timeout,
		LogDir:         logDir,
	}
}
