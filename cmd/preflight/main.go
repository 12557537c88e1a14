// cmd/preflight/main.go
package main

import (
	"fmt"
	"net"
	"net/url"
	"os"

	"github.com/hamed0406/statusexporter/internal/config"
	"github.com/hamed0406/statusexporter/internal/targets"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()

	domains, err := targets.Load(cfg.DomainsFile)
	if err != nil {
		fail(fmt.Sprintf("cannot load %s: %v", cfg.DomainsFile, err))
	}
	if len(domains) == 0 {
		warn(cfg.DomainsFile + " has no entries; only the metrics endpoint will run.")
	} else {
		ok(fmt.Sprintf("%d domains in %s", len(domains), cfg.DomainsFile))
	}

	for _, d := range domains {
		if !isHTTPURL(d) {
			warn(fmt.Sprintf("%q is not an absolute http(s) URL; its first check will fail and stop the exporter.", d))
		}
	}

	ln, err := net.Listen("tcp", cfg.MetricsAddr)
	if err != nil {
		fail(fmt.Sprintf("cannot bind METRICS_ADDR=%s: %v", cfg.MetricsAddr, err))
	}
	_ = ln.Close()
	ok("METRICS_ADDR=" + cfg.MetricsAddr + " is free")

	if cfg.RequestTimeout == 0 {
		warn("REQUEST_TIMEOUT_MS unset; a hung server blocks its domain forever.")
	} else {
		ok("REQUEST_TIMEOUT_MS=" + cfg.RequestTimeout.String())
	}

	ok("preflight passed")
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
