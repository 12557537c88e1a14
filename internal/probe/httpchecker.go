package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// connection pool shared by every poller so each domain keeps its connection alive
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 4
	defaultIdleConnTimeout     = 90 * time.Second
)

type HTTPChecker struct {
	Client  *http.Client
	Timeout time.Duration // 0 disables the per-request timeout
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		Client: &http.Client{
			// timeouts are per request via context
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
				ForceAttemptHTTP2:   true,
			},
		},
		Timeout: timeout,
	}
}

// Check GETs target, counts the status code before touching the body, reads
// the body to the end and records the elapsed time. Any status code is a
// successful check; only transport and read failures are errors.
func (h *HTTPChecker) Check(ctx context.Context, target string, rec Recorder) (Result, error) {
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{Domain: target}, fmt.Errorf("build request: %w", err)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return Result{Domain: target}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	rec.ObserveResponse(target, resp.StatusCode)

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return Result{Domain: target, StatusCode: resp.StatusCode}, fmt.Errorf("read body: %w", err)
	}
	elapsed := time.Since(start)

	rec.ObserveDuration(target, elapsed)

	return Result{Domain: target, StatusCode: resp.StatusCode, Elapsed: elapsed}, nil
}

// Close drops idle pooled connections.
func (h *HTTPChecker) Close() {
	if t, ok := h.Client.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
}
