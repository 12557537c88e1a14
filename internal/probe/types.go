package probe

import (
	"context"
	"time"
)

// Result is one completed poll cycle. It is handed to the Recorder and then
// dropped; nothing keeps it.
type Result struct {
	Domain     string
	StatusCode int
	Elapsed    time.Duration
}

// Recorder receives the outcome of each check as it happens.
type Recorder interface {
	// ObserveResponse is called as soon as headers arrive, before the body is read.
	ObserveResponse(domain string, code int)
	// ObserveDuration is called once the body has been fully consumed.
	ObserveDuration(domain string, d time.Duration)
}

// Checker performs a single poll cycle against target.
type Checker interface {
	Check(ctx context.Context, target string, rec Recorder) (Result, error)
}
