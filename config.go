package cuckoocycle

import (
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// config holds the resolved settings for a single Solve call. It is built up
// from the caller's Option values and never exposed directly.
type config struct {
	threads   int
	requestID uuid.UUID
	logger    *zap.Logger
	dedup     bool
}

func defaultConfig() *config {
	return &config{
		threads: runtime.NumCPU(),
		dedup:   true,
	}
}

// Option configures a Solve call. Options compose the way the streaming
// index builder's BuildOption values do: each is a small closure applied in
// order over a private config struct.
type Option func(*config)

// WithThreads overrides the number of trimming/matching worker goroutines.
// n <= 0 is ignored, keeping the thread count passed to Solve; if that is
// not positive either, runtime.NumCPU() is used.
func WithThreads(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.threads = n
		}
	}
}

// WithLogger attaches a logger to this call only, without touching the
// package-wide logger installed by SetLogger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithRequestID tags this call's log lines with a caller-supplied
// correlation id, useful when a pool or orchestrator dispatches many
// concurrent Solve calls and wants to line log output back up with jobs.
func WithRequestID(id uuid.UUID) Option {
	return func(c *config) { c.requestID = id }
}

// WithDedup toggles collapsing of concurrent identical (header, edgeBits,
// proofSize) requests into a single computation. Enabled by default.
func WithDedup(enabled bool) Option {
	return func(c *config) { c.dedup = enabled }
}

func (c *config) resolve() {
	if c.threads <= 0 {
		c.threads = runtime.NumCPU()
	}
	if c.logger == nil {
		c.logger = log
	}
	if c.requestID == uuid.Nil {
		c.requestID = uuid.New()
	}
}
