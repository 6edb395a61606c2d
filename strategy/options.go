// Package strategy provides the concrete reader-tracking protocols that a
// dbuf.Writer drains against: Local and Count gate swaps behind an active
// reader count, RWLock drains on one sync.RWMutex per buffer slot, Saving
// and Park track readers through per-reader parity counters (Park adding a
// condition variable so its drain doesn't spin), and Hazard stamps a global
// generation into slots from a lock-free pool of reusable slots instead of
// a mutex-protected registry.
package strategy

import "time"

// config holds the tunables every spin/park-based strategy constructor
// accepts through Option.
type config struct {
	spinLimit   int
	parkTimeout time.Duration
}

var defaultConfig = config{spinLimit: 64}

// Option configures a strategy constructor.
type Option func(*config)

// WithSpinLimit bounds how many times Pause calls runtime.Gosched() before
// backing off to a short sleep, for the strategies whose drain polls by
// spinning (Saving, Hazard). The default is 64.
func WithSpinLimit(n int) Option {
	return func(c *config) { c.spinLimit = n }
}

// WithParkTimeout bounds how long Park's Pause waits on its condition
// variable before re-checking the drain regardless of being woken. The
// default, zero, waits with no timeout (woken only by EndGuard).
func WithParkTimeout(d time.Duration) Option {
	return func(c *config) { c.parkTimeout = d }
}

func resolve(opts []Option) config {
	c := defaultConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
