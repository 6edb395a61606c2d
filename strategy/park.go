package strategy

import (
	"sync"
	"sync/atomic"
	"time"
)

// Park layers a condition variable over Saving: instead of spinning,
// Pause blocks on a sync.Cond that EndGuard broadcasts on, so a drain
// waiting on a slow reader sleeps instead of burning CPU. WithParkTimeout
// bounds how long a single Pause call waits before re-checking regardless
// (the default, zero, waits with no timeout).
type Park struct {
	Saving
	cfg  config
	mu   sync.Mutex
	cond *sync.Cond
}

// NewPark constructs a Park strategy.
func NewPark(opts ...Option) *Park {
	p := &Park{Saving: Saving{cfg: resolve(opts)}, cfg: resolve(opts)}
	p.cond = sync.NewCond(&p.mu)
	return p
}

func (p *Park) EndGuard(rawGuard any) {
	p.Saving.EndGuard(rawGuard)
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
}

func (p *Park) Pause(capture any) {
	if p.Saving.ReadersHaveExited(capture) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cfg.parkTimeout <= 0 {
		for !p.Saving.ReadersHaveExited(capture) {
			p.cond.Wait()
		}
		return
	}

	timer := time.AfterFunc(p.cfg.parkTimeout, func() {
		p.mu.Lock()
		p.cond.Broadcast()
		p.mu.Unlock()
	})
	defer timer.Stop()
	if !p.Saving.ReadersHaveExited(capture) {
		p.cond.Wait()
	}
}
