package strategy

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-dbuf/dbuf"
)

// savingSlot is one reader's monotonic counter: even means the reader is
// outside a read section, odd means inside. BeginGuard and EndGuard each
// advance it by one, so a full read section always moves the counter from
// an even value to the next odd value and back to the next even one.
type savingSlot struct {
	counter atomic.Uint64
}

// Saving tracks readers through a dedicated per-reader counter (minted
// once, in ReaderTag, and reused for that reader's entire lifetime)
// registered in a mutex-protected list the writer scans to drain. A
// capture samples every counter that is currently odd; the drain then
// polls until each sampled counter has gone even again. Because every
// BeginGuard/EndGuard strictly increases the counter, a reader that exits
// and re-enters during the drain necessarily passes through even on the
// way, so the scan can never observe a live read as finished. See
// DESIGN.md.
type Saving struct {
	cfg   config
	mu    sync.Mutex
	slots []*savingSlot
}

// savingCapture is the drain state Saving (and Park, through embedding)
// hands back from FinishCaptureReaders: the slots observed mid-read at
// capture time, pruned down as each one goes even, plus a spin counter
// Pause advances to back off from yielding to a short sleep.
type savingCapture struct {
	active []*savingSlot
	spins  int
}

// NewSaving constructs a Saving strategy.
func NewSaving(opts ...Option) *Saving {
	return &Saving{cfg: resolve(opts)}
}

func (s *Saving) ReaderTag() any {
	slot := &savingSlot{}
	s.mu.Lock()
	s.slots = append(s.slots, slot)
	s.mu.Unlock()
	return slot
}

func (s *Saving) WriterTag() any { return nil }

func (s *Saving) TryCaptureReaders(writerTag any, which *atomic.Bool) (any, error) {
	return nil, nil
}

func (s *Saving) FinishCaptureReaders(writerTag any, which *atomic.Bool, fastCapture any) any {
	s.mu.Lock()
	active := make([]*savingSlot, 0, len(s.slots))
	for _, slot := range s.slots {
		if slot.counter.Load()&1 == 1 {
			active = append(active, slot)
		}
	}
	s.mu.Unlock()
	return &savingCapture{active: active}
}

func (s *Saving) ReadersHaveExited(capture any) bool {
	c := capture.(*savingCapture)
	remaining := c.active[:0]
	for _, slot := range c.active {
		if slot.counter.Load()&1 == 1 {
			remaining = append(remaining, slot)
		}
	}
	c.active = remaining
	return len(c.active) == 0
}

func (s *Saving) Pause(capture any) {
	c := capture.(*savingCapture)
	c.spins++
	if c.spins <= s.cfg.spinLimit {
		yield()
		return
	}
	time.Sleep(50 * time.Microsecond)
}

func (s *Saving) FinishCapture(writerTag any, capture any) {}

// Waits marks Saving as a WaitingStrategy: Pause backs off to real
// sleeping once its spin budget is spent.
func (s *Saving) Waits() bool { return true }

func (s *Saving) BeginGuard(readerTag any, which *atomic.Bool) (any, bool) {
	slot := readerTag.(*savingSlot)
	if slot.counter.Add(1)&1 == 0 {
		dbuf.GuardLeaked()
	}
	return slot, which.Load()
}

func (s *Saving) EndGuard(rawGuard any) {
	slot := rawGuard.(*savingSlot)
	slot.counter.Add(1)
}
