package strategy

import (
	"sync/atomic"
	"time"
)

// Hazard tracks readers through a single global generation counter rather
// than Saving's per-reader parity counter: BeginGuard pops a free slot (or
// allocates one) from a lock-free queue and stamps it with the current
// generation, EndGuard pushes the slot back for the next guard — any
// reader, not just the one that first allocated it — to reuse, and a
// drain bumps the generation once and then scans every slot for one still
// stamped with the retired value. That trades Saving's per-reader mutex
// registry for a lock-free pool, at the cost of every guard paying an
// acquire/release instead of touching a slot it already owns.
type Hazard struct {
	cfg        config
	generation atomic.Uint64
	slots      hazardSlots
}

// NewHazard constructs a Hazard strategy.
func NewHazard(opts ...Option) *Hazard {
	return &Hazard{cfg: resolve(opts)}
}

func (h *Hazard) ReaderTag() any { return nil }
func (h *Hazard) WriterTag() any { return nil }

func (h *Hazard) TryCaptureReaders(writerTag any, which *atomic.Bool) (any, error) {
	return nil, nil
}

func (h *Hazard) FinishCaptureReaders(writerTag any, which *atomic.Bool, fastCapture any) any {
	return &epochCapture{gen: h.generation.Add(1) - 1}
}

func (h *Hazard) ReadersHaveExited(capture any) bool {
	gen := capture.(*epochCapture).gen
	exited := true
	h.slots.scan(func(s *hazardSlot) {
		e := s.epoch.Load()
		if e != 0 && (e>>1) <= gen {
			exited = false
		}
	})
	return exited
}

func (h *Hazard) Pause(capture any) {
	c := capture.(*epochCapture)
	c.spins++
	if c.spins <= h.cfg.spinLimit {
		yield()
		return
	}
	time.Sleep(50 * time.Microsecond)
}

func (h *Hazard) FinishCapture(writerTag any, capture any) {}

// Waits marks Hazard as a WaitingStrategy: Pause backs off to real
// sleeping once its spin budget is spent.
func (h *Hazard) Waits() bool { return true }

func (h *Hazard) BeginGuard(readerTag any, which *atomic.Bool) (any, bool) {
	slot := h.slots.acquire()
	gen := h.generation.Load()
	slot.epoch.Store((gen << 1) | 1)
	return slot, which.Load()
}

func (h *Hazard) EndGuard(rawGuard any) {
	slot := rawGuard.(*hazardSlot)
	slot.epoch.Store(0)
	h.slots.release(slot)
}
