package strategy

import (
	"sync"
	"sync/atomic"
)

// RWLock tracks readers with a pair of sync.RWMutex, one per buffer slot,
// adapted from the try-lock/re-check dance a single-buffer RWMutex-backed
// reader-writer package uses to avoid racing its own swap: a reader
// TryRLocks the slot its selector read points at, then re-checks the
// selector hasn't moved under it before trusting the lock it's holding;
// if it has, it backs out and retries against the new slot. Draining is
// then just Lock-then-Unlock on the old slot's mutex: it can't succeed
// until every RLock on it has been released.
type RWLock struct {
	locks [2]sync.RWMutex
}

// NewRWLock constructs an RWLock strategy.
func NewRWLock() *RWLock {
	return &RWLock{}
}

func (l *RWLock) ReaderTag() any { return nil }
func (l *RWLock) WriterTag() any { return nil }

func (l *RWLock) TryCaptureReaders(writerTag any, which *atomic.Bool) (any, error) {
	return nil, nil
}

func (l *RWLock) FinishCaptureReaders(writerTag any, which *atomic.Bool, fastCapture any) any {
	// which has already flipped; the slot readers were using before the
	// flip is the one the new front does NOT point at.
	postFlip := which.Load()
	return readerSlot(!postFlip)
}

func (l *RWLock) ReadersHaveExited(capture any) bool {
	idx := capture.(int)
	if l.locks[idx].TryLock() {
		l.locks[idx].Unlock()
		return true
	}
	return false
}

// Pause blocks until the captured slot's mutex is free, so the drain loop
// calling it does real, not spun, waiting.
func (l *RWLock) Pause(capture any) {
	idx := capture.(int)
	l.locks[idx].Lock()
	l.locks[idx].Unlock()
}

func (l *RWLock) FinishCapture(writerTag any, capture any) {}

// Waits marks RWLock as a WaitingStrategy: Pause genuinely blocks.
func (l *RWLock) Waits() bool { return true }

func (l *RWLock) BeginGuard(readerTag any, which *atomic.Bool) (any, bool) {
	for {
		w := which.Load()
		idx := readerSlot(w)
		if !l.locks[idx].TryRLock() {
			yield()
			continue
		}
		if which.Load() != w {
			l.locks[idx].RUnlock()
			yield()
			continue
		}
		return idx, w
	}
}

func (l *RWLock) EndGuard(rawGuard any) {
	idx := rawGuard.(int)
	l.locks[idx].RUnlock()
}
