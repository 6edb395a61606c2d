package strategy

import (
	"sync/atomic"

	"github.com/go-dbuf/dbuf"
)

// Count is Local's thread-safe sibling: an atomic active-reader counter
// gates the swap. While a capture is in flight (between TryCaptureReaders
// and FinishCaptureReaders), new readers spin until it clears instead of
// being allowed to register, so the count-is-zero check TryCaptureReaders
// makes can never be falsified by a reader that arrived mid-flip. Because
// of that gate, once a capture exists the drain is already known complete:
// ReadersHaveExited never has to poll anything.
type Count struct {
	active  atomic.Int64
	closing atomic.Bool
}

// NewCount constructs a Count strategy.
func NewCount() *Count {
	return &Count{}
}

func (c *Count) ReaderTag() any { return nil }
func (c *Count) WriterTag() any { return nil }

func (c *Count) TryCaptureReaders(writerTag any, which *atomic.Bool) (any, error) {
	if !c.closing.CompareAndSwap(false, true) {
		panic("dbuf/strategy: concurrent swap capture on a single Count strategy")
	}
	if c.active.Load() != 0 {
		c.closing.Store(false)
		return nil, dbuf.CaptureError{}
	}
	return nil, nil
}

func (c *Count) FinishCaptureReaders(writerTag any, which *atomic.Bool, fastCapture any) any {
	c.closing.Store(false)
	return nil
}

func (c *Count) ReadersHaveExited(capture any) bool { return true }

func (c *Count) Pause(capture any) {}

func (c *Count) FinishCapture(writerTag any, capture any) {}

func (c *Count) BeginGuard(readerTag any, which *atomic.Bool) (any, bool) {
	for {
		for c.closing.Load() {
			yield()
		}
		if c.active.Add(1) < 0 {
			dbuf.TooManyReaders()
		}
		// Re-check after registering: a capture that started between the
		// check above and the increment may already have seen a zero count.
		if !c.closing.Load() {
			return nil, which.Load()
		}
		c.active.Add(-1)
	}
}

func (c *Count) EndGuard(rawGuard any) {
	c.active.Add(-1)
}
