package strategy

import (
	"sync/atomic"

	"github.com/go-dbuf/dbuf"
)

// Local gates swaps behind a plain, non-atomic active-reader counter. It is
// only safe when the Writer and every Reader built from it are used from a
// single goroutine at a time with no concurrent calls in flight — under
// that constraint the counter can never be touched by two goroutines at
// once, so it needs no synchronization at all. Reach for Count instead as
// soon as readers and the writer can run on different goroutines.
type Local struct {
	active int
}

// NewLocal constructs a Local strategy.
func NewLocal() *Local {
	return &Local{}
}

func (l *Local) ReaderTag() any { return nil }
func (l *Local) WriterTag() any { return nil }

func (l *Local) TryCaptureReaders(writerTag any, which *atomic.Bool) (any, error) {
	if l.active != 0 {
		return nil, dbuf.CaptureError{}
	}
	return nil, nil
}

func (l *Local) FinishCaptureReaders(writerTag any, which *atomic.Bool, fastCapture any) any {
	return nil
}

// ReadersHaveExited is always true: TryCaptureReaders already confirmed no
// reader was active, and under Local's single-caller constraint none could
// have started since.
func (l *Local) ReadersHaveExited(capture any) bool { return true }

func (l *Local) Pause(capture any) {}

func (l *Local) FinishCapture(writerTag any, capture any) {}

func (l *Local) BeginGuard(readerTag any, which *atomic.Bool) (any, bool) {
	l.active++
	return nil, which.Load()
}

func (l *Local) EndGuard(rawGuard any) {
	l.active--
}
