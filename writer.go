package dbuf

import (
	"sync"

	"github.com/rs/zerolog"
)

// Writer owns exclusive mutation of the back buffer and drives the swap
// state machine. At most one Writer exists per Inner.
//
// Methods are not safe for concurrent use from multiple goroutines — like
// the teacher package this is adapted from, a Writer detects that misuse
// with a TryLock guard and panics rather than racing silently.
type Writer[B any] struct {
	mu    sync.Mutex
	tag   any
	inner *Inner[B]
	log   *zerolog.Logger

	newReader func() *Reader[B]
}

func (w *Writer[B]) lock() {
	if !w.mu.TryLock() {
		panic(panicMultipleWriters)
	}
}

// Swap represents an in-flight drain: the Writer has already flipped the
// selector and captured the set of readers that must exit before the swap
// is complete.
type Swap struct {
	capture any
}

// Halves is returned by Split and SplitMut: pointers to both buffers, safe
// because the Writer's exclusive access to the writer side is held for the
// lifetime of the returned borrow and readers never touch it. By
// convention, only the Writer field of the value returned by SplitMut
// should be mutated.
type Halves[B any] struct {
	Writer *B
	Reader *B
}

// Get returns the current writer-side buffer. The returned pointer is only
// valid to read until the next SwapBuffers call.
func (w *Writer[B]) Get() *B {
	w.lock()
	defer w.mu.Unlock()
	writer, _ := w.inner.split()
	return writer
}

// GetMut returns the current writer-side buffer for mutation.
func (w *Writer[B]) GetMut() *B {
	w.lock()
	defer w.mu.Unlock()
	writer, _ := w.inner.split()
	return writer
}

// Split returns both buffers for read-only inspection.
func (w *Writer[B]) Split() Halves[B] {
	w.lock()
	defer w.mu.Unlock()
	writer, reader := w.inner.split()
	return Halves[B]{Writer: writer, Reader: reader}
}

// SplitMut returns the writer-side buffer for mutation alongside the
// reader-side buffer for inspection.
func (w *Writer[B]) SplitMut() Halves[B] {
	return w.Split()
}

// Reader mints a new Reader bound to this Writer's Inner.
func (w *Writer[B]) Reader() *Reader[B] {
	return w.newReader()
}

// Strategy returns the strategy instance backing this Writer.
func (w *Writer[B]) Strategy() Strategy {
	return w.inner.strategy
}

// TryStartBufferSwap runs the Idle -> Captured -> Flipped -> Drained
// transition: it asks the strategy whether it's safe to proceed, flips the
// selector, and snapshots the readers that must exit. It returns
// CaptureError if the strategy refuses (count-gating strategies only, when
// readers are currently active).
func (w *Writer[B]) TryStartBufferSwap() (*Swap, error) {
	w.lock()
	defer w.mu.Unlock()

	fast, err := w.inner.strategy.TryCaptureReaders(w.tag, &w.inner.which)
	if err != nil {
		return nil, err
	}

	w.inner.which.Store(!w.inner.which.Load())

	capture := w.inner.strategy.FinishCaptureReaders(w.tag, &w.inner.which, fast)
	w.log.Debug().Msg("dbuf: buffer swap started")
	return &Swap{capture: capture}, nil
}

// StartBufferSwap is TryStartBufferSwap, panicking instead of returning an
// error.
func (w *Writer[B]) StartBufferSwap() *Swap {
	swap, err := w.TryStartBufferSwap()
	if err != nil {
		panic(panicCaptureFailed)
	}
	return swap
}

// IsSwapComplete is a non-blocking query: true once every reader captured
// by swap has exited.
func (w *Writer[B]) IsSwapComplete(swap *Swap) bool {
	return w.inner.strategy.ReadersHaveExited(swap.capture)
}

// FinishBufferSwap polls-and-pauses until every reader captured by swap has
// exited.
func (w *Writer[B]) FinishBufferSwap(swap *Swap) {
	w.FinishBufferSwapWith(swap, nil)
}

// FinishBufferSwapWith polls-and-pauses until drain completes, invoking f
// between each pause so layered constructs (DeferredWriter, op.OpWriter)
// can run useful work during the wait.
//
// Panic safety: if f panics, the drain is still forced to completion
// (blocking, without running f again) before the panic propagates, so a
// captured reader set is never abandoned half-drained.
func (w *Writer[B]) FinishBufferSwapWith(swap *Swap, f func()) {
	strategy := w.inner.strategy
	capture := swap.capture
	done := false
	defer func() {
		if done {
			return
		}
		for !strategy.ReadersHaveExited(capture) {
			strategy.Pause(capture)
		}
	}()

	for !strategy.ReadersHaveExited(capture) {
		if f != nil {
			f()
		}
		strategy.Pause(capture)
	}
	done = true
	strategy.FinishCapture(w.tag, capture)
	w.log.Debug().Msg("dbuf: buffer swap finished")
}

// SwapBuffers synchronously runs the whole state machine, panicking if the
// fast capture fails.
func (w *Writer[B]) SwapBuffers() {
	w.SwapBuffersWith(nil)
}

// TrySwapBuffers is SwapBuffers, returning CaptureError instead of
// panicking.
func (w *Writer[B]) TrySwapBuffers() error {
	return w.TrySwapBuffersWith(nil)
}

// SwapBuffersWith is SwapBuffers, invoking f between drain pauses.
func (w *Writer[B]) SwapBuffersWith(f func()) {
	if err := w.TrySwapBuffersWith(f); err != nil {
		panic(panicCaptureFailed)
	}
}

// TrySwapBuffersWith is TrySwapBuffers, invoking f between drain pauses.
func (w *Writer[B]) TrySwapBuffersWith(f func()) error {
	swap, err := w.TryStartBufferSwap()
	if err != nil {
		return err
	}
	w.FinishBufferSwapWith(swap, f)
	return nil
}
