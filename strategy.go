package dbuf

import "sync/atomic"

// Strategy is the central abstraction of the package: the reader-tracking
// protocol that lets a Writer swap buffers without blocking readers on the
// hot path. Concrete strategies live in the strategy
// subpackage (Local, Count, RWLock, Saving, Park, Hazard).
//
// Go has no associated types, so per-reader/per-writer/per-guard state is
// carried as any: each concrete strategy mints its own tag/capture values
// (pointers, nil, or in RWLock's case a small slot index, so boxing them
// into an any does not allocate) and type-asserts them back out inside its
// own methods. Writer
// and Reader never inspect the boxed value — this is the "tagged variants"
// fallback the design notes call out for languages without associated
// types, not runtime strategy dispatch: the concrete Strategy is chosen
// once, at construction, and every Writer/Reader built from it shares that
// one concrete type for their entire lifetime.
//
// Every method that can race a selector flip is handed the Inner's
// selector bit directly (as *atomic.Bool), because each strategy reads it
// as part of its own acquire protocol (after registering the reader, or,
// for RWLock, to pick which slot's lock to take) rather than trust a value
// read separately by the caller.
type Strategy interface {
	// ReaderTag mints per-reader state. Called once when a Reader is created
	// or cloned.
	ReaderTag() any
	// WriterTag mints the single per-writer state. Called once, at
	// construction.
	WriterTag() any

	// TryCaptureReaders must be called before the selector flips. It
	// succeeds when it is safe to proceed, and may fail fast (CaptureError)
	// if readers are active and the strategy cannot tolerate a concurrent
	// swap start.
	TryCaptureReaders(writerTag any, which *atomic.Bool) (fastCapture any, err error)
	// FinishCaptureReaders runs immediately after the selector flip and
	// snapshots the set of readers currently observing the now-back buffer.
	// It must observe a total order with the flip.
	FinishCaptureReaders(writerTag any, which *atomic.Bool, fastCapture any) (capture any)
	// ReadersHaveExited is a non-blocking query: true once every reader in
	// the captured set has released its guard (or moved on to the new
	// front).
	ReadersHaveExited(capture any) bool
	// Pause is the cooperative wait hook invoked between drain polls. It may
	// spin, yield, or block on a condition variable.
	Pause(capture any)
	// FinishCapture is an optional terminal notification run once the drain
	// completes through the normal (non-panicking, non-destructor) path,
	// e.g. to unpark any parked readers.
	FinishCapture(writerTag any, capture any)

	// BeginGuard runs when a reader starts a read. It returns the raw guard
	// token EndGuard needs later, plus the selector value (the writer-bit
	// convention rawPair.split expects) the strategy observed as part of
	// its own acquire protocol — the caller must use this value rather than
	// reading the selector itself, since re-reading it separately could
	// observe a different, inconsistent flip.
	BeginGuard(readerTag any, which *atomic.Bool) (rawGuard any, observedWhich bool)
	// EndGuard runs when the reader guard is released. It may run on any
	// goroutine and must be safe against a concurrent FinishCaptureReaders
	// and ReadersHaveExited.
	EndGuard(rawGuard any)
}

// WaitingStrategy is implemented by strategies whose Pause does real
// cooperative waiting (spin-then-yield, or a condition variable) rather
// than nothing. DeferredWriter and the operation log (package op) only
// accept a WaitingStrategy, because otherwise their drain loop would
// busy-spin pathologically across whatever work the caller runs during the
// drain window.
type WaitingStrategy interface {
	Strategy

	// Waits reports true to mark this strategy's Pause as doing real
	// cooperative waiting. It carries no other behavior; it exists purely
	// so DeferredWriter/op.OpWriter constructors can require it via a type
	// assertion at construction time.
	Waits() bool
}
