package dbuf

import (
	"sync/atomic"
	"weak"
)

// Inner is the shared state a Writer and any number of Readers reference:
// the selector bit, the strategy instance, and the two raw buffers. It is
// exported so callers can place it themselves (see NewInPlace) when they
// want to manage its lifetime directly instead of going through Go's GC via
// New.
type Inner[B any] struct {
	which    atomic.Bool
	strategy Strategy
	raw      rawPair[B]
}

// NewInner builds an Inner in place. Pair it with NewInPlace to get a
// Writer/Reader pair that borrows it, or take its address when embedding it
// in a heap-allocated struct of your own.
func NewInner[B any](strategy Strategy, writerSide, readerSide B) Inner[B] {
	in := Inner[B]{strategy: strategy}
	in.raw.values[0] = writerSide
	in.raw.values[1] = readerSide
	return in
}

func (in *Inner[B]) split() (writer, reader *B) {
	return in.raw.split(in.which.Load())
}

// New constructs a Writer/Reader pair with shared ownership: the Writer
// holds the only strong reference to a heap-allocated Inner, and the Reader
// holds a weak.Pointer to it. As long as the Writer (or any live
// ReaderGuard, which keeps its own strong reference for its lifetime) is
// reachable, the Inner stays alive; once nothing strong references it, Go's
// GC collects it and the Reader's weak handle reports dangling.
//
// Other implementations of this idea in languages with manual or
// ref-counted ownership draw a distinction between an atomically
// ref-counted shared owner and a non-atomic one; Go's tracing GC makes that
// distinction moot, so there is only one shared-ownership constructor here.
// See DESIGN.md.
func New[B any](strategy Strategy, writerSide, readerSide B, opts ...LogOption) (*Writer[B], *Reader[B]) {
	inner := &Inner[B]{strategy: strategy}
	inner.raw.values[0] = writerSide
	inner.raw.values[1] = readerSide

	w := &Writer[B]{
		tag:   strategy.WriterTag(),
		inner: inner,
		log:   ResolveLogger(opts),
	}
	w.newReader = func() *Reader[B] {
		return &Reader[B]{tag: strategy.ReaderTag(), weak: weak.Make(inner)}
	}
	r := w.newReader()
	return w, r
}

// NewInPlace constructs a Writer/Reader pair that both borrow a
// caller-owned Inner. Neither handle can ever dangle: the caller is
// responsible for keeping the Inner alive for at least as long as both
// handles are in use.
func NewInPlace[B any](inner *Inner[B], opts ...LogOption) (*Writer[B], *Reader[B]) {
	w := &Writer[B]{
		tag:   inner.strategy.WriterTag(),
		inner: inner,
		log:   ResolveLogger(opts),
	}
	w.newReader = func() *Reader[B] {
		return &Reader[B]{tag: inner.strategy.ReaderTag(), borrow: inner}
	}
	r := w.newReader()
	return w, r
}
