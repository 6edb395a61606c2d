package dbuf

import "weak"

// Reader is a read handle bound to an Inner. Get never waits for a swap to
// drain: it reads whichever buffer is currently the front, unless the Inner
// itself is gone. Under Count and RWLock it may retry briefly while the
// Writer is in the middle of flipping the selector.
//
// A Reader constructed via New holds only a weak.Pointer to its Inner, so
// it can dangle once the Writer (and every live guard) has gone away. A
// Reader constructed via NewInPlace borrows a caller-owned Inner directly
// and can never dangle.
type Reader[B any] struct {
	tag    any
	weak   weak.Pointer[Inner[B]]
	borrow *Inner[B]
}

func (r *Reader[B]) upgrade() (*Inner[B], error) {
	if r.borrow != nil {
		return r.borrow, nil
	}
	inner := r.weak.Value()
	if inner == nil {
		return nil, UpgradeError{}
	}
	return inner, nil
}

// IsDangling reports whether the Inner this Reader refers to is gone. A
// Reader built with NewInPlace is never dangling.
func (r *Reader[B]) IsDangling() bool {
	if r.borrow != nil {
		return false
	}
	return r.weak.Value() == nil
}

// Get returns a guard over the current front buffer, panicking if the
// Reader's Inner has been collected.
func (r *Reader[B]) Get() *ReaderGuard[B] {
	g, err := r.TryGet()
	if err != nil {
		panic(panicUpgradeFailed)
	}
	return g
}

// TryGet is Get, returning UpgradeError instead of panicking.
func (r *Reader[B]) TryGet() (*ReaderGuard[B], error) {
	inner, err := r.upgrade()
	if err != nil {
		return nil, err
	}

	rawGuard, which := inner.strategy.BeginGuard(r.tag, &inner.which)
	_, front := inner.raw.split(which)

	return &ReaderGuard[B]{
		value:   front,
		release: func() { inner.strategy.EndGuard(rawGuard) },
	}, nil
}

// Clone mints a new Reader bound to the same Inner, panicking if this
// Reader is already dangling.
func (r *Reader[B]) Clone() *Reader[B] {
	clone, err := r.TryClone()
	if err != nil {
		panic(panicUpgradeFailed)
	}
	return clone
}

// TryClone is Clone, returning UpgradeError instead of panicking.
func (r *Reader[B]) TryClone() (*Reader[B], error) {
	if r.borrow != nil {
		return &Reader[B]{tag: r.borrow.strategy.ReaderTag(), borrow: r.borrow}, nil
	}
	inner, err := r.upgrade()
	if err != nil {
		return nil, err
	}
	return &Reader[B]{tag: inner.strategy.ReaderTag(), weak: r.weak}, nil
}

// ReaderGuard borrows the buffer a Reader observed at the moment Get was
// called. Release tells the strategy this reader is no longer active; it
// is safe to call more than once, since Go has no move semantics to
// enforce that a guard is consumed exactly once the way the design this
// package adapts relies on a destructor for.
type ReaderGuard[T any] struct {
	value    *T
	release  func()
	released bool
}

// Value returns the borrowed buffer. It must not be dereferenced after
// Release.
func (g *ReaderGuard[T]) Value() *T {
	return g.value
}

// Release ends the read. Guards that are never released leak the reader's
// slot in whichever bookkeeping the strategy uses (a captured swap drain
// can then block forever on it), mirroring a forgotten guard in the design
// this package is modeled on.
func (g *ReaderGuard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.release()
}

// Map projects a guard onto a sub-view of its buffer, keeping the same
// underlying release. Use this to hand out a narrower read-only view
// without exposing the whole buffer type.
func Map[T, U any](g *ReaderGuard[T], f func(*T) *U) *ReaderGuard[U] {
	return &ReaderGuard[U]{value: f(g.value), release: g.release}
}

// TryMap is Map for a projection that can fail: on success it returns the
// projected guard and a nil original; on failure it returns a nil
// projection and hands the original guard back unreleased.
func TryMap[T, U any](g *ReaderGuard[T], f func(*T) (*U, bool)) (*ReaderGuard[U], *ReaderGuard[T]) {
	if v, ok := f(g.value); ok {
		return &ReaderGuard[U]{value: v, release: g.release}, nil
	}
	return nil, g
}
