// Package op layers an operation log over a dbuf.Writer: instead of
// swapping two independently-mutated buffers, callers record each write as
// an Operation and replay the log against whichever buffer is currently
// the back buffer, so both copies converge by replay rather than by
// mirroring every mutation by hand.
package op

import "github.com/go-dbuf/dbuf"

// Operation is a recorded write, replayable against either copy of the
// buffer.
type Operation[B any] interface {
	Apply(buf *B)
}

// FinalOperation is implemented by an Operation whose last application
// (once it has already been applied to the other copy) should do
// something other than an ordinary replay — freeing a resource the first
// Apply only transferred, for instance. An Operation that doesn't
// implement FinalOperation has its final application treated as one more
// ordinary Apply.
type FinalOperation[B any] interface {
	Operation[B]
	ApplyFinal(buf *B)
}

func applyFinal[B any](op Operation[B], buf *B) {
	if f, ok := op.(FinalOperation[B]); ok {
		f.ApplyFinal(buf)
		return
	}
	op.Apply(buf)
}

// OpList is the log itself: every operation pushed since the last full
// catch-up, plus how many of them (counting from the front) have already
// been applied to one of the two buffer copies.
type OpList[B any, O Operation[B]] struct {
	ops      []O
	applied  int
	poison   bool
	applying bool
}

// Ops returns the operations still pending a full catch-up, in the order
// they were pushed.
func (l *OpList[B, O]) Ops() []O { return l.ops }

// Applied returns how many of Ops have already been applied to one of the
// two buffer copies (and so need ApplyFinal, not Apply, on the next
// catch-up).
func (l *OpList[B, O]) Applied() int { return l.applied }

// Push appends a single operation to the log.
func (l *OpList[B, O]) Push(op O) {
	l.ops = append(l.ops, op)
}

// Extend appends a batch of operations to the log.
func (l *OpList[B, O]) Extend(ops []O) {
	l.ops = append(l.ops, ops...)
}

// Reserve grows the log's backing array ahead of a batch of pushes,
// avoiding repeated reallocation.
func (l *OpList[B, O]) Reserve(additional int) {
	if cap(l.ops)-len(l.ops) >= additional {
		return
	}
	grown := make([]O, len(l.ops), len(l.ops)+additional)
	copy(grown, l.ops)
	l.ops = grown
}

// Apply catches buf up to the front of the log: the prefix already applied
// to the other buffer (per Applied) is consumed with ApplyFinal, then
// every remaining entry is applied fresh with Apply, advancing Applied one
// entry at a time as it goes.
//
// Panic safety: the applied counter is advanced, and an already-applied
// entry is popped off the front, before the corresponding Apply/ApplyFinal
// call runs — so if an operation panics partway through, the log is left
// in a state where that operation's partial effect on buf still counts as
// applied (it is never replayed a second time against the same buffer on
// the next Apply). A poison bit set for the duration of the call, cleared
// on normal return, lets a defensive compact step renormalize applied
// against len(ops) if a panic's unwind path somehow re-entered Push or
// Extend before the log was used again; in the ordinary single-goroutine
// case applied and ops never actually drift, since every step above keeps
// them consistent with each other.
//
// Apply is built for one caller at a time, like Writer: a second call
// observed while a first is still running (as opposed to one that only
// re-enters after a prior call panicked) is a misuse, not a recoverable
// race, and panics via dbuf.PoisonedOperation instead of corrupting ops.
func (l *OpList[B, O]) Apply(buf *B) {
	if l.applying {
		dbuf.PoisonedOperation()
	}
	l.applying = true
	defer func() { l.applying = false }()

	if l.poison {
		l.compact()
	}
	l.poison = true

	for l.applied > 0 {
		op := l.ops[0]
		l.ops = l.ops[1:]
		l.applied--
		applyFinal[B](op, buf)
	}

	for i := 0; i < len(l.ops); i++ {
		l.applied = i + 1
		l.ops[i].Apply(buf)
	}

	l.poison = false
}

func (l *OpList[B, O]) compact() {
	if l.applied > len(l.ops) {
		l.applied = len(l.ops)
	}
}
