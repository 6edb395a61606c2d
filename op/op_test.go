package op_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-dbuf/dbuf"
	"github.com/go-dbuf/dbuf/op"
	"github.com/go-dbuf/dbuf/strategy"
)

// addOp is the simplest Operation: add a delta to an int buffer.
type addOp int

func (a addOp) Apply(buf *int) { *buf += int(a) }

// TestOpWriterTwoSwapConvergence reproduces the spec's "Op-writer
// two-swap convergence" scenario verbatim: buffers start at (0, 0), and a
// sequence of pushed deltas and swaps must leave the reader observing the
// running sum after each swap, including two trailing swaps with no
// intervening pushes.
func TestOpWriterTwoSwapConvergence(t *testing.T) {
	w, r := dbuf.New[int](strategy.NewSaving(), 0, 0)
	ow := op.NewOpWriter[int, addOp](w)

	readFront := func() int {
		g := r.Get()
		defer g.Release()
		return *g.Value()
	}

	ow.Push(-2)
	require.Equal(t, 0, readFront())
	ow.SwapBuffers()
	require.Equal(t, -2, readFront())

	ow.Push(2)
	require.Equal(t, -2, readFront())
	ow.SwapBuffers()
	require.Equal(t, 0, readFront())

	ow.Push(2)
	require.Equal(t, 0, readFront())
	ow.SwapBuffers()
	require.Equal(t, 2, readFront())

	ow.SwapBuffers()
	require.Equal(t, 2, readFront())
	ow.SwapBuffers()
	require.Equal(t, 2, readFront())
}

// TestOpWriterSwapBuffersWithPushesDuringDrain covers the
// SwapBuffersWith callback: it must receive the live operation log so a
// caller can push entries meant for the swap after the one in progress.
func TestOpWriterSwapBuffersWithPushesDuringDrain(t *testing.T) {
	w, r := dbuf.New[int](strategy.NewPark(), 0, 0)
	ow := op.NewOpWriter[int, addOp](w)

	// Start a swap with a live reader captured, directly through the
	// embedded DeferredWriter, so FinishSwapWith below actually has to
	// drain something and therefore runs its callback.
	g := r.Get()
	ow.StartSwap()

	ow.Push(5)

	pushedDuringDrain := false
	ow.SwapBuffersWith(func(pending *op.OpList[int, addOp]) {
		if !pushedDuringDrain {
			pending.Push(7)
			pushedDuringDrain = true
			g.Release()
		}
	})
	require.True(t, pushedDuringDrain)

	gg := r.Get()
	require.Equal(t, 12, *gg.Value())
	gg.Release()

	ow.SwapBuffers()
	gg = r.Get()
	require.Equal(t, 12, *gg.Value())
	gg.Release()
}

// TestOpWriterIntoRawParts covers decomposing an OpWriter back into its
// underlying Writer and pending operations.
func TestOpWriterIntoRawParts(t *testing.T) {
	w, _ := dbuf.New[int](strategy.NewSaving(), 0, 0)
	ow := op.NewOpWriter[int, addOp](w)

	ow.Push(1)
	ow.Push(2)

	writer, pending := ow.IntoRawParts()
	require.NotNil(t, writer)
	require.Equal(t, []addOp{1, 2}, pending)
}

// flakyOp panics on its first Apply only if its own failed flag starts
// false, and succeeds (adding delta) otherwise; each instance owns its
// own flag, so the test controls exactly which pushed op panics on the
// log's first pass by pre-seeding the others' flags to true.
type flakyOp struct {
	delta  int
	failed *bool
}

func succeedsImmediately(delta int) flakyOp {
	done := true
	return flakyOp{delta: delta, failed: &done}
}

func panicsOnce(delta int) flakyOp {
	return flakyOp{delta: delta, failed: new(bool)}
}

func (f flakyOp) Apply(buf *int) {
	if !*f.failed {
		*f.failed = true
		panic("boom")
	}
	*buf += f.delta
}

// TestOperationPanicSafety reproduces the spec's "Operation panic safety"
// scenario: a panicking Apply mid-replay must not drop or double-count any
// operation across the panic, and pushing further operations after
// recovering must still converge to applying the full sequence in order.
func TestOperationPanicSafety(t *testing.T) {
	var list op.OpList[int, flakyOp]

	list.Push(succeedsImmediately(1))
	list.Push(succeedsImmediately(1))
	list.Push(panicsOnce(1)) // panics on its first Apply

	buf := 0
	func() {
		defer func() {
			r := recover()
			require.Equal(t, "boom", r)
		}()
		list.Apply(&buf)
	}()

	// The first two ops ran; the third's partial (failed) attempt counts
	// as applied per the log's panic-safety contract, even though its
	// effect on buf never landed.
	require.Equal(t, 2, buf)
	require.Equal(t, 3, list.Applied())
	require.Len(t, list.Ops(), 3)

	list.Push(succeedsImmediately(10))
	require.Len(t, list.Ops(), 4)

	// A fresh buffer catching up consumes the applied prefix via
	// ApplyFinal (replaying the previously-panicking op, whose flag was
	// flipped to true by its first attempt above, so it now succeeds)
	// and then Applies the new entry: no operation was lost or
	// double-counted across the panic.
	buf2 := 0
	list.Apply(&buf2)
	require.Equal(t, 1+1+1+10, buf2)
	require.Equal(t, 1, list.Applied())
	require.Len(t, list.Ops(), 1)
}
