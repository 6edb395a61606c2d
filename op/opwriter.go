package op

import (
	"github.com/rs/zerolog"

	"github.com/go-dbuf/dbuf"
)

// OpWriter layers an OpList over a dbuf.DeferredWriter: instead of the
// caller mirroring every mutation onto both buffers by hand, it records
// each write once as an Operation and lets the log replay it against
// whichever buffer is currently the back buffer during SwapBuffers.
//
// Constructing one requires a WaitingStrategy, the same restriction
// dbuf.NewDeferredWriter enforces, since SwapBuffersWith drives the same
// drain loop.
type OpWriter[B any, O Operation[B]] struct {
	*dbuf.DeferredWriter[B]
	list OpList[B, O]
	log  *zerolog.Logger
}

// NewOpWriter wraps w with an empty operation log. It panics if w's
// strategy is not a dbuf.WaitingStrategy (via the embedded DeferredWriter).
func NewOpWriter[B any, O Operation[B]](w *dbuf.Writer[B], opts ...dbuf.LogOption) *OpWriter[B, O] {
	return &OpWriter[B, O]{
		DeferredWriter: dbuf.NewDeferredWriter(w),
		log:            dbuf.ResolveLogger(opts),
	}
}

// Push appends a single operation to the log without applying it yet.
func (o *OpWriter[B, O]) Push(op O) {
	o.list.Push(op)
}

// Extend appends a batch of operations to the log.
func (o *OpWriter[B, O]) Extend(ops []O) {
	o.list.Extend(ops)
}

// Reserve grows the log's backing array ahead of a batch of pushes.
func (o *OpWriter[B, O]) Reserve(additional int) {
	o.list.Reserve(additional)
}

// Ops returns the operations still pending a full catch-up.
func (o *OpWriter[B, O]) Ops() []O { return o.list.Ops() }

// Applied returns how many of Ops have already been applied to one of the
// two buffer copies.
func (o *OpWriter[B, O]) Applied() int { return o.list.Applied() }

// SwapBuffers runs finish_swap -> apply log -> start_swap: it completes
// any swap already in flight, replays the log against the now-caught-up
// writer buffer, and starts the next swap, whose flip makes the
// freshly-applied buffer the new front right away; that swap's drain is
// completed by the next SwapBuffers (or FinishSwap).
func (o *OpWriter[B, O]) SwapBuffers() *dbuf.Writer[B] {
	return o.SwapBuffersWith(nil)
}

// SwapBuffersWith is SwapBuffers, invoking f with the operation log between
// each drain pause of the finish_swap phase, so callers can push further
// operations (destined for the swap after this one) while waiting.
func (o *OpWriter[B, O]) SwapBuffersWith(f func(*OpList[B, O])) *dbuf.Writer[B] {
	var cb func(*dbuf.Writer[B])
	if f != nil {
		cb = func(*dbuf.Writer[B]) { f(&o.list) }
	}
	w := o.DeferredWriter.FinishSwapWith(cb)
	o.list.Apply(w.GetMut())
	o.DeferredWriter.StartSwap()
	o.log.Debug().Int("pending_ops", len(o.list.Ops())).Msg("dbuf/op: log applied, next swap started")
	return w
}

// IntoRawParts finishes any swap in flight, then decomposes the OpWriter
// into its underlying dbuf.Writer and the operations still pending a
// catch-up, giving up the log wrapper.
func (o *OpWriter[B, O]) IntoRawParts() (*dbuf.Writer[B], []O) {
	w := o.DeferredWriter.FinishSwap()
	return w, o.list.Ops()
}
