package dbuf

// CaptureError is returned by TrySwapBuffers and TryStartBufferSwap when a
// strategy's TryCaptureReaders refuses to start a swap because readers are
// currently active and the strategy can't tolerate a concurrent swap start
// (the reader-count-gating strategies only; strategies with an unbounded
// tracked-reader set never return this).
type CaptureError struct{}

func (CaptureError) Error() string {
	return "dbuf: could not capture readers for swap: readers are active"
}

// UpgradeError is returned by Reader.TryGet and Reader.TryClone when the
// reader's weak handle can no longer be upgraded because the Inner it
// referred to has been collected.
type UpgradeError struct{}

func (UpgradeError) Error() string {
	return "dbuf: reader handle is dangling"
}

const (
	panicCaptureFailed     = "dbuf: could not swap buffers"
	panicUpgradeFailed     = "dbuf: tried to read from a dangling Reader"
	panicGuardLeaked       = "dbuf: previous reader guard was leaked"
	panicMultipleWriters   = "dbuf: concurrent use of a single Writer detected"
	panicTooManyReaders    = "dbuf: tried to create too many reader guards"
	panicPoisonedOperation = "dbuf: could not swap poisoned operation log"
)

// GuardLeaked panics with the package's standard guard-leak diagnostic.
// Exported so that strategies in the strategy subpackage (Saving, Park)
// can raise it from BeginGuard when they detect a previous guard minted
// from the same reader tag was never released — the parity their
// per-reader slot tracks came back odd instead of even.
func GuardLeaked() {
	panic(panicGuardLeaked)
}

// TooManyReaders panics with the package's standard reader-count overflow
// diagnostic. Exported so that strategies backed by an active-reader
// counter (Count) can raise it from BeginGuard if incrementing that
// counter would overflow.
func TooManyReaders() {
	panic(panicTooManyReaders)
}

// PoisonedOperation panics with the package's standard operation-log
// misuse diagnostic. Exported so the op subpackage's OpList can raise it
// when Apply is called while a previous, still-running call to Apply on
// the same log has not returned — concurrent or reentrant use of a log
// that, like Writer, is built for a single caller at a time.
func PoisonedOperation() {
	panic(panicPoisonedOperation)
}
