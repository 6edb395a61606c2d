package strategy

import "runtime"

// yield is the one-instruction-cheaper-than-a-channel way to let another
// goroutine run; used for the very short spins Count/RWLock do while
// waiting out a concurrent flip.
func yield() {
	runtime.Gosched()
}
