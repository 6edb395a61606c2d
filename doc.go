// Package dbuf implements a generic double-buffering concurrency primitive:
// a pair of equally typed buffers with a single Writer and any number of
// Readers, where readers always observe a stable, consistent snapshot while
// the Writer mutates a private back buffer and periodically swaps the two.
//
// The value of the package is not the buffers themselves but the
// reader-tracking protocols (see the strategy subpackage) that let the
// Writer swap safely without blocking readers on the hot path and without
// tearing. A Reader's Get never waits for a swap to drain (under Count and
// RWLock it may retry briefly while the selector is being flipped); the
// Writer's Swap waits only for readers that were active at the moment of
// the flip.
//
// Construct a pair with New (shared ownership, weak reader handles) or
// NewInPlace (caller-owned Inner, infallible reader handles), pick a
// strategy from the strategy subpackage, and swap when the Writer has
// accumulated enough work:
//
//	w, r := dbuf.New[[]string](strategy.NewRWLock(), nil, nil)
//	*w.GetMut() = append(*w.GetMut(), "hello")
//	w.SwapBuffers()
//	g := r.Get()
//	defer g.Release()
package dbuf
