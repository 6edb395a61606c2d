package dbuf

// rawPair is the two-element raw storage form: given a selector bit, index
// `which` is the writer side and index `!which` is the reader side. The
// caller (Writer) is responsible for never taking the mutable form
// concurrently with a selector flip; that invariant is upheld because only
// the Writer mutates `which`, and only while holding its own exclusive
// access.
type rawPair[B any] struct {
	values [2]B
}

// split returns (writer-side, reader-side) pointers into the pair. Both are
// valid to dereference; it is the caller's responsibility to only mutate
// through the writer-side pointer, and only while it holds exclusive write
// access (i.e. between swaps, never concurrently with a flip).
func (r *rawPair[B]) split(which bool) (writer, reader *B) {
	w := 0
	if which {
		w = 1
	}
	return &r.values[w], &r.values[1-w]
}
