package dbuf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-dbuf/dbuf"
	"github.com/go-dbuf/dbuf/strategy"
)

type labeledPoint struct {
	X     int
	Label string
}

// TestReaderGuardMap covers spec.md §4.4's guard projection: Map narrows a
// guard to a sub-view of its buffer while keeping the same underlying
// release, so releasing the projection ends the original read section.
func TestReaderGuardMap(t *testing.T) {
	w, r := dbuf.New[labeledPoint](
		strategy.NewLocal(),
		labeledPoint{X: 1, Label: "writer"},
		labeledPoint{X: 2, Label: "reader"},
	)

	g := r.Get()
	mapped := dbuf.Map(g, func(p *labeledPoint) *int { return &p.X })
	require.Equal(t, 2, *mapped.Value())

	// the mapped guard still holds the original read section open.
	_, err := w.TryStartBufferSwap()
	require.Equal(t, dbuf.CaptureError{}, err)

	mapped.Release()

	swap, err := w.TryStartBufferSwap()
	require.NoError(t, err)
	w.FinishBufferSwap(swap)
}

// TestReaderGuardTryMap covers both outcomes of the fallible projection:
// on success it returns the projected guard and gives up the original; on
// failure it hands the original guard back unreleased so the caller can
// still use or release it.
func TestReaderGuardTryMap(t *testing.T) {
	w, r := dbuf.New[labeledPoint](
		strategy.NewLocal(),
		labeledPoint{X: 1, Label: "writer"},
		labeledPoint{X: 2, Label: "reader"},
	)
	defer func() {
		_, err := w.TryStartBufferSwap()
		require.NoError(t, err)
	}()

	g := r.Get()
	mapped, orig := dbuf.TryMap(g, func(p *labeledPoint) (*int, bool) { return &p.X, p.X > 0 })
	require.NotNil(t, mapped)
	require.Nil(t, orig)
	require.Equal(t, 2, *mapped.Value())
	mapped.Release()

	g2 := r.Get()
	mapped2, orig2 := dbuf.TryMap(g2, func(p *labeledPoint) (*int, bool) { return nil, false })
	require.Nil(t, mapped2)
	require.NotNil(t, orig2)
	require.Equal(t, 2, orig2.Value().X)
	orig2.Release()
}
