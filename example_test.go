package dbuf_test

import (
	"reflect"
	"sort"
	"strings"

	"github.com/go-dbuf/dbuf"
	"github.com/go-dbuf/dbuf/strategy"
)

func Example() {
	// init
	w, _ := dbuf.New[[]string](strategy.NewRWLock(), nil, nil)

	// empty read
	emptyReadDone := make(chan struct{}) // to create a reliable example
	go func() {
		r := w.Reader()
		g := r.Get()
		if len(*g.Value()) != 0 {
			panic("unreachable")
		}
		g.Release()
		close(emptyReadDone)
	}()
	<-emptyReadDone

	// add some values
	*w.GetMut() = append(*w.GetMut(), "foo", "bar", "foobar")

	// read after update
	readAfterUpdate := make(chan struct{})
	readAfterUpdateDone := make(chan struct{})
	go func() {
		<-readAfterUpdate
		r := w.Reader()
		g := r.Get()
		v := *g.Value()
		_, found := sort.Find(len(v), func(i int) int {
			return strings.Compare("bar", v[i])
		})
		if !found {
			panic("unreachable")
		}
		g.Release()
		close(readAfterUpdateDone)
	}()

	// decide we added enough values, sort the writer side, swap and copy
	sort.Strings(*w.GetMut())
	w.SwapBuffers()
	close(readAfterUpdate) // now the new values are visible

	newReader := w.Reader()
	g := newReader.Get()
	*w.GetMut() = append((*w.GetMut())[:0], *g.Value()...)
	if !reflect.DeepEqual(*w.GetMut(), *g.Value()) {
		panic("unreachable")
	}
	g.Release()

	<-readAfterUpdateDone

	// and repeat ...

	// Output:
}
