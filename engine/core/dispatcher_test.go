package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversByKind(t *testing.T) {
	var d Dispatcher
	var moves, wheels int
	d.On(KindPointerMove, func(Event) { moves++ })
	d.On(KindWheel, func(Event) { wheels++ })

	d.Emit(EventPointerMove{X: 1})
	d.Emit(EventPointerMove{X: 2})
	d.Emit(EventWheel{DeltaY: 3})
	d.Emit(EventResize{W: 1, H: 1})

	assert.Equal(t, 2, moves)
	assert.Equal(t, 1, wheels)
	assert.Equal(t, 2, d.Len())
}

func TestDispatcherOffIsIdempotent(t *testing.T) {
	var d Dispatcher
	calls := 0
	off := d.On(KindResize, func(Event) { calls++ })
	off()
	off()
	d.Emit(EventResize{W: 10, H: 10})
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, d.Len())
}

func TestDispatcherRemoveDuringEmit(t *testing.T) {
	var d Dispatcher
	var order []string
	var offB func()
	d.On(KindKey, func(Event) {
		order = append(order, "a")
		offB()
	})
	offB = d.On(KindKey, func(Event) { order = append(order, "b") })
	d.On(KindKey, func(Event) { order = append(order, "c") })

	d.Emit(EventKey{Key: KeySpace, Down: true})
	assert.Equal(t, []string{"a", "c"}, order)
	assert.Equal(t, 2, d.Len())
}

func TestDispatcherIgnoresNilListener(t *testing.T) {
	var d Dispatcher
	off := d.On(KindWheel, nil)
	off()
	assert.Equal(t, 0, d.Len())
}
