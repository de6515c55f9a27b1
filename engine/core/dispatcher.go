package core

// EventTarget is anything listeners can be registered on. On returns a func
// that unregisters the listener; calling it more than once is a no-op.
type EventTarget interface {
	On(kind EventKind, fn func(Event)) (off func())
}

type listener struct {
	fn      func(Event)
	removed bool
}

// Dispatcher fans events out to listeners by kind. Single-threaded: it is
// only touched from the thread that polls window events.
type Dispatcher struct {
	byKind [numEventKinds][]*listener
	count  int
}

func (d *Dispatcher) On(kind EventKind, fn func(Event)) func() {
	if kind < 0 || kind >= numEventKinds || fn == nil {
		return func() {}
	}
	l := &listener{fn: fn}
	d.byKind[kind] = append(d.byKind[kind], l)
	d.count++
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		d.count--
		d.byKind[kind] = without(d.byKind[kind], l)
	}
}

// Emit delivers ev to every listener of its kind. Listeners removed while
// the event is in flight are skipped.
func (d *Dispatcher) Emit(ev Event) {
	k := ev.Kind()
	if k < 0 || k >= numEventKinds {
		return
	}
	for _, l := range d.byKind[k] {
		if !l.removed {
			l.fn(ev)
		}
	}
}

// Len reports the number of registered listeners across all kinds.
func (d *Dispatcher) Len() int { return d.count }

// without copies so that an Emit iterating the old slice is unaffected.
func without(ls []*listener, l *listener) []*listener {
	out := make([]*listener, 0, len(ls))
	for _, x := range ls {
		if x != l {
			out = append(out, x)
		}
	}
	return out
}
