package core

// Event model.
type Event interface{ Kind() EventKind }

type EventKind int

const (
	KindCloseRequested EventKind = iota
	KindResize
	KindKey
	KindPointerDown
	KindPointerMove
	KindPointerUp
	KindWheel
	numEventKinds
)

type EventCloseRequested struct{}

func (EventCloseRequested) Kind() EventKind { return KindCloseRequested }

// EventResize carries the new framebuffer size in pixels.
type EventResize struct{ W, H int }

func (EventResize) Kind() EventKind { return KindResize }

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) Kind() EventKind { return KindKey }

// Pointer coordinates are window pixels, origin top-left.
type EventPointerDown struct {
	X, Y   float64
	Button int
}

func (EventPointerDown) Kind() EventKind { return KindPointerDown }

type EventPointerMove struct{ X, Y float64 }

func (EventPointerMove) Kind() EventKind { return KindPointerMove }

type EventPointerUp struct {
	X, Y   float64
	Button int
}

func (EventPointerUp) Kind() EventKind { return KindPointerUp }

// EventWheel uses DOM sign conventions: positive DeltaY scrolls forward.
type EventWheel struct{ DeltaX, DeltaY float64 }

func (EventWheel) Kind() EventKind { return KindWheel }

// Key/mod enums (subset; add as needed).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyLeft
	KeyRight
	KeyP
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)
