package core

import "time"

// FrameFunc is a frame callback; now is the time the frame started.
type FrameFunc func(now time.Time)

// FrameID identifies a pending frame request. Zero is never issued.
type FrameID uint64

// Scheduler is a requestAnimationFrame-style primitive: a request runs once,
// on the next frame, and callbacks re-request themselves to keep animating.
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

type frameReq struct {
	id FrameID
	fn FrameFunc
}

// FrameQueue is the Scheduler driven by the main loop, one RunFrame per
// presented frame. Requests made during RunFrame land on the next frame.
type FrameQueue struct {
	next    FrameID
	pending []frameReq
	running []frameReq
}

func (q *FrameQueue) RequestFrame(fn FrameFunc) FrameID {
	q.next++
	q.pending = append(q.pending, frameReq{id: q.next, fn: fn})
	return q.next
}

func (q *FrameQueue) CancelFrame(id FrameID) {
	for i := range q.pending {
		if q.pending[i].id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	// Cancelling a sibling from inside the current frame.
	for i := range q.running {
		if q.running[i].id == id {
			q.running[i].fn = nil
			return
		}
	}
}

// RunFrame runs every callback requested before this call.
func (q *FrameQueue) RunFrame(now time.Time) {
	q.running, q.pending = q.pending, q.running[:0]
	for i := range q.running {
		if fn := q.running[i].fn; fn != nil {
			fn(now)
		}
	}
	for i := range q.running {
		q.running[i].fn = nil
	}
	q.running = q.running[:0]
}

// Pending reports how many callbacks will run on the next frame.
func (q *FrameQueue) Pending() int { return len(q.pending) }
