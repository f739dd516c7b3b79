// Package loop provides a single-threaded frame and timer dispatcher for
// hosts that do not have a browser-style requestAnimationFrame of their own.
//
// The host owns the clock: it calls Advance once per display refresh from its
// loop goroutine. Every callback registered with the dispatcher runs on that
// goroutine, inside Advance, so callers never need locks.
package loop

import (
	"sort"
	"time"
)

// FrameID identifies a requested frame callback. The zero value is never
// issued.
type FrameID uint64

type frame struct {
	id FrameID
	fn func(now time.Duration)
}

type timer struct {
	seq      uint64
	deadline time.Duration
	fn       func()
	stopped  bool
}

// Dispatcher queues frame callbacks and one-shot timers against a monotonic
// timestamp supplied by the host.
type Dispatcher struct {
	now    time.Duration
	nextID FrameID
	seq    uint64
	frames []frame
	batch  []frame
	timers []*timer
}

// New returns a dispatcher whose clock starts at zero.
func New() *Dispatcher {
	return &Dispatcher{}
}

// Now returns the timestamp of the most recent Advance.
func (d *Dispatcher) Now() time.Duration {
	return d.now
}

// RequestFrame schedules fn for the next Advance. Callbacks requested while a
// frame is being dispatched run on the following tick, never the current one.
func (d *Dispatcher) RequestFrame(fn func(now time.Duration)) FrameID {
	d.nextID++
	d.frames = append(d.frames, frame{id: d.nextID, fn: fn})
	return d.nextID
}

// CancelFrame drops a pending frame callback. Unknown or already dispatched
// ids are ignored.
func (d *Dispatcher) CancelFrame(id FrameID) {
	for i, f := range d.frames {
		if f.id == id {
			d.frames = append(d.frames[:i], d.frames[i+1:]...)
			return
		}
	}
	for i := range d.batch {
		if d.batch[i].id == id {
			d.batch[i].fn = nil
			return
		}
	}
}

// PendingFrames reports how many frame callbacks wait for the next tick.
func (d *Dispatcher) PendingFrames() int {
	return len(d.frames)
}

// AfterFunc runs fn on the first Advance at or after now+delay. The returned
// stop function cancels the timer and reports whether it was still pending.
func (d *Dispatcher) AfterFunc(delay time.Duration, fn func()) (stop func() bool) {
	if delay < 0 {
		delay = 0
	}
	d.seq++
	t := &timer{seq: d.seq, deadline: d.now + delay, fn: fn}
	d.timers = append(d.timers, t)
	return func() bool {
		if t.stopped {
			return false
		}
		t.stopped = true
		d.removeTimer(t)
		return true
	}
}

// PendingTimers reports how many timers have not fired or been stopped.
func (d *Dispatcher) PendingTimers() int {
	return len(d.timers)
}

func (d *Dispatcher) removeTimer(t *timer) {
	for i, x := range d.timers {
		if x == t {
			d.timers = append(d.timers[:i], d.timers[i+1:]...)
			return
		}
	}
}

// Advance moves the clock to now, fires every due timer in deadline order
// (creation order breaks ties) and then runs the frame callbacks that were
// pending when the tick began. A timestamp earlier than the current clock is
// treated as the current clock.
func (d *Dispatcher) Advance(now time.Duration) {
	if now > d.now {
		d.now = now
	}

	for {
		t := d.nextDue()
		if t == nil {
			break
		}
		t.stopped = true
		d.removeTimer(t)
		t.fn()
	}

	d.batch = d.frames
	d.frames = nil
	for i := range d.batch {
		if fn := d.batch[i].fn; fn != nil {
			d.batch[i].fn = nil
			fn(d.now)
		}
	}
	d.batch = nil
}

func (d *Dispatcher) nextDue() *timer {
	if len(d.timers) == 0 {
		return nil
	}
	sort.SliceStable(d.timers, func(i, j int) bool {
		if d.timers[i].deadline == d.timers[j].deadline {
			return d.timers[i].seq < d.timers[j].seq
		}
		return d.timers[i].deadline < d.timers[j].deadline
	})
	if d.timers[0].deadline > d.now {
		return nil
	}
	return d.timers[0]
}
