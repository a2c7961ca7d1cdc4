package clock

import (
	"sort"
	"time"
)

// Fake is a manually advanced Scheduler for tests.
type Fake struct {
	now    time.Time
	seq    uint64
	timers []*fakeTimer
}

type fakeTimer struct {
	owner *Fake
	due   time.Time
	seq   uint64
	fn    func()
	done  bool
}

func (t *fakeTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.owner.remove(t)
	return true
}

var _ Scheduler = (*Fake)(nil)

// NewFake returns a Fake starting at a fixed instant.
func NewFake() *Fake {
	return &Fake{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (f *Fake) Now() time.Time { return f.now }

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	f.seq++
	t := &fakeTimer{owner: f, due: f.now.Add(d), seq: f.seq, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves time forward by d, running every callback that becomes due
// in due-time order. Timers scheduled by callbacks also run if they fall
// inside the window.
func (f *Fake) Advance(d time.Duration) {
	target := f.now.Add(d)
	for {
		next := f.earliest()
		if next == nil || next.due.After(target) {
			break
		}
		f.now = next.due
		next.done = true
		f.remove(next)
		next.fn()
	}
	f.now = target
}

// Pending returns the number of scheduled callbacks that have not run.
func (f *Fake) Pending() int { return len(f.timers) }

func (f *Fake) earliest() *fakeTimer {
	if len(f.timers) == 0 {
		return nil
	}
	sort.SliceStable(f.timers, func(i, j int) bool {
		a, b := f.timers[i], f.timers[j]
		if a.due.Equal(b.due) {
			return a.seq < b.seq
		}
		return a.due.Before(b.due)
	})
	return f.timers[0]
}

func (f *Fake) remove(t *fakeTimer) {
	for i, x := range f.timers {
		if x == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return
		}
	}
}
