package clock

import "time"

// Pending identifies a timer that an event loop still has to arm.
type Pending struct {
	ID    uint64
	Delay time.Duration
}

// Queue is a Scheduler whose timers are armed and delivered by an external
// event loop. The loop calls Drain after handling each event, arms one
// wake-up per returned Pending, and calls Fire with its ID when the wake-up
// arrives. Stopped timers are skipped at delivery time.
type Queue struct {
	nextID  uint64
	active  map[uint64]*queuedTimer
	unarmed []Pending
}

type queuedTimer struct {
	q  *Queue
	id uint64
	fn func()
}

func (t *queuedTimer) Stop() bool {
	if _, ok := t.q.active[t.id]; !ok {
		return false
	}
	delete(t.q.active, t.id)
	return true
}

var _ Scheduler = (*Queue)(nil)

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{active: make(map[uint64]*queuedTimer)}
}

func (q *Queue) Now() time.Time { return time.Now() }

func (q *Queue) AfterFunc(d time.Duration, fn func()) Timer {
	q.nextID++
	t := &queuedTimer{q: q, id: q.nextID, fn: fn}
	q.active[t.id] = t
	q.unarmed = append(q.unarmed, Pending{ID: t.id, Delay: d})
	return t
}

// Drain returns the timers scheduled since the previous Drain that are still
// active.
func (q *Queue) Drain() []Pending {
	if len(q.unarmed) == 0 {
		return nil
	}
	out := make([]Pending, 0, len(q.unarmed))
	for _, p := range q.unarmed {
		if _, ok := q.active[p.ID]; ok {
			out = append(out, p)
		}
	}
	q.unarmed = q.unarmed[:0]
	return out
}

// Fire runs the callback for id if the timer is still active and reports
// whether it ran.
func (q *Queue) Fire(id uint64) bool {
	t, ok := q.active[id]
	if !ok {
		return false
	}
	delete(q.active, id)
	t.fn()
	return true
}

// Len returns the number of active timers.
func (q *Queue) Len() int { return len(q.active) }
