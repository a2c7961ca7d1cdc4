// Package writer models handwriting practice for one character: the learner
// reproduces its strokes in order and the quiz reports completion once.
package writer

import (
	"github.com/abhisek/zibao/internal/curriculum"
)

// Quiz walks the strokes of a single character.
type Quiz struct {
	ch         curriculum.Character
	total      int
	drawn      int
	misses     int
	pending    int // misses since the last accepted stroke
	onStroke   func(n int)
	onComplete func()
}

// Option configures a Quiz.
type Option func(*Quiz)

// OnStroke registers fn to run after each accepted stroke with the number of
// strokes drawn so far.
func OnStroke(fn func(n int)) Option {
	return func(q *Quiz) { q.onStroke = fn }
}

// OnComplete registers fn to run when the last stroke is drawn.
func OnComplete(fn func()) Option {
	return func(q *Quiz) { q.onComplete = fn }
}

// New starts a quiz for ch.
func New(ch curriculum.Character, opts ...Option) *Quiz {
	q := &Quiz{ch: ch, total: Strokes(ch.Char)}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Character returns the character being practiced.
func (q *Quiz) Character() curriculum.Character { return q.ch }

// Stroke accepts the next stroke. Strokes after completion are ignored. It
// reports whether this stroke completed the character.
func (q *Quiz) Stroke() bool {
	if q.Done() {
		return false
	}
	q.drawn++
	q.pending = 0
	if q.onStroke != nil {
		q.onStroke(q.drawn)
	}
	if q.Done() {
		if q.onComplete != nil {
			q.onComplete()
		}
		return true
	}
	return false
}

// Miss records a rejected stroke.
func (q *Quiz) Miss() {
	if !q.Done() {
		q.misses++
		q.pending++
	}
}

// Done reports whether every stroke has been drawn.
func (q *Quiz) Done() bool { return q.drawn >= q.total }

// Drawn returns the number of accepted strokes.
func (q *Quiz) Drawn() int { return q.drawn }

// Total returns the number of strokes in the character.
func (q *Quiz) Total() int { return q.total }

// Misses returns the number of rejected strokes.
func (q *Quiz) Misses() int { return q.misses }

// ShowHint reports whether the next stroke should be outlined, which happens
// after one miss on it.
func (q *Quiz) ShowHint() bool { return q.pending > 0 && !q.Done() }
