// Package reader tracks reading progress through one story.
package reader

import (
	"math"
	"strings"

	"github.com/abhisek/zibao/internal/curriculum"
)

// Mark identifies one glyph on one page.
type Mark struct {
	Page  int
	Index int
}

// Tracker holds the page position and the set of glyphs read in a single
// opening of a story. Opening the story again means a new Tracker.
type Tracker struct {
	story curriculum.Story
	page  int
	read  map[Mark]struct{}
	total int
}

// New opens story at its first page with nothing read.
func New(story curriculum.Story) *Tracker {
	return &Tracker{
		story: story,
		read:  make(map[Mark]struct{}),
		total: story.TotalChars(),
	}
}

// Story returns the story being read.
func (t *Tracker) Story() curriculum.Story { return t.story }

// MarkRead records the glyph at idx on page as read. Marks outside the story
// are ignored. It reports whether the mark is new.
func (t *Tracker) MarkRead(page, idx int) bool {
	if page < 0 || page >= len(t.story.Pages) {
		return false
	}
	if idx < 0 || idx >= len([]rune(t.story.Pages[page].Text)) {
		return false
	}
	m := Mark{Page: page, Index: idx}
	if _, ok := t.read[m]; ok {
		return false
	}
	t.read[m] = struct{}{}
	return true
}

// IsRead reports whether the glyph at idx on page has been read.
func (t *Tracker) IsRead(page, idx int) bool {
	_, ok := t.read[Mark{Page: page, Index: idx}]
	return ok
}

// Progress returns the read percentage, rounded to the nearest integer. A
// story with no text has progress 0.
func (t *Tracker) Progress() int {
	if t.total == 0 {
		return 0
	}
	return int(math.Round(float64(len(t.read)) / float64(t.total) * 100))
}

// Next turns to the following page. On the last page it stays put and
// reports finished instead.
func (t *Tracker) Next() (finished bool) {
	if t.IsLastPage() {
		return true
	}
	t.page++
	return false
}

// Prev turns back one page, stopping at the first.
func (t *Tracker) Prev() {
	if t.page > 0 {
		t.page--
	}
}

// PageIndex returns the zero-based current page.
func (t *Tracker) PageIndex() int { return t.page }

// PageCount returns the number of pages.
func (t *Tracker) PageCount() int { return len(t.story.Pages) }

// Page returns the current page.
func (t *Tracker) Page() curriculum.Page {
	if len(t.story.Pages) == 0 {
		return curriculum.Page{}
	}
	return t.story.Pages[t.page]
}

// IsLastPage reports whether the current page is the final one.
func (t *Tracker) IsLastPage() bool {
	return t.page >= len(t.story.Pages)-1
}

// punctuation is never spoken when tapped.
const punctuation = "，。！？“”： "

// IsPunctuation reports whether glyph is punctuation or whitespace.
func IsPunctuation(glyph string) bool {
	return strings.TrimSpace(glyph) == "" || strings.Contains(punctuation, glyph)
}
