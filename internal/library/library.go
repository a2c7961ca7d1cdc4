// Package library keeps the AI-composed stories the learner has saved.
package library

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/logging"
	"github.com/abhisek/zibao/internal/persist"
	"github.com/abhisek/zibao/internal/store"
)

// RecordKey is the storage key of the saved story list.
const RecordKey = "savedStories"

// DateLayout formats SavedStory.Date.
const DateLayout = "2006/1/2"

// SavedStory is a composed story plus its library identity.
type SavedStory struct {
	curriculum.Story

	// ID is derived from the creation time in milliseconds and is unique
	// within the library.
	ID int64 `json:"id"`

	// Date is the local creation date, for display.
	Date string `json:"date"`

	// Characters are the treasures the story was composed from.
	Characters []string `json:"characters,omitempty"`
}

var savedSchema = persist.MustSchema(RecordKey, map[string]any{
	"type": "array",
	"items": map[string]any{
		"allOf": []any{
			persist.StorySchema,
			map[string]any{
				"type":     "object",
				"required": []any{"id"},
				"properties": map[string]any{
					"id":   map[string]any{"type": "integer"},
					"date": map[string]any{"type": "string"},
				},
			},
		},
	},
})

// Library is the process-wide saved story list, newest first.
type Library struct {
	rec     *persist.Record[[]SavedStory]
	stories []SavedStory
	now     func() time.Time
	log     *zap.Logger
}

// Option configures a Library.
type Option func(*Library)

// WithNow overrides the clock used for ids and dates.
func WithNow(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// Open loads the library from kv, starting empty when the record is missing
// or invalid.
func Open(ctx context.Context, kv store.KV, log *zap.Logger, opts ...Option) *Library {
	log = logging.OrNop(log)
	l := &Library{now: time.Now, log: log}
	for _, o := range opts {
		o(l)
	}
	l.rec = persist.NewRecord(kv, RecordKey, savedSchema,
		func() []SavedStory { return []SavedStory{} }, log)
	stories, outcome := l.rec.Load(ctx)
	l.stories = stories
	log.Debug("story library loaded", zap.Stringer("outcome", outcome), zap.Int("count", len(stories)))
	return l
}

// Add saves story at the front of the library and returns the saved entry.
func (l *Library) Add(ctx context.Context, story curriculum.Story, chars []string) (SavedStory, error) {
	now := l.now()
	id := now.UnixMilli()
	for _, s := range l.stories {
		if s.ID >= id {
			id = s.ID + 1
		}
	}
	saved := SavedStory{
		Story:      story,
		ID:         id,
		Date:       now.Local().Format(DateLayout),
		Characters: slices.Clone(chars),
	}
	l.stories = append([]SavedStory{saved}, l.stories...)
	l.log.Info("story saved", zap.Int64("id", id), zap.String("title", story.Title))
	return saved, l.rec.Save(ctx, l.stories)
}

// Get returns the saved story with id.
func (l *Library) Get(id int64) (SavedStory, bool) {
	for _, s := range l.stories {
		if s.ID == id {
			return s, true
		}
	}
	return SavedStory{}, false
}

// Delete removes the story with id. It reports whether a story was removed.
func (l *Library) Delete(ctx context.Context, id int64) (bool, error) {
	n := len(l.stories)
	l.stories = slices.DeleteFunc(l.stories, func(s SavedStory) bool { return s.ID == id })
	if len(l.stories) == n {
		return false, nil
	}
	l.log.Info("story deleted", zap.Int64("id", id))
	return true, l.rec.Save(ctx, l.stories)
}

// Stories returns the saved stories, newest first.
func (l *Library) Stories() []SavedStory {
	return slices.Clone(l.stories)
}

// Len returns the number of saved stories.
func (l *Library) Len() int { return len(l.stories) }

// Reset removes every saved story.
func (l *Library) Reset(ctx context.Context) error {
	l.stories = []SavedStory{}
	return l.rec.Clear(ctx)
}
