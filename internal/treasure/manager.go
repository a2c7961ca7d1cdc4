// Package treasure manages the learner's mastered characters ("treasures").
//
// Treasure membership is a cache derived from per-level learned marks: when a
// level opens, its marks are seeded from the collection, and every mark or
// unmark is written straight through to the collection. A character is in
// the collection exactly when it is marked learned in some level.
package treasure

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/logging"
	"github.com/abhisek/zibao/internal/persist"
	"github.com/abhisek/zibao/internal/store"
)

// RecordKey is the storage key of the treasure collection.
const RecordKey = "myTreasures"

var treasureSchema = persist.MustSchema(RecordKey, map[string]any{
	"type":  "array",
	"items": persist.CharacterSchema,
})

// Manager owns the treasure collection and the learned marks of the active
// level.
type Manager struct {
	rec       *persist.Record[[]curriculum.Character]
	treasures []curriculum.Character
	level     *curriculum.Level
	marks     map[int]bool
	log       *zap.Logger
}

// Open loads the collection from kv, starting empty when the record is
// missing or invalid.
func Open(ctx context.Context, kv store.KV, log *zap.Logger) *Manager {
	log = logging.OrNop(log)
	rec := persist.NewRecord(kv, RecordKey, treasureSchema,
		func() []curriculum.Character { return []curriculum.Character{} }, log)
	chars, outcome := rec.Load(ctx)
	m := &Manager{rec: rec, treasures: dedupe(chars), log: log}
	log.Debug("treasures loaded", zap.Stringer("outcome", outcome), zap.Int("count", len(m.treasures)))
	return m
}

func dedupe(chars []curriculum.Character) []curriculum.Character {
	seen := make(map[int]bool, len(chars))
	out := make([]curriculum.Character, 0, len(chars))
	for _, c := range chars {
		if !seen[c.ID] {
			seen[c.ID] = true
			out = append(out, c)
		}
	}
	return out
}

// BeginLevel makes level the active context and seeds its learned marks from
// the collection. Returns the learned ids in level order.
func (m *Manager) BeginLevel(level curriculum.Level) []int {
	m.level = &level
	m.marks = make(map[int]bool, len(level.Characters))
	for _, c := range level.Characters {
		if m.Contains(c.ID) {
			m.marks[c.ID] = true
		}
	}
	return m.LearnedInLevel()
}

// EndLevel clears the active level context. Without a level, the collection
// itself is the context: every treasure counts as learned.
func (m *Manager) EndLevel() {
	m.level = nil
	m.marks = nil
}

// IsLearned reports whether id is marked learned in the active context.
func (m *Manager) IsLearned(id int) bool {
	if m.level == nil {
		return m.Contains(id)
	}
	return m.marks[id]
}

// LearnedInLevel returns the marked ids of the active level in level order.
func (m *Manager) LearnedInLevel() []int {
	if m.level == nil {
		return nil
	}
	var ids []int
	for _, c := range m.level.Characters {
		if m.marks[c.ID] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// ToggleLearned flips the learned mark of ch in the active context and
// writes the change through to the collection. It reports whether the call
// added the mark; only that transition earns a "learned" cue.
func (m *Manager) ToggleLearned(ctx context.Context, ch curriculum.Character) (added bool, err error) {
	if m.IsLearned(ch.ID) {
		if m.marks != nil {
			delete(m.marks, ch.ID)
		}
		m.treasures = slices.DeleteFunc(m.treasures, func(c curriculum.Character) bool {
			return c.ID == ch.ID
		})
		m.log.Info("treasure removed", zap.Int("character", ch.ID))
		return false, m.save(ctx)
	}

	if m.marks != nil {
		m.marks[ch.ID] = true
	}
	if !m.Contains(ch.ID) {
		m.treasures = append(m.treasures, ch)
	}
	m.log.Info("treasure added", zap.Int("character", ch.ID), zap.String("char", ch.Char))
	return true, m.save(ctx)
}

func (m *Manager) save(ctx context.Context) error {
	return m.rec.Save(ctx, m.Treasures())
}

// Contains reports whether id is in the collection.
func (m *Manager) Contains(id int) bool {
	return slices.ContainsFunc(m.treasures, func(c curriculum.Character) bool {
		return c.ID == id
	})
}

// Find returns the treasure whose glyph is char.
func (m *Manager) Find(char string) (curriculum.Character, bool) {
	for _, c := range m.treasures {
		if c.Char == char {
			return c, true
		}
	}
	return curriculum.Character{}, false
}

// Treasures returns the collection in insertion order.
func (m *Manager) Treasures() []curriculum.Character {
	return slices.Clone(m.treasures)
}

// Count returns the number of treasures.
func (m *Manager) Count() int { return len(m.treasures) }

// Reset empties the collection and clears the stored record.
func (m *Manager) Reset(ctx context.Context) error {
	m.treasures = []curriculum.Character{}
	if m.level != nil {
		m.marks = make(map[int]bool)
	}
	return m.rec.Clear(ctx)
}
