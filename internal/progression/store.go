// Package progression records which curriculum levels the learner has
// unlocked.
package progression

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/abhisek/zibao/internal/logging"
	"github.com/abhisek/zibao/internal/persist"
	"github.com/abhisek/zibao/internal/store"
)

// RecordKey is the storage key of the unlock set.
const RecordKey = "unlockedLevels"

var unlockSchema = persist.MustSchema(RecordKey, map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "integer", "minimum": 1},
})

func defaultUnlocked() []int { return []int{1} }

// Store is the process-wide unlock set. Level 1 is always unlocked, and a
// level k > 1 is only ever present alongside k-1.
type Store struct {
	rec      *persist.Record[[]int]
	unlocked []int
	log      *zap.Logger
}

// Open loads the unlock set from kv, using [1] when the record is missing or
// invalid.
func Open(ctx context.Context, kv store.KV, log *zap.Logger) *Store {
	log = logging.OrNop(log)
	rec := persist.NewRecord(kv, RecordKey, unlockSchema, defaultUnlocked, log)
	ids, outcome := rec.Load(ctx)
	s := &Store{rec: rec, unlocked: normalize(ids), log: log}
	log.Debug("unlock set loaded",
		zap.Stringer("outcome", outcome),
		zap.Ints("unlocked", s.unlocked))
	return s
}

// normalize coerces a stored set into one that satisfies the contiguity
// invariant: 1 first, no duplicates, and every k > 1 preceded by k-1
// somewhere in the set. Order of first appearance is kept.
func normalize(ids []int) []int {
	present := make(map[int]bool, len(ids)+1)
	present[1] = true
	for _, id := range ids {
		if id >= 1 {
			present[id] = true
		}
	}
	reachable := map[int]bool{1: true}
	for k := 2; present[k]; k++ {
		reachable[k] = true
	}

	out := []int{1}
	seen := map[int]bool{1: true}
	for _, id := range ids {
		if reachable[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}

// IsUnlocked reports whether levelID is in the unlock set.
func (s *Store) IsUnlocked(levelID int) bool {
	return slices.Contains(s.unlocked, levelID)
}

// Unlock adds levelID and persists immediately. Unlocking an id that is
// already present is a no-op. Callers unlock in order; the store does not
// re-check contiguity.
func (s *Store) Unlock(ctx context.Context, levelID int) error {
	if s.IsUnlocked(levelID) {
		return nil
	}
	s.unlocked = append(s.unlocked, levelID)
	s.log.Info("level unlocked", zap.Int("level", levelID))
	return s.rec.Save(ctx, s.Unlocked())
}

// Unlocked returns a copy of the unlock set in unlock order.
func (s *Store) Unlocked() []int {
	return slices.Clone(s.unlocked)
}

// Count returns the number of unlocked levels.
func (s *Store) Count() int { return len(s.unlocked) }

// IsCompleted reports whether levelID has been finished, which is the case
// once the level after it is unlocked.
func (s *Store) IsCompleted(levelID int) bool {
	return s.IsUnlocked(levelID) && s.IsUnlocked(levelID+1)
}

// Reset returns the set to its default and persists it.
func (s *Store) Reset(ctx context.Context) error {
	s.unlocked = defaultUnlocked()
	return s.rec.Save(ctx, s.Unlocked())
}
