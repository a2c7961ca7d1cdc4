package progression

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/zibao/internal/store"
)

func TestOpen_DefaultsToLevelOne(t *testing.T) {
	s := Open(context.Background(), store.NewMemoryKV(), nil)
	assert.Equal(t, []int{1}, s.Unlocked())
	assert.True(t, s.IsUnlocked(1))
	assert.False(t, s.IsUnlocked(2))
}

func TestOpen_CorruptRecordFallsBack(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Put(context.Background(), RecordKey, []byte(`"nope"`)))
	s := Open(context.Background(), kv, nil)
	assert.Equal(t, []int{1}, s.Unlocked())
}

func TestUnlock_PersistsAndIsIdempotent(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()
	s := Open(ctx, kv, nil)

	require.NoError(t, s.Unlock(ctx, 2))
	require.NoError(t, s.Unlock(ctx, 2))
	assert.Equal(t, []int{1, 2}, s.Unlocked())

	raw, err := kv.Get(ctx, RecordKey)
	require.NoError(t, err)
	assert.JSONEq(t, "[1,2]", string(raw))

	reopened := Open(ctx, kv, nil)
	assert.Equal(t, []int{1, 2}, reopened.Unlocked())
}

func TestUnlockMonotonicity(t *testing.T) {
	// Completing random levels in any order only ever unlocks the
	// successor of an already unlocked level, and the set never shrinks.
	const levels = 17
	ctx := context.Background()
	for trial := range 50 {
		r := rand.New(rand.NewPCG(uint64(trial), 7))
		s := Open(ctx, store.NewMemoryKV(), nil)
		prev := s.Unlocked()
		for range 40 {
			unlocked := s.Unlocked()
			completed := unlocked[r.IntN(len(unlocked))]
			next := completed + 1
			if next <= levels && !s.IsUnlocked(next) {
				require.NoError(t, s.Unlock(ctx, next))
			}

			cur := s.Unlocked()
			require.GreaterOrEqual(t, len(cur), len(prev))
			assert.Equal(t, prev, cur[:len(prev)], "existing unlocks must be preserved")
			for _, id := range cur {
				if id > 1 {
					assert.True(t, s.IsUnlocked(id-1), "level %d unlocked without %d", id, id-1)
				}
			}
			prev = cur
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []int
	}{
		{"empty", nil, []int{1}},
		{"missing one", []int{2, 3}, []int{1, 2, 3}},
		{"gap", []int{1, 2, 4}, []int{1, 2}},
		{"duplicates", []int{1, 2, 2, 1}, []int{1, 2}},
		{"order kept", []int{1, 3, 2}, []int{1, 3, 2}},
		{"non-positive", []int{0, -1, 1}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.in))
		})
	}
}

func TestIsCompleted(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, store.NewMemoryKV(), nil)
	assert.False(t, s.IsCompleted(1))
	require.NoError(t, s.Unlock(ctx, 2))
	assert.True(t, s.IsCompleted(1))
	assert.False(t, s.IsCompleted(2))
}

func TestReset(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()
	s := Open(ctx, kv, nil)
	require.NoError(t, s.Unlock(ctx, 2))
	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, []int{1}, s.Unlocked())
	assert.Equal(t, []int{1}, Open(ctx, kv, nil).Unlocked())
}
