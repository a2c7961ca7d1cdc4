package treasure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/store"
)

func bundled(t *testing.T) *curriculum.Curriculum {
	t.Helper()
	c, err := curriculum.Bundled()
	require.NoError(t, err)
	return c
}

func ids(chars []curriculum.Character) []int {
	out := make([]int, 0, len(chars))
	for _, c := range chars {
		out = append(out, c.ID)
	}
	return out
}

func TestToggleLearned_AddThenRemove(t *testing.T) {
	ctx := context.Background()
	c := bundled(t)
	l1, _ := c.Level(1)
	m := Open(ctx, store.NewMemoryKV(), nil)
	m.BeginLevel(l1)

	added, err := m.ToggleLearned(ctx, l1.Characters[0])
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, m.IsLearned(101))
	assert.Equal(t, []int{101}, ids(m.Treasures()))

	added, err = m.ToggleLearned(ctx, l1.Characters[0])
	require.NoError(t, err)
	assert.False(t, added, "removal must not report an add")
	assert.False(t, m.IsLearned(101))
	assert.Empty(t, m.Treasures())
}

func TestToggleLearned_RoundTripRestoresState(t *testing.T) {
	ctx := context.Background()
	c := bundled(t)
	l2, _ := c.Level(2)

	for _, target := range l2.Characters {
		m := Open(ctx, store.NewMemoryKV(), nil)
		m.BeginLevel(l2)
		// Pre-learn a mix so the round trip starts from a non-trivial state.
		_, _ = m.ToggleLearned(ctx, l2.Characters[1])
		_, _ = m.ToggleLearned(ctx, l2.Characters[3])

		beforeTreasures := ids(m.Treasures())
		beforeMarks := m.LearnedInLevel()

		_, err := m.ToggleLearned(ctx, target)
		require.NoError(t, err)
		_, err = m.ToggleLearned(ctx, target)
		require.NoError(t, err)

		assert.ElementsMatch(t, beforeTreasures, ids(m.Treasures()), "treasures for %s", target.Char)
		assert.Equal(t, beforeMarks, m.LearnedInLevel(), "marks for %s", target.Char)
	}
}

func TestBeginLevel_SeedsFromCollection(t *testing.T) {
	ctx := context.Background()
	c := bundled(t)
	l1, _ := c.Level(1)
	l2, _ := c.Level(2)
	kv := store.NewMemoryKV()

	m := Open(ctx, kv, nil)
	m.BeginLevel(l1)
	_, _ = m.ToggleLearned(ctx, l1.Characters[1])
	_, _ = m.ToggleLearned(ctx, l1.Characters[3])

	// A fresh process sees the same marks.
	m2 := Open(ctx, kv, nil)
	assert.Equal(t, []int{102, 104}, m2.BeginLevel(l1))
	assert.Empty(t, m2.BeginLevel(l2))
}

func TestAddIsIdempotentAcrossLevels(t *testing.T) {
	ctx := context.Background()
	ch := curriculum.Character{ID: 7, Char: "人"}
	a := curriculum.Level{ID: 1, Characters: []curriculum.Character{ch}}
	b := curriculum.Level{ID: 2, Characters: []curriculum.Character{ch}}

	m := Open(ctx, store.NewMemoryKV(), nil)
	m.BeginLevel(a)
	_, _ = m.ToggleLearned(ctx, ch)

	// Level b is seeded with the mark, so toggling there removes it.
	assert.Equal(t, []int{7}, m.BeginLevel(b))
	assert.Equal(t, 1, m.Count())
}

func TestCollectionContextRemoves(t *testing.T) {
	ctx := context.Background()
	c := bundled(t)
	l1, _ := c.Level(1)
	m := Open(ctx, store.NewMemoryKV(), nil)
	m.BeginLevel(l1)
	_, _ = m.ToggleLearned(ctx, l1.Characters[0])
	m.EndLevel()

	assert.True(t, m.IsLearned(101))
	added, err := m.ToggleLearned(ctx, l1.Characters[0])
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 0, m.Count())
}

func TestOpen_DedupesStoredRecord(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Put(ctx, RecordKey, []byte(`[{"id":1,"char":"一"},{"id":1,"char":"一"},{"id":2,"char":"二"}]`)))
	m := Open(ctx, kv, nil)
	assert.Equal(t, []int{1, 2}, ids(m.Treasures()))
}

func TestOpen_InvalidRecordStartsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Put(ctx, RecordKey, []byte(`[{"char":"一"}]`)))
	assert.Equal(t, 0, Open(ctx, kv, nil).Count())
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	m := Open(ctx, store.NewMemoryKV(), nil)
	_, _ = m.ToggleLearned(ctx, curriculum.Character{ID: 203, Char: "人"})
	ch, ok := m.Find("人")
	assert.True(t, ok)
	assert.Equal(t, 203, ch.ID)
	_, ok = m.Find("口")
	assert.False(t, ok)
}

func TestStandingFor(t *testing.T) {
	c := bundled(t)
	s := StandingFor(c, 5)
	assert.Len(t, s.Earned, 1)
	require.NotNil(t, s.Next)
	assert.Equal(t, 8, s.Next.Threshold)
	assert.Equal(t, 3, s.Remaining)

	s = StandingFor(c, 100)
	assert.Len(t, s.Earned, 3)
	assert.Nil(t, s.Next)
}
