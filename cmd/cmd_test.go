package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/store"
	"github.com/abhisek/zibao/internal/treasure"
)

func TestAggregateUsage(t *testing.T) {
	rec := func(purpose, model string, in, out int, ms int64) store.LLMRequestEventRecord {
		return store.LLMRequestEventRecord{LLMRequestEventData: store.LLMRequestEventData{
			Purpose: purpose, Model: model, InputTokens: in, OutputTokens: out, LatencyMs: ms,
		}}
	}
	events := []store.LLMRequestEventRecord{
		rec("story", "gemini-2.5-flash", 100, 50, 200),
		rec("story", "gemini-2.5-flash", 300, 70, 400),
		rec("validate", "gpt-4o-mini", 10, 1, 90),
	}

	byModel := aggregateUsage(events, func(e store.LLMRequestEventRecord) string { return e.Model })
	require.Len(t, byModel, 2)
	assert.Equal(t, "gemini-2.5-flash", byModel[0].Key)
	assert.Equal(t, 2, byModel[0].Calls)
	assert.Equal(t, 400, byModel[0].InputTokens)
	assert.Equal(t, 120, byModel[0].OutputTokens)
	assert.Equal(t, int64(300), byModel[0].AvgLatencyMs())
	assert.Equal(t, "gpt-4o-mini", byModel[1].Key)

	assert.Empty(t, aggregateUsage(nil, func(e store.LLMRequestEventRecord) string { return e.Purpose }))
}

func TestComposeChars(t *testing.T) {
	ctx := context.Background()
	m := treasure.Open(ctx, store.NewMemoryKV(), nil)
	for i, g := range []string{"山", "水", "火"} {
		_, err := m.ToggleLearned(ctx, curriculum.Character{ID: i + 1, Char: g})
		require.NoError(t, err)
	}

	chars, err := composeChars(m, []string{"水", "山"})
	require.NoError(t, err)
	assert.Equal(t, []string{"水", "山"}, chars)

	_, err = composeChars(m, []string{"山", "木"})
	assert.ErrorContains(t, err, "not in the treasure box")

	_, err = composeChars(m, []string{"山", "山"})
	assert.ErrorContains(t, err, "picked twice")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "山水", padRight("山水", 4))
	assert.Equal(t, "山 ", padRight("山", 3))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.0012))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
