package adventure

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/zibao/internal/clock"
	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/feedback"
	"github.com/abhisek/zibao/internal/library"
	"github.com/abhisek/zibao/internal/progression"
	"github.com/abhisek/zibao/internal/session"
	"github.com/abhisek/zibao/internal/speech"
	"github.com/abhisek/zibao/internal/store"
	"github.com/abhisek/zibao/internal/treasure"
)

type stubGenerator struct {
	story curriculum.Story
}

func (g stubGenerator) Generate(context.Context, []string) curriculum.Story { return g.story }

type harness struct {
	clk   *clock.Fake
	voice *speech.Recorder
	ctrl  *session.Controller
	s     *AdventureScreen
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	ch := func(id int, glyph string) curriculum.Character {
		return curriculum.Character{ID: id, Char: glyph, Pinyin: "py" + glyph, Words: []string{glyph + "字"}}
	}
	cur, err := curriculum.New([]curriculum.Level{
		{
			ID: 1, Title: "数字", Icon: "🔢",
			Characters: []curriculum.Character{ch(1, "一"), ch(2, "二"), ch(3, "三")},
			Story:      curriculum.Story{Title: "数一数", Pages: []curriculum.Page{{Text: "一二。"}, {Text: "三！"}}},
		},
		{
			ID: 2, Title: "自然", Icon: "⛰",
			Characters: []curriculum.Character{ch(4, "山")},
			Story:      curriculum.Story{Title: "山", Pages: []curriculum.Page{{Text: "山。"}}},
		},
	}, nil)
	require.NoError(t, err)

	kv := store.NewMemoryKV()
	h := &harness{clk: clock.NewFake(), voice: &speech.Recorder{}}
	h.ctrl = session.New(session.Deps{
		Curriculum: cur,
		Progress:   progression.Open(ctx, kv, nil),
		Treasures:  treasure.Open(ctx, kv, nil),
		Library:    library.Open(ctx, kv, nil),
		Effects:    feedback.New(h.clk, h.voice),
		Stories: stubGenerator{story: curriculum.Story{
			Title: "一和二",
			Pages: []curriculum.Page{{Text: "一二。"}},
		}},
		Rand: rand.New(rand.NewPCG(3, 5)),
	})
	h.s = New(h.ctrl, nil)
	return h
}

func key(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

func (h *harness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = h.s.Update(key(k))
	}
	return cmd
}

// run executes cmd, expanding batches, and feeds every result back.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	case composeDoneMsg:
		h.s.Update(msg)
	}
}

func (h *harness) view() string { return h.s.View(100, 40) }

func TestMap_OpensUnlockedLevelOnly(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.view(), "当前进度：第 1 关")

	h.press("right", "enter")
	assert.Equal(t, session.StageMap, h.ctrl.Stage())
	assert.Equal(t, "这一关还没解锁哦", h.voice.Last())

	h.press("left", "enter")
	assert.Equal(t, session.StageLearn, h.ctrl.Stage())
	assert.Equal(t, "🔢 数字", h.s.Title())
}

func TestLearn_ToggleAndSpeak(t *testing.T) {
	h := newHarness(t)
	h.press("enter", "right", "space")
	assert.True(t, h.ctrl.Treasures().Contains(2))
	assert.Contains(t, h.view(), "已学会 1 / 3")

	h.press("s")
	assert.Equal(t, "二。二字", h.voice.Last())
}

func TestLearn_Microphone(t *testing.T) {
	h := newHarness(t)
	h.press("enter", "m")
	require.True(t, h.s.listening)

	h.press("一", "enter")
	assert.Equal(t, "读对啦！真棒！", h.voice.Last())
	h.clk.Advance(time.Second)
	assert.True(t, h.ctrl.Revealed(1))
	assert.Contains(t, h.view(), "一字")

	h.press("esc")
	assert.False(t, h.s.listening)
	assert.Equal(t, session.StageLearn, h.ctrl.Stage())
}

func TestWriterOverlay(t *testing.T) {
	h := newHarness(t)
	h.press("enter", "w")
	require.NotNil(t, h.ctrl.Writing())
	assert.Contains(t, h.view(), "笔画 0 / 1")

	h.press("space")
	assert.Contains(t, h.view(), "写得真棒！")

	h.clk.Advance(3 * time.Second)
	assert.Nil(t, h.ctrl.Writing())
	assert.Equal(t, session.StageLearn, h.ctrl.Stage())
}

func TestChallengeToStoryToMap(t *testing.T) {
	h := newHarness(t)
	h.press("enter", "c")
	require.Equal(t, session.StageChallenge, h.ctrl.Stage())

	for h.ctrl.Stage() == session.StageChallenge {
		game := h.ctrl.Challenge()
		target, ok := game.Target()
		require.True(t, ok)
		assert.Contains(t, h.view(), "找一找："+target.Pinyin)

		for i, c := range game.Cards() {
			if c.ID == target.ID {
				h.s.focus = i
			}
		}
		h.press("enter")
		h.clk.Advance(2 * time.Second)
		h.s.Update(nil)
	}

	require.Equal(t, session.StageStory, h.ctrl.Stage())
	assert.Equal(t, "数一数", h.s.Title())

	h.press("space")
	assert.True(t, h.ctrl.Reader().IsRead(0, 0))
	h.press("right", "space")
	assert.Contains(t, h.view(), "第 1 / 2 页")

	h.press("n", "n")
	assert.True(t, h.ctrl.LevelComplete())
	assert.Contains(t, h.view(), "闯关成功")
	assert.True(t, h.ctrl.Progress().IsUnlocked(2))

	h.press("enter")
	assert.Equal(t, session.StageMap, h.ctrl.Stage())
	assert.Zero(t, h.clk.Pending())
}

func TestCollection_ComposeAndShelf(t *testing.T) {
	h := newHarness(t)
	h.press("enter", "space", "right", "space", "esc", "t")
	require.Equal(t, session.StageCollection, h.ctrl.Stage())
	assert.Contains(t, h.view(), "已收集 2 个汉字")
	assert.Contains(t, h.view(), "还没有故事")

	h.press("g")
	require.Equal(t, session.StageCompose, h.ctrl.Stage())
	h.press("space", "right", "space")
	assert.Equal(t, []string{"一", "二"}, h.ctrl.Selection())

	cmd := h.press("enter")
	require.NotNil(t, cmd)
	assert.True(t, h.ctrl.Composing())
	assert.Contains(t, h.view(), "魔法师正在写故事")

	h.run(cmd)
	require.Equal(t, session.StageStory, h.ctrl.Stage())
	assert.True(t, h.ctrl.ReadingComposed())

	h.press("esc")
	require.Equal(t, session.StageCollection, h.ctrl.Stage())
	assert.Contains(t, h.view(), "一和二")

	h.press("tab", "d")
	require.True(t, h.s.confirmDelete)
	h.press("y")
	assert.Zero(t, h.ctrl.Library().Len())
	assert.Contains(t, h.view(), "还没有故事")
}

func TestCollection_ComposeNeedsTreasures(t *testing.T) {
	h := newHarness(t)
	h.press("t", "g")
	assert.Equal(t, session.StageCollection, h.ctrl.Stage())
	assert.Equal(t, "请从宝藏箱里挑 2 到 4 个字，交给魔法师！", h.voice.Last())
}

func TestHistoryHiddenWithoutRepo(t *testing.T) {
	h := newHarness(t)
	assert.Nil(t, h.press("r"))
	for _, hint := range h.s.KeyHints() {
		assert.NotEqual(t, "R", hint.Key)
	}
}
