package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/zibao/internal/challenge"
	"github.com/abhisek/zibao/internal/clock"
	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/feedback"
	"github.com/abhisek/zibao/internal/library"
	"github.com/abhisek/zibao/internal/progression"
	"github.com/abhisek/zibao/internal/speech"
	"github.com/abhisek/zibao/internal/store"
	"github.com/abhisek/zibao/internal/treasure"
)

func char(id int, glyph string) curriculum.Character {
	return curriculum.Character{ID: id, Char: glyph, Pinyin: "x", Words: []string{glyph + "个"}}
}

func testCurriculum(t *testing.T) *curriculum.Curriculum {
	t.Helper()
	levels := []curriculum.Level{
		{
			ID: 1, Title: "数字",
			Characters: []curriculum.Character{char(1, "一"), char(2, "二"), char(3, "三"), char(4, "四")},
			Story:      curriculum.Story{Title: "数一数", Pages: []curriculum.Page{{Text: "一二。"}, {Text: "三四！"}}},
		},
		{
			ID: 2, Title: "身体",
			Characters: []curriculum.Character{char(5, "人"), char(6, "口")},
			Story:      curriculum.Story{Title: "人", Pages: []curriculum.Page{{Text: "人口。"}}},
		},
		{
			ID: 3, Title: "自然",
			Characters: []curriculum.Character{char(7, "山")},
			Story:      curriculum.Story{Title: "山", Pages: []curriculum.Page{{Text: "山。"}}},
		},
	}
	cur, err := curriculum.New(levels, nil)
	require.NoError(t, err)
	return cur
}

type activityLog struct {
	events []store.ActivityEventData
	err    error
}

func (a *activityLog) AppendActivity(_ context.Context, e store.ActivityEventData) error {
	a.events = append(a.events, e)
	return a.err
}

func (a *activityLog) kinds() []store.ActivityKind {
	var out []store.ActivityKind
	for _, e := range a.events {
		out = append(out, e.Kind)
	}
	return out
}

type stubGenerator struct {
	calls [][]string
	story curriculum.Story
}

func (g *stubGenerator) Generate(_ context.Context, chars []string) curriculum.Story {
	g.calls = append(g.calls, chars)
	return g.story
}

type fixture struct {
	ctx   context.Context
	clk   *clock.Fake
	voice *speech.Recorder
	kv    *store.MemoryKV
	log   *activityLog
	gen   *stubGenerator
	c     *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		ctx:   ctx,
		clk:   clock.NewFake(),
		voice: &speech.Recorder{},
		kv:    store.NewMemoryKV(),
		log:   &activityLog{},
		gen: &stubGenerator{story: curriculum.Story{
			Title: "人和口",
			Pages: []curriculum.Page{{Text: "人张口。"}, {Text: "口说话。"}},
		}},
	}
	f.c = New(Deps{
		Curriculum: testCurriculum(t),
		Progress:   progression.Open(ctx, f.kv, nil),
		Treasures:  treasure.Open(ctx, f.kv, nil),
		Library: library.Open(ctx, f.kv, nil, library.WithNow(func() time.Time {
			return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		})),
		Effects:  feedback.New(f.clk, f.voice),
		Stories:  f.gen,
		Activity: f.log,
		Rand:     rand.New(rand.NewPCG(7, 11)),
	})
	return f
}

// playChallenge answers every target correctly and lets the completion
// delay pass.
func (f *fixture) playChallenge(t *testing.T) {
	t.Helper()
	require.Equal(t, StageChallenge, f.c.Stage())
	for f.c.Stage() == StageChallenge {
		target, ok := f.c.Challenge().Target()
		require.True(t, ok)
		require.Equal(t, challenge.Correct, f.c.Answer(target))
		f.clk.Advance(2 * time.Second)
	}
}

func (f *fixture) finishStory(t *testing.T) {
	t.Helper()
	require.Equal(t, StageStory, f.c.Stage())
	for i := 0; i < 10 && f.c.Stage() == StageStory && !f.c.LevelComplete(); i++ {
		f.c.StoryNext(f.ctx)
	}
}

func (f *fixture) completeLevel(t *testing.T, id int) {
	t.Helper()
	require.True(t, f.c.SelectLevel(f.ctx, id))
	require.NoError(t, f.c.StartChallenge(f.ctx))
	f.playChallenge(t)
	f.finishStory(t)
	require.True(t, f.c.LevelComplete())
}

func TestSelectLevel_Opens(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, StageMap, f.c.Stage())

	require.True(t, f.c.SelectLevel(f.ctx, 1))
	assert.Equal(t, StageLearn, f.c.Stage())
	lv, ok := f.c.Level()
	require.True(t, ok)
	assert.Equal(t, 1, lv.ID)
	assert.Equal(t, "数字，开始学习！", f.voice.Last())
}

// Scenario D: a locked level changes nothing but the spoken hint.
func TestSelectLevel_LockedIsNoop(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.SelectLevel(f.ctx, 1))
	require.NoError(t, f.c.StartChallenge(f.ctx))
	game := f.c.Challenge()
	target, _ := game.Target()
	queue := game.Queue()

	assert.False(t, f.c.SelectLevel(f.ctx, 2))
	assert.False(t, f.c.SelectLevel(f.ctx, 99))

	assert.Equal(t, StageChallenge, f.c.Stage())
	lv, _ := f.c.Level()
	assert.Equal(t, 1, lv.ID)
	assert.Same(t, game, f.c.Challenge())
	got, _ := f.c.Challenge().Target()
	assert.Equal(t, target, got)
	assert.Equal(t, queue, f.c.Challenge().Queue())
	assert.Equal(t, "这一关还没解锁哦", f.voice.Last())
	assert.Equal(t, []int{1}, f.c.Progress().Unlocked())
}

func TestChallengeCompletionOpensLevelStory(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.SelectLevel(f.ctx, 1))
	require.NoError(t, f.c.StartChallenge(f.ctx))
	f.playChallenge(t)

	assert.Equal(t, StageStory, f.c.Stage())
	assert.Nil(t, f.c.Challenge())
	require.NotNil(t, f.c.Reader())
	assert.Equal(t, "数一数", f.c.Reader().Story().Title)
	assert.False(t, f.c.ReadingComposed())
	assert.Equal(t, "挑战成功！奖励读绘本！", f.voice.Last())

	started, done := f.log.events[0], f.log.events[1]
	assert.Equal(t, store.ActivityChallengeStarted, started.Kind)
	assert.Equal(t, store.ActivityChallengeCompleted, done.Kind)
	assert.NotEmpty(t, started.SessionID)
	assert.Equal(t, started.SessionID, done.SessionID)
}

// Scenario B: finishing level 1 unlocks level 2 once.
func TestStoryFinish_UnlocksNextLevelOnce(t *testing.T) {
	f := newFixture(t)
	f.completeLevel(t, 1)
	assert.Equal(t, []int{1, 2}, f.c.Progress().Unlocked())
	assert.True(t, f.c.Effects().ConfettiVisible())

	f.c.BackToMap()
	f.completeLevel(t, 1)
	assert.Equal(t, []int{1, 2}, f.c.Progress().Unlocked())

	unlocks := 0
	for _, e := range f.log.events {
		if e.Kind == store.ActivityLevelUnlocked {
			unlocks++
			assert.Equal(t, 2, e.LevelID)
		}
	}
	assert.Equal(t, 1, unlocks)

	// Reopened from storage, the unlock survives.
	assert.Equal(t, []int{1, 2}, progression.Open(f.ctx, f.kv, nil).Unlocked())
}

func TestUnlockMonotonic(t *testing.T) {
	f := newFixture(t)
	prev := f.c.Progress().Unlocked()
	for _, id := range []int{1, 2, 1, 3, 2} {
		if !f.c.Progress().IsUnlocked(id) {
			assert.False(t, f.c.SelectLevel(f.ctx, id))
			continue
		}
		f.completeLevel(t, id)
		f.c.BackToMap()
		now := f.c.Progress().Unlocked()
		assert.Subset(t, now, prev)
		for _, k := range now {
			if k > 1 {
				assert.Contains(t, now, k-1)
			}
		}
		prev = now
	}
	assert.Equal(t, []int{1, 2, 3}, prev)
}

func TestLastLevelUnlocksNothing(t *testing.T) {
	f := newFixture(t)
	f.completeLevel(t, 1)
	f.c.BackToMap()
	f.completeLevel(t, 2)
	f.c.BackToMap()
	f.completeLevel(t, 3)
	assert.Equal(t, []int{1, 2, 3}, f.c.Progress().Unlocked())
}

func TestToggleLearned_RoundTrip(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.SelectLevel(f.ctx, 1))
	one := char(1, "一")

	before := f.c.Treasures().Treasures()
	assert.True(t, f.c.ToggleLearned(f.ctx, one))
	assert.Equal(t, feedback.CueLearned, f.c.Effects().LastCue())
	assert.Equal(t, "太棒了！放入宝藏箱！", f.voice.Last())
	assert.Equal(t, []int{1}, f.c.Treasures().LearnedInLevel())

	spoken := len(f.voice.Spoken())
	assert.False(t, f.c.ToggleLearned(f.ctx, one))
	assert.Len(t, f.voice.Spoken(), spoken, "removal is silent")
	assert.Equal(t, before, f.c.Treasures().Treasures())
	assert.Empty(t, f.c.Treasures().LearnedInLevel())

	assert.Equal(t, []store.ActivityKind{store.ActivityTreasureAdded, store.ActivityTreasureRemoved}, f.log.kinds())
}

func TestSelectLevel_SeedsLearnedMarks(t *testing.T) {
	f := newFixture(t)
	f.completeLevel(t, 1)
	f.c.BackToMap()

	require.True(t, f.c.SelectLevel(f.ctx, 2))
	f.c.ToggleLearned(f.ctx, char(5, "人"))
	f.c.BackToMap()

	require.True(t, f.c.SelectLevel(f.ctx, 1))
	assert.Empty(t, f.c.Treasures().LearnedInLevel())
	f.c.BackToMap()
	require.True(t, f.c.SelectLevel(f.ctx, 2))
	assert.Equal(t, []int{5}, f.c.Treasures().LearnedInLevel())
}

func TestCollectionToggleRemoves(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.SelectLevel(f.ctx, 1))
	f.c.ToggleLearned(f.ctx, char(2, "二"))

	f.c.OpenCollection()
	assert.Equal(t, StageCollection, f.c.Stage())
	assert.Equal(t, "欢迎来到你的汉字宝藏！", f.voice.Last())
	_, ok := f.c.Level()
	assert.False(t, ok)

	assert.False(t, f.c.ToggleLearned(f.ctx, char(2, "二")))
	assert.Zero(t, f.c.Treasures().Count())
}

func collect(t *testing.T, f *fixture, chars ...curriculum.Character) {
	t.Helper()
	f.c.Progress().Unlock(f.ctx, 2)
	for _, ch := range chars {
		lvID := 1
		if ch.ID >= 5 {
			lvID = 2
		}
		require.True(t, f.c.SelectLevel(f.ctx, lvID))
		require.True(t, f.c.ToggleLearned(f.ctx, ch))
	}
	f.c.OpenCollection()
}

// Scenario C: a composed story opens, finishes back in the collection and
// never unlocks a level.
func TestCompose_MinimumSelection(t *testing.T) {
	f := newFixture(t)
	collect(t, f, char(5, "人"), char(6, "口"))
	unlocked := f.c.Progress().Unlocked()

	require.True(t, f.c.OpenCompose())
	assert.True(t, f.c.ToggleComposeSelection("人"))
	assert.True(t, f.c.ToggleComposeSelection("口"))
	require.True(t, f.c.Compose(f.ctx))

	assert.Equal(t, [][]string{{"人", "口"}}, f.gen.calls)
	assert.Equal(t, StageStory, f.c.Stage())
	assert.True(t, f.c.ReadingComposed())
	assert.Equal(t, "人和口", f.c.Reader().Story().Title)
	require.Equal(t, 1, f.c.Library().Len())
	assert.Equal(t, []string{"人", "口"}, f.c.Library().Stories()[0].Characters)

	f.c.StoryNext(f.ctx)
	f.c.StoryNext(f.ctx)
	assert.Equal(t, StageCollection, f.c.Stage())
	assert.Nil(t, f.c.Reader())
	assert.False(t, f.c.LevelComplete())
	assert.Equal(t, unlocked, f.c.Progress().Unlocked())
}

func TestCompose_SelectionBounds(t *testing.T) {
	f := newFixture(t)
	collect(t, f, char(1, "一"), char(2, "二"), char(3, "三"), char(4, "四"), char(5, "人"))

	require.True(t, f.c.OpenCompose())
	assert.False(t, f.c.ToggleComposeSelection("山"), "not a treasure")
	f.c.ToggleComposeSelection("一")

	_, ok := f.c.BeginCompose()
	assert.False(t, ok, "one is too few")
	assert.Equal(t, "请从宝藏箱里挑 2 到 4 个字，交给魔法师！", f.voice.Last())

	for _, g := range []string{"二", "三", "四"} {
		assert.True(t, f.c.ToggleComposeSelection(g))
	}
	assert.False(t, f.c.ToggleComposeSelection("人"), "five is too many")
	assert.Equal(t, []string{"一", "二", "三", "四"}, f.c.Selection())

	assert.False(t, f.c.ToggleComposeSelection("二"), "toggling again deselects")
	assert.Equal(t, []string{"一", "三", "四"}, f.c.Selection())
}

func TestCompose_NeedsTwoTreasures(t *testing.T) {
	f := newFixture(t)
	collect(t, f, char(1, "一"))
	assert.False(t, f.c.OpenCompose())
	assert.Equal(t, StageCollection, f.c.Stage())
}

func TestCompose_RejectsWhileLoading(t *testing.T) {
	f := newFixture(t)
	collect(t, f, char(5, "人"), char(6, "口"))
	require.True(t, f.c.OpenCompose())
	f.c.ToggleComposeSelection("人")
	f.c.ToggleComposeSelection("口")

	chars, ok := f.c.BeginCompose()
	require.True(t, ok)
	assert.True(t, f.c.Composing())
	_, again := f.c.BeginCompose()
	assert.False(t, again)
	assert.True(t, f.c.ToggleComposeSelection("人"), "selection is frozen while loading")

	f.c.ComposeReady(f.ctx, chars, f.gen.story)
	assert.False(t, f.c.Composing())
	assert.Equal(t, StageStory, f.c.Stage())
}

func TestCompose_LateResultIsSavedNotOpened(t *testing.T) {
	f := newFixture(t)
	collect(t, f, char(5, "人"), char(6, "口"))
	require.True(t, f.c.OpenCompose())
	f.c.ToggleComposeSelection("人")
	f.c.ToggleComposeSelection("口")
	chars, ok := f.c.BeginCompose()
	require.True(t, ok)

	f.c.BackToMap()
	f.c.ComposeReady(f.ctx, chars, f.gen.story)
	assert.Equal(t, StageMap, f.c.Stage())
	assert.Equal(t, 1, f.c.Library().Len())
}

func TestSavedStories(t *testing.T) {
	f := newFixture(t)
	saved, err := f.c.Library().Add(f.ctx, f.gen.story, []string{"人", "口"})
	require.NoError(t, err)
	f.c.OpenCollection()

	assert.False(t, f.c.OpenSavedStory(saved.ID+1))
	require.True(t, f.c.OpenSavedStory(saved.ID))
	assert.Equal(t, StageStory, f.c.Stage())
	assert.True(t, f.c.ReadingComposed())

	f.c.OpenCollection()
	assert.True(t, f.c.DeleteSavedStory(f.ctx, saved.ID))
	assert.False(t, f.c.DeleteSavedStory(f.ctx, saved.ID))
	assert.Zero(t, f.c.Library().Len())
}

func TestComposedStoryFinish_CancelsReadAloud(t *testing.T) {
	f := newFixture(t)
	saved, err := f.c.Library().Add(f.ctx, f.gen.story, []string{"人", "口"})
	require.NoError(t, err)
	f.c.OpenCollection()
	require.True(t, f.c.OpenSavedStory(saved.ID))

	f.c.StoryNext(f.ctx)
	f.c.MarkRead(1, 0) // "口"
	f.c.StoryNext(f.ctx)
	require.Equal(t, StageCollection, f.c.Stage())
	assert.False(t, f.c.ReadingComposed())
	assert.Zero(t, f.c.Effects().Outstanding())

	f.clk.Advance(time.Second)
	assert.Equal(t, "欢迎来到你的汉字宝藏！", f.voice.Last())
	assert.Zero(t, f.clk.Pending())
}

func TestLevelStoryFinish_CancelsReadAloud(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.SelectLevel(f.ctx, 1))
	require.NoError(t, f.c.StartChallenge(f.ctx))
	f.playChallenge(t)

	f.c.StoryNext(f.ctx)
	f.c.MarkRead(1, 0) // "三"
	f.c.StoryNext(f.ctx)
	require.True(t, f.c.LevelComplete())
	spoken := len(f.voice.Spoken())

	f.clk.Advance(time.Second)
	assert.Len(t, f.voice.Spoken(), spoken)
	assert.NotEqual(t, "三", f.voice.Last())
	assert.True(t, f.c.Effects().ConfettiVisible())
	assert.Zero(t, f.c.Effects().Outstanding())
}

func TestOpenSavedStory_OnlyFromCollection(t *testing.T) {
	f := newFixture(t)
	saved, err := f.c.Library().Add(f.ctx, f.gen.story, []string{"人", "口"})
	require.NoError(t, err)

	require.True(t, f.c.SelectLevel(f.ctx, 1))
	assert.False(t, f.c.OpenSavedStory(saved.ID))
	assert.Equal(t, StageLearn, f.c.Stage())
	_, ok := f.c.Level()
	assert.True(t, ok)

	f.c.OpenCollection()
	require.True(t, f.c.OpenSavedStory(saved.ID))
	assert.Zero(t, f.c.Effects().Outstanding())
	_, ok = f.c.Level()
	assert.False(t, ok)
}

func TestMarkRead_SpeaksGlyphsNotPunctuation(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.SelectLevel(f.ctx, 1))
	require.NoError(t, f.c.StartChallenge(f.ctx))
	f.playChallenge(t)
	f.clk.Advance(5 * time.Second)

	f.c.MarkRead(0, 2) // "。"
	f.clk.Advance(time.Second)
	assert.Equal(t, "挑战成功！奖励读绘本！", f.voice.Last())

	f.c.MarkRead(0, 0)
	f.c.MarkRead(0, 1)
	f.clk.Advance(time.Second)
	assert.Equal(t, "二", f.voice.Last(), "only the latest tap is spoken")
	assert.Equal(t, 50, f.c.Reader().Progress()) // 3 of 6 runes
}

// Leaving a stage cancels everything it scheduled.
func TestBackToMap_CancelsPendingEffects(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.SelectLevel(f.ctx, 1))
	require.NoError(t, f.c.StartChallenge(f.ctx))
	target, _ := f.c.Challenge().Target()
	f.c.Answer(target)
	f.c.OpenWriter(target)
	require.Positive(t, f.c.Effects().Outstanding())

	spoken := len(f.voice.Spoken())
	f.c.BackToMap()

	assert.Zero(t, f.c.Effects().Outstanding())
	assert.Equal(t, StageMap, f.c.Stage())
	assert.Nil(t, f.c.Challenge())
	assert.Nil(t, f.c.Writing())
	assert.False(t, f.c.Effects().ConfettiVisible())

	f.clk.Advance(time.Minute)
	assert.Len(t, f.voice.Spoken(), spoken, "no stale speech after teardown")
	assert.Equal(t, StageMap, f.c.Stage(), "no stale completion after teardown")
	assert.Zero(t, f.clk.Pending())
}

func TestBackToMap_ClearsCelebration(t *testing.T) {
	f := newFixture(t)
	f.completeLevel(t, 1)
	f.c.BackToMap()
	assert.False(t, f.c.LevelComplete())
	assert.False(t, f.c.Effects().ConfettiVisible())
	assert.Nil(t, f.c.Reader())
}

func TestWriter_OverlayKeepsStage(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.SelectLevel(f.ctx, 3))
	require.NoError(t, f.c.StartChallenge(f.ctx))
	target, _ := f.c.Challenge().Target()
	queue := f.c.Challenge().Queue()

	q := f.c.OpenWriter(char(7, "山"))
	require.NotNil(t, q)
	for !q.Done() {
		q.Stroke()
	}
	assert.Equal(t, "写得真棒！", f.voice.Last())
	assert.Equal(t, feedback.CueMagic, f.c.Effects().LastCue())

	f.c.WriterComplete()
	f.clk.Advance(2400 * time.Millisecond)
	assert.NotNil(t, f.c.Writing())
	f.clk.Advance(100 * time.Millisecond)
	assert.Nil(t, f.c.Writing())

	assert.Equal(t, StageChallenge, f.c.Stage())
	got, _ := f.c.Challenge().Target()
	assert.Equal(t, target, got)
	assert.Equal(t, queue, f.c.Challenge().Queue())
}

func TestWriter_CloseCancelsTimer(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.SelectLevel(f.ctx, 1))
	q := f.c.OpenWriter(char(1, "一"))
	q.Stroke()
	require.True(t, q.Done())

	f.c.CloseWriter()
	reopened := f.c.OpenWriter(char(2, "二"))
	f.clk.Advance(5 * time.Second)
	assert.Same(t, reopened, f.c.Writing(), "old close timer must not close the new overlay")
}

func TestPronunciation(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.SelectLevel(f.ctx, 2))
	ren := char(5, "人")

	assert.Equal(t, speech.Missed, f.c.PronunciationResult(ren, "口", nil))
	assert.Equal(t, "好像不对哦，再试一次", f.voice.Last())
	assert.Equal(t, speech.Unheard, f.c.PronunciationResult(ren, "", errors.New("no-speech")))
	assert.Equal(t, "没听清，请大声一点", f.voice.Last())

	assert.Equal(t, speech.Matched, f.c.PronunciationResult(ren, "一个人", nil))
	assert.Equal(t, "读对啦！真棒！", f.voice.Last())
	assert.False(t, f.c.Revealed(5))
	f.clk.Advance(500 * time.Millisecond)
	assert.True(t, f.c.Revealed(5))
}

func TestSpeakCharacter(t *testing.T) {
	f := newFixture(t)
	f.c.SpeakCharacter(curriculum.Character{Char: "一", Words: []string{"一个", "一同"}})
	assert.Equal(t, "一。一个。一同", f.voice.Last())
}

func TestActivityErrorsAreAbsorbed(t *testing.T) {
	f := newFixture(t)
	f.log.err = errors.New("disk full")
	require.True(t, f.c.SelectLevel(f.ctx, 1))
	assert.True(t, f.c.ToggleLearned(f.ctx, char(1, "一")))
	assert.True(t, f.c.Treasures().Contains(1))
}
