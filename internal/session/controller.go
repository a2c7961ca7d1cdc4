// Package session is the top-level learning state machine. It routes learner
// actions to the stores, the challenge game, the story reader and the
// handwriting overlay, and owns the lifetime of every per-stage object.
//
// A Controller is driven from one event loop. Timer callbacks arrive on that
// loop through the feedback coordinator, so no method runs concurrently with
// another.
package session

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/zibao/internal/challenge"
	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/feedback"
	"github.com/abhisek/zibao/internal/library"
	"github.com/abhisek/zibao/internal/logging"
	"github.com/abhisek/zibao/internal/progression"
	"github.com/abhisek/zibao/internal/reader"
	"github.com/abhisek/zibao/internal/speech"
	"github.com/abhisek/zibao/internal/store"
	"github.com/abhisek/zibao/internal/treasure"
	"github.com/abhisek/zibao/internal/writer"
)

// StoryGenerator composes a story from treasure glyphs. It always returns a
// usable story.
type StoryGenerator interface {
	Generate(ctx context.Context, chars []string) curriculum.Story
}

// Timings are the controller's own delays.
type Timings struct {
	WriterClose time.Duration // after the last stroke, before the overlay closes
	Reveal      time.Duration // after a matched pronunciation, before the card flips
}

// DefaultTimings returns the standard controller delays.
func DefaultTimings() Timings {
	return Timings{
		WriterClose: 2500 * time.Millisecond,
		Reveal:      500 * time.Millisecond,
	}
}

// Deps are the collaborators of a Controller. Activity and Stories may be
// nil.
type Deps struct {
	Curriculum *curriculum.Curriculum
	Progress   *progression.Store
	Treasures  *treasure.Manager
	Library    *library.Library
	Effects    *feedback.Coordinator
	Stories    StoryGenerator
	Activity   store.ActivityLog
	Logger     *zap.Logger

	// Rand drives challenge shuffles. Nil uses the global source.
	Rand *rand.Rand

	Timings *Timings
}

// Controller is the session state machine.
type Controller struct {
	cur       *curriculum.Curriculum
	progress  *progression.Store
	treasures *treasure.Manager
	library   *library.Library
	fx        *feedback.Coordinator
	stories   StoryGenerator
	activity  store.ActivityLog
	log       *zap.Logger
	rnd       *rand.Rand
	timings   Timings

	stage Stage
	level *curriculum.Level

	// game is the challenge of the current stage; nil outside StageChallenge.
	game      *challenge.Session
	gameID    string
	tracker   *reader.Tracker
	aiStory   *library.SavedStory
	completed bool // curriculum story finished, celebration showing

	writing     *writer.Quiz
	writerClose *feedback.Handle

	revealed int // card flipped by a matched pronunciation, 0 for none
	reveal   *feedback.Handle

	selection []string
	composing bool
}

// New creates a Controller on the level map.
func New(d Deps) *Controller {
	c := &Controller{
		cur:       d.Curriculum,
		progress:  d.Progress,
		treasures: d.Treasures,
		library:   d.Library,
		fx:        d.Effects,
		stories:   d.Stories,
		activity:  d.Activity,
		log:       logging.OrNop(d.Logger),
		rnd:       d.Rand,
		timings:   DefaultTimings(),
		stage:     StageMap,
	}
	if d.Timings != nil {
		c.timings = *d.Timings
	}
	return c
}

// SelectLevel opens level id in the learn stage. A locked or unknown level is
// refused with a spoken hint and nothing else changes. It reports whether the
// level opened.
func (c *Controller) SelectLevel(ctx context.Context, id int) bool {
	level, ok := c.cur.Level(id)
	if !ok || !c.progress.IsUnlocked(id) {
		c.fx.Say(lineLocked)
		c.log.Debug("locked level selected", zap.Int("level", id))
		return false
	}

	c.leaveStage()
	c.level = &level
	c.stage = StageLearn
	c.completed = false
	c.treasures.BeginLevel(level)
	c.fx.Say(level.Title + lineLearnSuffix)
	c.log.Info("level opened", zap.Int("level", id))
	return true
}

// ToggleLearned flips the learned mark of ch. Inside a level the mark is
// per-level; in the collection the treasure box is the context, so a toggle
// there removes the treasure. It reports whether ch was added.
func (c *Controller) ToggleLearned(ctx context.Context, ch curriculum.Character) bool {
	added, err := c.treasures.ToggleLearned(ctx, ch)
	if err != nil {
		c.log.Warn("save treasures", zap.Error(err))
	}
	kind := store.ActivityTreasureRemoved
	if added {
		kind = store.ActivityTreasureAdded
		c.fx.Cue(feedback.CueLearned)
		c.fx.Say(lineTreasureAdded)
	}
	c.record(ctx, store.ActivityEventData{
		Kind:        kind,
		LevelID:     c.levelID(),
		CharacterID: ch.ID,
		Detail:      ch.Char,
	})
	return added
}

// SpeakCharacter reads ch aloud followed by its example words.
func (c *Controller) SpeakCharacter(ch curriculum.Character) {
	parts := append([]string{ch.Char}, ch.Words...)
	c.fx.Say(strings.Join(parts, "。"))
}

// PronunciationResult scores a recognition attempt for ch and speaks the
// verdict. A match flips the card after a short pause.
func (c *Controller) PronunciationResult(ch curriculum.Character, transcript string, err error) speech.Verdict {
	v := speech.Judge(transcript, err, ch.Char)
	switch v {
	case speech.Matched:
		c.fx.Say(linePronounced)
		c.reveal.Stop()
		c.reveal = c.fx.After(c.timings.Reveal, func() {
			c.reveal = nil
			c.revealed = ch.ID
		})
	case speech.Missed:
		c.fx.Say(lineMispronounced)
	default:
		c.fx.Say(lineUnheard)
	}
	c.log.Debug("pronunciation scored",
		zap.Int("character", ch.ID),
		zap.String("transcript", transcript),
		zap.Int("verdict", int(v)))
	return v
}

// Revealed reports whether the card for id has been flipped by a matched
// pronunciation.
func (c *Controller) Revealed(id int) bool { return id != 0 && c.revealed == id }

// StartChallenge moves from learn to a fresh challenge over the current
// level.
func (c *Controller) StartChallenge(ctx context.Context) error {
	if c.stage != StageLearn || c.level == nil {
		return nil
	}
	opts := []challenge.Option{
		challenge.WithLogger(c.log),
		challenge.OnComplete(func() { c.challengeDone(ctx) }),
	}
	if c.rnd != nil {
		opts = append(opts, challenge.WithRand(c.rnd))
	}
	game := challenge.New(c.fx, opts...)
	if err := game.Start(*c.level); err != nil {
		return err
	}
	c.game = game
	c.gameID = uuid.NewString()
	c.stage = StageChallenge
	c.record(ctx, store.ActivityEventData{
		Kind:      store.ActivityChallengeStarted,
		SessionID: c.gameID,
		LevelID:   c.level.ID,
	})
	return nil
}

// Answer passes a card pick to the running challenge.
func (c *Controller) Answer(ch curriculum.Character) challenge.Outcome {
	if c.stage != StageChallenge || c.game == nil {
		return challenge.Ignored
	}
	return c.game.Answer(ch)
}

func (c *Controller) challengeDone(ctx context.Context) {
	c.record(ctx, store.ActivityEventData{
		Kind:      store.ActivityChallengeCompleted,
		SessionID: c.gameID,
		LevelID:   c.level.ID,
		Detail:    c.game.State().String(),
	})
	c.game = nil
	c.gameID = ""
	c.stage = StageStory
	c.aiStory = nil
	c.tracker = reader.New(c.level.Story)
}

// MarkRead records a tapped glyph on the open story and reads it aloud,
// punctuation excepted.
func (c *Controller) MarkRead(page, idx int) {
	if c.stage != StageStory || c.tracker == nil {
		return
	}
	c.tracker.MarkRead(page, idx)
	pages := c.tracker.Story().Pages
	if page < 0 || page >= len(pages) {
		return
	}
	runes := []rune(pages[page].Text)
	if idx < 0 || idx >= len(runes) {
		return
	}
	if glyph := string(runes[idx]); !reader.IsPunctuation(glyph) {
		c.fx.SayAfterPause(glyph)
	}
}

// StoryPrev turns back one page.
func (c *Controller) StoryPrev() {
	if c.stage == StageStory && c.tracker != nil {
		c.tracker.Prev()
	}
}

// StoryNext turns the page, finishing the story on its last page. A
// finished curriculum story unlocks the next level and shows the level
// celebration; a finished composed story returns to the collection and never
// unlocks anything.
func (c *Controller) StoryNext(ctx context.Context) {
	if c.stage != StageStory || c.tracker == nil || c.completed {
		return
	}
	if !c.tracker.Next() {
		return
	}
	c.record(ctx, store.ActivityEventData{
		Kind:    store.ActivityStoryFinished,
		LevelID: c.levelID(),
		Detail:  c.tracker.Story().Title,
	})

	if c.aiStory != nil {
		c.OpenCollection()
		return
	}
	if c.level == nil {
		return
	}

	c.completed = true
	c.fx.Teardown()
	c.fx.ShowConfetti()
	c.fx.Cue(feedback.CueVictory)
	next, ok := c.cur.Next(c.level.ID)
	if !ok || c.progress.IsUnlocked(next.ID) {
		return
	}
	if err := c.progress.Unlock(ctx, next.ID); err != nil {
		c.log.Warn("save unlocked levels", zap.Error(err))
	}
	c.record(ctx, store.ActivityEventData{Kind: store.ActivityLevelUnlocked, LevelID: next.ID})
}

// BackToMap leaves whatever is showing for the level map. Every pending
// timer is cancelled, the writing overlay closes and every per-stage object
// is discarded.
func (c *Controller) BackToMap() {
	c.leaveStage()
	c.level = nil
	c.completed = false
	c.treasures.EndLevel()
	c.stage = StageMap
}

// leaveStage tears down the current stage's objects and timers.
func (c *Controller) leaveStage() {
	if c.game != nil {
		c.game.Stop()
	}
	c.fx.Teardown()
	c.game = nil
	c.gameID = ""
	c.tracker = nil
	c.aiStory = nil
	c.reveal = nil
	c.revealed = 0
	c.closeWriter()
	c.selection = nil
	c.composing = false
}

// OpenCollection shows the treasure box.
func (c *Controller) OpenCollection() {
	c.leaveStage()
	c.level = nil
	c.completed = false
	c.treasures.EndLevel()
	c.stage = StageCollection
	c.fx.Say(lineCollection)
}

// OpenSavedStory opens a saved composed story from the collection.
func (c *Controller) OpenSavedStory(id int64) bool {
	if c.stage != StageCollection {
		return false
	}
	saved, ok := c.library.Get(id)
	if !ok {
		return false
	}
	c.openComposed(saved)
	return true
}

func (c *Controller) openComposed(saved library.SavedStory) {
	c.leaveStage()
	c.aiStory = &saved
	c.tracker = reader.New(saved.Story)
	c.stage = StageStory
}

// DeleteSavedStory removes a saved story. It reports whether one was removed.
func (c *Controller) DeleteSavedStory(ctx context.Context, id int64) bool {
	removed, err := c.library.Delete(ctx, id)
	if err != nil {
		c.log.Warn("save story library", zap.Error(err))
	}
	if removed {
		c.record(ctx, store.ActivityEventData{
			Kind:   store.ActivityStoryDeleted,
			Detail: formatID(id),
		})
	}
	return removed
}

func (c *Controller) levelID() int {
	if c.level == nil {
		return 0
	}
	return c.level.ID
}

func (c *Controller) record(ctx context.Context, e store.ActivityEventData) {
	if c.activity == nil {
		return
	}
	if err := c.activity.AppendActivity(ctx, e); err != nil {
		c.log.Warn("append activity", zap.String("kind", string(e.Kind)), zap.Error(err))
	}
}

// Stage returns the active stage.
func (c *Controller) Stage() Stage { return c.stage }

// Level returns the current level, if any.
func (c *Controller) Level() (curriculum.Level, bool) {
	if c.level == nil {
		return curriculum.Level{}, false
	}
	return *c.level, true
}

// Challenge returns the running challenge, or nil.
func (c *Controller) Challenge() *challenge.Session { return c.game }

// Reader returns the open story tracker, or nil.
func (c *Controller) Reader() *reader.Tracker { return c.tracker }

// ReadingComposed reports whether the open story came from composition.
func (c *Controller) ReadingComposed() bool { return c.aiStory != nil }

// LevelComplete reports whether the level celebration is showing.
func (c *Controller) LevelComplete() bool { return c.completed }

// Effects returns the feedback coordinator.
func (c *Controller) Effects() *feedback.Coordinator { return c.fx }

// Curriculum returns the loaded levels.
func (c *Controller) Curriculum() *curriculum.Curriculum { return c.cur }

// Progress returns the unlock store.
func (c *Controller) Progress() *progression.Store { return c.progress }

// Treasures returns the treasure manager.
func (c *Controller) Treasures() *treasure.Manager { return c.treasures }

// Library returns the saved story library.
func (c *Controller) Library() *library.Library { return c.library }
