// Package feedback owns every transient, timed side effect of a learning
// session: speech, sound cues, confetti bursts and wrong-answer shakes.
//
// All timers are created through the Coordinator and tracked until they fire
// or are stopped. Teardown cancels every outstanding timer at once, so
// leaving a stage can never let a stale effect fire into the next one.
package feedback

import (
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/zibao/internal/clock"
	"github.com/abhisek/zibao/internal/logging"
	"github.com/abhisek/zibao/internal/speech"
)

// Cue is a short non-verbal sound.
type Cue string

const (
	CueCorrect Cue = "correct"
	CueWrong   Cue = "wrong"
	CueVictory Cue = "victory"
	CueLearned Cue = "learned"
	CueStroke  Cue = "stroke"
	CueMagic   Cue = "magic"
)

// EventKind identifies a coordinator event.
type EventKind int

const (
	EventSpeech EventKind = iota
	EventCue
	EventConfettiShown
	EventConfettiCleared // an on-screen burst cleared by a restart
	EventConfettiHidden  // a burst ended by its timer or by teardown
	EventShakeStart
	EventShakeEnd
)

// Event describes one side effect, for observers such as the UI and tests.
type Event struct {
	Kind        EventKind
	Text        string
	Cue         Cue
	CharacterID int
}

// Timings are the fixed durations of each effect.
type Timings struct {
	ConfettiDelay time.Duration // gap between clearing and re-showing a burst
	Confetti      time.Duration // how long a burst stays on screen
	Shake         time.Duration // wrong-answer shake per character
	SpeechDelay   time.Duration // debounce for SayAfterPause
}

// DefaultTimings returns the standard effect durations.
func DefaultTimings() Timings {
	return Timings{
		ConfettiDelay: 10 * time.Millisecond,
		Confetti:      4 * time.Second,
		Shake:         500 * time.Millisecond,
		SpeechDelay:   50 * time.Millisecond,
	}
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimings overrides the effect durations.
func WithTimings(t Timings) Option {
	return func(c *Coordinator) { c.timings = t }
}

// WithListener registers fn to receive every Event.
func WithListener(fn func(Event)) Option {
	return func(c *Coordinator) { c.listener = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) { c.log = logging.OrNop(l) }
}

// Coordinator serializes and deduplicates timed effects. It is not safe for
// concurrent use; the owning event loop calls it and the scheduler delivers
// timer callbacks on that same loop.
type Coordinator struct {
	sched    clock.Scheduler
	speaker  speech.Speaker
	timings  Timings
	listener func(Event)
	log      *zap.Logger

	timers map[uint64]*Handle
	nextID uint64

	caption       string
	lastCue       Cue
	confettiOn    bool
	confettiTimer *Handle
	pendingSpeech *Handle
	shakes        map[int]*Handle
}

// New creates a Coordinator.
func New(sched clock.Scheduler, speaker speech.Speaker, opts ...Option) *Coordinator {
	if speaker == nil {
		speaker = speech.Nop{}
	}
	c := &Coordinator{
		sched:   sched,
		speaker: speaker,
		timings: DefaultTimings(),
		log:     zap.NewNop(),
		timers:  make(map[uint64]*Handle),
		shakes:  make(map[int]*Handle),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Timings returns the configured durations.
func (c *Coordinator) Timings() Timings { return c.timings }

func (c *Coordinator) emit(e Event) {
	if c.listener != nil {
		c.listener(e)
	}
}

// Handle is a tracked, cancellable timer.
type Handle struct {
	c  *Coordinator
	id uint64
	t  clock.Timer
}

// Stop cancels the timer. It reports whether the callback was prevented.
func (h *Handle) Stop() bool {
	if h == nil {
		return false
	}
	if _, ok := h.c.timers[h.id]; !ok {
		return false
	}
	delete(h.c.timers, h.id)
	h.t.Stop()
	return true
}

// Active reports whether the timer is still pending.
func (h *Handle) Active() bool {
	if h == nil {
		return false
	}
	_, ok := h.c.timers[h.id]
	return ok
}

// After runs fn once after d unless the returned handle is stopped or the
// coordinator is torn down first.
func (c *Coordinator) After(d time.Duration, fn func()) *Handle {
	c.nextID++
	id := c.nextID
	h := &Handle{c: c, id: id}
	c.timers[id] = h
	h.t = c.sched.AfterFunc(d, func() {
		if _, ok := c.timers[id]; !ok {
			return
		}
		delete(c.timers, id)
		fn()
	})
	return h
}

// Outstanding returns the number of pending timers.
func (c *Coordinator) Outstanding() int { return len(c.timers) }

// Say speaks text now, replacing any utterance in flight or pending.
func (c *Coordinator) Say(text string) {
	c.pendingSpeech.Stop()
	c.pendingSpeech = nil
	c.caption = text
	c.speaker.Speak(text)
	c.emit(Event{Kind: EventSpeech, Text: text})
}

// SayAfterPause speaks text after the speech debounce delay. A newer call to
// Say or SayAfterPause replaces it.
func (c *Coordinator) SayAfterPause(text string) {
	c.pendingSpeech.Stop()
	c.speaker.Stop()
	c.pendingSpeech = c.After(c.timings.SpeechDelay, func() {
		c.pendingSpeech = nil
		c.caption = text
		c.speaker.Speak(text)
		c.emit(Event{Kind: EventSpeech, Text: text})
	})
}

// Caption returns the text most recently spoken.
func (c *Coordinator) Caption() string { return c.caption }

// Cue plays a sound cue.
func (c *Coordinator) Cue(cue Cue) {
	c.lastCue = cue
	c.emit(Event{Kind: EventCue, Cue: cue})
}

// LastCue returns the most recent cue.
func (c *Coordinator) LastCue() Cue { return c.lastCue }

// Confetti starts a burst of fixed duration. A burst already on screen, or
// one about to appear, is cleared first, so the burst always ends one fixed
// duration after the last trigger.
func (c *Coordinator) Confetti() {
	c.confettiTimer.Stop()
	if c.confettiOn {
		c.confettiOn = false
		c.emit(Event{Kind: EventConfettiCleared})
	}
	c.confettiTimer = c.After(c.timings.ConfettiDelay, func() {
		c.confettiOn = true
		c.emit(Event{Kind: EventConfettiShown})
		c.confettiTimer = c.After(c.timings.Confetti, func() {
			c.confettiTimer = nil
			c.confettiOn = false
			c.emit(Event{Kind: EventConfettiHidden})
		})
	})
}

// ShowConfetti puts a burst on screen with no auto-hide, for celebration
// screens that stay until the learner leaves.
func (c *Coordinator) ShowConfetti() {
	c.confettiTimer.Stop()
	c.confettiTimer = nil
	if !c.confettiOn {
		c.confettiOn = true
		c.emit(Event{Kind: EventConfettiShown})
	}
}

// ConfettiVisible reports whether a burst is on screen.
func (c *Coordinator) ConfettiVisible() bool { return c.confettiOn }

// Shake flags charID as shaking for the shake duration. Re-triggering before
// it ends restarts the duration.
func (c *Coordinator) Shake(charID int) {
	if h, ok := c.shakes[charID]; ok {
		h.Stop()
	} else {
		c.emit(Event{Kind: EventShakeStart, CharacterID: charID})
	}
	c.shakes[charID] = c.After(c.timings.Shake, func() {
		delete(c.shakes, charID)
		c.emit(Event{Kind: EventShakeEnd, CharacterID: charID})
	})
}

// Shaking reports whether charID is currently shaking.
func (c *Coordinator) Shaking(charID int) bool {
	_, ok := c.shakes[charID]
	return ok
}

// Teardown cancels every pending timer, clears transient flags and
// interrupts speech. The coordinator stays usable afterwards.
func (c *Coordinator) Teardown() {
	n := len(c.timers)
	for _, h := range c.timers {
		h.t.Stop()
	}
	clear(c.timers)
	c.confettiTimer = nil
	c.pendingSpeech = nil
	if c.confettiOn {
		c.confettiOn = false
		c.emit(Event{Kind: EventConfettiHidden})
	}
	clear(c.shakes)
	c.speaker.Stop()
	if n > 0 {
		c.log.Debug("feedback torn down", zap.Int("cancelled_timers", n))
	}
}
