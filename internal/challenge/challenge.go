// Package challenge implements the recall game: the learner is asked to find
// each character of a level, in random order, among the level's shuffled
// cards.
package challenge

import (
	"errors"
	"math/rand/v2"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/feedback"
	"github.com/abhisek/zibao/internal/logging"
)

// ErrNoCharacters is returned when starting a challenge for an empty level.
var ErrNoCharacters = errors.New("challenge: level has no characters")

// State is the lifecycle phase of a Session.
type State int

const (
	Idle State = iota
	Active
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Kind is the result shown on a card after an answer.
type Kind int

const (
	KindCorrect Kind = iota + 1
	KindWrong
)

// Feedback marks the card that was just answered.
type Feedback struct {
	CharacterID int
	Kind        Kind
}

// Outcome is what Answer did with an answer.
type Outcome int

const (
	Ignored Outcome = iota
	Correct
	Wrong
)

// Timings are the fixed delays of the game.
type Timings struct {
	Announce   time.Duration // before the first prompt is spoken
	Advance    time.Duration // after a correct answer, before the next target
	Complete   time.Duration // after the last correct answer
	WrongClear time.Duration // how long a wrong mark stays
}

// DefaultTimings returns the standard game delays.
func DefaultTimings() Timings {
	return Timings{
		Announce:   500 * time.Millisecond,
		Advance:    1200 * time.Millisecond,
		Complete:   1000 * time.Millisecond,
		WrongClear: 500 * time.Millisecond,
	}
}

// Effects is the subset of the feedback coordinator a session drives.
type Effects interface {
	After(d time.Duration, fn func()) *feedback.Handle
	Say(text string)
	Cue(c feedback.Cue)
	Confetti()
	Shake(charID int)
}

// Spoken prompts.
const (
	startPrompt   = "挑战开始！请找出。。。"
	nextPrompt    = "请找出。。。"
	victoryPhrase = "挑战成功！奖励读绘本！"
)

// Option configures a Session.
type Option func(*Session)

// WithTimings overrides the game delays.
func WithTimings(t Timings) Option {
	return func(s *Session) { s.timings = t }
}

// WithRand makes shuffles come from r.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.shuffle = r.Shuffle }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = logging.OrNop(l) }
}

// OnComplete registers fn to run once the last target is answered and the
// completion delay has passed.
func OnComplete(fn func()) Option {
	return func(s *Session) { s.onComplete = fn }
}

// Session is one run of the game over a level's characters. Like the
// coordinator it drives, it must only be used from a single event loop.
type Session struct {
	fx         Effects
	timings    Timings
	shuffle    func(n int, swap func(i, j int))
	log        *zap.Logger
	onComplete func()

	state    State
	level    int
	cards    []curriculum.Character
	target   *curriculum.Character
	queue    []curriculum.Character
	feedback *Feedback
	answered int
	total    int

	announce *feedback.Handle
	step     *feedback.Handle // advance or completion
	clear    *feedback.Handle
}

// New creates an idle Session.
func New(fx Effects, opts ...Option) *Session {
	s := &Session{
		fx:      fx,
		timings: DefaultTimings(),
		shuffle: rand.Shuffle,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start begins a game over level. Card layout and question order are two
// independent uniform permutations of the level's characters. The first
// target is announced after the announce delay.
func (s *Session) Start(level curriculum.Level) error {
	if len(level.Characters) == 0 {
		return ErrNoCharacters
	}
	s.Stop()

	s.cards = s.permute(level.Characters)
	order := s.permute(level.Characters)
	first := order[0]
	s.target = &first
	s.queue = order[1:]
	s.level = level.ID
	s.feedback = nil
	s.answered = 0
	s.total = len(order)
	s.state = Active

	s.announce = s.fx.After(s.timings.Announce, func() {
		s.announce = nil
		s.fx.Say(startPrompt + first.Char)
	})
	s.log.Info("challenge started", zap.Int("level", level.ID), zap.Int("characters", s.total))
	return nil
}

func (s *Session) permute(chars []curriculum.Character) []curriculum.Character {
	out := slices.Clone(chars)
	s.shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Busy reports whether answers are currently ignored: a result is on screen
// or the advance to the next target has not happened yet.
func (s *Session) Busy() bool {
	return s.feedback != nil || s.step.Active()
}

// Answer scores ch against the current target. It is ignored unless the
// session is active and not Busy. A wrong answer never changes the target or
// the queue.
func (s *Session) Answer(ch curriculum.Character) Outcome {
	if s.state != Active || s.target == nil || s.Busy() {
		return Ignored
	}

	if ch.ID != s.target.ID {
		s.fx.Cue(feedback.CueWrong)
		s.fx.Shake(ch.ID)
		s.feedback = &Feedback{CharacterID: ch.ID, Kind: KindWrong}
		s.clear = s.fx.After(s.timings.WrongClear, func() {
			s.clear = nil
			s.feedback = nil
		})
		return Wrong
	}

	s.answered++
	s.feedback = &Feedback{CharacterID: ch.ID, Kind: KindCorrect}
	s.fx.Cue(feedback.CueCorrect)
	s.fx.Confetti()

	if len(s.queue) > 0 {
		s.step = s.fx.After(s.timings.Advance, s.advance)
	} else {
		s.step = s.fx.After(s.timings.Complete, s.complete)
	}
	return Correct
}

func (s *Session) advance() {
	s.step = nil
	next := s.queue[0]
	s.queue = s.queue[1:]
	s.target = &next
	s.feedback = nil
	s.fx.Say(nextPrompt + next.Char)
}

func (s *Session) complete() {
	s.step = nil
	s.target = nil
	s.feedback = nil
	s.state = Completed
	s.fx.Cue(feedback.CueVictory)
	s.fx.Say(victoryPhrase)
	s.log.Info("challenge completed", zap.Int("level", s.level), zap.Int("answered", s.answered))
	if s.onComplete != nil {
		s.onComplete()
	}
}

// Stop cancels every timer the session owns and clears any pending result.
// The state is left as it was.
func (s *Session) Stop() {
	s.announce.Stop()
	s.step.Stop()
	s.clear.Stop()
	s.announce, s.step, s.clear = nil, nil, nil
	s.feedback = nil
}

// State returns the lifecycle phase.
func (s *Session) State() State { return s.state }

// Level returns the id of the level being played.
func (s *Session) Level() int { return s.level }

// Target returns the character to find.
func (s *Session) Target() (curriculum.Character, bool) {
	if s.target == nil {
		return curriculum.Character{}, false
	}
	return *s.target, true
}

// Queue returns the targets still to come, in order.
func (s *Session) Queue() []curriculum.Character { return slices.Clone(s.queue) }

// Cards returns the card layout.
func (s *Session) Cards() []curriculum.Character { return slices.Clone(s.cards) }

// Feedback returns the result shown on screen, if any.
func (s *Session) Feedback() (Feedback, bool) {
	if s.feedback == nil {
		return Feedback{}, false
	}
	return *s.feedback, true
}

// Answered returns the number of targets found so far.
func (s *Session) Answered() int { return s.answered }

// Total returns the number of targets in the game.
func (s *Session) Total() int { return s.total }
