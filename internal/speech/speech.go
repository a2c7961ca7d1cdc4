// Package speech provides the single process-wide speech output channel and
// pronunciation matching.
//
// A Speaker has cancel-and-replace semantics: Speak interrupts whatever is
// being said and starts the new text. Callers never wait for an utterance to
// finish and must not assume a previous one has.
package speech

import (
	"strings"
	"sync"
)

// Speaker speaks text aloud.
type Speaker interface {
	// Speak cancels any utterance in flight and starts text. It never blocks
	// on playback and never fails; without a speech engine it does nothing.
	Speak(text string)

	// Stop cancels any utterance in flight.
	Stop()
}

// Nop is a Speaker for platforms without speech support.
type Nop struct{}

func (Nop) Speak(string) {}
func (Nop) Stop()        {}

// Recorder remembers utterances. The TUI uses it as a caption source and
// tests use it to assert what was said.
type Recorder struct {
	mu      sync.Mutex
	spoken  []string
	current string
	stops   int
}

func (r *Recorder) Speak(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spoken = append(r.spoken, text)
	r.current = text
}

func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = ""
	r.stops++
}

// Spoken returns every utterance in order.
func (r *Recorder) Spoken() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.spoken...)
}

// Last returns the most recent utterance, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.spoken) == 0 {
		return ""
	}
	return r.spoken[len(r.spoken)-1]
}

// Current returns the utterance that has not been stopped, or "".
func (r *Recorder) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Stops returns how many times Stop was called.
func (r *Recorder) Stops() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stops
}

// Verdict is the outcome of a pronunciation attempt.
type Verdict int

const (
	Matched Verdict = iota
	Missed
	Unheard
)

// Judge compares a recognized transcript against the expected glyph. A
// recognition error or empty transcript counts as unheard.
func Judge(transcript string, err error, char string) Verdict {
	transcript = strings.TrimSpace(transcript)
	if err != nil || transcript == "" {
		return Unheard
	}
	if char != "" && strings.Contains(transcript, char) {
		return Matched
	}
	return Missed
}
