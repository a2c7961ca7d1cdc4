package session

import (
	"go.uber.org/zap"

	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/feedback"
	"github.com/abhisek/zibao/internal/writer"
)

// OpenWriter lays the handwriting overlay for ch over the current stage. The
// stage underneath is left exactly as it was.
func (c *Controller) OpenWriter(ch curriculum.Character) *writer.Quiz {
	c.closeWriter()
	c.writing = writer.New(ch,
		writer.OnStroke(func(int) { c.fx.Cue(feedback.CueStroke) }),
		writer.OnComplete(c.WriterComplete),
	)
	c.log.Debug("writer opened", zap.Int("character", ch.ID), zap.Int("strokes", c.writing.Total()))
	return c.writing
}

// Writing returns the open handwriting quiz, or nil.
func (c *Controller) Writing() *writer.Quiz { return c.writing }

// WriterComplete celebrates a finished character and closes the overlay
// after a pause. Repeated calls do not stack close timers.
func (c *Controller) WriterComplete() {
	if c.writing == nil || c.writerClose.Active() {
		return
	}
	c.fx.Say(lineWriterDone)
	c.fx.Confetti()
	c.fx.Cue(feedback.CueMagic)
	c.writerClose = c.fx.After(c.timings.WriterClose, func() {
		c.writerClose = nil
		c.writing = nil
	})
}

// CloseWriter dismisses the overlay.
func (c *Controller) CloseWriter() { c.closeWriter() }

func (c *Controller) closeWriter() {
	c.writerClose.Stop()
	c.writerClose = nil
	c.writing = nil
}
