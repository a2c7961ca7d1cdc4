package session

import (
	"context"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/store"
)

// OpenCompose moves from the collection to the compose stage. It needs at
// least two treasures; with fewer the learner hears the hint instead.
func (c *Controller) OpenCompose() bool {
	if c.stage != StageCollection {
		return false
	}
	if c.treasures.Count() < MinComposeChars {
		c.fx.Say(lineComposeHint)
		return false
	}
	c.stage = StageCompose
	c.selection = nil
	c.composing = false
	return true
}

// CloseCompose returns to the collection. An in-flight request is abandoned.
func (c *Controller) CloseCompose() {
	if c.stage != StageCompose {
		return
	}
	c.selection = nil
	c.composing = false
	c.stage = StageCollection
}

// ToggleComposeSelection adds or removes glyph from the selection. Adding is
// refused once four are picked, and glyphs that are not treasures are
// ignored. It reports whether glyph is selected afterwards.
func (c *Controller) ToggleComposeSelection(glyph string) bool {
	if c.stage != StageCompose || c.composing {
		return slices.Contains(c.selection, glyph)
	}
	if i := slices.Index(c.selection, glyph); i >= 0 {
		c.selection = slices.Delete(c.selection, i, i+1)
		return false
	}
	if len(c.selection) >= MaxComposeChars {
		return false
	}
	if _, ok := c.treasures.Find(glyph); !ok {
		return false
	}
	c.selection = append(c.selection, glyph)
	return true
}

// Selection returns the picked glyphs in pick order.
func (c *Controller) Selection() []string { return slices.Clone(c.selection) }

// Composing reports whether a story request is in flight.
func (c *Controller) Composing() bool { return c.composing }

// BeginCompose validates the selection and marks a request in flight. It
// returns the glyphs to send, or false when the selection is out of bounds or
// a request is already running.
func (c *Controller) BeginCompose() ([]string, bool) {
	if c.stage != StageCompose || c.composing {
		return nil, false
	}
	if n := len(c.selection); n < MinComposeChars || n > MaxComposeChars {
		c.fx.Say(lineComposeHint)
		return nil, false
	}
	c.composing = true
	c.log.Info("composing story", zap.Strings("chars", c.selection))
	return slices.Clone(c.selection), true
}

// ComposeReady saves a generated story and opens it. A story that arrives
// after the learner left the compose stage is still saved but not opened.
func (c *Controller) ComposeReady(ctx context.Context, chars []string, story curriculum.Story) {
	saved, err := c.library.Add(ctx, story, chars)
	if err != nil {
		c.log.Warn("save story library", zap.Error(err))
	}
	c.record(ctx, store.ActivityEventData{
		Kind:   store.ActivityStorySaved,
		Detail: saved.Title,
	})
	if c.stage != StageCompose || !c.composing {
		c.log.Debug("composed story arrived after compose closed", zap.Int64("id", saved.ID))
		return
	}
	c.composing = false
	c.selection = nil
	c.openComposed(saved)
}

// Compose runs the whole compose flow synchronously with the configured
// generator. It reports whether a story was opened.
func (c *Controller) Compose(ctx context.Context) bool {
	if c.stories == nil {
		return false
	}
	chars, ok := c.BeginCompose()
	if !ok {
		return false
	}
	c.ComposeReady(ctx, chars, c.stories.Generate(ctx, chars))
	return c.stage == StageStory
}

// Stories returns the configured story generator, or nil.
func (c *Controller) Stories() StoryGenerator { return c.stories }

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
