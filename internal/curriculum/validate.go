package curriculum

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// validate performs the structural checks on a level set.
// Returns a combined error describing all problems found, or nil if valid.
func validate(levels []Level, achievements []Achievement) error {
	var errs []string

	if len(levels) == 0 {
		return errors.New("no levels defined")
	}

	// Level ids must run 1..N in file order.
	for i, l := range levels {
		if l.ID != i+1 {
			errs = append(errs, fmt.Sprintf("level at position %d has id %d, want %d", i, l.ID, i+1))
		}
		if strings.TrimSpace(l.Title) == "" {
			errs = append(errs, fmt.Sprintf("level %d has no title", l.ID))
		}
		if len(l.Characters) == 0 {
			errs = append(errs, fmt.Sprintf("level %d has no characters", l.ID))
		}
		if len(l.Story.Pages) == 0 {
			errs = append(errs, fmt.Sprintf("level %d story has no pages", l.ID))
		}
	}

	seen := make(map[int]int)
	for _, l := range levels {
		for _, c := range l.Characters {
			if prev, dup := seen[c.ID]; dup {
				errs = append(errs, fmt.Sprintf("character id %d appears in level %d and level %d", c.ID, prev, l.ID))
			}
			seen[c.ID] = l.ID
			if utf8.RuneCountInString(c.Char) != 1 {
				errs = append(errs, fmt.Sprintf("character %d must be a single glyph, got %q", c.ID, c.Char))
			}
		}
	}

	last := 0
	for _, a := range achievements {
		if a.Threshold <= last {
			errs = append(errs, fmt.Sprintf("achievement %d threshold %d must exceed %d", a.ID, a.Threshold, last))
		}
		last = a.Threshold
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
