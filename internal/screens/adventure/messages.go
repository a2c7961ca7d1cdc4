package adventure

import "github.com/abhisek/zibao/internal/curriculum"

// composeDoneMsg carries a generated story back to the event loop.
type composeDoneMsg struct {
	Chars []string
	Story curriculum.Story
}
