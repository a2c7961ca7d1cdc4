// Package welcome shows the opening splash before the level map.
package welcome

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/zibao/internal/router"
	"github.com/abhisek/zibao/internal/screen"
	"github.com/abhisek/zibao/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	chestOpen    = 400 * time.Millisecond
	bannerShown  = 1000 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

const chestClosed = `  ╭───────────────╮
  │ ▓▓▓▓▓ ◆ ▓▓▓▓▓ │
  ├───────────────┤
  │               │
  │   ▓▓▓▓▓▓▓▓▓   │
  ╰───────────────╯`

const chestOpened = `  ╭───────────────╮
  │   字  宝  书   │
  ├───────────────┤
  │  山 水 日 月  │
  │   ▓▓▓▓▓▓▓▓▓   │
  ╰───────────────╯`

// glitter cycles above the open chest.
var glitter = []string{"✦ ✧ ✦", "✧ ✦ ✧"}

type tickMsg time.Time

// WelcomeScreen plays a short treasure chest animation, then replaces itself
// with the screen from next.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	ticks        int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that hands over to next.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.ticks++
		return w, tick()

	case tea.KeyPressMsg:
		if w.elapsed >= totalDur {
			return w, w.transition()
		}
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	chest := chestClosed
	if w.elapsed >= chestOpen {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Gold).Render(glitter[w.ticks%len(glitter)]))
		chest = chestOpened
	}
	sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Render(chest))

	if w.elapsed >= bannerShown {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("一起来收集汉字宝藏！"),
		)
	}
	if w.elapsed >= totalDur {
		sections = append(sections, "", theme.Hint.Render("按任意键开始"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
