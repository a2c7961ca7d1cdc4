// Package app hosts the Bubble Tea program.
package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/zibao/internal/clock"
	"github.com/abhisek/zibao/internal/router"
	"github.com/abhisek/zibao/internal/screen"
	"github.com/abhisek/zibao/internal/screens/adventure"
	"github.com/abhisek/zibao/internal/screens/welcome"
	"github.com/abhisek/zibao/internal/session"
	"github.com/abhisek/zibao/internal/store"
	"github.com/abhisek/zibao/internal/ui/layout"
)

// timerFiredMsg delivers a queued timer back to the event loop.
type timerFiredMsg struct {
	ID uint64
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	ctrl   *session.Controller
	timers *clock.Queue
	width  int
	height int
}

// Options are the dependencies of the program. Timers must be the scheduler
// the controller's feedback coordinator was built on.
type Options struct {
	Controller *session.Controller
	Timers     *clock.Queue
	EventRepo  store.EventRepo

	// SkipWelcome opens the level map directly.
	SkipWelcome bool
}

// NewModel creates the root model. The welcome splash hands over to the
// adventure screen.
func NewModel(opts Options) AppModel {
	main := func() screen.Screen { return adventure.New(opts.Controller, opts.EventRepo) }
	first := main()
	if !opts.SkipWelcome {
		first = welcome.New(main)
	}
	return AppModel{
		router: router.New(first),
		ctrl:   opts.Controller,
		timers: opts.Timers,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.arm()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.ctrl.BackToMap()
			return m, tea.Quit
		}
		cmd = m.router.Update(msg)

	case timerFiredMsg:
		m.timers.Fire(msg.ID)
		// Screens re-sync from the controller on any message.
		cmd = m.router.Update(msg)

	default:
		cmd = m.router.Update(msg)
	}
	return m, tea.Batch(cmd, m.arm())
}

// arm turns timers scheduled during the last update into ticks.
func (m AppModel) arm() tea.Cmd {
	if m.timers == nil {
		return nil
	}
	pending := m.timers.Drain()
	if len(pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(pending))
	for _, p := range pending {
		id := p.ID
		cmds = append(cmds, tea.Tick(p.Delay, func(time.Time) tea.Msg {
			return timerFiredMsg{ID: id}
		}))
	}
	return tea.Batch(cmds...)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.ctrl.Treasures().Count(), m.ctrl.Progress().Count(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	}
	if len(footerHints) == 0 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "返回"},
			{Key: "Ctrl+C", Description: "退出"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
