// Package history lists recent learner activity from the event log.
package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/zibao/internal/router"
	"github.com/abhisek/zibao/internal/screen"
	"github.com/abhisek/zibao/internal/store"
	"github.com/abhisek/zibao/internal/ui/layout"
	"github.com/abhisek/zibao/internal/ui/theme"
)

// pageSize is how many events are loaded.
const pageSize = 100

type historyLoadedMsg struct {
	Events []store.ActivityEventRecord
	Err    error
}

// HistoryScreen displays recent activity, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	events    []store.ActivityEventRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen reading from eventRepo.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		events, err := s.eventRepo.QueryActivity(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string { return "学习记录" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "详情"},
		{Key: "↑↓", Description: "选择"},
		{Key: "Esc", Description: "返回"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render("\n\n出错了：" + s.errMsg)
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n正在读取记录…")
	}
	if len(s.events) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\n还没有记录，快去闯关吧！")
	}

	var b strings.Builder
	b.WriteString("\n")

	// Keep the selected row on screen.
	rows := max(1, height-2)
	first := 0
	if s.selected >= rows {
		first = s.selected - rows + 1
	}

	lastDay := ""
	for i := first; i < len(s.events) && i < first+rows; i++ {
		ev := s.events[i]
		if day := ev.Timestamp.Local().Format("2006/1/2"); day != lastDay {
			lastDay = day
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Subtitle.Render(day)))
			b.WriteString("\n")
		}

		prefix := "  "
		style := lipgloss.NewStyle().Foreground(kindColor(ev.Kind))
		if i == s.selected {
			prefix = "> "
			style = style.Bold(true)
		}
		line := fmt.Sprintf("%s%s  %s", prefix, ev.Timestamp.Local().Format("15:04"), Describe(ev.ActivityEventData))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(details(ev))))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Describe renders an activity as a short line for the learner.
func Describe(e store.ActivityEventData) string {
	switch e.Kind {
	case store.ActivityLevelUnlocked:
		return fmt.Sprintf("🔓 解锁第 %d 关", e.LevelID)
	case store.ActivityTreasureAdded:
		return "💎 收集了「" + e.Detail + "」"
	case store.ActivityTreasureRemoved:
		return "↩ 放回了「" + e.Detail + "」"
	case store.ActivityChallengeStarted:
		return fmt.Sprintf("🎯 开始第 %d 关挑战", e.LevelID)
	case store.ActivityChallengeCompleted:
		return fmt.Sprintf("🏆 完成第 %d 关挑战", e.LevelID)
	case store.ActivityStoryFinished:
		return "📖 读完《" + e.Detail + "》"
	case store.ActivityStorySaved:
		return "🪄 收藏了故事《" + e.Detail + "》"
	case store.ActivityStoryDeleted:
		return "🗑 删除了一个故事"
	case store.ActivityProgressReset:
		return "♻ 重新开始"
	}
	return string(e.Kind)
}

func details(ev store.ActivityEventRecord) string {
	var parts []string
	parts = append(parts, "#"+fmt.Sprint(ev.Sequence), string(ev.Kind))
	if ev.SessionID != "" {
		parts = append(parts, "session "+ev.SessionID)
	}
	if ev.CharacterID != 0 {
		parts = append(parts, fmt.Sprintf("char %d", ev.CharacterID))
	}
	if ev.Detail != "" {
		parts = append(parts, ev.Detail)
	}
	return "    " + strings.Join(parts, " · ")
}

func kindColor(k store.ActivityKind) color.Color {
	switch k {
	case store.ActivityLevelUnlocked, store.ActivityChallengeCompleted:
		return theme.Accent
	case store.ActivityTreasureAdded:
		return theme.Gold
	case store.ActivityStorySaved, store.ActivityStoryFinished:
		return theme.Magic
	case store.ActivityTreasureRemoved, store.ActivityStoryDeleted, store.ActivityProgressReset:
		return theme.TextDim
	default:
		return theme.Text
	}
}
