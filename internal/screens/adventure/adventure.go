// Package adventure is the main screen: the level map, the learn, challenge
// and story stages, and the treasure box, all driven by a session.Controller.
package adventure

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/library"
	"github.com/abhisek/zibao/internal/router"
	"github.com/abhisek/zibao/internal/screen"
	"github.com/abhisek/zibao/internal/screens/history"
	"github.com/abhisek/zibao/internal/session"
	"github.com/abhisek/zibao/internal/speech"
	"github.com/abhisek/zibao/internal/store"
	"github.com/abhisek/zibao/internal/ui/components"
	"github.com/abhisek/zibao/internal/ui/layout"
)

const mapColumns = 4

// AdventureScreen implements screen.Screen over a Controller.
type AdventureScreen struct {
	ctrl   *session.Controller
	events store.EventRepo

	stage session.Stage
	focus int // card, level or glyph under the cursor
	page  int // story page the cursor belongs to

	shelf         components.Menu
	shelfIDs      []int64 // story id per shelf row
	shelfFocused  bool
	confirmDelete bool

	mic       components.TextInput
	listening bool

	spinner components.Spinner
}

var _ screen.Screen = (*AdventureScreen)(nil)
var _ screen.KeyHintProvider = (*AdventureScreen)(nil)

// New creates the screen. events may be nil, which hides the history view.
func New(ctrl *session.Controller, events store.EventRepo) *AdventureScreen {
	return &AdventureScreen{
		ctrl:    ctrl,
		events:  events,
		stage:   ctrl.Stage(),
		mic:     components.NewTextInput("说出这个字（输入识别结果）", 16),
		spinner: components.NewSpinner("魔法师正在写故事…"),
	}
}

func (s *AdventureScreen) Init() tea.Cmd { return nil }

func (s *AdventureScreen) Title() string {
	switch s.ctrl.Stage() {
	case session.StageLearn, session.StageChallenge:
		if level, ok := s.ctrl.Level(); ok {
			return fmt.Sprintf("%s %s", level.Icon, level.Title)
		}
	case session.StageStory:
		if tr := s.ctrl.Reader(); tr != nil {
			return tr.Story().Title
		}
	case session.StageCollection:
		return "我的宝藏箱"
	case session.StageCompose:
		return "魔法故事"
	}
	return "闯关地图"
}

func (s *AdventureScreen) KeyHints() []layout.KeyHint {
	if s.ctrl.Writing() != nil {
		return []layout.KeyHint{
			{Key: "Space", Description: "写一笔"},
			{Key: "X", Description: "写错"},
			{Key: "Esc", Description: "关闭"},
		}
	}
	if s.listening {
		return []layout.KeyHint{
			{Key: "Enter", Description: "判断"},
			{Key: "Esc", Description: "关闭"},
		}
	}
	switch s.ctrl.Stage() {
	case session.StageMap:
		hints := []layout.KeyHint{
			{Key: "←→↑↓", Description: "选关"},
			{Key: "Enter", Description: "进入"},
			{Key: "T", Description: "宝藏箱"},
		}
		if s.events != nil {
			hints = append(hints, layout.KeyHint{Key: "R", Description: "记录"})
		}
		return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "退出"})
	case session.StageLearn:
		return []layout.KeyHint{
			{Key: "←→", Description: "选字"},
			{Key: "Space", Description: "学会了"},
			{Key: "S", Description: "朗读"},
			{Key: "M", Description: "跟读"},
			{Key: "W", Description: "写字"},
			{Key: "C", Description: "挑战"},
			{Key: "Esc", Description: "地图"},
		}
	case session.StageChallenge:
		return []layout.KeyHint{
			{Key: "←→", Description: "选字"},
			{Key: "Enter", Description: "就是它"},
			{Key: "Esc", Description: "地图"},
		}
	case session.StageStory:
		if s.ctrl.LevelComplete() {
			return []layout.KeyHint{{Key: "Enter", Description: "回到地图"}}
		}
		return []layout.KeyHint{
			{Key: "←→", Description: "移动"},
			{Key: "Space", Description: "读这个字"},
			{Key: "N/P", Description: "翻页"},
			{Key: "Esc", Description: "离开"},
		}
	case session.StageCollection:
		if s.confirmDelete {
			return []layout.KeyHint{
				{Key: "Y", Description: "删除"},
				{Key: "N", Description: "保留"},
			}
		}
		return []layout.KeyHint{
			{Key: "Tab", Description: "宝藏/故事"},
			{Key: "Enter", Description: "打开"},
			{Key: "G", Description: "编故事"},
			{Key: "D", Description: "删除故事"},
			{Key: "Esc", Description: "地图"},
		}
	case session.StageCompose:
		return []layout.KeyHint{
			{Key: "Space", Description: "挑字"},
			{Key: "Enter", Description: "交给魔法师"},
			{Key: "Esc", Description: "返回"},
		}
	}
	return nil
}

func (s *AdventureScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case composeDoneMsg:
		s.ctrl.ComposeReady(context.Background(), msg.Chars, msg.Story)
	case tea.KeyMsg:
		cmd = s.handleKey(msg)
	default:
		if s.ctrl.Composing() {
			s.spinner, cmd = s.spinner.Update(msg)
		} else if s.listening {
			s.mic, cmd = s.mic.Update(msg)
		}
	}
	s.sync()
	return s, cmd
}

// sync resets per-stage cursors after the controller changed stage, which
// may also happen from a timer.
func (s *AdventureScreen) sync() {
	if st := s.ctrl.Stage(); st != s.stage {
		s.stage = st
		s.focus = 0
		s.page = 0
		s.shelfFocused = false
		s.confirmDelete = false
		s.closeMic()
	}
	if tr := s.ctrl.Reader(); tr != nil && tr.PageIndex() != s.page {
		s.page = tr.PageIndex()
		s.focus = 0
	}
	if s.ctrl.Stage() == session.StageCollection {
		s.shelf.SetItems(s.shelfItems())
		s.shelf.Focused = s.shelfFocused
	}
}

func (s *AdventureScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.ctrl.Writing() != nil {
		return s.handleWriterKey(msg)
	}
	if s.listening {
		return s.handleMicKey(msg)
	}

	ctx := context.Background()
	switch s.ctrl.Stage() {
	case session.StageMap:
		return s.handleMapKey(ctx, msg)
	case session.StageLearn:
		return s.handleLearnKey(ctx, msg)
	case session.StageChallenge:
		return s.handleChallengeKey(msg)
	case session.StageStory:
		return s.handleStoryKey(ctx, msg)
	case session.StageCollection:
		return s.handleCollectionKey(ctx, msg)
	case session.StageCompose:
		return s.handleComposeKey(msg)
	}
	return nil
}

func (s *AdventureScreen) handleMapKey(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	n := s.ctrl.Curriculum().Len()
	switch msg.String() {
	case "left", "h":
		s.focus = max(0, s.focus-1)
	case "right", "l":
		s.focus = min(n-1, s.focus+1)
	case "up", "k":
		if s.focus-mapColumns >= 0 {
			s.focus -= mapColumns
		}
	case "down", "j":
		if s.focus+mapColumns < n {
			s.focus += mapColumns
		}
	case "enter", "space":
		s.ctrl.SelectLevel(ctx, s.focus+1)
	case "t":
		s.ctrl.OpenCollection()
	case "r":
		if s.events != nil {
			return func() tea.Msg { return router.PushScreenMsg{Screen: history.New(s.events)} }
		}
	}
	return nil
}

func (s *AdventureScreen) handleLearnKey(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	level, ok := s.ctrl.Level()
	if !ok {
		return nil
	}
	chars := level.Characters
	switch msg.String() {
	case "esc":
		s.ctrl.BackToMap()
	case "left", "h":
		s.focus = max(0, s.focus-1)
	case "right", "l":
		s.focus = min(len(chars)-1, s.focus+1)
	case "space", "enter":
		s.ctrl.ToggleLearned(ctx, chars[s.focus])
	case "s":
		s.ctrl.SpeakCharacter(chars[s.focus])
	case "w":
		s.ctrl.OpenWriter(chars[s.focus])
	case "m":
		s.listening = true
		s.mic.Reset()
		return s.mic.Init()
	case "c":
		_ = s.ctrl.StartChallenge(ctx)
	}
	return nil
}

func (s *AdventureScreen) handleChallengeKey(msg tea.KeyMsg) tea.Cmd {
	game := s.ctrl.Challenge()
	if game == nil {
		return nil
	}
	cards := game.Cards()
	switch msg.String() {
	case "esc":
		s.ctrl.BackToMap()
	case "left", "h":
		s.focus = max(0, s.focus-1)
	case "right", "l":
		s.focus = min(len(cards)-1, s.focus+1)
	case "enter", "space":
		if s.focus < len(cards) {
			s.ctrl.Answer(cards[s.focus])
		}
	}
	return nil
}

func (s *AdventureScreen) handleStoryKey(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	tr := s.ctrl.Reader()
	if tr == nil {
		return nil
	}
	if s.ctrl.LevelComplete() {
		if k := msg.String(); k == "enter" || k == "esc" || k == "space" {
			s.ctrl.BackToMap()
		}
		return nil
	}
	glyphs := []rune(tr.Page().Text)
	switch msg.String() {
	case "esc":
		if s.ctrl.ReadingComposed() {
			s.ctrl.OpenCollection()
		} else {
			s.ctrl.BackToMap()
		}
	case "left", "h":
		s.focus = max(0, s.focus-1)
	case "right", "l":
		s.focus = min(len(glyphs)-1, s.focus+1)
	case "space", "enter":
		s.ctrl.MarkRead(tr.PageIndex(), s.focus)
	case "n", "pgdown":
		s.ctrl.StoryNext(ctx)
	case "p", "pgup":
		s.ctrl.StoryPrev()
	}
	return nil
}

func (s *AdventureScreen) handleCollectionKey(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	if s.confirmDelete {
		switch msg.String() {
		case "y":
			if id, ok := s.shelfSelection(); ok {
				s.ctrl.DeleteSavedStory(ctx, id)
			}
			s.confirmDelete = false
		case "n", "esc":
			s.confirmDelete = false
		}
		return nil
	}

	treasures := s.ctrl.Treasures().Treasures()
	switch msg.String() {
	case "esc":
		s.ctrl.BackToMap()
		return nil
	case "tab":
		s.shelfFocused = !s.shelfFocused && s.ctrl.Library().Len() > 0
		return nil
	case "g":
		s.ctrl.OpenCompose()
		return nil
	}

	if s.shelfFocused {
		if msg.String() == "d" {
			if _, ok := s.shelfSelection(); ok {
				s.confirmDelete = true
			}
			return nil
		}
		var cmd tea.Cmd
		s.shelf, cmd = s.shelf.Update(msg)
		return cmd
	}

	if len(treasures) == 0 {
		return nil
	}
	s.focus = min(s.focus, len(treasures)-1)
	switch msg.String() {
	case "left", "h":
		s.focus = max(0, s.focus-1)
	case "right", "l":
		s.focus = min(len(treasures)-1, s.focus+1)
	case "s":
		s.ctrl.SpeakCharacter(treasures[s.focus])
	case "w":
		s.ctrl.OpenWriter(treasures[s.focus])
	case "x":
		s.ctrl.ToggleLearned(ctx, treasures[s.focus])
	}
	return nil
}

func (s *AdventureScreen) handleComposeKey(msg tea.KeyMsg) tea.Cmd {
	treasures := s.ctrl.Treasures().Treasures()
	switch msg.String() {
	case "esc":
		s.ctrl.CloseCompose()
	case "left", "h":
		s.focus = max(0, s.focus-1)
	case "right", "l":
		s.focus = min(len(treasures)-1, s.focus+1)
	case "space":
		if s.focus < len(treasures) {
			s.ctrl.ToggleComposeSelection(treasures[s.focus].Char)
		}
	case "enter":
		return s.compose()
	}
	return nil
}

// compose starts generation off the event loop. The result comes back as a
// composeDoneMsg.
func (s *AdventureScreen) compose() tea.Cmd {
	gen := s.ctrl.Stories()
	if gen == nil {
		return nil
	}
	chars, ok := s.ctrl.BeginCompose()
	if !ok {
		return nil
	}
	generate := func() tea.Msg {
		return composeDoneMsg{Chars: chars, Story: gen.Generate(context.Background(), chars)}
	}
	return tea.Batch(s.spinner.Tick, generate)
}

func (s *AdventureScreen) handleWriterKey(msg tea.KeyMsg) tea.Cmd {
	quiz := s.ctrl.Writing()
	switch msg.String() {
	case "esc":
		s.ctrl.CloseWriter()
	case "space", "enter":
		quiz.Stroke()
	case "x":
		quiz.Miss()
	}
	return nil
}

func (s *AdventureScreen) handleMicKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.closeMic()
		return nil
	case "enter":
		ch, ok := s.focusedCharacter()
		if !ok {
			s.closeMic()
			return nil
		}
		v := s.ctrl.PronunciationResult(ch, s.mic.Value(), nil)
		s.mic.Submit(v == speech.Matched)
		return nil
	}
	if s.mic.Submitted() {
		s.mic.Reset()
	}
	var cmd tea.Cmd
	s.mic, cmd = s.mic.Update(msg)
	return cmd
}

func (s *AdventureScreen) closeMic() {
	s.listening = false
	s.mic.Reset()
}

func (s *AdventureScreen) focusedCharacter() (curriculum.Character, bool) {
	level, ok := s.ctrl.Level()
	if !ok || s.focus >= len(level.Characters) {
		return curriculum.Character{}, false
	}
	return level.Characters[s.focus], true
}

func (s *AdventureScreen) shelfSelection() (int64, bool) {
	if _, ok := s.shelf.Current(); !ok || s.shelf.Selected >= len(s.shelfIDs) {
		return 0, false
	}
	return s.shelfIDs[s.shelf.Selected], true
}

func (s *AdventureScreen) shelfItems() []components.MenuItem {
	stories := s.ctrl.Library().Stories()
	items := make([]components.MenuItem, 0, len(stories))
	s.shelfIDs = s.shelfIDs[:0]
	for _, st := range stories {
		s.shelfIDs = append(s.shelfIDs, st.ID)
		items = append(items, components.MenuItem{
			Label:  st.Title,
			Detail: shelfDetail(st),
			Action: s.openStory(st.ID),
		})
	}
	return items
}

func (s *AdventureScreen) openStory(id int64) func() tea.Cmd {
	return func() tea.Cmd {
		s.ctrl.OpenSavedStory(id)
		return nil
	}
}

func shelfDetail(st library.SavedStory) string {
	return fmt.Sprintf("%s  %s", st.Date, strings.Join(st.Characters, "、"))
}
