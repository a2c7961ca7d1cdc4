package adventure

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/zibao/internal/challenge"
	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/session"
	"github.com/abhisek/zibao/internal/treasure"
	"github.com/abhisek/zibao/internal/ui/components"
	"github.com/abhisek/zibao/internal/ui/theme"
)

const confettiLine = "✦ ✧ ★ ✦ ✧ ★ ✦ ✧ ★ ✦"

func (s *AdventureScreen) View(width, height int) string {
	if s.ctrl.Writing() != nil {
		return components.Overlay(s.renderWriter(), width, height)
	}
	cw := components.ContentWidth(width)

	var body string
	switch s.ctrl.Stage() {
	case session.StageMap:
		body = s.renderMap(cw)
	case session.StageLearn:
		body = s.renderLearn(cw)
	case session.StageChallenge:
		body = s.renderChallenge(cw)
	case session.StageStory:
		body = s.renderStory(cw)
	case session.StageCollection:
		body = s.renderCollection(cw)
	case session.StageCompose:
		body = s.renderCompose(cw)
	}

	fx := s.ctrl.Effects()
	parts := []string{"", body}
	if fx.ConfettiVisible() {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Gold).Render(confettiLine))
	}
	if c := fx.Caption(); c != "" {
		parts = append(parts, theme.Caption.Render("🔊 "+c))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func (s *AdventureScreen) renderMap(cw int) string {
	cur := s.ctrl.Curriculum()
	prog := s.ctrl.Progress()

	var tiles []string
	for i, level := range cur.Levels() {
		tiles = append(tiles, levelTile(level, i == s.focus, prog.IsUnlocked(level.ID), prog.IsCompleted(level.ID)))
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("汉字闯关"),
		theme.Subtitle.Render(fmt.Sprintf("当前进度：第 %d 关", prog.Count())),
		"",
		components.CardGrid(tiles, mapColumns),
	)
}

func levelTile(level curriculum.Level, focused, unlocked, completed bool) string {
	status := lipgloss.NewStyle().Foreground(theme.Locked).Render("🔒")
	border := theme.Locked
	switch {
	case completed:
		status = theme.Correct.Render("✓ 已通关")
		border = theme.Success
	case unlocked:
		status = lipgloss.NewStyle().Foreground(theme.Accent).Render("▶ 去闯关")
		border = theme.Accent
	}
	if focused {
		border = theme.Primary
	}
	title := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(level.Icon + " " + level.Title)
	if !unlocked {
		title = lipgloss.NewStyle().Foreground(theme.Locked).Render(level.Icon + " " + level.Title)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(16).
		Align(lipgloss.Center).
		MarginRight(1).
		Render(fmt.Sprintf("第 %d 关\n%s\n%s", level.ID, title, status))
}

func (s *AdventureScreen) renderLearn(cw int) string {
	level, ok := s.ctrl.Level()
	if !ok {
		return ""
	}
	tm := s.ctrl.Treasures()
	fx := s.ctrl.Effects()

	cards := make([]string, 0, len(level.Characters))
	learned := 0
	for i, ch := range level.Characters {
		st := components.CardState{
			Focused:  i == s.focus,
			Learned:  tm.IsLearned(ch.ID),
			Revealed: s.ctrl.Revealed(ch.ID),
			Shaking:  fx.Shaking(ch.ID),
		}
		if st.Learned {
			learned++
		}
		cards = append(cards, components.CharCard(ch, st))
	}

	parts := []string{
		theme.Subtitle.Render(fmt.Sprintf("已学会 %d / %d", learned, len(level.Characters))),
		"",
		components.CardGrid(cards, components.CardsPerRow(cw)),
	}
	if s.listening {
		parts = append(parts, "", components.Panel(s.mic.View(), cw))
	}
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (s *AdventureScreen) renderChallenge(cw int) string {
	game := s.ctrl.Challenge()
	if game == nil {
		return ""
	}
	fx := s.ctrl.Effects()
	fb, hasFB := game.Feedback()

	var prompt string
	switch {
	case game.State() == challenge.Completed:
		prompt = theme.Correct.Render("全部找到啦！")
	default:
		if target, ok := game.Target(); ok {
			prompt = theme.Title.Render("找一找：" + target.Pinyin)
		} else {
			prompt = theme.Hint.Render("准备好了吗？")
		}
	}

	cards := game.Cards()
	rendered := make([]string, 0, len(cards))
	for i, ch := range cards {
		st := components.CardState{
			Focused: i == s.focus,
			Shaking: fx.Shaking(ch.ID),
		}
		if hasFB && fb.CharacterID == ch.ID {
			st.Correct = fb.Kind == challenge.KindCorrect
			st.Wrong = fb.Kind == challenge.KindWrong
		}
		rendered = append(rendered, components.CharCard(ch, st))
	}

	bar := components.NewProgressBar("", percent(game.Answered(), game.Total()), cw/2)
	return lipgloss.JoinVertical(lipgloss.Center,
		prompt,
		"",
		components.CardGrid(rendered, components.CardsPerRow(cw)),
		"",
		bar.View(),
	)
}

func (s *AdventureScreen) renderStory(cw int) string {
	tr := s.ctrl.Reader()
	if tr == nil {
		return ""
	}
	page := tr.Page()

	var text strings.Builder
	for i, r := range []rune(page.Text) {
		glyph := string(r)
		style := theme.Body
		switch {
		case i == s.focus && !s.ctrl.LevelComplete():
			style = theme.Selected
		case tr.IsRead(tr.PageIndex(), i):
			style = theme.Read
		}
		text.WriteString(style.Render(glyph))
	}

	parts := []string{
		theme.Hint.Render("🖼  " + page.Image),
		"",
		components.Panel(text.String(), cw),
		theme.Hint.Render(fmt.Sprintf("第 %d / %d 页", tr.PageIndex()+1, tr.PageCount())),
		components.NewProgressBar("阅读", tr.Progress(), cw).View(),
	}
	if s.ctrl.LevelComplete() {
		parts = append(parts, "", theme.Title.Render("🎉 闯关成功！"))
		if level, ok := s.ctrl.Level(); ok {
			if next, ok := s.ctrl.Curriculum().Next(level.ID); ok {
				parts = append(parts, theme.Subtitle.Render("解锁了 "+next.Icon+" "+next.Title))
			}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (s *AdventureScreen) renderCollection(cw int) string {
	tm := s.ctrl.Treasures()
	treasures := tm.Treasures()

	cards := make([]string, 0, len(treasures))
	for i, ch := range treasures {
		cards = append(cards, components.CharCard(ch, components.CardState{
			Focused: i == s.focus && !s.shelfFocused,
			Learned: true,
		}))
	}
	grid := theme.Hint.Render("宝藏箱还是空的，去闯关收集汉字吧！")
	if len(cards) > 0 {
		grid = components.CardGrid(cards, components.CardsPerRow(cw))
	}

	parts := []string{
		theme.Subtitle.Render(fmt.Sprintf("已收集 %d 个汉字", len(treasures))),
		renderStanding(treasure.StandingFor(s.ctrl.Curriculum(), len(treasures))),
		"",
		grid,
		"",
		theme.Title.Render("📚 我的故事书"),
	}
	if len(s.shelf.Items) == 0 {
		parts = append(parts, theme.Hint.Render("还没有故事，按 G 让魔法师编一个"))
	} else {
		parts = append(parts, s.shelf.View())
	}
	if s.confirmDelete {
		parts = append(parts, theme.Incorrect.Render("要删除这个故事吗？(Y/N)"))
	}
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func renderStanding(st treasure.Standing) string {
	var icons []string
	for _, a := range st.Earned {
		icons = append(icons, a.Icon+" "+a.Name)
	}
	line := ""
	if len(icons) > 0 {
		line = lipgloss.NewStyle().Foreground(theme.Gold).Render(strings.Join(icons, "  "))
	}
	if st.Next != nil {
		hint := theme.Hint.Render(fmt.Sprintf("再收集 %d 个字获得 %s %s", st.Remaining, st.Next.Icon, st.Next.Name))
		if line != "" {
			line += "\n"
		}
		line += hint
	}
	return line
}

func (s *AdventureScreen) renderCompose(cw int) string {
	treasures := s.ctrl.Treasures().Treasures()
	selection := s.ctrl.Selection()

	cards := make([]string, 0, len(treasures))
	for i, ch := range treasures {
		cards = append(cards, components.CharCard(ch, components.CardState{
			Focused:  i == s.focus,
			Selected: slices.Contains(selection, ch.Char),
			Dim:      s.ctrl.Composing(),
		}))
	}

	status := theme.Subtitle.Render(fmt.Sprintf("已选 %d / %d：%s",
		len(selection), session.MaxComposeChars, strings.Join(selection, "、")))
	if s.ctrl.Composing() {
		status = s.spinner.View()
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("🪄 挑 2 到 4 个字，编一个故事"),
		"",
		components.CardGrid(cards, components.CardsPerRow(cw)),
		"",
		status,
	)
}

func (s *AdventureScreen) renderWriter() string {
	quiz := s.ctrl.Writing()
	ch := quiz.Character()

	glyph := lipgloss.NewStyle().
		Foreground(theme.Tint(ch.Tint)).
		Bold(true).
		Render(ch.Char)

	strokes := strings.Repeat("●", quiz.Drawn()) + strings.Repeat("○", quiz.Total()-quiz.Drawn())
	lines := []string{
		theme.Subtitle.Render(ch.Pinyin),
		glyph,
		"",
		lipgloss.NewStyle().Foreground(theme.Accent).Render(strokes),
		theme.Hint.Render(fmt.Sprintf("笔画 %d / %d", quiz.Drawn(), quiz.Total())),
	}
	if n := quiz.Misses(); n > 0 {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("写错 %d 次", n)))
	}
	switch {
	case quiz.Done():
		lines = append(lines, theme.Correct.Render("写得真棒！"))
	case quiz.ShowHint():
		lines = append(lines, theme.Incorrect.Render("看清楚描红，再写一次"))
	}
	if s.ctrl.Effects().ConfettiVisible() {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Gold).Render(confettiLine))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return n * 100 / total
}
