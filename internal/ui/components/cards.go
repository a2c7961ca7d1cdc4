package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for centered panels.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel wraps content in a rounded-border panel at the given content width.
func Panel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// Overlay draws content in a double-border box centered in width x height.
func Overlay(content string, width, height int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Magic).
		Padding(1, 4).
		Align(lipgloss.Center).
		Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// CardState is how a character card is drawn.
type CardState struct {
	Focused  bool
	Learned  bool
	Correct  bool
	Wrong    bool
	Shaking  bool
	Selected bool // picked for a composed story
	Revealed bool // show pinyin and words
	Dim      bool
}

// CharCard renders one character card.
func CharCard(ch curriculum.Character, st CardState) string {
	border := theme.Tint(ch.Tint)
	glyph := lipgloss.NewStyle().Bold(true).Foreground(theme.Text)

	switch {
	case st.Wrong:
		border = theme.Error
		glyph = glyph.Foreground(theme.Error)
	case st.Correct:
		border = theme.Success
		glyph = glyph.Foreground(theme.Success)
	case st.Selected:
		border = theme.Magic
	case st.Focused:
		border = theme.Primary
	}
	if st.Dim {
		glyph = glyph.Foreground(theme.TextDim)
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render(ch.Pinyin))
	lines = append(lines, glyph.Render(" "+ch.Char+" "))
	mark := " "
	if st.Learned {
		mark = theme.Learned.Render("★")
	}
	if st.Selected {
		mark = lipgloss.NewStyle().Foreground(theme.Magic).Render("✦")
	}
	lines = append(lines, mark)
	if st.Revealed && len(ch.Words) > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).Render(strings.Join(ch.Words, " ")))
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Align(lipgloss.Center).
		Width(10)
	if st.Shaking {
		style = style.MarginLeft(1)
	} else {
		style = style.MarginRight(1)
	}
	if st.Focused {
		style = style.BorderStyle(lipgloss.ThickBorder())
	}
	return style.Render(strings.Join(lines, "\n"))
}

// CardGrid lays cards out in rows of perRow.
func CardGrid(cards []string, perRow int) string {
	if perRow < 1 {
		perRow = 1
	}
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

// CardsPerRow returns how many cards fit in width.
func CardsPerRow(width int) int {
	n := width / 13
	if n < 1 {
		return 1
	}
	return n
}
