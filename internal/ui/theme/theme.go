package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette: warm paper colors with bright accents.
var (
	Primary   = lipgloss.Color("#EC4899") // Pink
	Secondary = lipgloss.Color("#38BDF8") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Magic     = lipgloss.Color("#818CF8") // Indigo
	Gold      = lipgloss.Color("#FACC15") // Treasure gold
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
	Locked    = lipgloss.Color("#475569") // Muted slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Caption = lipgloss.NewStyle().
		Foreground(Accent).
		Italic(true)
)

// Card states
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Learned = lipgloss.NewStyle().
		Foreground(Gold).
		Bold(true)

	Read = lipgloss.NewStyle().
		Foreground(Secondary).
		Underline(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// tints maps the curriculum's card tint names to terminal colors.
var tints = map[string]color.Color{
	"red":     lipgloss.Color("#F87171"),
	"rose":    lipgloss.Color("#FB7185"),
	"orange":  lipgloss.Color("#FB923C"),
	"amber":   lipgloss.Color("#FBBF24"),
	"yellow":  lipgloss.Color("#FACC15"),
	"lime":    lipgloss.Color("#A3E635"),
	"green":   lipgloss.Color("#4ADE80"),
	"emerald": lipgloss.Color("#34D399"),
	"teal":    lipgloss.Color("#2DD4BF"),
	"cyan":    lipgloss.Color("#22D3EE"),
	"sky":     lipgloss.Color("#38BDF8"),
	"blue":    lipgloss.Color("#60A5FA"),
	"indigo":  lipgloss.Color("#818CF8"),
	"violet":  lipgloss.Color("#A78BFA"),
	"purple":  lipgloss.Color("#C084FC"),
	"fuchsia": lipgloss.Color("#E879F9"),
	"pink":    lipgloss.Color("#F472B6"),
	"gray":    lipgloss.Color("#9CA3AF"),
	"slate":   lipgloss.Color("#94A3B8"),
	"stone":   lipgloss.Color("#A8A29E"),
}

// Tint returns the color for a curriculum tint name, or Border when unknown.
func Tint(name string) color.Color {
	if c, ok := tints[name]; ok {
		return c
	}
	return Border
}
