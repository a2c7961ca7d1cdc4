package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/zibao/internal/ui/theme"
)

const bannerArt = `
 ███████╗██╗██████╗  █████╗  ██████╗
 ╚══███╔╝██║██╔══██╗██╔══██╗██╔═══██╗
   ███╔╝ ██║██████╔╝███████║██║   ██║
  ███╔╝  ██║██╔══██╗██╔══██║██║   ██║
 ███████╗██║██████╔╝██║  ██║╚██████╔╝
 ╚══════╝╚═╝╚═════╝ ╚═╝  ╚═╝ ╚═════╝`

const bannerCompact = "字 宝  Z I B A O"

// RenderBanner returns the title banner, compact below 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
