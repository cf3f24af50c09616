package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      = ac("240", "243")
	colorAccent     = ac("27", "62")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorBorder     = ac("250", "243")
	colorWarn       = ac("166", "214")
	colorError      = ac("160", "203")
	colorContainer  = ac("25", "75")
)

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted     = lipgloss.NewStyle().Foreground(colorMuted)
	styleSelected  = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
	styleContainer = lipgloss.NewStyle().Foreground(colorContainer).Bold(true)
	styleLeaf      = lipgloss.NewStyle()
	styleHidden    = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	styleMarked    = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	styleStatus    = lipgloss.NewStyle().Foreground(colorMuted)
	styleError     = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	stylePane      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
)
