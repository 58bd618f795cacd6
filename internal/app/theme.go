package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

var (
	headerStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Bold(true)
	statusInfoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("29")).Bold(true)
	sharedBadgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("136")).Bold(true)
	userLabelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	assistantLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	metaStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)
	progressStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	errorTextStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dialogTitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("251")).Background(lipgloss.Color("235")).Bold(true)
	dialogBodyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("235"))
	dialogSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	dialogBorderStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("208"))
)

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	if xansi.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return xansi.Cut(text, 0, width-1) + "…"
}

func padToWidth(text string, width int) string {
	gap := width - xansi.StringWidth(text)
	if gap <= 0 {
		return text
	}
	return text + strings.Repeat(" ", gap)
}
