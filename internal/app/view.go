package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"parley/internal/types"
)

func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	switch {
	case m.confirm.IsOpen():
		dialog := m.confirm.View(m.viewport.Width)
		b.WriteString(lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, dialog))
	case m.showDocs:
		b.WriteString(lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, m.docsView()))
	default:
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpView()))
	return b.String()
}

func (m *Model) headerView() string {
	title := "parley"
	if m.session != nil {
		name := m.session.Name
		if name == "" {
			name = m.session.ID
		}
		title = name
	}
	parts := []string{headerStyle.Render(truncateToWidth(title, m.viewport.Width/2))}
	if m.session != nil {
		parts = append(parts, metaStyle.Render(string(m.session.Mode)))
		if m.session.Config.Shared {
			parts = append(parts, sharedBadgeStyle.Render(" shared "))
		}
	}
	if m.viewer.Authenticated() {
		parts = append(parts, metaStyle.Render("signed in as "+m.viewer.ID))
	} else {
		parts = append(parts, metaStyle.Render("not signed in"))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) statusView() string {
	if m.busy {
		return m.loader.View() + " " + statusStyle.Render("working...")
	}
	if m.statusMsg == "" {
		return ""
	}
	if m.statusIsErr {
		return statusErrorStyle.Render(" " + truncateToWidth(m.statusMsg, m.viewport.Width-2) + " ")
	}
	return statusInfoStyle.Render(" " + truncateToWidth(m.statusMsg, m.viewport.Width-2) + " ")
}

func (m *Model) docsView() string {
	body := "Drop files into the session's data directory,\nthen restart fine-tuning from the web app.\n\npress esc to close"
	return dialogBorderStyle.Render(body)
}

func (m *Model) helpView() string {
	keys := []string{"enter send", "ctrl+r restart", "ctrl+s share", "ctrl+n clone"}
	if m.session != nil && m.session.Mode == types.SessionModeFinetune {
		keys = append(keys, "ctrl+d add docs")
	}
	keys = append(keys, "ctrl+y copy", "esc quit")
	return truncateToWidth(strings.Join(keys, " · "), m.viewport.Width)
}
