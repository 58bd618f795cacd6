package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"parley/internal/live"
	"parley/internal/types"
)

// renderTranscript renders the session's interactions as a scrollable
// transcript. When a live view is present it replaces the body of the
// streaming interaction so deltas show up without waiting for the next
// full snapshot.
func renderTranscript(session *types.Session, view *live.View, width int) string {
	if session == nil {
		return helpStyle.Render("no session loaded")
	}
	if width <= 0 {
		width = 80
	}
	blocks := make([]string, 0, len(session.Interactions)+1)
	for _, interaction := range session.Interactions {
		if interaction == nil {
			continue
		}
		message := interaction.Message
		progress := interaction.Progress
		status := interaction.Status
		if view != nil && view.InteractionID == interaction.ID {
			message = view.Message
			progress = view.Progress
			status = view.Status
		}
		block := renderInteraction(interaction, message, progress, status, width)
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	if len(blocks) == 0 {
		return helpStyle.Render("no interactions yet")
	}
	return strings.Join(blocks, "\n\n")
}

func renderInteraction(interaction *types.Interaction, message string, progress int, status string, width int) string {
	label := userLabelStyle.Render("you")
	if interaction.Creator == types.CreatorSystem {
		label = assistantLabelStyle.Render("assistant")
	}
	meta := interaction.Created.Format("15:04")
	header := label + " " + metaStyle.Render(meta)

	lines := []string{header}
	switch {
	case interaction.State == types.InteractionStateError && interaction.Error != "":
		lines = append(lines, errorTextStyle.Render(wrapPlain(interaction.Error, width)))
	case message != "":
		if interaction.Creator == types.CreatorSystem {
			lines = append(lines, renderMarkdown(message, width))
		} else {
			lines = append(lines, wrapPlain(message, width))
		}
	}
	if badge := progressBadge(progress, status); badge != "" {
		lines = append(lines, badge)
	}
	if len(lines) == 1 && interaction.State == types.InteractionStateWaiting {
		lines = append(lines, metaStyle.Render("waiting..."))
	}
	return strings.Join(lines, "\n")
}

// progressBadge formats fine-tune style progress. Either field may be
// absent on its own.
func progressBadge(progress int, status string) string {
	switch {
	case progress > 0 && status != "":
		return progressStyle.Render(fmt.Sprintf("%d%%", progress)) + " " + statusStyle.Render(status)
	case progress > 0:
		return progressStyle.Render(fmt.Sprintf("%d%%", progress))
	case status != "":
		return statusStyle.Render(status)
	}
	return ""
}

func wrapPlain(text string, width int) string {
	if width <= 0 {
		return text
	}
	return strings.TrimRight(ansi.Hardwrap(text, width, true), "\n")
}
