package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

type confirmChoice int

const (
	confirmChoiceNone confirmChoice = iota
	confirmChoiceConfirm
	confirmChoiceCancel
)

const confirmMaxWidth = 60

// ConfirmController owns the modal yes/no dialog used for restart,
// clone and login prompts. It is keyboard driven; while open it
// captures all key input.
type ConfirmController struct {
	active       bool
	title        string
	message      string
	confirmLabel string
	cancelLabel  string
	selected     int
}

func NewConfirmController() *ConfirmController {
	return &ConfirmController{}
}

func (c *ConfirmController) IsOpen() bool {
	return c != nil && c.active
}

func (c *ConfirmController) Open(title, message, confirmLabel, cancelLabel string) {
	if c == nil {
		return
	}
	c.active = true
	c.title = strings.TrimSpace(title)
	c.message = strings.TrimSpace(message)
	if confirmLabel == "" {
		confirmLabel = "Confirm"
	}
	if cancelLabel == "" {
		cancelLabel = "Cancel"
	}
	c.confirmLabel = confirmLabel
	c.cancelLabel = cancelLabel
	c.selected = 0
}

func (c *ConfirmController) Close() {
	if c == nil {
		return
	}
	c.active = false
	c.title = ""
	c.message = ""
	c.confirmLabel = ""
	c.cancelLabel = ""
	c.selected = 0
}

func (c *ConfirmController) HandleKey(msg tea.KeyMsg) (bool, confirmChoice) {
	if c == nil || !c.active {
		return false, confirmChoiceNone
	}
	switch msg.String() {
	case "esc", "q":
		return true, confirmChoiceCancel
	case "left", "h":
		c.selected = 0
		return true, confirmChoiceNone
	case "right", "l":
		c.selected = 1
		return true, confirmChoiceNone
	case "tab":
		if c.selected == 0 {
			c.selected = 1
		} else {
			c.selected = 0
		}
		return true, confirmChoiceNone
	case "y":
		return true, confirmChoiceConfirm
	case "n":
		return true, confirmChoiceCancel
	case "enter":
		if c.selected == 0 {
			return true, confirmChoiceConfirm
		}
		return true, confirmChoiceCancel
	}
	return true, confirmChoiceNone
}

func (c *ConfirmController) View(maxWidth int) string {
	if c == nil || !c.active {
		return ""
	}
	width := c.dialogWidth()
	if maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}
	innerWidth := max(1, width-2)
	contentWidth := max(1, innerWidth-2)

	title := c.title
	if title == "" {
		title = "Confirm"
	}
	title = truncateToWidth(title, contentWidth)
	lines := []string{dialogTitleStyle.Render(" " + padToWidth(title, contentWidth) + " ")}

	if c.message != "" {
		wrapped := xansi.Hardwrap(c.message, contentWidth, true)
		for _, line := range strings.Split(wrapped, "\n") {
			line = truncateToWidth(line, contentWidth)
			lines = append(lines, dialogBodyStyle.Render(" "+padToWidth(line, contentWidth)+" "))
		}
	}

	confirm := "[" + c.confirmLabel + "]"
	cancel := "[" + c.cancelLabel + "]"
	leftWidth := contentWidth / 2
	rightWidth := contentWidth - leftWidth
	confirm = padToWidth(truncateToWidth(confirm, leftWidth), leftWidth)
	cancel = padToWidth(truncateToWidth(cancel, rightWidth), rightWidth)
	if c.selected == 0 {
		confirm = dialogSelectedStyle.Render(confirm)
		cancel = dialogBodyStyle.Render(cancel)
	} else {
		confirm = dialogBodyStyle.Render(confirm)
		cancel = dialogSelectedStyle.Render(cancel)
	}
	lines = append(lines, " "+confirm+cancel+" ")

	return dialogBorderStyle.Render(strings.Join(lines, "\n"))
}

func (c *ConfirmController) dialogWidth() int {
	contentWidth := 0
	title := c.title
	if title == "" {
		title = "Confirm"
	}
	if w := xansi.StringWidth(title); w > contentWidth {
		contentWidth = w
	}
	for _, line := range strings.Split(c.message, "\n") {
		if w := xansi.StringWidth(line); w > contentWidth {
			contentWidth = w
		}
	}
	buttonWidth := xansi.StringWidth(c.confirmLabel) + xansi.StringWidth(c.cancelLabel) + 6
	if buttonWidth > contentWidth {
		contentWidth = buttonWidth
	}
	width := contentWidth + 4
	if width > confirmMaxWidth {
		width = confirmMaxWidth
	}
	return width
}
