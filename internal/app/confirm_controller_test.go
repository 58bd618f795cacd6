package app

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmDialogEnterPicksSelectedButton(t *testing.T) {
	c := NewConfirmController()
	c.Open("Restart session?", "Restarting resets the model.", "Restart", "Cancel")

	handled, choice := c.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if !handled || choice != confirmChoiceConfirm {
		t.Fatalf("expected confirm on enter, handled=%v choice=%v", handled, choice)
	}

	if handled, _ = c.HandleKey(tea.KeyMsg{Type: tea.KeyTab}); !handled {
		t.Fatalf("expected tab to be handled")
	}
	_, choice = c.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if choice != confirmChoiceCancel {
		t.Fatalf("expected cancel after tab, got %v", choice)
	}
}

func TestConfirmDialogShortcutKeys(t *testing.T) {
	c := NewConfirmController()
	c.Open("Clone session?", "Clone it into your account.", "Clone", "Cancel")

	if _, choice := c.HandleKey(keyRunes("y")); choice != confirmChoiceConfirm {
		t.Fatalf("expected y to confirm, got %v", choice)
	}
	if _, choice := c.HandleKey(keyRunes("n")); choice != confirmChoiceCancel {
		t.Fatalf("expected n to cancel, got %v", choice)
	}
	if _, choice := c.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}); choice != confirmChoiceCancel {
		t.Fatalf("expected esc to cancel, got %v", choice)
	}
}

func TestConfirmDialogCapturesAllKeysWhileOpen(t *testing.T) {
	c := NewConfirmController()
	c.Open("Sign in required", "", "Sign in", "Cancel")

	handled, choice := c.HandleKey(keyRunes("x"))
	if !handled || choice != confirmChoiceNone {
		t.Fatalf("expected unrelated key to be swallowed, handled=%v choice=%v", handled, choice)
	}

	c.Close()
	if handled, _ := c.HandleKey(keyRunes("y")); handled {
		t.Fatalf("expected closed dialog to ignore keys")
	}
}

func TestConfirmDialogViewWrapsLongMessageWithinMaxWidth(t *testing.T) {
	c := NewConfirmController()
	long := strings.Repeat("a-very-long-session-name-", 6)
	c.Open("Clone session?", "Clone "+long+" into your account?", "Clone", "Cancel")

	view := c.View(confirmMaxWidth)
	plain := xansi.Strip(view)
	lines := strings.Split(plain, "\n")
	if len(lines) <= 4 {
		t.Fatalf("expected wrapped dialog lines, got %d lines: %q", len(lines), plain)
	}
	for _, line := range lines {
		if w := xansi.StringWidth(line); w > confirmMaxWidth {
			t.Fatalf("expected lines to fit max width %d, got %d: %q", confirmMaxWidth, w, line)
		}
	}
}
