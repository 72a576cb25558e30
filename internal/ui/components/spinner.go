// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the folio TUI.
package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/folio-tui/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// Typing is the assistant's "typing" row. It animates only while active;
// the chat log decides when it is shown.
type Typing struct {
	spinner spinner.Model
	message string
	active  bool
}

// NewTyping creates an idle typing indicator.
func NewTyping() Typing {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
		FPS:    time.Second / 6,
	}
	return Typing{spinner: s, message: "Assistant is typing"}
}

// Sync starts or stops the animation to match visible and returns the
// command that starts ticking, if any.
func (t *Typing) Sync(visible bool) tea.Cmd {
	if visible == t.active {
		return nil
	}
	t.active = visible
	if visible {
		return t.spinner.Tick
	}
	return nil
}

// Active reports whether the indicator is shown.
func (t Typing) Active() bool { return t.active }

// Update advances the animation.
func (t Typing) Update(msg tea.Msg) (Typing, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the row, or "" when idle.
func (t Typing) View() string {
	if !t.active {
		return ""
	}
	return lipgloss.NewStyle().Foreground(styles.TextSecondary).Italic(true).Render(t.message) +
		lipgloss.NewStyle().Foreground(styles.Purple).Render(t.spinner.View())
}
