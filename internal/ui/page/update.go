// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package page

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/folio-tui/internal/carousel"
	"github.com/jeranaias/folio-tui/internal/contact"
	"github.com/jeranaias/folio-tui/internal/loop"
	"github.com/jeranaias/folio-tui/internal/telemetry"
	"github.com/jeranaias/folio-tui/internal/ui/components"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case loop.RunMsg:
		if msg.Fn != nil && !m.quitting {
			msg.Fn()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()

	case tea.FocusMsg:
		m.setVisible(true)

	case tea.BlurMsg:
		m.setVisible(false)

	case components.ToastTickMsg:
		if len(m.toasts.Tick()) == 0 {
			m.ticking = false
		} else {
			cmds = append(cmds, components.ToastTickCmd())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	default:
		// Cursor blink and friends go to the focused input.
		cmds = append(cmds, m.updateFocused(msg))
	}

	if m.quitting {
		return m, tea.Batch(cmds...)
	}
	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

// sync brings the derived view state in line with the components after
// anything that may have changed them.
func (m *Model) sync() tea.Cmd {
	var cmds []tea.Cmd

	log := m.app.Chat.Log()
	if m.render.Stale(log) {
		atBottom := m.viewport.AtBottom()
		m.viewport.SetContent(m.render.Render(log))
		if atBottom || log.Typing() {
			m.viewport.GotoBottom()
		}
	}
	cmds = append(cmds, m.typing.Sync(log.Typing()))

	if !m.ticking && m.toasts.Len() > 0 {
		m.ticking = true
		cmds = append(cmds, components.ToastTickCmd())
	}

	m.input.Placeholder = m.app.Voice.Placeholder()
	m.header.Listening = m.app.Voice.Listening()
	if m.app.Carousel != nil {
		m.header.Hidden = !m.app.Carousel.Visible()
	}

	// The panel can be closed from outside the page.
	if m.focus == FocusChat && !m.app.Chat.IsOpen() {
		cmds = append(cmds, m.setFocus(FocusReel))
	}
	return tea.Batch(cmds...)
}

func (m *Model) setVisible(visible bool) {
	if m.app.Carousel != nil {
		m.app.Carousel.SetVisible(visible)
	}
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if err := m.app.Close(); err != nil {
			m.app.Logger.Warn("shutdown", "error", err)
		}
		return tea.Quit

	case key.Matches(msg, m.keys.ToggleChat):
		open := m.app.Chat.Toggle()
		m.layout()
		m.render.count = -1
		if open {
			return m.setFocus(FocusChat)
		}
		if m.focus == FocusChat {
			return m.setFocus(FocusReel)
		}
		return nil

	case key.Matches(msg, m.keys.Voice):
		if !m.app.Voice.Available() {
			m.toasts.Add("Voice input is not available in this terminal", components.ToastKindWarning, 0)
			return nil
		}
		m.app.Voice.Toggle()
		return nil

	case key.Matches(msg, m.keys.Export):
		m.export()
		return nil

	case key.Matches(msg, m.keys.Focus):
		return m.cycleFocus(1)

	case key.Matches(msg, m.keys.FocusBack):
		return m.cycleFocus(-1)

	case key.Matches(msg, m.keys.Escape):
		if m.focus == FocusReel {
			m.showHelp = !m.showHelp
			return nil
		}
		return m.setFocus(FocusReel)
	}

	if m.app.Carousel != nil {
		before := m.app.Carousel.State()
		if m.keys.Reel.HandleKey(m.app.Carousel, msg, m.InputFocused()) {
			m.trackSwitch(before, m.app.Carousel.State())
			return nil
		}
	}

	switch {
	case m.focus == FocusChat:
		return m.handleChatKey(msg)
	case m.focus.isForm():
		return m.handleFormKey(msg)
	case msg.String() == "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

func (m *Model) trackSwitch(before, after carousel.State) {
	if before.Phase == carousel.Transitioning || after.Phase != carousel.Transitioning {
		return
	}
	m.app.Tracker.Track(telemetry.EventReelSwitch, map[string]any{
		"from":   after.From,
		"to":     after.To,
		"source": "keyboard",
	})
}

func (m *Model) handleChatKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if m.app.Chat.SendMessage(m.input.Value()) {
			m.input.Reset()
		}
		return nil

	case key.Matches(msg, m.keys.QuickReply):
		if m.input.Value() != "" {
			break
		}
		s := msg.String()
		m.app.Chat.SendQuickReply(int(s[len(s)-1] - '1'))
		return nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfViewUp()
		return nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.HalfViewDown()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	if !key.Matches(msg, m.keys.Submit) {
		return m.form.Update(m.focus.formField(), msg)
	}
	if m.focus != FocusMessage {
		return m.setFocus(m.focus + 1)
	}

	err := m.app.Contact.Submit(m.form.Value())
	var fields contact.FieldErrors
	switch {
	case err == nil:
	case errors.Is(err, contact.ErrSubmitting):
	case errors.As(err, &fields) && len(fields) > 0:
		return m.setFocus(FocusName + Focus(fieldIndex(fields[0].Field)))
	}
	return nil
}

func fieldIndex(name string) int {
	for i, label := range fieldLabels {
		if strings.EqualFold(label, name) {
			return i
		}
	}
	return fieldName
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	switch {
	case m.focus == FocusChat:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	case m.focus.isForm():
		return m.form.Update(m.focus.formField(), msg)
	}
	return nil
}

func (m *Model) export() {
	if m.app.Chat.Log().Len() == 0 {
		m.toasts.Add("Nothing to export yet", components.ToastKindWarning, 0)
		return
	}
	path, err := m.app.Export("")
	if err != nil {
		m.app.Logger.Warn("export failed", "error", err)
		m.toasts.AddError(fmt.Sprintf("Export failed: %v", err))
		return
	}
	m.toasts.Add("Exported to "+path, components.ToastKindSuccess, 0)
}
