// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package page

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/folio-tui/internal/app"
	"github.com/jeranaias/folio-tui/internal/loop"
	"github.com/jeranaias/folio-tui/internal/ui/components"
	"github.com/jeranaias/folio-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// Focus is the pane or field that receives keys.
type Focus int

const (
	FocusReel Focus = iota
	FocusChat
	FocusName
	FocusEmail
	FocusSubject
	FocusMessage
)

// String returns the focus name.
func (f Focus) String() string {
	switch f {
	case FocusChat:
		return "chat"
	case FocusName:
		return "name"
	case FocusEmail:
		return "email"
	case FocusSubject:
		return "subject"
	case FocusMessage:
		return "message"
	default:
		return "reel"
	}
}

func (f Focus) formField() int { return int(f - FocusName) }

func (f Focus) isForm() bool { return f >= FocusName && f <= FocusMessage }

// =============================================================================
// MODEL
// =============================================================================

// Model is the root page model.
type Model struct {
	app    *app.App
	theme  *styles.Theme
	keys   KeyMap
	help   help.Model
	header *components.Header
	toasts *components.ToastManager
	typing components.Typing

	input    textinput.Model
	viewport viewport.Model
	form     *contactForm
	render   *messageRenderer

	focus    Focus
	width    int
	height   int
	ticking  bool
	showHelp bool
	quitting bool
}

// New creates the page for a. toasts must be the Notifier a was built with.
func New(a *app.App, theme *styles.Theme, toasts *components.ToastManager) Model {
	if toasts == nil {
		toasts = components.NewToastManager(a.Clock.Now)
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 2000
	ti.Placeholder = a.Voice.Placeholder()

	header := components.NewHeader(theme)
	header.Site = a.Config.Site.BaseURL
	header.Voice = a.Voice.Available()

	m := Model{
		app:      a,
		theme:    theme,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		header:   header,
		toasts:   toasts,
		typing:   components.NewTyping(),
		input:    ti,
		viewport: viewport.New(60, 10),
		form:     newContactForm(),
		render:   newMessageRenderer(theme),
		width:    80,
		height:   24,
	}
	form := m.form
	a.Contact.OnSuccess(form.Clear)
	m.layout()
	return m
}

// Focus returns the focused pane.
func (m Model) Focus() Focus { return m.focus }

// InputFocused reports whether a text input has focus.
func (m Model) InputFocused() bool { return m.focus != FocusReel }

// Init starts the app on the update goroutine.
func (m Model) Init() tea.Cmd {
	a := m.app
	start := func() tea.Msg {
		return loop.RunMsg{Fn: func() { a.Start(context.Background()) }}
	}
	return tea.Batch(start, textinput.Blink)
}

// setFocus moves focus to f and returns the blink command, if any.
func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	m.input.Blur()
	m.form.Blur()
	switch {
	case f == FocusChat:
		return m.input.Focus()
	case f.isForm():
		return m.form.Focus(f.formField())
	}
	return nil
}

// focusOrder lists the focusable panes in tab order.
func (m Model) focusOrder() []Focus {
	order := []Focus{FocusReel}
	if m.app.Chat.IsOpen() {
		order = append(order, FocusChat)
	}
	return append(order, FocusName, FocusEmail, FocusSubject, FocusMessage)
}

func (m *Model) cycleFocus(step int) tea.Cmd {
	order := m.focusOrder()
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + step + len(order)) % len(order)
	return m.setFocus(order[idx])
}

// layout sizes the panes from the window size.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.help.Width = m.width

	pane := m.paneWidth()
	inner := pane - 4
	if inner < 10 {
		inner = 10
	}
	m.input.Width = inner - 3
	m.form.SetWidth(inner - 10)
	m.viewport.Width = inner

	// header, reel pane, pane chrome, typing row, input, help
	h := m.height - 1 - reelHeight - 4 - 1 - 1 - 1
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		h -= contactHeight
	}
	if h < 3 {
		h = 3
	}
	m.viewport.Height = h
	m.render.SetWidth(inner)
}

func (m Model) paneWidth() int {
	if m.theme.GetLayoutMode() == styles.LayoutNarrow || !m.app.Chat.IsOpen() {
		return m.width
	}
	return m.width / 2
}
