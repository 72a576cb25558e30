// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package page

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/folio-tui/internal/carousel"
)

// KeyMap defines the page's global bindings. Reel navigation lives in
// carousel.KeyMap.
type KeyMap struct {
	Reel       carousel.KeyMap
	Focus      key.Binding
	FocusBack  key.Binding
	ToggleChat key.Binding
	Voice      key.Binding
	Export     key.Binding
	Submit     key.Binding
	QuickReply key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Escape     key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Reel: carousel.DefaultKeyMap(),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		FocusBack: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous pane"),
		),
		ToggleChat: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "chat"),
		),
		Voice: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("C-v", "voice"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "export"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		QuickReply: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9"),
			key.WithHelp("M-1..9", "quick reply"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to reel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns bindings for the help bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return append(k.Reel.ShortHelp(), k.Focus, k.ToggleChat, k.Voice, k.Export, k.Quit)
}

// FullHelp returns all bindings.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Reel.ShortHelp(),
		{k.Focus, k.FocusBack, k.Escape},
		{k.ToggleChat, k.Submit, k.QuickReply, k.ScrollUp, k.ScrollDown},
		{k.Voice, k.Export, k.Quit},
	}
}
