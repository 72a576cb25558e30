// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package carousel

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the reel navigation bindings.
type KeyMap struct {
	Previous key.Binding
	Next     key.Binding
}

// DefaultKeyMap returns left/h and right/l.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Previous: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous clip"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next clip"),
		),
	}
}

// ShortHelp returns bindings for the help bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next}
}

// FullHelp returns all bindings.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// HandleKey routes a key press to the machine. Keys are left alone while
// a text input has focus. It reports whether the key was a reel binding.
func (k KeyMap) HandleKey(m *Machine, msg tea.KeyMsg, inputFocused bool) bool {
	if inputFocused {
		return false
	}
	switch {
	case key.Matches(msg, k.Previous):
		m.Previous()
		return true
	case key.Matches(msg, k.Next):
		m.Next()
		return true
	}
	return false
}
