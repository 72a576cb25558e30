// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the folio TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Header / footer
	Header   lipgloss.Style
	Brand    lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	// Panes
	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style

	// Reel
	ReelTitle   lipgloss.Style
	ReelCaption lipgloss.Style
	ReelDot     lipgloss.Style
	ReelDotOn   lipgloss.Style
	ReelPhase   lipgloss.Style
	ReelState   lipgloss.Style

	// Chat
	UserLabel      lipgloss.Style
	UserText       lipgloss.Style
	AssistantLabel lipgloss.Style
	AssistantText  lipgloss.Style
	FailureText    lipgloss.Style
	Typing         lipgloss.Style
	QuickReply     lipgloss.Style
	Listening      lipgloss.Style

	// Contact form
	FieldLabel        lipgloss.Style
	FieldLabelFocused lipgloss.Style
	StatusSuccess     lipgloss.Style
	StatusError       lipgloss.Style

	Muted lipgloss.Style
}

// NewTheme creates a theme. mode is "dark", "light" or "auto"; auto asks
// the terminal for its background.
func NewTheme(mode string) *Theme {
	t := &Theme{ColorProfile: termenv.ColorProfile()}
	switch mode {
	case "dark":
		t.IsDark = true
	case "light":
		t.IsDark = false
	default:
		t.IsDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(t.IsDark)

	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Padding(0, 1)
	t.Brand = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.HelpKey = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.HelpDesc = lipgloss.NewStyle().Foreground(TextMuted)

	t.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.PaneFocused = t.Pane.BorderForeground(Cyan)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(Purple)

	t.ReelTitle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.ReelCaption = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)
	t.ReelDot = lipgloss.NewStyle().Foreground(OverlayDim)
	t.ReelDotOn = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.ReelPhase = lipgloss.NewStyle().Foreground(Amber)
	t.ReelState = lipgloss.NewStyle().Foreground(TextMuted)

	t.UserLabel = lipgloss.NewStyle().Foreground(UserBubbleBorder).Bold(true)
	t.UserText = lipgloss.NewStyle().Foreground(UserBubbleFg)
	t.AssistantLabel = lipgloss.NewStyle().Foreground(AssistantBubbleBorder).Bold(true)
	t.AssistantText = lipgloss.NewStyle().Foreground(AssistantBubbleFg)
	t.FailureText = lipgloss.NewStyle().Foreground(FailureBubbleFg)
	t.Typing = lipgloss.NewStyle().Foreground(Purple).Italic(true)
	t.QuickReply = lipgloss.NewStyle().
		Foreground(Cyan).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.Listening = lipgloss.NewStyle().Foreground(Amber).Bold(true)

	t.FieldLabel = lipgloss.NewStyle().Foreground(TextSecondary)
	t.FieldLabelFocused = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.StatusSuccess = lipgloss.NewStyle().Foreground(Emerald)
	t.StatusError = lipgloss.NewStyle().Foreground(Rose)

	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// GlamourStyle returns the glamour standard style name matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}
