// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/folio-tui/internal/ui/styles"
	"github.com/jeranaias/folio-tui/internal/util"
)

// Header is the title bar.
type Header struct {
	Title     string
	Site      string
	Voice     bool
	Listening bool
	Hidden    bool
	Width     int
	theme     *styles.Theme
}

// NewHeader creates a header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Title: "folio", Width: 80, theme: theme}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) { h.Width = width }

// View renders the header on one line.
func (h *Header) View() string {
	width := h.Width
	if width < 20 {
		width = 20
	}

	left := h.theme.Brand.Render(h.Title)
	if h.Site != "" {
		left += h.theme.Muted.Render("  " + util.TruncateWidth(h.Site, width/2))
	}

	var badges []string
	if h.Hidden {
		badges = append(badges, h.theme.Muted.Render("paused"))
	}
	switch {
	case h.Listening:
		badges = append(badges, h.theme.Listening.Render("● listening"))
	case h.Voice:
		badges = append(badges, h.theme.Muted.Render("mic"))
	}
	right := strings.Join(badges, "  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return h.theme.Header.Render(left + strings.Repeat(" ", gap) + right)
}
