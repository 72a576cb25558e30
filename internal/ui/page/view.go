// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package page

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/folio-tui/internal/carousel"
	"github.com/jeranaias/folio-tui/internal/contact"
	"github.com/jeranaias/folio-tui/internal/ui/components"
	"github.com/jeranaias/folio-tui/internal/ui/styles"
	"github.com/jeranaias/folio-tui/internal/util"
)

// Rendered heights, borders included.
const (
	reelHeight    = 7
	contactHeight = 9
)

// View renders the page.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.header.View()}
	if toasts := m.toasts.Toasts(); len(toasts) > 0 {
		sections = append(sections, components.RenderToastStack(toasts, m.width))
	}
	sections = append(sections, m.renderReel())

	contactPane := m.renderContact()
	if m.app.Chat.IsOpen() {
		chatPane := m.renderChat()
		if m.theme.GetLayoutMode() == styles.LayoutNarrow {
			sections = append(sections, chatPane, contactPane)
		} else {
			sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, chatPane, contactPane))
		}
	} else {
		sections = append(sections, contactPane)
	}

	if m.showHelp {
		sections = append(sections, m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		sections = append(sections, m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) pane(title string, focused bool, width int, body string) string {
	style := m.theme.Pane
	if focused {
		style = m.theme.PaneFocused
	}
	return style.Width(width - 2).Render(m.theme.PaneTitle.Render(title) + "\n" + body)
}

// =============================================================================
// REEL
// =============================================================================

func (m Model) renderReel() string {
	inner := m.width - 4
	c := m.app.Carousel
	if c == nil {
		return m.pane("Reel", m.focus == FocusReel, m.width, m.theme.Muted.Render("No clips configured."))
	}

	st := c.State()
	item := m.app.Media.Item(st.Current)

	var dots strings.Builder
	for i := 0; i < c.Len(); i++ {
		if i == st.Current {
			dots.WriteString(m.theme.ReelDotOn.Render("●"))
		} else {
			dots.WriteString(m.theme.ReelDot.Render("○"))
		}
		if i < c.Len()-1 {
			dots.WriteString(" ")
		}
	}

	title := item.Title
	if title == "" {
		title = fmt.Sprintf("Clip %d", st.Current+1)
	}
	lines := []string{
		m.theme.ReelTitle.Render(util.TruncateWidth(util.SingleLine(title), inner)),
		m.theme.ReelCaption.Render(util.TruncateWidth(util.SingleLine(item.Caption), inner)),
		dots.String() + m.theme.Muted.Render(fmt.Sprintf("  %d/%d", st.Current+1, c.Len())),
		m.reelStatus(st),
	}
	return m.pane("Reel", m.focus == FocusReel, m.width, strings.Join(lines, "\n"))
}

func (m Model) reelStatus(st carousel.State) string {
	parts := []string{m.theme.ReelState.Render(m.app.Media.State(st.Current).String())}
	if st.Phase == carousel.Transitioning {
		parts = append(parts, m.theme.ReelPhase.Render(fmt.Sprintf("switching %d → %d", st.From+1, st.To+1)))
	}
	switch {
	case !m.app.Carousel.Visible():
		parts = append(parts, m.theme.Muted.Render("paused"))
	case m.app.Carousel.AutoplayActive():
		parts = append(parts, m.theme.Muted.Render("autoplay "+m.app.Carousel.Config().AutoplayInterval.String()))
	}
	return strings.Join(parts, m.theme.Muted.Render(" · "))
}

// =============================================================================
// CHAT
// =============================================================================

func (m Model) renderChat() string {
	width := m.paneWidth()
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if row := m.typing.View(); row != "" {
		b.WriteString(row)
	} else if m.app.Chat.Log().Len() == 0 {
		b.WriteString(m.renderQuickReplies())
	}
	b.WriteString("\n")

	prompt := m.input.View()
	if m.app.Voice.Listening() {
		prompt = m.theme.Listening.Render("● ") + prompt
	}
	b.WriteString(prompt)

	return m.pane("Chat", m.focus == FocusChat, width, b.String())
}

func (m Model) renderQuickReplies() string {
	replies := m.app.Chat.QuickReplies()
	if len(replies) == 0 {
		return ""
	}
	parts := make([]string, 0, len(replies))
	for i, r := range replies {
		if i >= 9 {
			break
		}
		parts = append(parts, m.theme.QuickReply.Render(fmt.Sprintf("M-%d %s", i+1, r)))
	}
	return util.TruncateWidth(strings.Join(parts, " "), m.viewport.Width)
}

// =============================================================================
// CONTACT
// =============================================================================

func (m Model) renderContact() string {
	width := m.paneWidth()
	if !m.app.Chat.IsOpen() {
		width = m.width
	}

	lines := make([]string, 0, fieldCount+2)
	for i := 0; i < fieldCount; i++ {
		label := m.theme.FieldLabel
		if m.focus.isForm() && m.focus.formField() == i {
			label = m.theme.FieldLabelFocused
		}
		lines = append(lines, label.Width(9).Render(fieldLabels[i])+m.form.inputs[i].View())
	}

	status := m.app.Contact.Status()
	switch {
	case m.app.Contact.Submitting():
		lines = append(lines, m.theme.Muted.Render("Sending..."))
	case status.Kind == contact.StatusSuccess:
		lines = append(lines, m.theme.StatusSuccess.Render(status.Text))
	case status.Kind == contact.StatusError:
		lines = append(lines, m.theme.StatusError.Render(status.Text))
	default:
		lines = append(lines, m.theme.Muted.Render("enter on Message sends"))
	}
	return m.pane("Contact", m.focus.isForm(), width, strings.Join(lines, "\n"))
}
