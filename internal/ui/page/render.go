// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package page

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/folio-tui/internal/chat"
	"github.com/jeranaias/folio-tui/internal/ui/styles"
)

// messageRenderer renders the chat log for the viewport. Messages are
// immutable, so rendered output is cached by ID until the width changes.
type messageRenderer struct {
	theme *styles.Theme
	width int
	md    *glamour.TermRenderer
	cache map[int]string

	// what the viewport last showed
	count  int
	stamp  int
	typing bool
}

func newMessageRenderer(theme *styles.Theme) *messageRenderer {
	return &messageRenderer{theme: theme, width: 60, cache: make(map[int]string), count: -1}
}

// SetWidth drops the cache when the wrap width changes.
func (r *messageRenderer) SetWidth(w int) {
	if w == r.width {
		return
	}
	r.width = w
	r.md = nil
	r.cache = make(map[int]string)
	r.count = -1
}

// Stale reports whether the log changed since the last Render.
func (r *messageRenderer) Stale(log *chat.Log) bool {
	last, _ := log.Last()
	return log.Len() != r.count || last.ID != r.stamp || log.Typing() != r.typing
}

// Render returns the whole log as viewport content.
func (r *messageRenderer) Render(log *chat.Log) string {
	msgs := log.Messages()
	r.count = len(msgs)
	r.stamp = 0
	if len(msgs) > 0 {
		r.stamp = msgs[len(msgs)-1].ID
	}
	r.typing = log.Typing()

	if len(msgs) == 0 {
		return r.theme.Muted.Render("Ask me anything about the work on this site.")
	}
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		out, ok := r.cache[msg.ID]
		if !ok {
			out = r.message(msg)
			r.cache[msg.ID] = out
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, "\n\n")
}

func (r *messageRenderer) message(msg chat.Message) string {
	text := chat.SanitizeTerminal(msg.Text)
	switch {
	case msg.Sender == chat.User:
		return r.theme.UserLabel.Render("You") + "\n" +
			r.theme.UserText.Width(r.width).Render(text)
	case msg.Failure:
		return r.theme.AssistantLabel.Render("Assistant") + "\n" +
			r.theme.FailureText.Width(r.width).Render(text)
	default:
		return r.theme.AssistantLabel.Render("Assistant") + "\n" + r.markdown(text)
	}
}

// markdown renders assistant text, falling back to plain wrapping.
func (r *messageRenderer) markdown(text string) string {
	if r.md == nil {
		md, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.theme.GlamourStyle()),
			glamour.WithWordWrap(r.width),
		)
		if err != nil {
			return r.theme.AssistantText.Width(r.width).Render(text)
		}
		r.md = md
	}
	out, err := r.md.Render(text)
	if err != nil {
		return r.theme.AssistantText.Width(r.width).Render(text)
	}
	return strings.Trim(out, "\n")
}
