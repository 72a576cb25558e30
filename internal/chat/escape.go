// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML encodes & < > " and ' so text can be placed in markup inert.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// SanitizeTerminal drops control characters, escape sequences included,
// keeping newlines and tabs. Untrusted text goes through it before it is
// written to the terminal.
func SanitizeTerminal(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		case r >= 0x80 && r <= 0x9f:
			return -1
		}
		return r
	}, s)
}
