// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/folio-tui/internal/chat"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports transcripts to a standalone HTML page.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a transcript to HTML. Message bodies come from the
// escaped Markup field; raw text is never written into the page.
func (e *HTMLExporter) Export(tr *Transcript) ([]byte, error) {
	if err := tr.validate(); err != nil {
		return nil, err
	}

	theme := e.options.Theme
	if theme != "light" {
		theme = "dark"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(tr.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"folio-tui\">\n")
	sb.WriteString(css)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", theme))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(tr))
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range tr.Messages {
		sb.WriteString(e.renderMessage(msg))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>folio</strong> on %s</p>\n",
		formatTimestamp(time.Now())))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string { return ".html" }

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string { return "text/html" }

func (e *HTMLExporter) renderHeader(tr *Transcript) string {
	var sb strings.Builder
	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(tr.Title)))
	sb.WriteString("            <div class=\"metadata\">\n")
	if tr.SessionID != "" {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Session:</strong> %s</span>\n", html.EscapeString(tr.SessionID)))
	}
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Started:</strong> %s</span>\n", formatTimestamp(tr.CreatedAt)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(tr.Messages)))
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")
	return sb.String()
}

func (e *HTMLExporter) renderMessage(msg chat.Message) string {
	class := msg.Sender.String()
	if msg.Failure {
		class += " failure"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", class))
	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n", senderLabel(msg)))
	if e.options.IncludeTimestamps && !msg.At.IsZero() {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.At)))
	}
	sb.WriteString("                </div>\n")

	body := msg.Markup
	if body == "" && msg.Text != "" {
		body = chat.EscapeHTML(msg.Text)
	}
	body = strings.ReplaceAll(body, "\n", "<br>\n")
	sb.WriteString(fmt.Sprintf("                <div class=\"message-content\"><p>%s</p></div>\n", body))
	sb.WriteString("            </div>\n")
	return sb.String()
}

const css = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --text-primary: #c0caf5;
            --text-muted: #565f89;
            --border-color: #414868;
            --user-bg: #1f2335;
            --accent: #7aa2f7;
            --accent-red: #f7768e;
        }

        .light-theme {
            --bg-primary: #f5f5f5;
            --bg-secondary: #ffffff;
            --text-primary: #24292f;
            --text-muted: #6e7781;
            --border-color: #d0d7de;
            --user-bg: #eef4ff;
            --accent: #0969da;
            --accent-red: #cf222e;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            background: var(--bg-primary);
            color: var(--text-primary);
            line-height: 1.6;
            padding: 20px;
        }

        .container { max-width: 860px; margin: 0 auto; }
        .header, .footer { padding: 24px; color: var(--text-muted); }
        .header h1 { color: var(--accent); margin-bottom: 8px; }
        .meta-item { margin-right: 16px; }

        .message {
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            padding: 16px 20px;
            margin-bottom: 12px;
        }
        .user-message { background: var(--user-bg); margin-left: 15%; }
        .failure { border-color: var(--accent-red); }
        .message-header { display: flex; justify-content: space-between; margin-bottom: 6px; }
        .role-label { font-weight: 600; color: var(--accent); }
        .timestamp { color: var(--text-muted); font-size: 0.85em; }
        .message-content { white-space: normal; word-wrap: break-word; }

        @media print {
            .message { page-break-inside: avoid; }
        }
    </style>
`
