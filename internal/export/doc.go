// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts to files.
//
// # Supported Formats
//
//   - Markdown: human-readable, with YAML frontmatter
//   - HTML: standalone page with embedded CSS; message bodies use the
//     escaped markup form so transcript text is never interpreted
//   - JSON: machine-readable message list
//
// # Usage
//
//	tr := export.FromLog("Chat", sessionID, log)
//	path, err := export.ExportToFile(tr, export.NewHTMLExporter(nil), nil)
package export
