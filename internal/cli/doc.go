// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the folio command tree.
//
//	folio                  Start the TUI (default)
//	folio ask "question"   Ask the assistant once
//	folio chat             Line-mode chat with history
//	folio contact ...      Send the contact form
//	folio config ...       Show, locate, create, read or change configuration
//	folio version          Print version information
//
// Colored output is disabled when stdout is not a terminal or NO_COLOR is
// set.
package cli
