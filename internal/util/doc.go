// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by folio's packages.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: crash-safe write of a byte slice
//   - AtomicWriteReader: crash-safe write of a stream (media cache downloads)
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth: display-width truncation for terminal cells
//   - SingleLine: collapse whitespace for one-line previews
package util
