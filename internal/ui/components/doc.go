// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI pieces for the folio TUI.

  - Toast / ToastManager (toast.go) - auto-dismissing notifications; the
    manager satisfies the controllers' Notifier interface.
  - Typing (spinner.go) - the assistant's typing row.
  - Header (header.go) - title bar with site and voice status.
*/
package components
