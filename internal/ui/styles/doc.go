// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the folio TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. The "dark" and "light" theme settings pin the choice instead.

# Color System (colors.go)

  - Purple - assistant messages, selections
  - Cyan - brand, focus ring, the active reel dot
  - Emerald - success
  - Amber - warnings, the listening indicator
  - Rose - errors

# Theme System (theme.go)

	theme := styles.NewTheme("auto")
	title := theme.ReelTitle.Render(item.Title)
*/
package styles
