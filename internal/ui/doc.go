// Package ui provides the color themes shared by the CLI, the REPL and the
// TUI dashboard. The ANSI themes back the Color* helpers; TUITheme carries
// the lipgloss palette of the dashboard.
package ui
