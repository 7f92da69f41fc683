package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine constrains a textinput view to one visual line of the
// given width. If the view ever contains newlines (or overflows due to
// ANSI/cursor styling), it can trigger wrapping that looks like "newline
// insertion" while typing.
func renderInputLine(width int, inputView string) string {
	if width < 6 {
		width = 6
	}
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		width,
		lipgloss.Left,
		inputView,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > width {
		// Never exceed the cell width; terminate ANSI styling to prevent bleed.
		line = xansi.Cut(line, 0, width) + "\x1b[0m"
	}
	return line
}

// cellText clamps plain text to a column width, padding with spaces.
func cellText(width int, s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if xansi.StringWidth(s) > width {
		if width > 1 {
			s = xansi.Cut(s, 0, width-1) + "…"
		} else {
			s = xansi.Cut(s, 0, width)
		}
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Left, s)
}
